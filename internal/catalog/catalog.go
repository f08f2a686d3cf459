package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/shinobi-codex/internal/domain/codex"
	apperr "github.com/KirkDiggler/shinobi-codex/internal/errors"
)

// NameSeparator may not appear in a character name; names are carried in
// component custom IDs which use it as a delimiter.
const NameSeparator = ":"

// MaxNameLength bounds a name in bytes. Names end up prefixed in button
// labels (80 characters) and in custom IDs and select values (100).
const MaxNameLength = 64

//go:embed seed/characters.yaml
var defaultSeed []byte

// Entry is one row of the literal table a catalog is built from
type Entry struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Moves       []string `yaml:"moves"`
	Weapons     []string `yaml:"weapons"`
}

type seedFile struct {
	Characters []Entry `yaml:"characters"`
}

// Catalog is an immutable, ordered name to record table
type Catalog struct {
	names   []string
	records map[string]*codex.Record
}

// New builds a catalog, keeping entries in the order given
func New(entries ...Entry) (*Catalog, error) {
	c := &Catalog{
		names:   make([]string, 0, len(entries)),
		records: make(map[string]*codex.Record, len(entries)),
	}

	for i, e := range entries {
		if e.Name == "" {
			return nil, apperr.InvalidArgumentf("entry %d: name is required", i)
		}
		if len(e.Name) > MaxNameLength {
			return nil, apperr.InvalidArgumentf("entry %d: name is %d bytes, max is %d", i, len(e.Name), MaxNameLength).
				WithMeta("character", e.Name)
		}
		if strings.Contains(e.Name, NameSeparator) {
			return nil, apperr.InvalidArgumentf("entry %d: name %q must not contain %q", i, e.Name, NameSeparator).
				WithMeta("character", e.Name)
		}
		if _, exists := c.records[e.Name]; exists {
			return nil, apperr.AlreadyExistsf("duplicate character %q", e.Name).
				WithMeta("character", e.Name)
		}

		c.names = append(c.names, e.Name)
		c.records[e.Name] = &codex.Record{
			Description: e.Description,
			Moves:       nonNil(e.Moves),
			Weapons:     nonNil(e.Weapons),
		}
	}

	return c, nil
}

// Load parses a YAML document with a top-level characters list
func Load(r io.Reader) (*Catalog, error) {
	var seed seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil {
		if err == io.EOF {
			return New()
		}
		return nil, apperr.WrapWithCode(err, apperr.CodeInvalidArgument, "failed to parse catalog")
	}

	return New(seed.Characters...)
}

// LoadFile loads a catalog from a YAML file on disk
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	defer f.Close()

	return Load(f)
}

// Default returns the catalog compiled into the binary
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultSeed))
}

// MustDefault is like Default but panics if the embedded seed is broken
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Get returns a copy of the record for name. Callers are expected to pass
// names taken from Keys; anything else is an unknown character.
func (c *Catalog) Get(name string) (*codex.Record, error) {
	rec, ok := c.records[name]
	if !ok {
		return nil, apperr.UnknownCharacter(name)
	}
	return rec.Clone(), nil
}

// Keys returns the names in declaration order
func (c *Catalog) Keys() []string {
	keys := make([]string, len(c.names))
	copy(keys, c.names)
	return keys
}

func (c *Catalog) Has(name string) bool {
	_, ok := c.records[name]
	return ok
}

func (c *Catalog) Len() int {
	return len(c.names)
}

func nonNil(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
