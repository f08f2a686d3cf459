package codex

// Record holds what the detail panel shows for one character.
// Records are owned by the catalog and never mutated after load.
type Record struct {
	Description string
	Moves       []string
	Weapons     []string
}

// Clone returns a copy that shares no slices with r
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	return &Record{
		Description: r.Description,
		Moves:       cloneStrings(r.Moves),
		Weapons:     cloneStrings(r.Weapons),
	}
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
