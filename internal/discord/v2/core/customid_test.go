package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomID_Encode(t *testing.T) {
	tests := []struct {
		name     string
		customID *CustomID
		expected string
		wantErr  bool
	}{
		{
			name:     "simple domain and action",
			customID: &CustomID{Domain: "codex", Action: "select"},
			expected: "codex:select",
		},
		{
			name:     "with target",
			customID: &CustomID{Domain: "codex", Action: "about", Target: "Naruto Uzumaki"},
			expected: "codex:about:Naruto Uzumaki",
		},
		{
			name:     "with args",
			customID: &CustomID{Domain: "codex", Action: "about", Target: "Gaara", Args: []string{"page", "2"}},
			expected: "codex:about:Gaara:page:2",
		},
		{
			name:     "target containing separator",
			customID: &CustomID{Domain: "codex", Action: "about", Target: "Rock:Lee"},
			wantErr:  true,
		},
		{
			name:     "exceeds max length",
			customID: &CustomID{Domain: "codex", Action: "about", Target: strings.Repeat("a", 95)},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.customID.Encode()

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseCustomID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *CustomID
		wantErr  bool
	}{
		{
			name:     "simple domain and action",
			input:    "codex:select",
			expected: &CustomID{Domain: "codex", Action: "select"},
		},
		{
			name:     "with target",
			input:    "codex:about:Sasuke Uchiha",
			expected: &CustomID{Domain: "codex", Action: "about", Target: "Sasuke Uchiha"},
		},
		{
			name:     "with args",
			input:    "codex:about:Gaara:page:2",
			expected: &CustomID{Domain: "codex", Action: "about", Target: "Gaara", Args: []string{"page", "2"}},
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
		{
			name:    "missing action",
			input:   "codex",
			wantErr: true,
		},
		{
			name:    "empty action",
			input:   "codex:",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseCustomID(tt.input)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestCustomIDBuilder(t *testing.T) {
	builder := NewCustomIDBuilder("codex")
	assert.Equal(t, "codex", builder.Domain())

	t.Run("button", func(t *testing.T) {
		result, err := builder.Button("about", "Kakashi Hatake")
		require.NoError(t, err)
		assert.Equal(t, "codex:about:Kakashi Hatake", result)

		parsed, err := ParseCustomID(result)
		require.NoError(t, err)
		assert.Equal(t, "Kakashi Hatake", parsed.Target)
	})

	t.Run("select", func(t *testing.T) {
		result, err := builder.Select("select")
		require.NoError(t, err)
		assert.Equal(t, "codex:select", result)
	})

	t.Run("must encode panics on bad target", func(t *testing.T) {
		assert.Panics(t, func() {
			NewCustomID("codex", "about").WithTarget("a:b").MustEncode()
		})
	})
}
