package textfilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean_Profanity(t *testing.T) {
	f := NewNarrativeFilter()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercase",
			input:    "the damn door will not open",
			expected: "the dang door will not open",
		},
		{
			name:     "uppercase",
			input:    "DAMN that golem",
			expected: "DANG that golem",
		},
		{
			name:     "title case",
			input:    "Damn. The bridge is out.",
			expected: "Dang. The bridge is out.",
		},
		{
			name:     "word boundaries respected",
			input:    "the dam holds back the river",
			expected: "the dam holds back the river",
		},
		{
			name:     "compound words",
			input:    "that bullshit story",
			expected: "that baloney story",
		},
		{
			name:     "clean text untouched",
			input:    "You arrive at the Whispering Glade.",
			expected: "You arrive at the Whispering Glade.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, f.Clean(tt.input))
		})
	}
}

func TestClean_Formatting(t *testing.T) {
	f := NewNarrativeFilter()

	t.Run("strips markdown fences", func(t *testing.T) {
		input := "```json\nThe cave mouth yawns before you.\n```"
		assert.Equal(t, "The cave mouth yawns before you.", f.Clean(input))
	})

	t.Run("collapses blank line runs", func(t *testing.T) {
		input := "First line.\n\n\n\n\nSecond line."
		assert.Equal(t, "First line.\n\nSecond line.", f.Clean(input))
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		assert.Equal(t, "Hello.", f.Clean("  \n Hello. \n "))
	})
}

func TestContainsProfanity(t *testing.T) {
	f := NewNarrativeFilter()

	assert.True(t, f.ContainsProfanity("what the damn"))
	assert.True(t, f.ContainsProfanity("DAMN"))
	assert.False(t, f.ContainsProfanity("a perfectly pleasant meadow"))
	assert.False(t, f.ContainsProfanity("the dam wall"))
}
