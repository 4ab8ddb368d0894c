package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jwebster45206/dreambound/pkg/state"
)

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}\n", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cleanJSON(tt.input))
		})
	}
}

func TestIsQuotaError(t *testing.T) {
	assert.True(t, isQuotaError(errors.New("googleapi: Error 429: Resource exhausted")))
	assert.True(t, isQuotaError(errors.New("quota exceeded for model")))
	assert.False(t, isQuotaError(errors.New("connection refused")))
}

func TestHistoryContext_WindowsTail(t *testing.T) {
	history := []string{"a", "b", "c", "d", "e", "f", "g"}
	assert.Equal(t, "c d e f g", historyContext(history, 5))
	assert.Equal(t, "a b c d e f g", historyContext(history, 20))
	assert.Equal(t, "", historyContext(nil, 5))
}

func TestSchemaHint_DescribesTargetShape(t *testing.T) {
	hint := schemaHint(&state.ActionResolution{})
	assert.True(t, strings.Contains(hint, "narrative"))
	assert.True(t, strings.Contains(hint, "recruitTriggered"))
	assert.True(t, strings.Contains(hint, "questCompletedId"))
	assert.False(t, strings.Contains(hint, "$ref"))
}
