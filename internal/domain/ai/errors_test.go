package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompletionError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *CompletionError
		expected string
	}{
		{name: "message wins", err: &CompletionError{Msg: "HTTP 500", Err: errors.New("boom")}, expected: "HTTP 500"},
		{name: "falls back to wrapped error", err: &CompletionError{Err: errors.New("boom")}, expected: "boom"},
		{name: "empty", err: &CompletionError{}, expected: "LLM call failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestCompletionError_UnwrapsDeadline(t *testing.T) {
	err := fmt.Errorf("dimension exposure: %w", &CompletionError{Model: "m", Err: context.DeadlineExceeded})

	var ce *CompletionError
	assert.True(t, errors.As(err, &ce))
	assert.Equal(t, "m", ce.Model)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestConfigurationError_Error(t *testing.T) {
	err := &ConfigurationError{Setting: "OPENAI_API_KEY"}
	assert.Equal(t, "missing OPENAI_API_KEY: configure it before running an analysis", err.Error())
}
