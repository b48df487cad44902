package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidDuration, "duration must be non-negative, got %v", -1)

	assert.Equal(t, ErrCodeInvalidDuration, err.Code)
	assert.Equal(t, "duration must be non-negative, got -1", err.Message)
	assert.Equal(t, "INVALID_DURATION: duration must be non-negative, got -1", err.Error())
}

func TestWrap(t *testing.T) {
	cause := errors.New("unexpected token")
	err := Wrap(ErrCodeInvalidModel, cause, "parse model.toml")

	assert.Equal(t, ErrCodeInvalidModel, err.Code)
	require.Same(t, cause, err.Cause)
	assert.Same(t, cause, errors.Unwrap(err))
	assert.ErrorIs(t, err, cause)
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeRootSpan, "test"),
			code:     ErrCodeRootSpan,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeRootSpan, "test"),
			code:     ErrCodeMalformedSpan,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeInvalidModel, New(ErrCodeInvalidDuration, "inner"), "outer"),
			code:     ErrCodeInvalidModel,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Is(tt.err, tt.code))
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeEmptyTrace, "test"),
			expected: ErrCodeEmptyTrace,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetCode(tt.err))
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, UserMessage(tt.err))
		})
	}
}

func TestIsInvalid(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"invalid duration", New(ErrCodeInvalidDuration, "x"), true},
		{"invalid service", New(ErrCodeInvalidService, "x"), true},
		{"wrapped invalid model", Wrap(ErrCodeInvalidModel, errors.New("x"), "y"), true},
		{"root span", New(ErrCodeRootSpan, "x"), false},
		{"not found", New(ErrCodeModelNotFound, "x"), false},
		{"plain", errors.New("x"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsInvalid(tt.err))
		})
	}
}
