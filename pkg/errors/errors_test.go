package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeDuplicateConcept, "concept %s listed twice", "42")

	if err.Code != ErrCodeDuplicateConcept {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeDuplicateConcept)
	}
	if err.Message != "concept 42 listed twice" {
		t.Errorf("Message = %v, want %v", err.Message, "concept 42 listed twice")
	}

	expected := "DUPLICATE_CONCEPT: concept 42 listed twice"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("unknown target node")
	err := Wrap(ErrCodeDanglingEdge, cause, "edge 1->2")

	if err.Code != ErrCodeDanglingEdge {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeDanglingEdge)
	}
	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	expected := "DANGLING_EDGE: edge 1->2: unknown target node"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
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
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeInvalidInput,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeCycleDetected,
			expected: false,
		},
		{
			name:     "outer code wins",
			err:      Wrap(ErrCodeCycleDetected, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeCycleDetected,
			expected: true,
		},
		{
			name:     "fmt wrapped",
			err:      fmt.Errorf("build: %w", New(ErrCodeDanglingEdge, "edge")),
			code:     ErrCodeDanglingEdge,
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
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeTooLarge, "test"), ErrCodeTooLarge},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeInvalidInput, "friendly message"), "friendly message"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsStructural(t *testing.T) {
	structural := []Code{
		ErrCodeDuplicateConcept, ErrCodeDanglingEdge, ErrCodeInvalidEdge,
		ErrCodeCycleDetected, ErrCodeTooLarge,
	}
	for _, code := range structural {
		if !IsStructural(New(code, "x")) {
			t.Errorf("IsStructural(%s) = false, want true", code)
		}
	}
	for _, code := range []Code{ErrCodeInvalidInput, ErrCodeNotFound, ErrCodeInternal} {
		if IsStructural(New(code, "x")) {
			t.Errorf("IsStructural(%s) = true, want false", code)
		}
	}
	if IsStructural(errors.New("plain")) {
		t.Error("IsStructural(plain) = true, want false")
	}
}
