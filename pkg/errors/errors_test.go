package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidConfig, "track count must be at least %d", 1)

	if err.Code != ErrCodeInvalidConfig {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidConfig)
	}

	if err.Message != "track count must be at least 1" {
		t.Errorf("Message = %v, want %v", err.Message, "track count must be at least 1")
	}

	expected := "INVALID_CONFIG: track count must be at least 1"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeNetwork, cause, "redis get")

	if err.Code != ErrCodeNetwork {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNetwork)
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
	if got, want := err.Error(), "NETWORK_ERROR: redis get: connection refused"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeOutOfRange, "x"), ErrCodeOutOfRange, true},
		{"non-matching code", New(ErrCodeOutOfRange, "x"), ErrCodeNetwork, false},
		{"wrapped error", Wrap(ErrCodeNetwork, New(ErrCodeInvalidInput, "inner"), "outer"), ErrCodeNetwork, true},
		{"non-Error type", errors.New("plain"), ErrCodeInvalidInput, false},
		{"nil error", nil, ErrCodeInvalidInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCodeAndUserMessage(t *testing.T) {
	err := Wrap(ErrCodeFileNotFound, errors.New("enoent"), "sizes.toml")
	if GetCode(err) != ErrCodeFileNotFound {
		t.Errorf("GetCode() = %v", GetCode(err))
	}
	if UserMessage(err) != "sizes.toml" {
		t.Errorf("UserMessage() = %q", UserMessage(err))
	}

	plain := errors.New("boom")
	if GetCode(plain) != "" {
		t.Errorf("GetCode(plain) = %v, want empty", GetCode(plain))
	}
	if UserMessage(plain) != "boom" {
		t.Errorf("UserMessage(plain) = %q", UserMessage(plain))
	}
}

func TestIsClientError(t *testing.T) {
	if !IsClientError(New(ErrCodeInvalidInput, "bad")) {
		t.Error("invalid input should be a client error")
	}
	if !IsClientError(New(ErrCodeOutOfRange, "bad")) {
		t.Error("out of range should be a client error")
	}
	if IsClientError(New(ErrCodeNetwork, "down")) {
		t.Error("network error should not be a client error")
	}
	if IsClientError(errors.New("plain")) {
		t.Error("plain errors should not be client errors")
	}
}
