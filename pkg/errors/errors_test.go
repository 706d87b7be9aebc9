package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"configuration", ConfigurationError("arity %d, want %d", 2, 1), "CONFIGURATION: arity 2, want 1"},
		{"domain", DomainError("numPoints = %d", 1), "DOMAIN: numPoints = 1"},
		{"wrapped", Wrap(ErrCodeFileNotFound, fs.ErrNotExist, "scene %s", "a.toml"), "FILE_NOT_FOUND: scene a.toml: file does not exist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapUnwraps(t *testing.T) {
	err := Wrap(ErrCodeInvalidScene, fs.ErrNotExist, "decode scene")

	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("wrapped cause should satisfy errors.Is")
	}
	if errors.Unwrap(err) != fs.ErrNotExist {
		t.Errorf("Unwrap() = %v", errors.Unwrap(err))
	}
}

func TestCodeLookup(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		msg  string
	}{
		{"direct", DomainError("empty range"), ErrCodeDomain, "empty range"},
		{"fmt wrapped", fmt.Errorf("dimension 1: %w", ConfigurationError("bad arity")), ErrCodeConfiguration, "bad arity"},
		{"outermost code wins", Wrap(ErrCodeInvalidScene, DomainError("inner"), "outer"), ErrCodeInvalidScene, "outer"},
		{"plain", errors.New("plain error"), "", "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
			if tt.code != "" && !Is(tt.err, tt.code) {
				t.Errorf("Is(%q) = false", tt.code)
			}
			if Is(tt.err, ErrCodeNetwork) {
				t.Error("Is(NETWORK_ERROR) = true")
			}
			if got := UserMessage(tt.err); got != tt.msg {
				t.Errorf("UserMessage() = %q, want %q", got, tt.msg)
			}
		})
	}
}

func TestNilError(t *testing.T) {
	if Is(nil, ErrCodeDomain) {
		t.Error("Is(nil) = true")
	}
	if GetCode(nil) != "" {
		t.Error("GetCode(nil) should be empty")
	}
}

func TestIsClientError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"configuration", ConfigurationError("x"), true},
		{"domain", DomainError("x"), true},
		{"wrapped domain", fmt.Errorf("materialize: %w", DomainError("x")), true},
		{"invalid expression", New(ErrCodeInvalidExpression, "x"), true},
		{"file not found", New(ErrCodeFileNotFound, "x"), false},
		{"network", New(ErrCodeNetwork, "x"), false},
		{"plain", errors.New("x"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsClientError(tt.err); got != tt.want {
				t.Errorf("IsClientError() = %v, want %v", got, tt.want)
			}
		})
	}
}
