package errors

import (
	"fmt"
	"testing"
)

func TestCompanionError(t *testing.T) {
	// Test basic error creation
	err := New(ErrCodeNotFound, "project not found")
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}

	// Test error wrapping
	cause := fmt.Errorf("underlying error")
	wrapped := Wrap(cause, ErrCodeCommandFailed, "command failed")

	if wrapped.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}

	// Test Is function
	if !Is(wrapped, ErrCodeCommandFailed) {
		t.Error("Is should return true for matching code")
	}

	if Is(wrapped, ErrCodeNotFound) {
		t.Error("Is should return false for non-matching code")
	}

	// Test WithDetail
	detailed := err.WithDetail("kind", "project").WithDetail("attempt", 2)
	if detailed.Details["kind"] != "project" {
		t.Error("WithDetail should add details")
	}
}

func TestIsThroughFmtWrap(t *testing.T) {
	inner := NotFound("session", "session-1")
	outer := fmt.Errorf("toggle: %w", inner)

	if !Is(outer, ErrCodeNotFound) {
		t.Error("Is should see codes through fmt.Errorf wrapping")
	}
	if GetCode(fmt.Errorf("plain")) != "" {
		t.Error("GetCode should be empty for foreign errors")
	}
	if GetCode(nil) != "" {
		t.Error("GetCode should be empty for nil")
	}
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *CompanionError
		code   ErrorCode
		detail string
		value  interface{}
	}{
		{"not found", NotFound("project", "/tmp/a"), ErrCodeNotFound, "id", "/tmp/a"},
		{"already exists", AlreadyExists("project", "/tmp/a"), ErrCodeAlreadyExists, "kind", "project"},
		{"not a directory", NotADirectory("/etc/hosts"), ErrCodeNotADirectory, "path", "/etc/hosts"},
		{"corrupt", CorruptData("projects", fmt.Errorf("bad")), ErrCodeCorruptData, "key", "projects"},
		{"conflict", RevisionConflict("scripts", 2, 3), ErrCodeRevisionConflict, "actual", int64(3)},
		{"storage", Storage("write", "settings", fmt.Errorf("disk full")), ErrCodeStorage, "op", "write"},
		{"command not found", CommandNotFound("ccr"), ErrCodeCommandNotFound, "command", "ccr"},
		{"command failed", CommandFailed("ccr start", fmt.Errorf("boom")), ErrCodeCommandFailed, "command", "ccr start"},
		{"config not found", ConfigNotFound("/x/companion.yml"), ErrCodeConfigNotFound, "path", "/x/companion.yml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, tt.err.Code)
			}
			if tt.err.Details[tt.detail] != tt.value {
				t.Errorf("expected detail %s=%v, got %v", tt.detail, tt.value, tt.err.Details[tt.detail])
			}
		})
	}
}

func TestToJSON(t *testing.T) {
	out := InvalidInput("name is required").ToJSON()
	if out == "" || out[0] != '{' {
		t.Errorf("expected a JSON object, got %q", out)
	}
}
