package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrCodeInvalidProfile, "no profile named %q", "main")
	want := `INVALID_PROFILE: no profile named "main"`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	cause := errors.New("read failed")
	wrapped := Wrap(ErrCodeInvalidConfig, cause, "parse config")
	if !errors.Is(wrapped, cause) {
		t.Error("wrapped error should unwrap to its cause")
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeNotFound, "gone")
	if !Is(err, ErrCodeNotFound) {
		t.Error("Is() should match the code")
	}
	if Is(err, ErrCodeNetwork) {
		t.Error("Is() should reject other codes")
	}
	if Is(errors.New("plain"), ErrCodeNotFound) {
		t.Error("Is() should reject plain errors")
	}

	// Codes are found through wrapping.
	outer := fmt.Errorf("context: %w", err)
	if !Is(outer, ErrCodeNotFound) {
		t.Error("Is() should unwrap")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeRateLimited, "slow down")); got != ErrCodeRateLimited {
		t.Errorf("GetCode() = %q", got)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeNotFound, "no such mod")); got != "no such mod" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestRateLimitedError(t *testing.T) {
	err := &RateLimitedError{Platform: "modrinth", RetryAfter: 30}
	if got := err.Error(); got != "modrinth rate limit exceeded: retry after 30 seconds" {
		t.Errorf("Error() = %q", got)
	}
	if got := (&RateLimitedError{Platform: "github"}).Error(); got != "github rate limit exceeded" {
		t.Errorf("Error() = %q", got)
	}

	if !IsRateLimited(err) {
		t.Error("IsRateLimited() should match")
	}
	if !IsRateLimited(fmt.Errorf("resolve: %w", err)) {
		t.Error("IsRateLimited() should unwrap")
	}
	if IsRateLimited(errors.New("plain")) {
		t.Error("IsRateLimited() should reject plain errors")
	}
}
