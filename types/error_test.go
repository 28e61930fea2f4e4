package types

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	e := NewError(ErrConfiguration, "missing agent descriptors")
	if got := e.Error(); got != "[CONFIGURATION] missing agent descriptors" {
		t.Errorf("unexpected error string: %s", got)
	}

	cause := fmt.Errorf("parameter store unavailable")
	e = e.WithCause(cause)
	if !errors.Is(e, cause) {
		t.Error("expected errors.Is to match the cause")
	}
}

func TestGetErrorCode(t *testing.T) {
	e := NewError(ErrRetrievalRefusal, "refused").WithHTTPStatus(502)
	if GetErrorCode(e) != ErrRetrievalRefusal {
		t.Errorf("unexpected code: %s", GetErrorCode(e))
	}
	if GetErrorCode(fmt.Errorf("plain")) != "" {
		t.Error("plain errors should have no code")
	}
}

func TestIsRetryable(t *testing.T) {
	e := NewError(ErrUpstreamError, "bad gateway").WithRetryable(true)
	if !IsRetryable(e) {
		t.Error("expected retryable")
	}
	if IsRetryable(fmt.Errorf("plain")) {
		t.Error("plain errors are not retryable")
	}
}
