package services

import (
	"errors"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	err := Wrap(ErrConflict, "meeting", "mark sent", "cannot move from sent to sent", nil)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict marker: %v", err)
	}
	want := "conflict: meeting: mark sent: cannot move from sent to sent"
	if err.Error() != want {
		t.Fatalf("message = %q, want %q", err.Error(), want)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Wrap(ErrExternal, "mailer", "send", "smtp unavailable", cause)
	if !errors.Is(err, ErrExternal) {
		t.Fatalf("expected external marker: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause not reachable: %v", err)
	}
}

func TestWrapDefaultsToExternal(t *testing.T) {
	err := Wrap(nil, "", "", "", nil)
	if !errors.Is(err, ErrExternal) {
		t.Fatalf("nil marker should default to external: %v", err)
	}
	if err.Error() != "external service error: service failure" {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestRetrySafe(t *testing.T) {
	notRetryable := []error{
		Wrap(ErrValidation, "meeting", "create", "building name required", nil),
		Wrap(ErrNotFound, "meeting", "get", "meeting x", nil),
		Wrap(ErrConflict, "meeting", "begin processing", "transcription already in progress", nil),
		Wrap(ErrConfiguration, "drafter", "draft acta", "api key required", nil),
	}
	for _, err := range notRetryable {
		if RetrySafe(err) {
			t.Fatalf("expected not retryable: %v", err)
		}
	}

	retryable := []error{
		Wrap(ErrExternal, "transcriber", "transcribe", "upstream 503", nil),
		errors.New("unclassified failure"),
	}
	for _, err := range retryable {
		if !RetrySafe(err) {
			t.Fatalf("expected retryable: %v", err)
		}
	}
}
