package meeting_test

import (
	"testing"

	"actas/internal/meeting"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to meeting.Status }{
		{meeting.StatusRecording, meeting.StatusProcessing},
		{meeting.StatusProcessing, meeting.StatusReview},
		{meeting.StatusProcessing, meeting.StatusRecording},
		{meeting.StatusReview, meeting.StatusSent},
	}
	for _, tc := range allowed {
		if !meeting.CanTransition(tc.from, tc.to) {
			t.Fatalf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	denied := []struct{ from, to meeting.Status }{
		{meeting.StatusRecording, meeting.StatusReview},
		{meeting.StatusRecording, meeting.StatusSent},
		{meeting.StatusReview, meeting.StatusRecording},
		{meeting.StatusReview, meeting.StatusProcessing},
		{meeting.StatusSent, meeting.StatusReview},
		{meeting.StatusSent, meeting.StatusRecording},
	}
	for _, tc := range denied {
		if meeting.CanTransition(tc.from, tc.to) {
			t.Fatalf("expected %s -> %s to be denied", tc.from, tc.to)
		}
	}
}

func TestCanTransitionSameStatus(t *testing.T) {
	for _, status := range meeting.AllStatuses() {
		if !meeting.CanTransition(status, status) {
			t.Fatalf("expected %s -> %s to be allowed", status, status)
		}
	}
	if meeting.CanTransition("archived", "archived") {
		t.Fatal("unknown status should not transition to itself")
	}
}

func TestIsTerminal(t *testing.T) {
	if !meeting.IsTerminal(meeting.StatusSent) {
		t.Fatal("sent should be terminal")
	}
	for _, status := range []meeting.Status{meeting.StatusRecording, meeting.StatusProcessing, meeting.StatusReview} {
		if meeting.IsTerminal(status) {
			t.Fatalf("%s should not be terminal", status)
		}
	}
	if meeting.IsTerminal("archived") {
		t.Fatal("unknown status should not be terminal")
	}
}
