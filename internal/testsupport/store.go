package testsupport

import (
	"context"
	"testing"
	"time"

	"actas/internal/config"
	"actas/internal/meeting"
)

// MustOpenStore opens a meeting.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *meeting.Store {
	t.Helper()

	store, err := meeting.Open(cfg)
	if err != nil {
		t.Fatalf("meeting.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewMeeting creates a meeting for tests using the provided store.
func NewMeeting(t testing.TB, store *meeting.Store, ownerID, buildingName string, attendees int) *meeting.Meeting {
	t.Helper()

	m, err := store.Create(context.Background(), ownerID, meeting.NewMeeting{
		BuildingName:   buildingName,
		AttendeesCount: attendees,
		Date:           time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("store.Create: %v", err)
	}
	return m
}
