package meeting_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"actas/internal/meeting"
	"actas/internal/services"
	"actas/internal/testsupport"
)

const owner = "owner-test"

func newStore(t *testing.T) *meeting.Store {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	return testsupport.MustOpenStore(t, cfg)
}

func sampleSegments() []meeting.Segment {
	return []meeting.Segment{
		{ID: "p-0", Timestamp: "00:00", Speaker: "Presidente", Text: "Se abre la sesión."},
		{ID: "p-1", Timestamp: "00:15", Text: "Primer punto del orden del día."},
	}
}

func sampleRecipients() []meeting.Recipient {
	return []meeting.Recipient{
		{ID: "r-0", Name: "Ana García", Email: "ana@example.com"},
		{ID: "r-1", Name: "Luis Pérez", Email: "luis@example.com"},
	}
}

func TestCreateDefaults(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	before := time.Now().UTC().Add(-time.Second)
	m, err := store.Create(ctx, owner, meeting.NewMeeting{BuildingName: "Edificio Alameda 42", AttendeesCount: 12})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if m.ID == "" {
		t.Fatal("expected generated id")
	}
	if m.Status != meeting.StatusRecording {
		t.Fatalf("status = %s, want recording", m.Status)
	}
	if m.OwnerID != owner {
		t.Fatalf("owner = %s", m.OwnerID)
	}
	if m.Date.Before(before) {
		t.Fatalf("date %v should default to now", m.Date)
	}
	if m.DurationSeconds != 0 || m.HasTranscript() || m.ActaContent != "" {
		t.Fatal("new meeting should carry no artifacts")
	}
}

func TestCreateValidation(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	if _, err := store.Create(ctx, owner, meeting.NewMeeting{BuildingName: "  "}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("blank building: got %v", err)
	}
	if _, err := store.Create(ctx, "", meeting.NewMeeting{BuildingName: "Alameda"}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("blank owner: got %v", err)
	}
	if _, err := store.Create(ctx, owner, meeting.NewMeeting{BuildingName: "Alameda", AttendeesCount: -1}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("negative attendees: got %v", err)
	}
}

func TestGetByIDOwnerIsolation(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	m := testsupport.NewMeeting(t, store, owner, "Edificio Alameda 42", 12)

	if _, err := store.GetByID(ctx, m.ID, "someone-else"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("cross-owner read should be not found, got %v", err)
	}
	if _, err := store.GetByID(ctx, "missing-id", owner); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("missing id should be not found, got %v", err)
	}
}

func TestListOrdersByDateDescending(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	older, err := store.Create(ctx, owner, meeting.NewMeeting{
		BuildingName: "Edificio Norte",
		Date:         time.Date(2024, 1, 10, 18, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Create older: %v", err)
	}
	newer, err := store.Create(ctx, owner, meeting.NewMeeting{
		BuildingName: "Edificio Sur",
		Date:         time.Date(2024, 3, 5, 18, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Create newer: %v", err)
	}
	testsupport.NewMeeting(t, store, "other-owner", "Ajeno", 3)

	meetings, err := store.List(ctx, owner)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(meetings) != 2 {
		t.Fatalf("got %d meetings, want 2", len(meetings))
	}
	if meetings[0].ID != newer.ID || meetings[1].ID != older.ID {
		t.Fatalf("unexpected order: %s, %s", meetings[0].ID, meetings[1].ID)
	}
}

func TestUpdateMergesAndClears(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	m := testsupport.NewMeeting(t, store, owner, "Edificio Alameda 42", 12)

	building := "Edificio Alameda 42 Bis"
	updated, err := store.Update(ctx, m.ID, owner, meeting.UpdateFields{BuildingName: &building})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.BuildingName != building {
		t.Fatalf("building = %s", updated.BuildingName)
	}
	if updated.AttendeesCount != 12 {
		t.Fatalf("attendees should survive partial update, got %d", updated.AttendeesCount)
	}

	acta := "ACTA DE REUNIÓN\n\nContenido editado."
	updated, err = store.Update(ctx, m.ID, owner, meeting.UpdateFields{ActaContent: &acta})
	if err != nil {
		t.Fatalf("Update acta: %v", err)
	}
	if updated.ActaContent != acta {
		t.Fatal("acta content not persisted")
	}
	if updated.BuildingName != building {
		t.Fatal("unrelated fields should be untouched")
	}

	empty := ""
	updated, err = store.Update(ctx, m.ID, owner, meeting.UpdateFields{ActaContent: &empty})
	if err != nil {
		t.Fatalf("Update clear acta: %v", err)
	}
	if updated.ActaContent != "" {
		t.Fatal("pointer to zero value should clear the field")
	}
}

func TestUpdateStatusUnchangedByContentEdits(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	m := testsupport.NewMeeting(t, store, owner, "Edificio Alameda 42", 12)
	attendees := 15
	updated, err := store.Update(ctx, m.ID, owner, meeting.UpdateFields{AttendeesCount: &attendees})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != meeting.StatusRecording {
		t.Fatalf("content edit changed status to %s", updated.Status)
	}
}

func TestUpdateValidatesRecipients(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	m := testsupport.NewMeeting(t, store, owner, "Edificio Alameda 42", 12)
	bad := []meeting.Recipient{{ID: "r-0", Name: "Ana", Email: "not-an-email"}}
	if _, err := store.Update(ctx, m.ID, owner, meeting.UpdateFields{Recipients: &bad}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("malformed recipient: got %v", err)
	}
}

func TestUpdateCrossOwnerNotFound(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	m := testsupport.NewMeeting(t, store, owner, "Edificio Alameda 42", 12)
	building := "Otro"
	if _, err := store.Update(ctx, m.ID, "someone-else", meeting.UpdateFields{BuildingName: &building}); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("cross-owner update: got %v", err)
	}
}

func TestDelete(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	m := testsupport.NewMeeting(t, store, owner, "Edificio Alameda 42", 12)

	removed, err := store.Delete(ctx, m.ID, "someone-else")
	if err != nil {
		t.Fatalf("Delete cross-owner: %v", err)
	}
	if removed {
		t.Fatal("cross-owner delete should remove nothing")
	}

	removed, err = store.Delete(ctx, m.ID, owner)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !removed {
		t.Fatal("expected delete to report removal")
	}
	if _, err := store.GetByID(ctx, m.ID, owner); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("deleted meeting still readable: %v", err)
	}
}

func TestBeginProcessingLocksMeeting(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	m := testsupport.NewMeeting(t, store, owner, "Edificio Alameda 42", 12)

	processing, err := store.BeginProcessing(ctx, m.ID, owner, "/tmp/audio.webm")
	if err != nil {
		t.Fatalf("BeginProcessing: %v", err)
	}
	if processing.Status != meeting.StatusProcessing {
		t.Fatalf("status = %s", processing.Status)
	}
	if processing.AudioPath != "/tmp/audio.webm" {
		t.Fatalf("audio path = %s", processing.AudioPath)
	}

	// A second transcription attempt must be rejected, not raced.
	_, err = store.BeginProcessing(ctx, m.ID, owner, "/tmp/other.webm")
	if !errors.Is(err, services.ErrConflict) {
		t.Fatalf("double begin: got %v", err)
	}
	if !strings.Contains(err.Error(), "transcription already in progress") {
		t.Fatalf("conflict detail missing: %v", err)
	}
}

func TestCommitTranscript(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	m := testsupport.NewMeeting(t, store, owner, "Edificio Alameda 42", 12)
	if _, err := store.BeginProcessing(ctx, m.ID, owner, "/tmp/audio.webm"); err != nil {
		t.Fatalf("BeginProcessing: %v", err)
	}

	committed, err := store.CommitTranscript(ctx, m.ID, owner, sampleSegments(), 930)
	if err != nil {
		t.Fatalf("CommitTranscript: %v", err)
	}
	if committed.Status != meeting.StatusProcessing {
		t.Fatalf("commit should not advance status, got %s", committed.Status)
	}
	if len(committed.Transcript) != 2 {
		t.Fatalf("transcript length = %d", len(committed.Transcript))
	}
	if committed.Transcript[0].ID != "p-0" || committed.Transcript[1].Timestamp != "00:15" {
		t.Fatalf("transcript not preserved: %+v", committed.Transcript)
	}
	if committed.DurationSeconds != 930 {
		t.Fatalf("duration = %d", committed.DurationSeconds)
	}

	// Replacement is wholesale: a new commit swaps the entire sequence.
	replacement := []meeting.Segment{{ID: "p-0", Timestamp: "00:00", Text: "Nueva transcripción."}}
	committed, err = store.CommitTranscript(ctx, m.ID, owner, replacement, 60)
	if err != nil {
		t.Fatalf("CommitTranscript replace: %v", err)
	}
	if len(committed.Transcript) != 1 || committed.Transcript[0].Text != "Nueva transcripción." {
		t.Fatalf("replacement not atomic: %+v", committed.Transcript)
	}
}

func TestCommitTranscriptValidation(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	m := testsupport.NewMeeting(t, store, owner, "Edificio Alameda 42", 12)
	if _, err := store.BeginProcessing(ctx, m.ID, owner, "/tmp/audio.webm"); err != nil {
		t.Fatalf("BeginProcessing: %v", err)
	}

	if _, err := store.CommitTranscript(ctx, m.ID, owner, nil, 10); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("empty segments: got %v", err)
	}
	malformed := []meeting.Segment{{ID: "p-0", Timestamp: "", Text: "hola"}}
	if _, err := store.CommitTranscript(ctx, m.ID, owner, malformed, 10); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("missing timestamp: got %v", err)
	}
}

func TestFinishProcessing(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	m := testsupport.NewMeeting(t, store, owner, "Edificio Alameda 42", 12)
	if _, err := store.BeginProcessing(ctx, m.ID, owner, "/tmp/audio.webm"); err != nil {
		t.Fatalf("BeginProcessing: %v", err)
	}
	if _, err := store.CommitTranscript(ctx, m.ID, owner, sampleSegments(), 930); err != nil {
		t.Fatalf("CommitTranscript: %v", err)
	}

	reviewed, err := store.FinishProcessing(ctx, m.ID, owner, "ACTA DE REUNIÓN\n\nDesarrollo de la sesión.")
	if err != nil {
		t.Fatalf("FinishProcessing: %v", err)
	}
	if reviewed.Status != meeting.StatusReview {
		t.Fatalf("status = %s", reviewed.Status)
	}
	if reviewed.ActaContent == "" {
		t.Fatal("acta content not committed")
	}
}

func TestFinishProcessingWithoutDraft(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	m := testsupport.NewMeeting(t, store, owner, "Edificio Alameda 42", 12)
	if _, err := store.BeginProcessing(ctx, m.ID, owner, "/tmp/audio.webm"); err != nil {
		t.Fatalf("BeginProcessing: %v", err)
	}
	if _, err := store.CommitTranscript(ctx, m.ID, owner, sampleSegments(), 930); err != nil {
		t.Fatalf("CommitTranscript: %v", err)
	}

	reviewed, err := store.FinishProcessing(ctx, m.ID, owner, "")
	if err != nil {
		t.Fatalf("FinishProcessing: %v", err)
	}
	if reviewed.Status != meeting.StatusReview {
		t.Fatalf("status = %s", reviewed.Status)
	}
	if reviewed.ActaContent != "" {
		t.Fatal("empty draft should leave acta unset")
	}
	if !reviewed.HasTranscript() {
		t.Fatal("transcript must survive a failed draft")
	}
}

func TestRollbackProcessing(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	m := testsupport.NewMeeting(t, store, owner, "Edificio Alameda 42", 12)
	if _, err := store.BeginProcessing(ctx, m.ID, owner, "/tmp/audio.webm"); err != nil {
		t.Fatalf("BeginProcessing: %v", err)
	}

	rolled, err := store.RollbackProcessing(ctx, m.ID, owner)
	if err != nil {
		t.Fatalf("RollbackProcessing: %v", err)
	}
	if rolled.Status != meeting.StatusRecording {
		t.Fatalf("status = %s", rolled.Status)
	}
	if rolled.AudioPath != "" {
		t.Fatalf("audio path should be cleared, got %s", rolled.AudioPath)
	}

	// Retry after rollback starts cleanly.
	if _, err := store.BeginProcessing(ctx, m.ID, owner, "/tmp/retry.webm"); err != nil {
		t.Fatalf("BeginProcessing after rollback: %v", err)
	}
}

func TestRollbackFromReviewDenied(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	m := testsupport.NewMeeting(t, store, owner, "Edificio Alameda 42", 12)
	if _, err := store.BeginProcessing(ctx, m.ID, owner, "/tmp/audio.webm"); err != nil {
		t.Fatalf("BeginProcessing: %v", err)
	}
	if _, err := store.FinishProcessing(ctx, m.ID, owner, "acta"); err != nil {
		t.Fatalf("FinishProcessing: %v", err)
	}

	if _, err := store.RollbackProcessing(ctx, m.ID, owner); !errors.Is(err, services.ErrConflict) {
		t.Fatalf("rollback from review: got %v", err)
	}
}

func TestSetDraft(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	m := testsupport.NewMeeting(t, store, owner, "Edificio Alameda 42", 12)
	if _, err := store.BeginProcessing(ctx, m.ID, owner, "/tmp/audio.webm"); err != nil {
		t.Fatalf("BeginProcessing: %v", err)
	}
	if _, err := store.FinishProcessing(ctx, m.ID, owner, ""); err != nil {
		t.Fatalf("FinishProcessing: %v", err)
	}

	drafted, err := store.SetDraft(ctx, m.ID, owner, "Acta regenerada.")
	if err != nil {
		t.Fatalf("SetDraft: %v", err)
	}
	if drafted.Status != meeting.StatusReview || drafted.ActaContent != "Acta regenerada." {
		t.Fatalf("draft not applied: %s %q", drafted.Status, drafted.ActaContent)
	}

	if _, err := store.SetDraft(ctx, m.ID, owner, " "); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("blank draft: got %v", err)
	}
}

func TestSetSignatureDerivesStatus(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	m := testsupport.NewMeeting(t, store, owner, "Edificio Alameda 42", 12)

	signed, err := store.SetSignature(ctx, m.ID, owner, meeting.RolePresident, "Ana García", "data:image/png;base64,aWc=")
	if err != nil {
		t.Fatalf("SetSignature president: %v", err)
	}
	if signed.SignatureStatus != meeting.SignaturePending {
		t.Fatalf("one slot: signature status = %s", signed.SignatureStatus)
	}
	if signed.SignedAt != nil {
		t.Fatal("combined signedAt must not be stamped by a single slot")
	}
	if signed.President == nil || signed.President.Name != "Ana García" {
		t.Fatalf("president slot = %+v", signed.President)
	}

	signed, err = store.SetSignature(ctx, m.ID, owner, meeting.RoleSecretary, "Luis Pérez", "data:image/png;base64,aWc=")
	if err != nil {
		t.Fatalf("SetSignature secretary: %v", err)
	}
	if signed.SignatureStatus != meeting.SignatureSigned {
		t.Fatalf("both slots: signature status = %s", signed.SignatureStatus)
	}
	if signed.SignedAt == nil {
		t.Fatal("completing write must stamp signedAt")
	}
	firstSigned := *signed.SignedAt

	// Overwriting a slot keeps signed status and the original stamp.
	signed, err = store.SetSignature(ctx, m.ID, owner, meeting.RolePresident, "Ana García López", "data:image/png;base64,aWc=")
	if err != nil {
		t.Fatalf("SetSignature overwrite: %v", err)
	}
	if signed.SignatureStatus != meeting.SignatureSigned {
		t.Fatalf("overwrite dropped signed status: %s", signed.SignatureStatus)
	}
	if signed.SignedAt == nil || !signed.SignedAt.Equal(firstSigned) {
		t.Fatalf("signedAt changed on overwrite: %v vs %v", signed.SignedAt, firstSigned)
	}
}

func TestSetSignatureSlotOrderIndependent(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	m := testsupport.NewMeeting(t, store, owner, "Edificio Alameda 42", 12)

	// The derived status is computed against the stored other slot, so
	// signing secretary first behaves the same as president first.
	signed, err := store.SetSignature(ctx, m.ID, owner, meeting.RoleSecretary, "Luis Pérez", "data:image/png;base64,aWc=")
	if err != nil {
		t.Fatalf("SetSignature secretary: %v", err)
	}
	if signed.SignatureStatus != meeting.SignaturePending {
		t.Fatalf("one slot: signature status = %s", signed.SignatureStatus)
	}
	if signed.SignedAt != nil {
		t.Fatal("combined signedAt must not be stamped by a single slot")
	}

	signed, err = store.SetSignature(ctx, m.ID, owner, meeting.RolePresident, "Ana García", "data:image/png;base64,aWc=")
	if err != nil {
		t.Fatalf("SetSignature president: %v", err)
	}
	if signed.SignatureStatus != meeting.SignatureSigned {
		t.Fatalf("both slots: signature status = %s", signed.SignatureStatus)
	}
	if signed.SignedAt == nil {
		t.Fatal("completing write must stamp signedAt")
	}
	if signed.President == nil || signed.Secretary == nil {
		t.Fatalf("slots = %+v / %+v", signed.President, signed.Secretary)
	}
}

func TestSetSignatureCrossOwnerNotFound(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	m := testsupport.NewMeeting(t, store, owner, "Edificio Alameda 42", 12)
	if _, err := store.SetSignature(ctx, m.ID, "someone-else", meeting.RolePresident, "Ana", "img"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("cross-owner signature: got %v", err)
	}
}

func TestSetSignatureValidation(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	m := testsupport.NewMeeting(t, store, owner, "Edificio Alameda 42", 12)

	if _, err := store.SetSignature(ctx, m.ID, owner, meeting.RolePresident, "", "img"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("blank name: got %v", err)
	}
	if _, err := store.SetSignature(ctx, m.ID, owner, meeting.RolePresident, "Ana", ""); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("blank image: got %v", err)
	}
	if _, err := store.SetSignature(ctx, m.ID, owner, meeting.Role("treasurer"), "Ana", "img"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("unknown role: got %v", err)
	}
}

func TestMarkSent(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	m := testsupport.NewMeeting(t, store, owner, "Edificio Alameda 42", 12)
	if _, err := store.BeginProcessing(ctx, m.ID, owner, "/tmp/audio.webm"); err != nil {
		t.Fatalf("BeginProcessing: %v", err)
	}
	if _, err := store.FinishProcessing(ctx, m.ID, owner, "acta"); err != nil {
		t.Fatalf("FinishProcessing: %v", err)
	}

	sent, err := store.MarkSent(ctx, m.ID, owner, sampleRecipients())
	if err != nil {
		t.Fatalf("MarkSent: %v", err)
	}
	if sent.Status != meeting.StatusSent {
		t.Fatalf("status = %s", sent.Status)
	}
	if len(sent.Recipients) != 2 {
		t.Fatalf("recipients = %d", len(sent.Recipients))
	}

	// Sent is terminal.
	if _, err := store.MarkSent(ctx, m.ID, owner, sampleRecipients()); !errors.Is(err, services.ErrConflict) {
		t.Fatalf("double send: got %v", err)
	}
	if _, err := store.SetSignature(ctx, m.ID, owner, meeting.RolePresident, "Ana", "img"); !errors.Is(err, services.ErrConflict) {
		t.Fatalf("signature after send: got %v", err)
	}
}

func TestMarkSentRequiresValidRecipients(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	m := testsupport.NewMeeting(t, store, owner, "Edificio Alameda 42", 12)
	if _, err := store.BeginProcessing(ctx, m.ID, owner, "/tmp/audio.webm"); err != nil {
		t.Fatalf("BeginProcessing: %v", err)
	}
	if _, err := store.FinishProcessing(ctx, m.ID, owner, "acta"); err != nil {
		t.Fatalf("FinishProcessing: %v", err)
	}

	bad := []meeting.Recipient{
		{ID: "r-0", Name: "Ana", Email: "ana@example.com"},
		{ID: "r-1", Name: "Luis", Email: "not-an-email"},
	}
	_, err := store.MarkSent(ctx, m.ID, owner, bad)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("malformed recipient: got %v", err)
	}
	if !strings.Contains(err.Error(), "r-1") {
		t.Fatalf("error should name the malformed entry: %v", err)
	}

	current, err := store.GetByID(ctx, m.ID, owner)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if current.Status != meeting.StatusReview {
		t.Fatalf("failed send changed status to %s", current.Status)
	}
}

func TestMarkSentFromRecordingDenied(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	m := testsupport.NewMeeting(t, store, owner, "Edificio Alameda 42", 12)
	if _, err := store.MarkSent(ctx, m.ID, owner, sampleRecipients()); !errors.Is(err, services.ErrConflict) {
		t.Fatalf("send from recording: got %v", err)
	}
}

func TestStats(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	testsupport.NewMeeting(t, store, owner, "Uno", 1)
	testsupport.NewMeeting(t, store, owner, "Dos", 2)
	m := testsupport.NewMeeting(t, store, owner, "Tres", 3)
	if _, err := store.BeginProcessing(ctx, m.ID, owner, "/tmp/audio.webm"); err != nil {
		t.Fatalf("BeginProcessing: %v", err)
	}

	stats, err := store.Stats(ctx, owner)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats[meeting.StatusRecording] != 2 || stats[meeting.StatusProcessing] != 1 {
		t.Fatalf("stats = %v", stats)
	}
}
