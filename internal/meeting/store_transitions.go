package meeting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"actas/internal/services"
)

// BeginProcessing moves a meeting from recording to processing and records
// the accepted audio artifact. The conditional update doubles as the
// exclusive lock for transcription: a meeting already in processing (or
// beyond) is rejected with ErrConflict instead of racing a second
// transcription against the same transcript.
func (s *Store) BeginProcessing(ctx context.Context, id, ownerID, audioPath string) (*Meeting, error) {
	res, err := s.execWithRetry(
		ensureContext(ctx),
		`UPDATE meetings
         SET status = ?, audio_path = ?, updated_at = ?
         WHERE id = ? AND owner_id = ? AND status = ?`,
		StatusProcessing,
		nullableString(audioPath),
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
		ownerID,
		StatusRecording,
	)
	if err != nil {
		return nil, fmt.Errorf("begin processing: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, s.transitionFailure(ctx, id, ownerID, "begin processing", StatusProcessing)
	}
	return s.GetByID(ctx, id, ownerID)
}

// CommitTranscript atomically replaces the transcript with a well-formed
// ordered sequence and records duration. The meeting stays in processing;
// draft generation follows as part of the same logical operation.
func (s *Store) CommitTranscript(ctx context.Context, id, ownerID string, segments []Segment, durationSeconds int) (*Meeting, error) {
	if len(segments) == 0 {
		return nil, services.Wrap(services.ErrValidation, "meeting", "commit transcript", "at least one segment required", nil)
	}
	for i, seg := range segments {
		if strings.TrimSpace(seg.ID) == "" || strings.TrimSpace(seg.Timestamp) == "" || strings.TrimSpace(seg.Text) == "" {
			return nil, services.Wrap(services.ErrValidation, "meeting", "commit transcript",
				fmt.Sprintf("segment %d incomplete", i), nil)
		}
	}
	if durationSeconds < 0 {
		durationSeconds = 0
	}
	transcriptJSON, err := encodeSegments(segments)
	if err != nil {
		return nil, err
	}

	res, err := s.execWithRetry(
		ensureContext(ctx),
		`UPDATE meetings
         SET transcript_json = ?, duration_seconds = ?, updated_at = ?
         WHERE id = ? AND owner_id = ? AND status = ?`,
		transcriptJSON,
		durationSeconds,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
		ownerID,
		StatusProcessing,
	)
	if err != nil {
		return nil, fmt.Errorf("commit transcript: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, s.transitionFailure(ctx, id, ownerID, "commit transcript", StatusProcessing)
	}
	return s.GetByID(ctx, id, ownerID)
}

// FinishProcessing moves a meeting from processing to review. A non-empty
// acta commits the drafted content; an empty acta leaves the draft unset so
// the transcript is still reachable when drafting failed.
func (s *Store) FinishProcessing(ctx context.Context, id, ownerID, actaContent string) (*Meeting, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	var (
		query string
		args  []any
	)
	if strings.TrimSpace(actaContent) != "" {
		query = `UPDATE meetings SET status = ?, acta_content = ?, updated_at = ?
                 WHERE id = ? AND owner_id = ? AND status = ?`
		args = []any{StatusReview, actaContent, now, id, ownerID, StatusProcessing}
	} else {
		query = `UPDATE meetings SET status = ?, updated_at = ?
                 WHERE id = ? AND owner_id = ? AND status = ?`
		args = []any{StatusReview, now, id, ownerID, StatusProcessing}
	}

	res, err := s.execWithRetry(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("finish processing: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, s.transitionFailure(ctx, id, ownerID, "finish processing", StatusReview)
	}
	return s.GetByID(ctx, id, ownerID)
}

// RollbackProcessing returns a meeting from processing to recording after a
// failed transcription, discarding the partial audio artifact reference.
func (s *Store) RollbackProcessing(ctx context.Context, id, ownerID string) (*Meeting, error) {
	res, err := s.execWithRetry(
		ensureContext(ctx),
		`UPDATE meetings
         SET status = ?, audio_path = NULL, updated_at = ?
         WHERE id = ? AND owner_id = ? AND status = ?`,
		StatusRecording,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
		ownerID,
		StatusProcessing,
	)
	if err != nil {
		return nil, fmt.Errorf("rollback processing: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, s.transitionFailure(ctx, id, ownerID, "rollback processing", StatusRecording)
	}
	return s.GetByID(ctx, id, ownerID)
}

// SetDraft commits regenerated acta content for a meeting that already has a
// transcript, independent of the transcription flow. The meeting lands in
// review whether it was still processing or already there.
func (s *Store) SetDraft(ctx context.Context, id, ownerID, actaContent string) (*Meeting, error) {
	if strings.TrimSpace(actaContent) == "" {
		return nil, services.Wrap(services.ErrValidation, "meeting", "set draft", "acta content required", nil)
	}
	res, err := s.execWithRetry(
		ensureContext(ctx),
		`UPDATE meetings
         SET status = ?, acta_content = ?, updated_at = ?
         WHERE id = ? AND owner_id = ? AND status IN (?, ?)`,
		StatusReview,
		actaContent,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
		ownerID,
		StatusProcessing,
		StatusReview,
	)
	if err != nil {
		return nil, fmt.Errorf("set draft: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, s.transitionFailure(ctx, id, ownerID, "set draft", StatusReview)
	}
	return s.GetByID(ctx, id, ownerID)
}

// SetSignature writes one signer slot and recomputes the derived signature
// status. Slots may be overwritten until the meeting is sent; the combined
// signedAt is stamped only by the write that completes both slots.
func (s *Store) SetSignature(ctx context.Context, id, ownerID string, role Role, signerName, image string) (*Meeting, error) {
	signerName = strings.TrimSpace(signerName)
	if signerName == "" {
		return nil, services.Wrap(services.ErrValidation, "meeting", "set signature", "signer name required", nil)
	}
	if strings.TrimSpace(image) == "" {
		return nil, services.Wrap(services.ErrValidation, "meeting", "set signature", "signature image required", nil)
	}
	if role != RolePresident && role != RoleSecretary {
		return nil, services.Wrap(services.ErrValidation, "meeting", "set signature", fmt.Sprintf("unknown role %q", role), nil)
	}

	var column, other string
	switch role {
	case RolePresident:
		column, other = "president", "secretary"
	case RoleSecretary:
		column, other = "secretary", "president"
	}

	// The derived fields are computed against the other slot inside the same
	// statement, so two concurrent per-slot writes cannot lose the signed
	// state the way a read-then-write would.
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(
		ensureContext(ctx),
		`UPDATE meetings
         SET `+column+`_name = ?, `+column+`_signature = ?, `+column+`_signed_at = ?,
             signature_status = CASE WHEN `+other+`_name IS NOT NULL THEN ? ELSE ? END,
             signed_at = CASE WHEN `+other+`_name IS NOT NULL AND signed_at IS NULL THEN ? ELSE signed_at END,
             updated_at = ?
         WHERE id = ? AND owner_id = ? AND status != ?`,
		signerName,
		image,
		now,
		string(SignatureSigned),
		string(SignaturePending),
		now,
		now,
		id,
		ownerID,
		StatusSent,
	)
	if err != nil {
		return nil, fmt.Errorf("set signature: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		current, err := s.GetByID(ctx, id, ownerID)
		if err != nil {
			return nil, err
		}
		if current.Status == StatusSent {
			return nil, services.Wrap(services.ErrConflict, "meeting", "set signature", "acta already sent", nil)
		}
		return nil, services.Wrap(services.ErrConflict, "meeting", "set signature", "signature not recorded", nil)
	}
	return s.GetByID(ctx, id, ownerID)
}

// MarkSent moves a meeting from review to sent and commits the validated
// recipient list it was delivered to.
func (s *Store) MarkSent(ctx context.Context, id, ownerID string, recipients []Recipient) (*Meeting, error) {
	if problems := ValidateRecipients(recipients); len(problems) > 0 {
		details := make([]string, 0, len(problems))
		for _, p := range problems {
			details = append(details, p.Error())
		}
		return nil, services.Wrap(services.ErrValidation, "meeting", "mark sent", strings.Join(details, "; "), nil)
	}
	recipientsJSON, err := encodeRecipients(recipients)
	if err != nil {
		return nil, err
	}

	res, err := s.execWithRetry(
		ensureContext(ctx),
		`UPDATE meetings
         SET status = ?, recipients_json = ?, updated_at = ?
         WHERE id = ? AND owner_id = ? AND status = ?`,
		StatusSent,
		recipientsJSON,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
		ownerID,
		StatusReview,
	)
	if err != nil {
		return nil, fmt.Errorf("mark sent: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, s.transitionFailure(ctx, id, ownerID, "mark sent", StatusSent)
	}
	return s.GetByID(ctx, id, ownerID)
}

// transitionFailure distinguishes a missing (or foreign-owned) meeting from
// an illegal transition after a conditional update touched zero rows.
func (s *Store) transitionFailure(ctx context.Context, id, ownerID, operation string, target Status) error {
	current, err := s.GetByID(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if current.Status == StatusProcessing && target == StatusProcessing {
		return services.Wrap(services.ErrConflict, "meeting", operation, "transcription already in progress", nil)
	}
	return services.Wrap(services.ErrConflict, "meeting", operation,
		fmt.Sprintf("cannot move from %s to %s", current.Status, target), nil)
}
