package meeting

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"actas/internal/services"
)

// NewMeeting carries the caller-supplied fields for Create. Building name is
// required; the remaining fields take documented defaults.
type NewMeeting struct {
	BuildingName   string
	AttendeesCount int
	Date           time.Time
}

// UpdateFields is a partial-merge update. Nil pointers leave the stored value
// untouched; pointers to zero values clear the field. Status is deliberately
// absent: status changes go through the transition methods only.
type UpdateFields struct {
	BuildingName   *string
	AttendeesCount *int
	Date           *time.Time
	ActaContent    *string
	Recipients     *[]Recipient
}

// Create inserts a meeting in recording status for the given owner.
func (s *Store) Create(ctx context.Context, ownerID string, fields NewMeeting) (*Meeting, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, services.Wrap(services.ErrValidation, "meeting", "create", "owner id required", nil)
	}
	building := strings.TrimSpace(fields.BuildingName)
	if building == "" {
		return nil, services.Wrap(services.ErrValidation, "meeting", "create", "building name required", nil)
	}
	if fields.AttendeesCount < 0 {
		return nil, services.Wrap(services.ErrValidation, "meeting", "create", "attendees count must not be negative", nil)
	}

	now := time.Now().UTC()
	date := fields.Date
	if date.IsZero() {
		date = now
	}
	id := uuid.NewString()
	timestamp := now.Format(time.RFC3339Nano)

	_, err := s.execWithRetry(
		ensureContext(ctx),
		`INSERT INTO meetings (
            id, owner_id, building_name, attendees_count, meeting_date,
            duration_seconds, status, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		ownerID,
		building,
		fields.AttendeesCount,
		date.UTC().Format(time.RFC3339Nano),
		0,
		StatusRecording,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert meeting: %w", err)
	}

	return s.GetByID(ctx, id, ownerID)
}

// GetByID fetches a meeting scoped to its owner. A meeting owned by someone
// else yields the same ErrNotFound as a missing row.
func (s *Store) GetByID(ctx context.Context, id, ownerID string) (*Meeting, error) {
	row := s.db.QueryRowContext(
		ensureContext(ctx),
		`SELECT `+meetingColumns+` FROM meetings WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	)
	m, err := scanMeeting(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "meeting", "get", fmt.Sprintf("meeting %s", id), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("get meeting: %w", err)
	}
	return m, nil
}

// List returns the owner's meetings ordered by meeting date, most recent first.
func (s *Store) List(ctx context.Context, ownerID string) ([]*Meeting, error) {
	rows, err := s.db.QueryContext(
		ensureContext(ctx),
		`SELECT `+meetingColumns+` FROM meetings WHERE owner_id = ? ORDER BY meeting_date DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	defer rows.Close()

	var meetings []*Meeting
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, m)
	}
	return meetings, rows.Err()
}

// Update applies a partial merge of content fields. Recipients supplied here
// are validated for shape but a non-empty list is not required; the delivery
// requirement is enforced by MarkSent.
func (s *Store) Update(ctx context.Context, id, ownerID string, fields UpdateFields) (*Meeting, error) {
	if fields.BuildingName != nil && strings.TrimSpace(*fields.BuildingName) == "" {
		return nil, services.Wrap(services.ErrValidation, "meeting", "update", "building name must not be empty", nil)
	}
	if fields.AttendeesCount != nil && *fields.AttendeesCount < 0 {
		return nil, services.Wrap(services.ErrValidation, "meeting", "update", "attendees count must not be negative", nil)
	}
	if fields.Recipients != nil {
		for _, r := range *fields.Recipients {
			if err := ValidateRecipient(r); err != nil {
				return nil, services.Wrap(services.ErrValidation, "meeting", "update", err.Error(), nil)
			}
		}
	}

	current, err := s.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	building := current.BuildingName
	if fields.BuildingName != nil {
		building = strings.TrimSpace(*fields.BuildingName)
	}
	attendees := current.AttendeesCount
	if fields.AttendeesCount != nil {
		attendees = *fields.AttendeesCount
	}
	date := current.Date
	if fields.Date != nil && !fields.Date.IsZero() {
		date = *fields.Date
	}
	acta := current.ActaContent
	if fields.ActaContent != nil {
		acta = *fields.ActaContent
	}
	recipients := current.Recipients
	if fields.Recipients != nil {
		recipients = *fields.Recipients
	}
	recipientsJSON, err := encodeRecipients(recipients)
	if err != nil {
		return nil, err
	}

	res, err := s.execWithRetry(
		ensureContext(ctx),
		`UPDATE meetings
         SET building_name = ?, attendees_count = ?, meeting_date = ?,
             acta_content = ?, recipients_json = ?, updated_at = ?
         WHERE id = ? AND owner_id = ?`,
		building,
		attendees,
		date.UTC().Format(time.RFC3339Nano),
		nullableString(acta),
		recipientsJSON,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("update meeting: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, services.Wrap(services.ErrNotFound, "meeting", "update", fmt.Sprintf("meeting %s", id), nil)
	}

	return s.GetByID(ctx, id, ownerID)
}

// Delete removes a meeting scoped to its owner.
func (s *Store) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	res, err := s.execWithRetry(
		ensureContext(ctx),
		`DELETE FROM meetings WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	)
	if err != nil {
		return false, fmt.Errorf("delete meeting: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Stats returns a count of the owner's meetings grouped by status.
func (s *Store) Stats(ctx context.Context, ownerID string) (map[Status]int, error) {
	rows, err := s.db.QueryContext(
		ensureContext(ctx),
		`SELECT status, COUNT(1) FROM meetings WHERE owner_id = ? GROUP BY status`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("meeting stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

const meetingColumns = "id, owner_id, building_name, attendees_count, meeting_date, duration_seconds, status, audio_path, transcript_json, acta_content, recipients_json, signature_status, president_name, president_signature, president_signed_at, secretary_name, secretary_signature, secretary_signed_at, signed_at, created_at, updated_at"

func scanMeeting(scanner interface{ Scan(dest ...any) error }) (*Meeting, error) {
	var (
		id              string
		ownerID         string
		building        string
		attendees       int
		dateRaw         string
		duration        int
		statusStr       string
		audioPath       sql.NullString
		transcriptJSON  sql.NullString
		actaContent     sql.NullString
		recipientsJSON  sql.NullString
		signatureStatus sql.NullString
		presName        sql.NullString
		presImage       sql.NullString
		presSignedRaw   sql.NullString
		secName         sql.NullString
		secImage        sql.NullString
		secSignedRaw    sql.NullString
		signedRaw       sql.NullString
		createdRaw      string
		updatedRaw      string
	)

	if err := scanner.Scan(
		&id,
		&ownerID,
		&building,
		&attendees,
		&dateRaw,
		&duration,
		&statusStr,
		&audioPath,
		&transcriptJSON,
		&actaContent,
		&recipientsJSON,
		&signatureStatus,
		&presName,
		&presImage,
		&presSignedRaw,
		&secName,
		&secImage,
		&secSignedRaw,
		&signedRaw,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	status, ok := ParseStatus(statusStr)
	if !ok {
		return nil, fmt.Errorf("meeting %s: unknown status %q", id, statusStr)
	}

	m := &Meeting{
		ID:              id,
		OwnerID:         ownerID,
		BuildingName:    building,
		AttendeesCount:  attendees,
		DurationSeconds: duration,
		Status:          status,
		AudioPath:       audioPath.String,
		ActaContent:     actaContent.String,
		SignatureStatus: SignatureStatus(signatureStatus.String),
	}

	if transcriptJSON.Valid && transcriptJSON.String != "" {
		segments, err := decodeSegments(transcriptJSON.String)
		if err != nil {
			return nil, fmt.Errorf("meeting %s: %w", id, err)
		}
		m.Transcript = segments
	}
	if recipientsJSON.Valid && recipientsJSON.String != "" {
		recipients, err := decodeRecipients(recipientsJSON.String)
		if err != nil {
			return nil, fmt.Errorf("meeting %s: %w", id, err)
		}
		m.Recipients = recipients
	}

	m.President = scanSignature(presName, presImage, presSignedRaw)
	m.Secretary = scanSignature(secName, secImage, secSignedRaw)

	if date, err := parseTimeString(dateRaw); err == nil {
		m.Date = date
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		m.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		m.UpdatedAt = updated
	}
	if signedRaw.Valid {
		if signed, err := parseTimeString(signedRaw.String); err == nil {
			m.SignedAt = &signed
		}
	}
	return m, nil
}

func scanSignature(name, image, signedRaw sql.NullString) *Signature {
	if !name.Valid && !image.Valid {
		return nil
	}
	sig := &Signature{Name: name.String, Image: image.String}
	if signedRaw.Valid {
		if signed, err := parseTimeString(signedRaw.String); err == nil {
			sig.SignedAt = signed
		}
	}
	return sig
}

func encodeSegments(segments []Segment) (any, error) {
	if len(segments) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(segments)
	if err != nil {
		return nil, fmt.Errorf("marshal transcript: %w", err)
	}
	return string(data), nil
}

func decodeSegments(raw string) ([]Segment, error) {
	var segments []Segment
	if err := json.Unmarshal([]byte(raw), &segments); err != nil {
		return nil, fmt.Errorf("parse transcript json: %w", err)
	}
	for i, seg := range segments {
		if strings.TrimSpace(seg.ID) == "" || strings.TrimSpace(seg.Timestamp) == "" {
			return nil, fmt.Errorf("parse transcript json: segment %d missing id or timestamp", i)
		}
	}
	return segments, nil
}

func encodeRecipients(recipients []Recipient) (any, error) {
	if len(recipients) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(recipients)
	if err != nil {
		return nil, fmt.Errorf("marshal recipients: %w", err)
	}
	return string(data), nil
}

func decodeRecipients(raw string) ([]Recipient, error) {
	var recipients []Recipient
	if err := json.Unmarshal([]byte(raw), &recipients); err != nil {
		return nil, fmt.Errorf("parse recipients json: %w", err)
	}
	return recipients, nil
}
