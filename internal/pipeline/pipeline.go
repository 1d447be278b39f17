package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"actas/internal/logging"
	"actas/internal/meeting"
	"actas/internal/notifications"
	"actas/internal/render"
	"actas/internal/services"
	"actas/internal/services/drafter"
	"actas/internal/services/mailer"
	"actas/internal/services/transcriber"
)

// Transcriber converts an audio file into recognized speech segments.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*transcriber.Result, error)
}

// Drafter generates acta content from a transcript.
type Drafter interface {
	DraftActa(ctx context.Context, req drafter.Request) (string, error)
}

// Mailer delivers a rendered acta to its recipients.
type Mailer interface {
	Send(ctx context.Context, msg mailer.Message) error
}

// Pipeline drives a meeting through transcription, drafting, signing, and
// delivery. Status changes go through the store's transition methods only.
type Pipeline struct {
	store       *meeting.Store
	transcriber Transcriber
	drafter     Drafter
	mailer      Mailer
	notifier    notifications.Service
	logger      *slog.Logger
}

// New wires the pipeline with its collaborators. Any nil notifier or logger
// is replaced with a no-op implementation.
func New(store *meeting.Store, t Transcriber, d Drafter, m Mailer, notifier notifications.Service, logger *slog.Logger) *Pipeline {
	if notifier == nil {
		notifier = notifications.NewNop()
	}
	return &Pipeline{
		store:       store,
		transcriber: t,
		drafter:     d,
		mailer:      m,
		notifier:    notifier,
		logger:      logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Transcribe accepts a recorded audio file, runs speech-to-text, commits the
// transcript, and continues into draft generation. A transcription failure
// rolls the meeting back to recording; a drafting failure still lands the
// meeting in review with its transcript intact.
func (p *Pipeline) Transcribe(ctx context.Context, id, ownerID, audioPath string) (*meeting.Meeting, error) {
	info, err := os.Stat(audioPath)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "pipeline", "transcribe", "audio file not readable", err)
	}
	if info.Size() == 0 {
		return nil, services.Wrap(services.ErrValidation, "pipeline", "transcribe", "audio file is empty", nil)
	}

	m, err := p.store.BeginProcessing(ctx, id, ownerID, audioPath)
	if err != nil {
		return nil, err
	}
	p.logger.Info("transcription started",
		logging.String(logging.FieldMeetingID, m.ID),
		logging.String("audio_path", audioPath),
	)

	result, err := p.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return nil, p.failTranscription(ctx, id, ownerID, err)
	}

	segments := buildSegments(result)
	if len(segments) == 0 {
		return nil, p.failTranscription(ctx, id, ownerID,
			services.Wrap(services.ErrExternal, "transcriber", "transcribe", "no speech recognized", nil))
	}
	duration := int(math.Round(result.Duration))

	m, err = p.store.CommitTranscript(ctx, id, ownerID, segments, duration)
	if err != nil {
		return nil, err
	}
	p.logger.Info("transcription complete",
		logging.String(logging.FieldMeetingID, m.ID),
		logging.Int("segments", len(segments)),
		logging.Int("duration_seconds", duration),
	)
	if err := p.notifier.NotifyTranscriptionComplete(ctx, m.BuildingName, len(segments)); err != nil {
		p.logger.Warn("notification failed", logging.Error(err))
	}

	content, err := p.drafter.DraftActa(ctx, drafter.Request{
		BuildingName:   m.BuildingName,
		Date:           m.Date,
		AttendeesCount: m.AttendeesCount,
		Transcript:     m.Transcript,
	})
	if err != nil {
		// The transcript is the expensive artifact; keep it and let the
		// owner regenerate the draft later.
		p.logger.Warn("draft generation failed, meeting moved to review without acta",
			logging.String(logging.FieldMeetingID, m.ID),
			logging.Error(err),
		)
		return p.store.FinishProcessing(ctx, id, ownerID, "")
	}

	m, err = p.store.FinishProcessing(ctx, id, ownerID, content)
	if err != nil {
		return nil, err
	}
	p.logger.Info("acta drafted", logging.String(logging.FieldMeetingID, m.ID))
	if err := p.notifier.NotifyActaDrafted(ctx, m.BuildingName); err != nil {
		p.logger.Warn("notification failed", logging.Error(err))
	}
	return m, nil
}

func (p *Pipeline) failTranscription(ctx context.Context, id, ownerID string, cause error) error {
	// The compensating write must land even when the failure was the
	// caller's own context dying mid-call.
	cleanup := context.Background()
	if ctx != nil {
		cleanup = context.WithoutCancel(ctx)
	}
	if _, rollbackErr := p.store.RollbackProcessing(cleanup, id, ownerID); rollbackErr != nil {
		p.logger.Error("rollback after failed transcription failed",
			logging.String(logging.FieldMeetingID, id),
			logging.Error(rollbackErr),
		)
	}
	p.logger.Error("transcription failed",
		logging.String(logging.FieldMeetingID, id),
		logging.Error(cause),
	)
	if err := p.notifier.NotifyError(cleanup, cause, "transcription"); err != nil {
		p.logger.Warn("notification failed", logging.Error(err))
	}
	if errors.Is(cause, services.ErrExternal) || errors.Is(cause, services.ErrValidation) || errors.Is(cause, services.ErrConfiguration) {
		return cause
	}
	return services.Wrap(services.ErrExternal, "pipeline", "transcribe", "transcription service", cause)
}

// buildSegments maps raw recognition spans onto transcript segments with
// zero-based sequential ids and mm:ss offset labels. A result with text but
// no spans collapses into a single segment at 00:00.
func buildSegments(result *transcriber.Result) []meeting.Segment {
	if result == nil {
		return nil
	}
	segments := make([]meeting.Segment, 0, len(result.Segments))
	for _, span := range result.Segments {
		text := strings.TrimSpace(span.Text)
		if text == "" {
			continue
		}
		segments = append(segments, meeting.Segment{
			ID:        fmt.Sprintf("p-%d", len(segments)),
			Timestamp: meeting.FormatOffset(span.Start),
			Speaker:   span.Speaker,
			Text:      text,
		})
	}
	if len(segments) == 0 && strings.TrimSpace(result.Text) != "" {
		segments = append(segments, meeting.Segment{
			ID:        "p-0",
			Timestamp: "00:00",
			Text:      strings.TrimSpace(result.Text),
		})
	}
	return segments
}

// ResetProcessing returns a meeting stuck in processing to recording so the
// owner can retry transcription. This covers interrupted runs where the
// process died mid-transcription and the rollback never landed.
func (p *Pipeline) ResetProcessing(ctx context.Context, id, ownerID string) (*meeting.Meeting, error) {
	m, err := p.store.RollbackProcessing(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	p.logger.Info("processing reset", logging.String(logging.FieldMeetingID, m.ID))
	return m, nil
}

// GenerateDraft regenerates acta content from an existing transcript without
// rerunning transcription.
func (p *Pipeline) GenerateDraft(ctx context.Context, id, ownerID string) (*meeting.Meeting, error) {
	m, err := p.store.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if !m.HasTranscript() {
		return nil, services.Wrap(services.ErrValidation, "pipeline", "generate draft", "no transcript available", nil)
	}

	content, err := p.drafter.DraftActa(ctx, drafter.Request{
		BuildingName:   m.BuildingName,
		Date:           m.Date,
		AttendeesCount: m.AttendeesCount,
		Transcript:     m.Transcript,
	})
	if err != nil {
		if err := p.notifier.NotifyError(ctx, err, "draft generation"); err != nil {
			p.logger.Warn("notification failed", logging.Error(err))
		}
		return nil, err
	}

	m, err = p.store.SetDraft(ctx, id, ownerID, content)
	if err != nil {
		return nil, err
	}
	p.logger.Info("acta drafted", logging.String(logging.FieldMeetingID, m.ID))
	if err := p.notifier.NotifyActaDrafted(ctx, m.BuildingName); err != nil {
		p.logger.Warn("notification failed", logging.Error(err))
	}
	return m, nil
}

// RecordSignature captures one signer slot for a meeting under review.
func (p *Pipeline) RecordSignature(ctx context.Context, id, ownerID string, role meeting.Role, signerName, image string) (*meeting.Meeting, error) {
	m, err := p.store.SetSignature(ctx, id, ownerID, role, signerName, image)
	if err != nil {
		return nil, err
	}
	p.logger.Info("signature recorded",
		logging.String(logging.FieldMeetingID, m.ID),
		logging.String("role", string(role)),
		logging.String("signature_status", string(m.SignatureStatus)),
	)
	return m, nil
}

// Send renders the acta PDF, emails it to every recipient, and marks the
// meeting sent. A delivery failure leaves the meeting in review.
func (p *Pipeline) Send(ctx context.Context, id, ownerID string, recipients []meeting.Recipient, subject, message string) (*meeting.Meeting, error) {
	if problems := meeting.ValidateRecipients(recipients); len(problems) > 0 {
		details := make([]string, 0, len(problems))
		for _, problem := range problems {
			details = append(details, problem.Error())
		}
		return nil, services.Wrap(services.ErrValidation, "pipeline", "send", strings.Join(details, "; "), nil)
	}

	m, err := p.store.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if m.Status != meeting.StatusReview {
		return nil, services.Wrap(services.ErrConflict, "pipeline", "send",
			fmt.Sprintf("cannot move from %s to %s", m.Status, meeting.StatusSent), nil)
	}

	pdf, err := render.ActaPDF(m)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(subject) == "" {
		subject = render.EmailSubject(m.BuildingName)
	}
	msg := mailer.Message{
		Recipients:     recipients,
		Subject:        subject,
		Body:           render.EmailBody(m.BuildingName, m.Date, message),
		AttachmentName: render.AttachmentFilename(m.BuildingName, m.ID),
		Attachment:     pdf,
	}
	if err := p.mailer.Send(ctx, msg); err != nil {
		p.logger.Error("acta delivery failed",
			logging.String(logging.FieldMeetingID, m.ID),
			logging.Error(err),
		)
		if notifyErr := p.notifier.NotifyError(ctx, err, "acta delivery"); notifyErr != nil {
			p.logger.Warn("notification failed", logging.Error(notifyErr))
		}
		return nil, err
	}

	m, err = p.store.MarkSent(ctx, id, ownerID, recipients)
	if err != nil {
		return nil, err
	}
	p.logger.Info("acta sent",
		logging.String(logging.FieldMeetingID, m.ID),
		logging.Int("recipients", len(recipients)),
	)
	if err := p.notifier.NotifyActaSent(ctx, m.BuildingName, len(recipients)); err != nil {
		p.logger.Warn("notification failed", logging.Error(err))
	}
	return m, nil
}

// Export renders the acta PDF to a file under dir and returns the full path.
// No status transition happens; export works in any status that has content.
func (p *Pipeline) Export(ctx context.Context, id, ownerID, dir string) (string, error) {
	m, err := p.store.GetByID(ctx, id, ownerID)
	if err != nil {
		return "", err
	}

	pdf, err := render.ActaPDF(m)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	path := filepath.Join(dir, render.AttachmentFilename(m.BuildingName, m.ID))
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}
	p.logger.Info("acta exported",
		logging.String(logging.FieldMeetingID, m.ID),
		logging.String("path", path),
	)
	return path, nil
}
