package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"actas/internal/config"
)

const userAgent = "Actas-Go/0.1.0"

// Service defines the notification surface exposed to pipeline components.
type Service interface {
	NotifyTranscriptionComplete(ctx context.Context, buildingName string, segments int) error
	NotifyActaDrafted(ctx context.Context, buildingName string) error
	NotifyActaSent(ctx context.Context, buildingName string, recipients int) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyTranscriptionComplete(ctx context.Context, buildingName string, segments int) error {
	buildingName = strings.TrimSpace(buildingName)
	data := payload{
		title:   "Actas - Transcription Complete",
		message: fmt.Sprintf("Transcription complete for %s: %d segments", buildingName, segments),
		tags:    []string{"actas", "transcription", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyActaDrafted(ctx context.Context, buildingName string) error {
	buildingName = strings.TrimSpace(buildingName)
	data := payload{
		title:   "Actas - Draft Ready",
		message: fmt.Sprintf("Acta draft ready for review: %s", buildingName),
		tags:    []string{"actas", "draft", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyActaSent(ctx context.Context, buildingName string, recipients int) error {
	buildingName = strings.TrimSpace(buildingName)
	data := payload{
		title:    "Actas - Sent",
		message:  fmt.Sprintf("Acta for %s delivered to %d recipients", buildingName, recipients),
		tags:     []string{"actas", "send", "completed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Actas - Error",
		message:  builder.String(),
		tags:     []string{"actas", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Actas - Test",
		message:  "Notification system test",
		tags:     []string{"actas", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// NewNop returns a Service that silently drops every notification.
func NewNop() Service {
	return noopService{}
}

type noopService struct{}

func (noopService) NotifyTranscriptionComplete(context.Context, string, int) error { return nil }
func (noopService) NotifyActaDrafted(context.Context, string) error                { return nil }
func (noopService) NotifyActaSent(context.Context, string, int) error              { return nil }
func (noopService) NotifyError(context.Context, error, string) error               { return nil }
func (noopService) TestNotification(context.Context) error                         { return nil }
