package mailer

import (
	"context"
	"errors"
	"testing"

	"actas/internal/meeting"
	"actas/internal/services"
)

func message() Message {
	return Message{
		Recipients: []meeting.Recipient{{ID: "r-0", Name: "Ana García", Email: "ana@example.com"}},
		Subject:    "Acta - Edificio Alameda 42",
		Body:       "Estimado/a,",
	}
}

func TestSendRequiresEnabled(t *testing.T) {
	client := NewClient(Config{Enabled: false, Host: "smtp.example.com", From: "actas@example.com"})
	err := client.Send(context.Background(), message())
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("disabled: got %v", err)
	}
}

func TestSendRequiresHostAndFrom(t *testing.T) {
	client := NewClient(Config{Enabled: true, Host: "  ", From: "actas@example.com"})
	if err := client.Send(context.Background(), message()); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("blank host: got %v", err)
	}
	client = NewClient(Config{Enabled: true, Host: "smtp.example.com", From: ""})
	if err := client.Send(context.Background(), message()); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("blank from: got %v", err)
	}
}

func TestBuildMessagesAttachesActa(t *testing.T) {
	client := NewClient(Config{Enabled: true, Host: "smtp.example.com", From: "actas@example.com"})
	msg := message()
	msg.AttachmentName = "Acta_Edificio_Alameda_42_m1.pdf"
	msg.Attachment = []byte("%PDF-1.4 contenido")

	messages, err := client.buildMessages(msg)
	if err != nil {
		t.Fatalf("buildMessages: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(messages))
	}
	attachments := messages[0].GetAttachments()
	if len(attachments) != 1 {
		t.Fatalf("attachments = %d, want 1", len(attachments))
	}
	if attachments[0].Name != "Acta_Edificio_Alameda_42_m1.pdf" {
		t.Fatalf("attachment name = %s", attachments[0].Name)
	}
}

func TestBuildMessagesRejectsBadRecipient(t *testing.T) {
	client := NewClient(Config{Enabled: true, Host: "smtp.example.com", From: "actas@example.com"})
	msg := message()
	msg.Recipients = []meeting.Recipient{{ID: "r-0", Name: "Ana", Email: "no-at-sign"}}

	if _, err := client.buildMessages(msg); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("bad recipient: got %v", err)
	}
}

func TestSendRequiresRecipients(t *testing.T) {
	client := NewClient(Config{Enabled: true, Host: "smtp.example.com", From: "actas@example.com", Port: 587})
	msg := message()
	msg.Recipients = nil
	if err := client.Send(context.Background(), msg); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("no recipients: got %v", err)
	}
}
