package render_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"actas/internal/meeting"
	"actas/internal/render"
)

func TestAttachmentFilename(t *testing.T) {
	cases := []struct {
		building string
		id       string
		want     string
	}{
		{"Edificio Alameda 42", "abc123", "Acta_Edificio_Alameda_42_abc123.pdf"},
		{"Comunidad García-Peña", "m1", "Acta_Comunidad_Garcia-Pena_m1.pdf"},
		{"  Torre   Norte  ", "m2", "Acta_Torre_Norte_m2.pdf"},
		{"¡¿!?", "m3", "Acta_Acta_m3.pdf"},
	}
	for _, tc := range cases {
		if got := render.AttachmentFilename(tc.building, tc.id); got != tc.want {
			t.Fatalf("AttachmentFilename(%q, %q) = %q, want %q", tc.building, tc.id, got, tc.want)
		}
	}
}

func TestSpanishLongDate(t *testing.T) {
	date := time.Date(2024, time.January, 15, 18, 30, 0, 0, time.UTC)
	if got := render.SpanishLongDate(date); got != "lunes, 15 de enero de 2024" {
		t.Fatalf("SpanishLongDate = %q", got)
	}
	date = time.Date(2024, time.December, 7, 10, 0, 0, 0, time.UTC)
	if got := render.SpanishLongDate(date); got != "sábado, 7 de diciembre de 2024" {
		t.Fatalf("SpanishLongDate = %q", got)
	}
}

func TestEmailSubject(t *testing.T) {
	if got := render.EmailSubject("Edificio Alameda 42"); got != "Acta - Edificio Alameda 42" {
		t.Fatalf("EmailSubject = %q", got)
	}
}

func TestEmailBody(t *testing.T) {
	date := time.Date(2024, time.January, 15, 18, 30, 0, 0, time.UTC)

	body := render.EmailBody("Edificio Alameda 42", date, "")
	for _, want := range []string{
		"Estimado/a,",
		"Edificio: Edificio Alameda 42",
		"Fecha: lunes, 15 de enero de 2024",
		render.DefaultEmailMessage,
		"acta oficial en formato PDF",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q:\n%s", want, body)
		}
	}

	body = render.EmailBody("Edificio Alameda 42", date, "Nota personalizada para la junta.")
	if !strings.Contains(body, "Nota personalizada para la junta.") {
		t.Fatalf("custom message missing:\n%s", body)
	}
	if strings.Contains(body, render.DefaultEmailMessage) {
		t.Fatal("default message should be replaced by the custom note")
	}
}

func TestActaPDF(t *testing.T) {
	signed := time.Date(2024, time.January, 20, 12, 0, 0, 0, time.UTC)
	m := &meeting.Meeting{
		ID:             "abc123",
		BuildingName:   "Edificio Alameda 42",
		AttendeesCount: 12,
		Date:           time.Date(2024, time.January, 15, 18, 30, 0, 0, time.UTC),
		ActaContent:    "### ORDEN DEL DÍA\n\n- Aprobación de cuentas\n- **Presupuesto** anual\n\nSe aprueba por unanimidad.",
		President:      &meeting.Signature{Name: "Ana García", SignedAt: signed},
		Secretary:      &meeting.Signature{Name: "Luis Pérez", SignedAt: signed},
	}

	pdf, err := render.ActaPDF(m)
	if err != nil {
		t.Fatalf("ActaPDF: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatal("output should start with the PDF magic bytes")
	}
	if len(pdf) < 1000 {
		t.Fatalf("suspiciously small document: %d bytes", len(pdf))
	}
}

func TestActaPDFWithoutContent(t *testing.T) {
	m := &meeting.Meeting{
		ID:           "abc123",
		BuildingName: "Edificio Alameda 42",
		Date:         time.Date(2024, time.January, 15, 18, 30, 0, 0, time.UTC),
	}
	pdf, err := render.ActaPDF(m)
	if err != nil {
		t.Fatalf("ActaPDF: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatal("output should start with the PDF magic bytes")
	}
}
