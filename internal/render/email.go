package render

import (
	"fmt"
	"strings"
	"time"
)

// DefaultEmailMessage is used when the sender does not supply a custom note.
const DefaultEmailMessage = "Adjunto encontrará el acta de la reunión."

// EmailSubject builds the default delivery subject for a building's acta.
func EmailSubject(buildingName string) string {
	return fmt.Sprintf("Acta - %s", buildingName)
}

// EmailBody builds the plain-text delivery body that accompanies the PDF.
func EmailBody(buildingName string, meetingDate time.Time, message string) string {
	if strings.TrimSpace(message) == "" {
		message = DefaultEmailMessage
	}
	var b strings.Builder
	b.WriteString("Estimado/a,\n\n")
	fmt.Fprintf(&b, "Edificio: %s\n", buildingName)
	fmt.Fprintf(&b, "Fecha: %s\n\n", SpanishLongDate(meetingDate))
	b.WriteString(message)
	b.WriteString("\n\n")
	b.WriteString("Adjunto a este correo encontrará el acta oficial en formato PDF.\n")
	b.WriteString("Por favor, revise el documento y confirme su recepción.\n\n")
	b.WriteString("Este es un correo automático generado por Actas.\n")
	return b.String()
}
