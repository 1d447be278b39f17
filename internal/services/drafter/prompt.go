package drafter

import (
	"fmt"
	"strings"

	"actas/internal/meeting"
	"actas/internal/render"
)

const actaSystemPrompt = "Eres un experto en redacción de actas oficiales de comunidades de vecinos en España."

// BuildActaPrompt assembles the drafting prompt from meeting facts and the
// flattened transcript.
func BuildActaPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("Eres un secretario profesional de comunidades de vecinos en España.\n")
	b.WriteString("Genera un acta oficial de reunión basada en la siguiente transcripción.\n\n")
	b.WriteString("INFORMACIÓN DE LA REUNIÓN:\n")
	fmt.Fprintf(&b, "- Comunidad: %s\n", req.BuildingName)
	fmt.Fprintf(&b, "- Fecha: %s\n", render.SpanishLongDate(req.Date))
	fmt.Fprintf(&b, "- Asistentes: %d personas\n\n", req.AttendeesCount)
	b.WriteString("TRANSCRIPCIÓN:\n")
	b.WriteString(FlattenTranscript(req.Transcript))
	b.WriteString("\n\n")
	b.WriteString("Por favor, genera un acta formal en español con el siguiente formato:\n")
	b.WriteString("1. Encabezado con lugar, fecha y hora\n")
	b.WriteString("2. Lista de asistentes (si se mencionan)\n")
	b.WriteString("3. Orden del día (puntos tratados)\n")
	b.WriteString("4. Desarrollo de la sesión con los acuerdos alcanzados\n")
	b.WriteString("5. Cierre con hora de finalización\n\n")
	b.WriteString("El acta debe ser profesional, clara y respetar el formato oficial español para actas de comunidades de propietarios.")
	return b.String()
}

// FlattenTranscript renders segments one per line as "[timestamp] speaker: text".
func FlattenTranscript(segments []meeting.Segment) string {
	lines := make([]string, 0, len(segments))
	for _, seg := range segments {
		speaker := ""
		if seg.Speaker != "" {
			speaker = seg.Speaker + ": "
		}
		lines = append(lines, fmt.Sprintf("[%s] %s%s", seg.Timestamp, speaker, seg.Text))
	}
	return strings.Join(lines, "\n")
}

