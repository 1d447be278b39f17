package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"actas/internal/meeting"
	"actas/internal/services"
)

const (
	pageMargin    = 20.0
	bodyFontSize  = 11.0
	titleFontSize = 24.0
	labelFontSize = 8.0
)

// ActaPDF renders a meeting into the official A4 acta layout and returns the
// document bytes.
func ActaPDF(m *meeting.Meeting) ([]byte, error) {
	if m == nil {
		return nil, services.Wrap(services.ErrValidation, "render", "acta pdf", "meeting required", nil)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageWidth, _ := pdf.GetPageSize()
	contentWidth := pageWidth - 2*pageMargin

	// Header
	pdf.SetFont("Times", "", labelFontSize)
	pdf.SetTextColor(156, 163, 175)
	pdf.CellFormat(contentWidth, 5, tr(fmt.Sprintf("ACTA OFICIAL NO. %s", m.ID)), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Times", "B", titleFontSize)
	pdf.SetTextColor(26, 26, 26)
	pdf.CellFormat(contentWidth, 10, tr("ACTA DE REUNIÓN"), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	dividerHalf := 24.0
	center := pageWidth / 2
	pdf.SetDrawColor(26, 26, 26)
	pdf.SetLineWidth(0.6)
	pdf.Line(center-dividerHalf, pdf.GetY(), center+dividerHalf, pdf.GetY())
	pdf.Ln(12)

	// Meeting info
	pdf.SetFont("Times", "", bodyFontSize)
	info := fmt.Sprintf(
		"En %s, a %s, siendo las %s horas, se reúne el comité de administración del Edificio %s.",
		m.BuildingName, SpanishLongDate(m.Date), m.Date.Format("15:04"), m.BuildingName,
	)
	pdf.MultiCell(contentWidth, 7, tr(info), "", "J", false)
	pdf.Ln(8)

	// Attendees box
	if m.AttendeesCount > 0 {
		boxY := pdf.GetY()
		pdf.SetFillColor(249, 250, 251)
		pdf.SetDrawColor(229, 231, 235)
		pdf.SetLineWidth(0.2)
		pdf.Rect(pageMargin, boxY, contentWidth, 22, "FD")
		pdf.SetXY(pageMargin+6, boxY+5)
		pdf.SetFont("Times", "B", labelFontSize)
		pdf.SetTextColor(107, 114, 128)
		pdf.CellFormat(contentWidth-12, 4, "ASISTENTES", "", 1, "L", false, 0, "")
		pdf.SetX(pageMargin + 6)
		pdf.SetFont("Times", "", 10)
		pdf.SetTextColor(55, 65, 81)
		pdf.CellFormat(contentWidth-12, 6, tr(fmt.Sprintf("Total de asistentes: %d personas.", m.AttendeesCount)), "", 1, "L", false, 0, "")
		pdf.SetY(boxY + 22)
		pdf.Ln(8)
	}

	// Body
	pdf.SetTextColor(26, 26, 26)
	content := strings.TrimSpace(m.ActaContent)
	if content == "" {
		content = "Contenido del acta no disponible."
	}
	writeActaBody(pdf, tr, contentWidth, content)

	// Signatures
	pdf.Ln(16)
	if pdf.GetY() > 230 {
		pdf.AddPage()
	}
	sigTop := pdf.GetY() + 6
	pdf.SetDrawColor(209, 213, 219)
	pdf.SetLineWidth(0.4)
	pdf.Line(pageMargin, sigTop, pageWidth-pageMargin, sigTop)

	blockWidth := contentWidth * 0.4
	leftX := pageMargin + contentWidth*0.05
	rightX := pageMargin + contentWidth*0.55
	blockY := sigTop + 10

	drawSignatureBlock(pdf, tr, leftX, blockY, blockWidth, "FIRMA PRESIDENTE", m.President, m.ID+"-president")
	drawSignatureBlock(pdf, tr, rightX, blockY, blockWidth, "FIRMA SECRETARIA", m.Secretary, m.ID+"-secretary")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// writeActaBody renders drafted content, honoring "###" headings, list
// markers, and **bold** spans.
func writeActaBody(pdf *fpdf.Fpdf, tr func(string) string, width float64, content string) {
	for _, rawLine := range strings.Split(content, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			pdf.Ln(4)
			continue
		}
		if heading, ok := strings.CutPrefix(line, "###"); ok {
			pdf.Ln(2)
			pdf.SetFont("Times", "B", 14)
			pdf.MultiCell(width, 7, tr(strings.TrimSpace(heading)), "", "L", false)
			pdf.SetFont("Times", "", bodyFontSize)
			pdf.Ln(1)
			continue
		}
		if item, ok := cutListMarker(line); ok {
			pdf.SetX(pageMargin + 5)
			writeStyledLine(pdf, tr, width-5, "- "+item)
			continue
		}
		writeStyledLine(pdf, tr, width, line)
	}
}

func cutListMarker(line string) (string, bool) {
	for _, marker := range []string{"- ", "* ", "• "} {
		if item, ok := strings.CutPrefix(line, marker); ok {
			return strings.TrimSpace(item), true
		}
	}
	return "", false
}

// writeStyledLine writes one paragraph line, toggling bold at ** markers.
func writeStyledLine(pdf *fpdf.Fpdf, tr func(string) string, width float64, line string) {
	parts := strings.Split(line, "**")
	if len(parts) == 1 {
		pdf.MultiCell(width, 7, tr(line), "", "J", false)
		return
	}
	pdf.SetFont("Times", "", bodyFontSize)
	for i, part := range parts {
		if part == "" {
			continue
		}
		if i%2 == 1 {
			pdf.SetFont("Times", "B", bodyFontSize)
		} else {
			pdf.SetFont("Times", "", bodyFontSize)
		}
		pdf.Write(7, tr(part))
	}
	pdf.SetFont("Times", "", bodyFontSize)
	pdf.Ln(7)
}

// drawSignatureBlock renders one signer slot: the captured signature image and
// name when present, a blank line otherwise.
func drawSignatureBlock(pdf *fpdf.Fpdf, tr func(string) string, x, y, width float64, label string, sig *meeting.Signature, imageName string) {
	lineY := y + 24
	if sig != nil {
		if png := decodeSignatureImage(sig.Image); png != nil {
			opts := fpdf.ImageOptions{ImageType: "PNG"}
			pdf.RegisterImageOptionsReader(imageName, opts, bytes.NewReader(png))
			pdf.ImageOptions(imageName, x+width/2-20, y, 40, 20, false, opts, 0, "")
		}
	}
	pdf.SetDrawColor(156, 163, 175)
	pdf.SetLineWidth(0.4)
	pdf.Line(x, lineY, x+width, lineY)

	textY := lineY + 3
	if sig != nil && sig.Name != "" {
		pdf.SetXY(x, textY)
		pdf.SetFont("Times", "", 10)
		pdf.SetTextColor(26, 26, 26)
		pdf.CellFormat(width, 5, tr(sig.Name), "", 1, "C", false, 0, "")
		textY += 5
	}
	pdf.SetXY(x, textY)
	pdf.SetFont("Times", "B", labelFontSize)
	pdf.SetTextColor(107, 114, 128)
	pdf.CellFormat(width, 4, label, "", 1, "C", false, 0, "")
}

// decodeSignatureImage accepts either a raw base64 PNG or a data URL and
// returns the decoded bytes, or nil when the payload is unusable.
func decodeSignatureImage(image string) []byte {
	image = strings.TrimSpace(image)
	if image == "" {
		return nil
	}
	if idx := strings.Index(image, "base64,"); idx >= 0 {
		image = image[idx+len("base64,"):]
	}
	decoded, err := base64.StdEncoding.DecodeString(image)
	if err != nil {
		return nil
	}
	return decoded
}
