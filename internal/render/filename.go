package render

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// AttachmentFilename builds the canonical acta attachment name,
// Acta_{building}_{id}.pdf, with whitespace collapsed to underscores and
// accents folded so the name survives every mail client.
func AttachmentFilename(buildingName, meetingID string) string {
	name := strings.TrimSpace(buildingName)
	if folded, _, err := transform.String(accentFolder, name); err == nil {
		name = folded
	}
	name = whitespaceRun.ReplaceAllString(name, "_")
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '_' || r == '-':
			return r
		default:
			return -1
		}
	}, name)
	if name == "" {
		name = "Acta"
	}
	return fmt.Sprintf("Acta_%s_%s.pdf", name, meetingID)
}
