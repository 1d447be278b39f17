// Package render produces the outward-facing artifacts of an acta: the A4
// PDF document, the delivery email text, and attachment filenames.
package render
