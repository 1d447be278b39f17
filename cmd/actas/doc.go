// Command actas manages community meeting minutes: record metadata,
// transcribe audio, draft the acta, capture signatures, and deliver the
// signed PDF.
package main
