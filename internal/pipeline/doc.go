// Package pipeline orchestrates the acta document flow: transcription,
// drafting, signature capture, delivery, and export.
package pipeline
