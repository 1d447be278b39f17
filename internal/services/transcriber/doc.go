// Package transcriber converts recorded meeting audio to timestamped text
// through a Whisper-compatible transcription API.
package transcriber
