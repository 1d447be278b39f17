// Package drafter generates formal acta content from meeting transcripts via
// an OpenAI-compatible chat completion API.
package drafter
