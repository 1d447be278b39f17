// Package services defines the shared error taxonomy for collaborator
// clients and orchestrators, plus the Wrap helper used to attach
// component/operation context to failures.
//
// Subpackages hold the collaborator clients themselves: transcriber
// (speech-to-text), drafter (LLM acta generation), and mailer (SMTP
// delivery).
package services
