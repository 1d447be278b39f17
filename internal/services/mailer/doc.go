// Package mailer delivers finalized actas to owner mailboxes over SMTP.
package mailer
