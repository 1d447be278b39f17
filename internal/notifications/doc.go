// Package notifications sends optional push notifications for pipeline
// milestones through ntfy.
package notifications
