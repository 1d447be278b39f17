// Package meeting persists acta meetings in SQLite and exposes helpers for
// driving their lifecycle.
//
// The Store manages database connections, schema initialization, owner-scoped
// CRUD, and the status transitions that move a meeting from recording through
// processing and review to sent. Every status-changing write goes through a
// conditional update guarded by the transition table in transitions.go; raw
// status assignment is never persisted.
package meeting
