// Package diag defines the diagnostic model shared by every checking phase:
// severities, stable error codes, spans with secondary notes and optional
// quick-fix edits, plus the Bag collector and the Reporter contract.
//
// Diagnostics are collected, not fail-fast: a phase keeps checking sibling
// declarations after a local error so one pass surfaces as many independent
// problems as possible.
package diag
