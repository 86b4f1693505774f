// Package schedule contains the pure decision logic for calendar-bound
// tasks: candidate validation for create and edit, day-level status
// classification for calendar display, the completion-gated deletion
// rule, and ordering helpers.
//
// Nothing in this package performs I/O. All functions take the current
// task list and, where relevant, the current time explicitly, so every
// rule is deterministic and testable without a network or a clock.
package schedule
