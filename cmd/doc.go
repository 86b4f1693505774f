// Package cmd implements the command-line interface for taskcal.
//
// This package provides the following commands:
//   - login, logout, status: session management against the task backend
//   - signup, verify, resend: account registration with OTP confirmation
//   - task: list, add, edit, done and rm subcommands for task management
//   - agenda: the tasks of a single day
//   - calendar: a month overview with per-day completion state
//   - watch: a long-running refresh loop exposing metrics and health probes
//   - version: display version information
//   - generate-docs: generate markdown documentation for all commands
//
// The agenda command is the default when no subcommand is specified.
package cmd
