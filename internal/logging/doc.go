// Package logging provides structured logging utilities for the taskcal
// application.
//
// This package centralizes logging patterns to ensure consistent,
// structured logging throughout the codebase using the standard
// library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - PII sanitization (email anonymization)
//   - Consistent attribute naming across the codebase
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "task.create")
//	logger.Info("task created",
//	    logging.Status("success"))
//
// Sanitize sensitive data before logging:
//
//	logger.Info("login",
//	    logging.UserHash(email))
//
// # Security Considerations
//
//   - User emails are hashed to prevent PII leakage while allowing correlation
//   - Session tokens and cookies are never logged directly
package logging
