// Package logging provides structured logging utilities for the mcp-chaos application.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - Host/URL sanitization for security
//   - Consistent attribute naming across the codebase
//   - An adapter bridging *slog.Logger to the narrow logger interfaces used by
//     the gateway and server packages
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "chaos.kill")
//	logger.Info("executing kill command",
//	    logging.Namespace("default"),
//	    logging.Pod("web-0"),
//	    logging.Container("app"))
//
// Sanitize sensitive data before logging:
//
//	logger.Error("list pods failed", logging.SanitizedErr(err))
//
// # Security Considerations
//
// Kubernetes API errors frequently embed the API server address. Hosts and
// errors logged through this package have IP addresses redacted to prevent
// cluster topology leakage.
package logging
