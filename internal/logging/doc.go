// Package logging builds the slog loggers used across the daemon and CLI.
//
// It provides a console handler for interactive use, JSON output for log
// shipping, multi-destination writers (stdout plus the configured log file),
// and standardized attribute keys so queue records can be traced through
// submission, polling, and canvas reconciliation.
package logging
