// Package output renders command results for people and for scripts.
//
// A Printer writes styled text when attached to a terminal and plain text
// otherwise; with JSON mode enabled every result is a single JSON document.
// Errors carry an exit code:
//
//	output.ExitUserError   // 1: bad input, unknown trigger, inconsistent versions
//	output.ExitSystemError // 2: I/O failure, external tool failed
//	output.ExitConflict    // 3: project directory already exists
package output
