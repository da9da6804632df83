// Package pkg provides shared utilities for the softi2c slave stack.
//
// This package contains common functionality used across the slave core,
// the simulated peripheral, and the command-line tools, including:
//
//   - Structured logging via Go's standard [log/slog] package
//   - Sentinel error types and the [Status] transfer status enum
//   - Component identifiers for log filtering
//
// The package is designed to have zero external dependencies, relying
// only on the Go standard library.
//
// # Logging
//
// The logging subsystem wraps [log/slog] with driver-specific context:
//
//	pkg.SetLogLevel(slog.LevelDebug)
//	pkg.LogInfo(pkg.ComponentSlave, "packet job armed", "len", 8)
//
// # Errors
//
// Common driver errors are defined as sentinel values:
//
//	if errors.Is(err, pkg.ErrBusy) {
//	    // A job is already in flight; retry after completion
//	}
//
// A [Status] value mirrors the sentinel set for code that tracks the
// module state rather than a single call result.
package pkg
