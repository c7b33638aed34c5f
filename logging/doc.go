// Package logging provides a minimal logging interface and adapters for npclink.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn,
// Error) that the stream session and HTTP clients use for observability. This
// package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	lib, err := npclink.New(cfg, func(o *npclink.Options) { o.Logger = logger })
//
// The design intentionally keeps the interface minimal so the SDK never
// imposes a logging backend on host applications.
package logging
