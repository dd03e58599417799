// Package log provides secure logging with automatic sanitization of
// model-service credentials, built on top of the standard slog package.
//
// The analyzer receives API keys per run and passes them through several
// components; the SecureHandler guarantees that a key logged by accident
// (for example inside a dumped request header) is masked before emission,
// even in verbose mode.
//
// Usage:
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Info("model call", "api_key", key) // key is masked
//	slog.SetDefault(logger)
package log
