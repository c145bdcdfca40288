// Package logging provides structured logging for the artesanato client.
//
// This package wraps zap logger with convenience functions for the logging
// patterns used throughout the client: API traffic, submission state changes
// and session store events.
//
// # Log Levels
//
//   - Debug: request URLs, state machine transitions
//   - Info: API responses, session writes
//   - Warn: recoverable issues (discovery fallback, failed cleanup)
//   - Error: failures surfaced to the user
//
// # Silent by Default
//
// Logging is disabled unless ARTESANATO_LOG_LEVEL (or the --log-level flag)
// is set. The interactive TUI draws on the terminal, so while it runs entries
// go to ARTESANATO_LOG_FILE, or to artesanato.log in the config directory:
//
//	ARTESANATO_LOG_LEVEL=debug ARTESANATO_LOG_FILE=/tmp/artesanato.log artesanato
//
// # Usage
//
//	if err := logging.Initialize("debug"); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
//	logging.LogResponse("POST", url, 201, elapsed)
package logging
