// Package logging provides structured logging for the mini chat client and relay.
//
// This package wraps a global zap logger with convenience functions for the
// logging patterns used throughout the repository, plus a few chat-specific
// helpers for the transport and relay.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (raw frames, message bodies, dropped keys)
//   - Info: Normal operations (connections, joins, shutdown)
//   - Warn: Non-fatal issues (undecodable frames, failed sends)
//   - Error: Fatal issues (startup failures, listener errors)
//
// # Structured Logging
//
// All log functions use structured fields:
//
//	logging.Info("Joined channels",
//	    zap.String("nick", "program"),
//	    zap.Strings("channels", []string{"#mini", "#rust"}),
//	)
//
// # Specialized Logging
//
// Connection Logging:
//
//	logging.LogConnection(remoteAddr, "websocket_upgraded")
//	logging.LogConnection(remoteAddr, "websocket_closed")
//
// Chat Message Logging (bodies are only included at debug level):
//
//	logging.LogChatMessage("sent", "#mini", text)
//
// # Configuration
//
// Logging is silent unless a level is passed to Initialize or MINI_LOG_LEVEL
// is set. The chat client owns the terminal, so it logs to a file:
//
//	if err := logging.Initialize("debug", "/home/me/.config/mini/mini.log"); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// The relay logs to stdout in console format.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. Initialize and SetLogger
// are meant to be called once during startup.
package logging
