// Package log provides redacting logging functionality built on top of the
// standard slog package.
//
// Form definitions can carry output settings such as notification API keys,
// webhook URLs and recipient email addresses, and page content can be long
// HTML. The RedactingHandler keeps both out of log output:
//   - Values under sensitive keys (api keys, tokens, webhooks, emails) are masked
//   - Values that look like secrets or email addresses are masked regardless of key
//   - Long string values are truncated to MaxValueLength runes
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//	logger.Debug("output configured",
//	    "webhookUrl", "https://example.com/hook", // masked
//	    "form", "Boat registration",
//	)
//	slog.SetDefault(logger)
package log
