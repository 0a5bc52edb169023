// Package logger provides a structured logging interface for the crawler.
//
// It wraps the zerolog library with a small API:
// - Levels: debug, info, warn, error (and "disabled")
// - Structured logging with fields
// - Console output on stderr, colourised only when attached to a terminal
// - Optional JSON-lines file output next to the console
// - A global logger instance for easy access
//
// Basic Usage:
//
//	err := logger.Initialize(&cfg.Logging)
//	logger.Info("crawl started")
//	logger.WithField("post", postURL).Info("post done")
//
// Components receive a Logger explicitly and scope it:
//
//	log := logger.GetLogger().WithField("component", "downloader")
//	log.DebugWithFields("image written", map[string]interface{}{
//	    "file": "0001.jpg",
//	    "size": 1024000,
//	})
//
// Tests use NewTestLogger to capture messages or NewNopLogger to drop them.
package logger
