// Package diag is the small structured-logging wrapper used across this
// module, grounded on the teacher's own plain stdlib `log` usage (see
// internal/git/frequency_provider.go, internal/search/engine.go): no
// example repo imports a third-party logger directly (go.uber.org/zap
// appears only as an indirect, transitively-pulled dependency of one
// pack repo's MCP SDK, never called from that repo's own code), so
// stdlib log/slog carries the concern here instead of inventing a
// dependency the corpus doesn't actually exercise.
package diag

import (
	"log/slog"
	"os"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

// SetLevel adjusts the minimum level emitted (slog.LevelDebug turns on
// Debugf output).
func SetLevel(level slog.Level) {
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func Debugf(msg string, args ...any) { logger.Debug(msg, args...) }
func Infof(msg string, args ...any)  { logger.Info(msg, args...) }
func Warnf(msg string, args ...any)  { logger.Warn(msg, args...) }
func Errorf(msg string, args ...any) { logger.Error(msg, args...) }

// ParseFailure logs a per-file parse error: the file is
// skipped and a warning logged, the engine continues.
func ParseFailure(path string, err error) {
	logger.Warn("parse failed, skipping file", "path", path, "error", err)
}

// CacheDegraded logs a cache I/O error demoted to a warning; analysis
// proceeds without the cache.
func CacheDegraded(err error) {
	logger.Warn("cache unavailable, proceeding without it", "error", err)
}

// GitDegraded logs a git error demoted to "churn unavailable".
func GitDegraded(err error) {
	logger.Warn("churn unavailable", "error", err)
}
