package sexpr

import (
	"io"
	"log/slog"
	"os"
)

// logWriter is where the package logger writes; a var so tests can
// redirect it.
var logWriter io.Writer = os.Stderr

// debugEnvVar raises the logger from Info to Debug when set to any
// non-empty value, mirroring the teacher's DEVCMD_DEBUG_LEXER idiom.
const debugEnvVar = "SEXPR_DEBUG"

func debugLevel() slog.Level {
	if os.Getenv(debugEnvVar) != "" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
