package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Setup initializes the logger. The TUI owns the terminal, so log
// output goes to the file at path; an empty path or an unopenable file
// silently discards output rather than corrupting the screen.
func Setup(path, level string) zerolog.Logger {
	var writer io.Writer = io.Discard

	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			writer = f
		}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(writer).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}
