// Package logger sets up zerolog for the game. The terminal belongs to the
// frontend, so logs go to a file.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup points the global logger at path and returns the file so the caller
// can close it. An empty path logs to stderr.
func Setup(path, level string) (io.Closer, error) {
	var out io.WriteCloser = nopCloser{os.Stderr}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, err
		}
		out = f
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	SetLevel(level)
	return out, nil
}

// SetLevel changes the global level. Unknown names fall back to info.
func SetLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		log.Warn().Str("level", level).Msg("unknown log level, using info")
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

// Component returns a child logger tagged with name.
func Component(name string) zerolog.Logger {
	return log.Logger.With().Str("component", name).Logger()
}

// Gin logs one line per request.
func Gin() gin.HandlerFunc {
	l := Component("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ev := l.Debug()
		if c.Writer.Status() >= 500 {
			ev = l.Error()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
