// Package logger wraps zerolog for application-wide structured logging.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type Logger struct {
	*zerolog.Logger
}

type Config struct {
	Level  string // debug, info, warn, error
	Pretty bool   // console output for development
}

func New(cfg Config) *Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var output io.Writer = os.Stdout
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	}

	l := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &Logger{Logger: &l}
}

func NewDefault() *Logger {
	return New(Config{Level: "info", Pretty: true})
}

// Nop returns a logger that discards everything, for tests.
func Nop() *Logger {
	l := zerolog.Nop()
	return &Logger{Logger: &l}
}

// WithComponent returns a logger tagged with a component field.
func (l *Logger) WithComponent(component string) *Logger {
	nl := l.With().Str("component", component).Logger()
	return &Logger{Logger: &nl}
}
