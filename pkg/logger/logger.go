// Package logger provides the structured logger used across the service.
// It is a *slog.Logger whose handler is a charmbracelet/log logger.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

type Logger struct {
	*slog.Logger
}

// Options controls the handler. Zero values fall back to info level, text
// output and stderr.
type Options struct {
	Level      string
	Format     string
	TimeFormat string
	Prefix     string
	Output     io.Writer
}

// NewLogger returns a text logger on stderr at the given level.
func NewLogger(level string) *Logger {
	return New(Options{Level: level})
}

func New(opts Options) *Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	timeFormat := opts.TimeFormat
	if timeFormat == "" {
		timeFormat = "2006-01-02 15:04:05"
	}

	handler := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		TimeFormat:      timeFormat,
		Level:           parseLevel(opts.Level),
		Prefix:          opts.Prefix,
		Formatter:       parseFormatter(opts.Format),
	})
	handler.SetStyles(styles())

	return &Logger{Logger: slog.New(handler)}
}

// NewNop discards everything. Used by tests.
func NewNop() *Logger {
	return New(Options{Output: io.Discard, Level: "error"})
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

func parseLevel(level string) log.Level {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

func parseFormatter(format string) log.Formatter {
	switch strings.ToLower(format) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

func styles() *log.Styles {
	s := log.DefaultStyles()

	errorColor := lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF6B6B"}
	warnColor := lipgloss.AdaptiveColor{Light: "#EE6FF8", Dark: "#EE6FF8"}
	infoColor := lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}
	debugColor := lipgloss.AdaptiveColor{Light: "#7E57C2", Dark: "#7E57C2"}

	s.Levels[log.ErrorLevel] = lipgloss.NewStyle().SetString("ERROR").Bold(true).Foreground(errorColor)
	s.Levels[log.WarnLevel] = lipgloss.NewStyle().SetString("WARN").Bold(true).Foreground(warnColor)
	s.Levels[log.InfoLevel] = lipgloss.NewStyle().SetString("INFO").Bold(true).Foreground(infoColor)
	s.Levels[log.DebugLevel] = lipgloss.NewStyle().SetString("DEBUG").Bold(true).Foreground(debugColor)

	s.Keys["error"] = lipgloss.NewStyle().Foreground(errorColor)
	s.Values["error"] = lipgloss.NewStyle().Bold(true)
	s.Keys["session"] = lipgloss.NewStyle().Foreground(debugColor)

	return s
}
