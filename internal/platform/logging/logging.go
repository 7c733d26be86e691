package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/go-chi/httplog/v3"
)

// Schema is the field layout shared by application and access logs.
var Schema = httplog.SchemaECS

// New builds a JSON logger shaped by the ECS schema.
func New(w io.Writer, level, env string) *slog.Logger {
	format := Schema.Concise(env != "production")
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       ParseLevel(level),
		ReplaceAttr: format.ReplaceAttr,
	})
	return slog.New(handler).With(slog.String("app", "payroll"), slog.String("env", env))
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// AccessLogOptions configures httplog.RequestLogger.
func AccessLogOptions(level string) *httplog.Options {
	return &httplog.Options{
		Level:  ParseLevel(level),
		Schema: Schema,
	}
}
