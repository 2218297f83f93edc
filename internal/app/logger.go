package app

import (
	"log/slog"
	"os"

	"github.com/dinosandi/Mobile-Driver/internal/logx"
)

func NewLogger() logx.Logger {
	level := slog.LevelWarn
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	base := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	return logx.NewSlogAdapter(base)
}
