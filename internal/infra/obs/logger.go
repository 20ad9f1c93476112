package obs

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

const serviceName = "innkeep"

// NewLogger builds the process logger. Development environments get tinted
// console output at debug level; everything else emits JSON lines for log
// ingestion. Every record carries the service and environment.
func NewLogger(env string) *slog.Logger {
	var handler slog.Handler
	switch env {
	case "dev", "local", "test":
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.TimeOnly,
		})
	default:
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return slog.New(handler).With("service", serviceName, "env", env)
}
