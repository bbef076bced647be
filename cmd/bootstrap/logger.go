package bootstrap

import (
	"log/slog"

	"tablebook/internal/handler/middleware"
	"tablebook/internal/pkg/config"

	"go.uber.org/fx"
)

var LoggerModule = fx.Module("logger",
	fx.Provide(
		NewLogger,
	),
)

// NewLogger hands out the handler-layer logger so fx consumers and the
// HTTP middleware share one slog configuration.
func NewLogger(cfg config.Config) *slog.Logger {
	return middleware.NewLogger(cfg.Log).GetSlogLogger()
}
