package notify

import (
	"context"
	"log/slog"

	portssvc "github.com/SscSPs/fitment_console/internal/core/ports/services"
	"github.com/SscSPs/fitment_console/internal/middleware"
)

// LogTransport writes messages to the request logger instead of delivering them. It is
// the default for local development.
type LogTransport struct{}

// NewLogTransport creates a LogTransport.
func NewLogTransport() *LogTransport {
	return &LogTransport{}
}

var _ portssvc.NotificationTransport = (*LogTransport)(nil)

func (LogTransport) Send(ctx context.Context, address, message string) error {
	middleware.GetLoggerFromCtx(ctx).Info("Notification (log transport)",
		slog.String("address", address),
		slog.String("message", message))
	return nil
}
