package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/fitment_console/internal/core/domain"
	portssvc "github.com/SscSPs/fitment_console/internal/core/ports/services"
)

// AsyncDispatcher publishes events to the gateway on background goroutines. The write
// that produced an event has already committed, so a failing or slow gateway can never
// roll it back or delay the response.
type AsyncDispatcher struct {
	BaseService
	gateway portssvc.NotificationGateway
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewAsyncDispatcher creates a dispatcher whose deliveries are bounded by timeout.
func NewAsyncDispatcher(gateway portssvc.NotificationGateway, timeout time.Duration) *AsyncDispatcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &AsyncDispatcher{gateway: gateway, timeout: timeout}
}

var _ portssvc.NotificationPublisher = (*AsyncDispatcher)(nil)

// Publish implements portssvc.NotificationPublisher. The request's cancellation is
// dropped but its values (logger, request id) are kept.
func (d *AsyncDispatcher) Publish(ctx context.Context, event domain.EventType, snapshot domain.VehicleSnapshot) {
	dispatchCtx := context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.LogError(dispatchCtx, fmt.Errorf("panic: %v", r), "Notification dispatch panicked",
					slog.String("event", string(event)))
			}
		}()

		timeoutCtx, cancel := context.WithTimeout(dispatchCtx, d.timeout)
		defer cancel()

		if _, err := d.gateway.Notify(timeoutCtx, event, snapshot); err != nil {
			d.LogError(timeoutCtx, err, "Notification dispatch failed",
				slog.String("event", string(event)),
				slog.String("vehicle_id", snapshot.VehicleID))
		}
	}()
}

// Wait blocks until every published event has been handled.
func (d *AsyncDispatcher) Wait() {
	d.wg.Wait()
}
