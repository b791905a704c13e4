package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/fitment_console/internal/apperrors"
	"github.com/SscSPs/fitment_console/internal/core/domain"
	"github.com/SscSPs/fitment_console/internal/dto"
	"github.com/SscSPs/fitment_console/internal/utils/accounting"
)

// mutation applies one state machine operation to a freshly loaded vehicle.
type mutation func(v *domain.Vehicle, now time.Time) (domain.TransitionOutcome, error)

// AdvanceStatus moves the vehicle one step forward. The capability needed depends on
// the step being taken, so it is checked after the vehicle is read but before any write.
// Requesting the current status is a no-op for anyone who can see the vehicle.
func (s *VehicleService) AdvanceStatus(ctx context.Context, scope domain.TenantScope, vehicleID string, target domain.VehicleStatus) (*domain.Vehicle, error) {
	return s.mutate(ctx, scope, vehicleID, "advance_status", func(v *domain.Vehicle, now time.Time) (domain.TransitionOutcome, error) {
		if target == v.Status {
			return v.Advance(target, now)
		}
		if capability, ok := domain.TransitionCapability(v.Status); ok {
			if err := s.Authorize(ctx, scope, capability); err != nil {
				return domain.TransitionOutcome{From: v.Status, To: v.Status}, err
			}
		}
		return v.Advance(target, now)
	})
}

// SetProductCompletion marks one product done or undone and re-evaluates the
// installation guard.
func (s *VehicleService) SetProductCompletion(ctx context.Context, scope domain.TenantScope, vehicleID string, index int, done bool) (*domain.Vehicle, error) {
	if err := s.Authorize(ctx, scope, domain.CapToggleProductCompletion); err != nil {
		return nil, err
	}
	return s.mutate(ctx, scope, vehicleID, "toggle_product", func(v *domain.Vehicle, now time.Time) (domain.TransitionOutcome, error) {
		return v.SetProductCompletion(index, done, now)
	})
}

// SetInvoiceNumber records the invoice number issued for the vehicle.
func (s *VehicleService) SetInvoiceNumber(ctx context.Context, scope domain.TenantScope, vehicleID string, invoiceNumber string) (*domain.Vehicle, error) {
	if err := s.Authorize(ctx, scope, domain.CapSetInvoiceNumber); err != nil {
		return nil, err
	}
	return s.mutate(ctx, scope, vehicleID, "set_invoice_number", func(v *domain.Vehicle, _ time.Time) (domain.TransitionOutcome, error) {
		return v.SetInvoiceNumber(invoiceNumber)
	})
}

// RecordDiscount validates the amount against the current gross total and stores the
// discount with its derived percentage.
func (s *VehicleService) RecordDiscount(ctx context.Context, scope domain.TenantScope, vehicleID string, req dto.RecordDiscountRequest) (*domain.Vehicle, error) {
	if err := s.Authorize(ctx, scope, domain.CapRecordDiscount); err != nil {
		return nil, err
	}
	return s.mutate(ctx, scope, vehicleID, "record_discount", func(v *domain.Vehicle, now time.Time) (domain.TransitionOutcome, error) {
		out := domain.TransitionOutcome{From: v.Status, To: v.Status}
		if err := v.DiscountPrecondition(); err != nil {
			return out, err
		}
		gross := accounting.ComputeGrossTotal(v.Products)
		if err := accounting.ValidateDiscount(gross, req.Amount); err != nil {
			return out, err
		}
		_, record := accounting.ApplyDiscount(gross, &domain.DiscountRecord{
			Amount:        req.Amount,
			OfferedByID:   scope.ActorID,
			OfferedByName: scope.ActorName,
			Reason:        req.Reason,
			RecordedAt:    now,
		})
		if err := v.RecordDiscount(*record); err != nil {
			return out, err
		}
		out.Changed = true
		return out, nil
	})
}

// mutate runs the read-apply-write cycle. Vehicles in a status the role cannot see are
// refused like GetVehicle refuses them. The write is guarded by tenant and version;
// on a version conflict the whole cycle is repeated against the fresh row, so
// concurrent edits of different fields are never lost. Events are published only
// after the write succeeded.
func (s *VehicleService) mutate(ctx context.Context, scope domain.TenantScope, vehicleID, operation string, apply mutation) (*domain.Vehicle, error) {
	for attempt := 1; ; attempt++ {
		vehicle, err := s.loadOwned(ctx, scope, vehicleID)
		if err != nil {
			return nil, err
		}
		if !domain.CanSeeStatus(scope, vehicle.Status) {
			return nil, fmt.Errorf("%w: vehicles in status %s are not visible to role %s", apperrors.ErrForbidden, vehicle.Status, scope.Role)
		}

		now := time.Now()
		expectedVersion := vehicle.Version
		outcome, err := apply(vehicle, now)
		if err != nil {
			s.LogDebug(ctx, "Vehicle operation rejected",
				slog.String("operation", operation),
				slog.String("vehicle_id", vehicleID),
				slog.String("error", err.Error()))
			return nil, err
		}
		if !outcome.Changed {
			return vehicle, nil
		}

		vehicle.Version = expectedVersion + 1
		vehicle.LastUpdatedAt = now
		vehicle.LastUpdatedBy = scope.ActorID

		err = s.vehicleRepo.UpdateVehicle(ctx, scope.RecordFilter(), *vehicle, expectedVersion)
		if err == nil {
			s.afterCommit(ctx, vehicle, outcome)
			return vehicle, nil
		}
		if !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to update vehicle",
				slog.String("operation", operation),
				slog.String("vehicle_id", vehicleID))
			return nil, err
		}

		s.Metrics.RecordConflict(operation)
		if attempt >= s.maxRetries {
			s.LogWarn(ctx, "Giving up after repeated version conflicts",
				slog.String("operation", operation),
				slog.String("vehicle_id", vehicleID),
				slog.Int("attempts", attempt))
			return nil, fmt.Errorf("%w: vehicle %s was modified concurrently, please retry", apperrors.ErrConflict, vehicleID)
		}
		s.LogDebug(ctx, "Version conflict, retrying",
			slog.String("operation", operation),
			slog.String("vehicle_id", vehicleID),
			slog.Int("attempt", attempt))
	}
}

func (s *VehicleService) afterCommit(ctx context.Context, vehicle *domain.Vehicle, outcome domain.TransitionOutcome) {
	if outcome.StatusChanged() {
		s.Metrics.RecordTransition(string(outcome.From), string(outcome.To))
		s.LogInfo(ctx, "Vehicle status changed",
			slog.String("vehicle_id", vehicle.VehicleID),
			slog.String("from", string(outcome.From)),
			slog.String("to", string(outcome.To)))
	}
	if s.publisher == nil {
		return
	}
	snapshot := domain.SnapshotOf(vehicle)
	for _, event := range outcome.Events {
		s.publisher.Publish(ctx, event, snapshot)
	}
}
