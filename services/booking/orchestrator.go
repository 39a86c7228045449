package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"novacuts/metrics"
	"novacuts/models"
	"novacuts/services/square"
)

const (
	genericAvailabilityDetail = "availability error"
	genericBookingDetail      = "booking error"
)

// Orchestrator books one appointment per call: resolve the customer, search
// the appointment window, book the first open slot. It holds no state between
// calls.
type Orchestrator struct {
	scheduler Scheduler
	settings  Settings
	logger    *zap.Logger
}

func NewOrchestrator(scheduler Scheduler, settings Settings, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		scheduler: scheduler,
		settings:  settings,
		logger:    logger,
	}
}

// Book runs the flow for a parsed intent sent from phone. Failures the sender
// should hear about come back as *BookingError; anything else is unexpected.
func (o *Orchestrator) Book(ctx context.Context, phone string, in models.Intent) (*models.Confirmation, error) {
	logger := o.logger.With(zap.String("name", in.Name), zap.Time("start", in.Start))

	customerID, err := o.resolveCustomer(ctx, logger, in.Name, phone)
	if err != nil {
		return nil, err
	}
	logger = logger.With(zap.String("customerID", customerID))

	slot, err := o.firstSlot(ctx, models.NewWindow(in.Start))
	if err != nil {
		logger.Info("no slot to book", zap.Error(err))
		return nil, err
	}

	booked, err := o.book(ctx, customerID, slot)
	if err != nil {
		logger.Warn("booking failed", zap.String("slot", slot.StartAt), zap.Error(err))
		return nil, err
	}

	startAt := booked.StartAt
	if startAt == "" {
		startAt = slot.StartAt
	}
	logger.Info("booked", zap.String("bookingID", booked.ID), zap.String("startAt", startAt))

	return &models.Confirmation{
		BookingID:  booked.ID,
		CustomerID: customerID,
		StartAt:    startAt,
		HumanTime:  HumanTime(startAt),
	}, nil
}

// resolveCustomer finds the sender by phone, or creates them. Some providers
// reject phone formats they don't like, so a failed create is retried once
// without the phone.
func (o *Orchestrator) resolveCustomer(ctx context.Context, logger *zap.Logger, name, phone string) (string, error) {
	if phone != "" {
		var found *square.Customer
		err := o.call(ctx, "search_customer", func(ctx context.Context) error {
			var err error
			found, err = o.scheduler.SearchCustomerByPhone(ctx, phone)
			return err
		})
		switch {
		case err != nil:
			logger.Warn("customer lookup failed, creating instead", zap.Error(err))
		case found != nil:
			return found.ID, nil
		}
	}

	created, err := o.createCustomer(ctx, name, phone)
	if err == nil {
		return created.ID, nil
	}
	if phone == "" {
		return "", &BookingError{Stage: StageCustomer, Detail: "could not create customer", Err: err}
	}

	logger.Warn("create customer with phone failed, retrying without", zap.Error(err))
	created, err = o.createCustomer(ctx, name, "")
	if err != nil {
		return "", &BookingError{Stage: StageCustomer, Detail: "could not create customer", Err: err}
	}
	return created.ID, nil
}

func (o *Orchestrator) createCustomer(ctx context.Context, name, phone string) (*square.Customer, error) {
	var created *square.Customer
	err := o.call(ctx, "create_customer", func(ctx context.Context) error {
		var err error
		created, err = o.scheduler.CreateCustomer(ctx, name, phone)
		return err
	})
	return created, err
}

// firstSlot returns the first slot the provider reports in w. The provider's
// order is kept as is.
func (o *Orchestrator) firstSlot(ctx context.Context, w models.Window) (models.Slot, error) {
	var slots []square.Availability
	err := o.call(ctx, "search_availability", func(ctx context.Context) error {
		var err error
		slots, err = o.scheduler.SearchAvailability(ctx, square.AvailabilityQuery{
			LocationID:         o.settings.LocationID,
			ServiceVariationID: o.settings.ServiceVariationID,
			TeamMemberID:       o.settings.TeamMemberID,
			StartAt:            w.Start,
			EndAt:              w.End,
		})
		return err
	})
	if err != nil {
		if detail, ok := providerDetail(err, genericAvailabilityDetail); ok {
			return models.Slot{}, &BookingError{Stage: StageAvailability, Detail: detail, Err: err}
		}
		return models.Slot{}, fmt.Errorf("search availability: %w", err)
	}
	if len(slots) == 0 {
		return models.Slot{}, &BookingError{Stage: StageNoSlots, Detail: "no open slots"}
	}

	first := slots[0]
	slot := models.Slot{StartAt: first.StartAt}
	if len(first.AppointmentSegments) > 0 {
		slot.ServiceVariationVersion = first.AppointmentSegments[0].ServiceVariationVersion
	}
	return slot, nil
}

func (o *Orchestrator) book(ctx context.Context, customerID string, slot models.Slot) (*square.Booking, error) {
	req := square.Booking{
		LocationID: o.settings.LocationID,
		CustomerID: customerID,
		StartAt:    slot.StartAt,
		AppointmentSegments: []square.AppointmentSegment{{
			TeamMemberID:            o.settings.TeamMemberID,
			ServiceVariationID:      o.settings.ServiceVariationID,
			ServiceVariationVersion: slot.ServiceVariationVersion,
		}},
	}

	var booked *square.Booking
	err := o.call(ctx, "create_booking", func(ctx context.Context) error {
		var err error
		booked, err = o.scheduler.CreateBooking(ctx, req, IdempotencyKey(slot.StartAt))
		return err
	})
	if err != nil {
		if detail, ok := providerDetail(err, genericBookingDetail); ok {
			return nil, &BookingError{Stage: StageBooking, Detail: detail, Err: err}
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}
	return booked, nil
}

// call runs one provider request under its own timeout and records its latency.
func (o *Orchestrator) call(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if o.settings.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.settings.CallTimeout)
		defer cancel()
	}

	start := time.Now()
	err := fn(ctx)
	metrics.ObserveSchedulerCall(op, start, err)
	return err
}

// providerDetail reports whether err was signalled by the provider, and the
// message to show for it.
func providerDetail(err error, fallback string) (string, bool) {
	var apiErr *square.APIError
	if !errors.As(err, &apiErr) {
		return "", false
	}
	if apiErr.Detail != "" {
		return apiErr.Detail, true
	}
	return fallback, true
}
