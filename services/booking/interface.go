package booking

import (
	"context"
	"time"

	"novacuts/services/square"
)

// Scheduler is the scheduling provider the orchestrator drives.
// *square.Client satisfies it.
type Scheduler interface {
	SearchCustomerByPhone(ctx context.Context, phone string) (*square.Customer, error)
	CreateCustomer(ctx context.Context, givenName, phone string) (*square.Customer, error)
	SearchAvailability(ctx context.Context, q square.AvailabilityQuery) ([]square.Availability, error)
	CreateBooking(ctx context.Context, b square.Booking, idempotencyKey string) (*square.Booking, error)
}

// Settings fixes the location, staff member and service every booking uses.
type Settings struct {
	LocationID         string
	TeamMemberID       string
	ServiceVariationID string
	// CallTimeout bounds each individual provider call.
	CallTimeout time.Duration
}
