// Package reply maps the outcome of a booking attempt to the text the sender
// receives. It is the only place user-facing wording lives.
package reply

import (
	"errors"
	"fmt"

	"novacuts/models"
	"novacuts/services/booking"
	"novacuts/services/intent"
)

const (
	Clarification = "I couldn’t read the date/time. Try: 'Book haircut Friday 3pm for Kwan'."
	NoSlots       = "No open slots in that window. Want me to try a different time?"
	RateLimited   = "You're sending messages too quickly. Please wait a minute and try again."
)

// Outcome labels, used for metrics.
const (
	OutcomeBooked             = "booked"
	OutcomeClarify            = "clarify"
	OutcomeNoSlots            = "no_slots"
	OutcomeAvailabilityFailed = "availability_failed"
	OutcomeBookingFailed      = "booking_failed"
	OutcomeInternal           = "internal"
)

// Formatter renders replies for one kind of service, e.g. "haircut".
type Formatter struct {
	ServiceName string
}

// Text returns the single message for a booking attempt. conf is only read
// when err is nil.
func (f Formatter) Text(conf *models.Confirmation, err error) string {
	if err == nil {
		if conf == nil {
			return "Sorry, I hit a snag: no confirmation returned"
		}
		return fmt.Sprintf("You're booked for a %s on %s. Reply with a new time to change it.", f.serviceName(), conf.HumanTime)
	}

	if errors.Is(err, intent.ErrNoDateTime) {
		return Clarification
	}

	var bErr *booking.BookingError
	if errors.As(err, &bErr) {
		switch bErr.Stage {
		case booking.StageAvailability:
			return fmt.Sprintf("Sorry, I couldn’t check availability (%s).", bErr.Detail)
		case booking.StageNoSlots:
			return NoSlots
		case booking.StageBooking:
			return fmt.Sprintf("Couldn’t book that slot (%s). Try another time?", bErr.Detail)
		}
	}

	// Customer resolution failures and anything unexpected. The raw error is
	// shown to the sender on purpose.
	return fmt.Sprintf("Sorry, I hit a snag: %v", err)
}

func (f Formatter) serviceName() string {
	if f.ServiceName == "" {
		return "haircut"
	}
	return f.ServiceName
}

// Outcome classifies a result for metrics.
func Outcome(err error) string {
	if err == nil {
		return OutcomeBooked
	}
	if errors.Is(err, intent.ErrNoDateTime) {
		return OutcomeClarify
	}
	var bErr *booking.BookingError
	if errors.As(err, &bErr) {
		switch bErr.Stage {
		case booking.StageAvailability:
			return OutcomeAvailabilityFailed
		case booking.StageNoSlots:
			return OutcomeNoSlots
		case booking.StageBooking:
			return OutcomeBookingFailed
		}
	}
	return OutcomeInternal
}
