package booking

import "fmt"

// Stage names the step of the booking flow that failed.
type Stage string

const (
	StageCustomer     Stage = "customer"
	StageAvailability Stage = "availability"
	StageNoSlots      Stage = "no_slots"
	StageBooking      Stage = "booking"
)

// BookingError reports where the flow stopped. Detail is the provider's
// message, or a short generic one when the provider gave none.
type BookingError struct {
	Stage  Stage
	Detail string
	Err    error
}

func (e *BookingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Stage, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Detail)
}

func (e *BookingError) Unwrap() error { return e.Err }
