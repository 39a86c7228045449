package models

import "time"

// AppointmentDuration is the fixed length of the availability search window.
const AppointmentDuration = 3 * time.Hour

// DefaultCustomerName is used when no name can be read from the message.
const DefaultCustomerName = "Guest"

// Intent is what the extractor reads out of a message body.
type Intent struct {
	Name  string
	Start time.Time
}

// Window is the span availability is searched in.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow returns the appointment window beginning at start.
func NewWindow(start time.Time) Window {
	return Window{Start: start, End: start.Add(AppointmentDuration)}
}

// Slot is an open start time reported by the scheduling provider.
type Slot struct {
	StartAt                 string
	ServiceVariationVersion int64
}

// Confirmation is what the sender is told after a successful booking.
type Confirmation struct {
	BookingID  string
	CustomerID string
	StartAt    string
	HumanTime  string
}
