package square

// Wire types for the subset of the Square Customers and Bookings APIs the
// booking flow uses. Field names follow Square's JSON.

type apiErrorDetail struct {
	Category string `json:"category"`
	Code     string `json:"code"`
	Detail   string `json:"detail"`
	Field    string `json:"field,omitempty"`
}

type Customer struct {
	ID          string `json:"id"`
	GivenName   string `json:"given_name,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

type createCustomerRequest struct {
	GivenName   string `json:"given_name"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

type customerResponse struct {
	Customer *Customer        `json:"customer"`
	Errors   []apiErrorDetail `json:"errors"`
}

type searchCustomersRequest struct {
	Query struct {
		Filter struct {
			PhoneNumber struct {
				Exact string `json:"exact"`
			} `json:"phone_number"`
		} `json:"filter"`
	} `json:"query"`
	Limit int `json:"limit"`
}

type searchCustomersResponse struct {
	Customers []Customer       `json:"customers"`
	Errors    []apiErrorDetail `json:"errors"`
}

type TeamMemberIDFilter struct {
	Any []string `json:"any"`
}

type SegmentFilter struct {
	ServiceVariationID string             `json:"service_variation_id"`
	TeamMemberIDFilter TeamMemberIDFilter `json:"team_member_id_filter"`
}

type StartAtRange struct {
	StartAt string `json:"start_at"`
	EndAt   string `json:"end_at"`
}

type availabilityFilter struct {
	LocationID     string          `json:"location_id"`
	SegmentFilters []SegmentFilter `json:"segment_filters"`
	StartAtRange   StartAtRange    `json:"start_at_range"`
}

type searchAvailabilityRequest struct {
	Query struct {
		Filter availabilityFilter `json:"filter"`
	} `json:"query"`
}

// AppointmentSegment describes one service performed by one team member.
type AppointmentSegment struct {
	DurationMinutes         int    `json:"duration_minutes,omitempty"`
	ServiceVariationID      string `json:"service_variation_id"`
	TeamMemberID            string `json:"team_member_id"`
	ServiceVariationVersion int64  `json:"service_variation_version,omitempty"`
}

type Availability struct {
	StartAt             string               `json:"start_at"`
	LocationID          string               `json:"location_id"`
	AppointmentSegments []AppointmentSegment `json:"appointment_segments"`
}

type searchAvailabilityResponse struct {
	Availabilities []Availability   `json:"availabilities"`
	Errors         []apiErrorDetail `json:"errors"`
}

type Booking struct {
	ID                  string               `json:"id,omitempty"`
	Status              string               `json:"status,omitempty"`
	LocationID          string               `json:"location_id"`
	CustomerID          string               `json:"customer_id"`
	StartAt             string               `json:"start_at"`
	AppointmentSegments []AppointmentSegment `json:"appointment_segments"`
}

type createBookingRequest struct {
	Booking        Booking `json:"booking"`
	IdempotencyKey string  `json:"idempotency_key"`
}

type bookingResponse struct {
	Booking *Booking         `json:"booking"`
	Errors  []apiErrorDetail `json:"errors"`
}
