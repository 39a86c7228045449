// Package square is a small client for the Square Customers and Bookings APIs.
package square

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	SandboxBaseURL    = "https://connect.squareupsandbox.com"
	ProductionBaseURL = "https://connect.squareup.com"
)

// Options configures a Client.
type Options struct {
	// Environment is "sandbox" or "production".
	Environment string
	AccessToken string
	// Version is sent as the Square-Version header.
	Version string
	Timeout time.Duration
	// BaseURL overrides the URL chosen from Environment.
	BaseURL string
}

// Client talks to Square over HTTPS. It is safe for concurrent use.
type Client struct {
	baseURL     string
	accessToken string
	version     string
	httpClient  *http.Client
	logger      *zap.Logger
}

func NewClient(opts Options, logger *zap.Logger) (*Client, error) {
	baseURL := opts.BaseURL
	if baseURL == "" {
		switch opts.Environment {
		case "sandbox", "":
			baseURL = SandboxBaseURL
		case "production":
			baseURL = ProductionBaseURL
		default:
			return nil, fmt.Errorf("unknown square environment %q", opts.Environment)
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:     baseURL,
		accessToken: opts.AccessToken,
		version:     opts.Version,
		httpClient:  &http.Client{Timeout: opts.Timeout},
		logger:      logger.Named("square"),
	}, nil
}

// AvailabilityQuery selects open slots for one service and one team member.
type AvailabilityQuery struct {
	LocationID         string
	ServiceVariationID string
	TeamMemberID       string
	StartAt            time.Time
	EndAt              time.Time
}

// SearchCustomerByPhone returns the first customer with exactly this phone
// number, or nil if there is none.
func (c *Client) SearchCustomerByPhone(ctx context.Context, phone string) (*Customer, error) {
	var req searchCustomersRequest
	req.Query.Filter.PhoneNumber.Exact = phone
	req.Limit = 1

	var resp searchCustomersResponse
	if err := c.post(ctx, "search customers", "/v2/customers/search", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Customers) == 0 {
		return nil, nil
	}
	return &resp.Customers[0], nil
}

// CreateCustomer creates a customer profile. phone may be empty.
func (c *Client) CreateCustomer(ctx context.Context, givenName, phone string) (*Customer, error) {
	req := createCustomerRequest{GivenName: givenName, PhoneNumber: phone}

	var resp customerResponse
	if err := c.post(ctx, "create customer", "/v2/customers", req, &resp); err != nil {
		return nil, err
	}
	if resp.Customer == nil || resp.Customer.ID == "" {
		return nil, &APIError{Op: "create customer", Status: http.StatusOK, Detail: "response has no customer id"}
	}
	return resp.Customer, nil
}

// SearchAvailability returns open slots in the order Square reports them.
func (c *Client) SearchAvailability(ctx context.Context, q AvailabilityQuery) ([]Availability, error) {
	var req searchAvailabilityRequest
	req.Query.Filter = availabilityFilter{
		LocationID: q.LocationID,
		SegmentFilters: []SegmentFilter{{
			ServiceVariationID: q.ServiceVariationID,
			TeamMemberIDFilter: TeamMemberIDFilter{Any: []string{q.TeamMemberID}},
		}},
		StartAtRange: StartAtRange{
			StartAt: q.StartAt.Format(time.RFC3339),
			EndAt:   q.EndAt.Format(time.RFC3339),
		},
	}

	var resp searchAvailabilityResponse
	if err := c.post(ctx, "search availability", "/v2/bookings/availability/search", req, &resp); err != nil {
		return nil, err
	}
	return resp.Availabilities, nil
}

// CreateBooking books b. Square ignores repeats carrying the same idempotency key.
func (c *Client) CreateBooking(ctx context.Context, b Booking, idempotencyKey string) (*Booking, error) {
	req := createBookingRequest{Booking: b, IdempotencyKey: idempotencyKey}

	var resp bookingResponse
	if err := c.post(ctx, "create booking", "/v2/bookings", req, &resp); err != nil {
		return nil, err
	}
	if resp.Booking == nil {
		return nil, &APIError{Op: "create booking", Status: http.StatusOK, Detail: "response has no booking"}
	}
	return resp.Booking, nil
}

// errorCarrier is implemented by every response type.
type errorCarrier interface {
	apiErrors() []apiErrorDetail
}

func (r *customerResponse) apiErrors() []apiErrorDetail           { return r.Errors }
func (r *searchCustomersResponse) apiErrors() []apiErrorDetail    { return r.Errors }
func (r *searchAvailabilityResponse) apiErrors() []apiErrorDetail { return r.Errors }
func (r *bookingResponse) apiErrors() []apiErrorDetail            { return r.Errors }

// post sends body as JSON and decodes the reply into out. A non-2xx status or
// a populated errors array becomes an *APIError; anything else that goes
// wrong, timeouts included, is returned wrapped.
func (c *Client) post(ctx context.Context, op, path string, body any, out errorCarrier) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: marshal request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	if c.version != "" {
		req.Header.Set("Square-Version", c.version)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", op, err)
	}
	c.logger.Debug("square call",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	decodeErr := json.Unmarshal(raw, out)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Error bodies that are not JSON still count as a provider failure.
		if decodeErr != nil {
			return &APIError{Op: op, Status: resp.StatusCode}
		}
		return newAPIError(op, resp.StatusCode, out.apiErrors())
	}
	if decodeErr != nil {
		return fmt.Errorf("%s: decode response: %w", op, decodeErr)
	}
	if errs := out.apiErrors(); len(errs) > 0 {
		return newAPIError(op, resp.StatusCode, errs)
	}
	return nil
}
