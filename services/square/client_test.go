package square

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Options{
		AccessToken: "test-token",
		Version:     "2024-10-17",
		Timeout:     2 * time.Second,
		BaseURL:     srv.URL,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	return c
}

func decodeBody(t *testing.T, r *http.Request, v any) {
	t.Helper()
	raw, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, v))
}

func TestNewClient_Environment(t *testing.T) {
	tests := []struct {
		env     string
		want    string
		wantErr bool
	}{
		{"sandbox", SandboxBaseURL, false},
		{"", SandboxBaseURL, false},
		{"production", ProductionBaseURL, false},
		{"staging", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			c, err := NewClient(Options{Environment: tt.env}, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.baseURL)
		})
	}
}

func TestClient_CreateCustomer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/customers", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "2024-10-17", r.Header.Get("Square-Version"))

		var body createCustomerRequest
		decodeBody(t, r, &body)
		assert.Equal(t, "Kwan", body.GivenName)
		assert.Equal(t, "+15551234567", body.PhoneNumber)

		w.Write([]byte(`{"customer":{"id":"CUST1","given_name":"Kwan"}}`))
	})

	cust, err := c.CreateCustomer(context.Background(), "Kwan", "+15551234567")
	require.NoError(t, err)
	assert.Equal(t, "CUST1", cust.ID)
}

func TestClient_CreateCustomer_OmitsEmptyPhone(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		decodeBody(t, r, &body)
		_, hasPhone := body["phone_number"]
		assert.False(t, hasPhone)

		w.Write([]byte(`{"customer":{"id":"CUST2"}}`))
	})

	cust, err := c.CreateCustomer(context.Background(), "Guest", "")
	require.NoError(t, err)
	assert.Equal(t, "CUST2", cust.ID)
}

func TestClient_CreateCustomer_ProviderError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors":[{"category":"INVALID_REQUEST_ERROR","code":"INVALID_PHONE_NUMBER","detail":"Expected phone_number to be a valid phone number"}]}`))
	})

	_, err := c.CreateCustomer(context.Background(), "Kwan", "not-a-phone")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "INVALID_PHONE_NUMBER", apiErr.Code)
	assert.Equal(t, "Expected phone_number to be a valid phone number", apiErr.Detail)
}

func TestClient_SearchCustomerByPhone(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v2/customers/search", r.URL.Path)
			var body searchCustomersRequest
			decodeBody(t, r, &body)
			assert.Equal(t, "+15551234567", body.Query.Filter.PhoneNumber.Exact)
			assert.Equal(t, 1, body.Limit)

			w.Write([]byte(`{"customers":[{"id":"CUST9"}]}`))
		})

		cust, err := c.SearchCustomerByPhone(context.Background(), "+15551234567")
		require.NoError(t, err)
		require.NotNil(t, cust)
		assert.Equal(t, "CUST9", cust.ID)
	})

	t.Run("none", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		})

		cust, err := c.SearchCustomerByPhone(context.Background(), "+15551234567")
		require.NoError(t, err)
		assert.Nil(t, cust)
	})
}

func TestClient_SearchAvailability(t *testing.T) {
	start := time.Date(2026, time.October, 16, 15, 0, 0, 0, time.UTC)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/bookings/availability/search", r.URL.Path)

		var body searchAvailabilityRequest
		decodeBody(t, r, &body)
		f := body.Query.Filter
		assert.Equal(t, "LOC1", f.LocationID)
		require.Len(t, f.SegmentFilters, 1)
		assert.Equal(t, "SV1", f.SegmentFilters[0].ServiceVariationID)
		assert.Equal(t, []string{"TM1"}, f.SegmentFilters[0].TeamMemberIDFilter.Any)
		assert.Equal(t, "2026-10-16T15:00:00Z", f.StartAtRange.StartAt)
		assert.Equal(t, "2026-10-16T18:00:00Z", f.StartAtRange.EndAt)

		w.Write([]byte(`{"availabilities":[
			{"start_at":"2026-10-16T15:00:00Z","location_id":"LOC1","appointment_segments":[{"duration_minutes":30,"service_variation_id":"SV1","team_member_id":"TM1","service_variation_version":1599}]},
			{"start_at":"2026-10-16T15:30:00Z","location_id":"LOC1"}
		]}`))
	})

	slots, err := c.SearchAvailability(context.Background(), AvailabilityQuery{
		LocationID:         "LOC1",
		ServiceVariationID: "SV1",
		TeamMemberID:       "TM1",
		StartAt:            start,
		EndAt:              start.Add(3 * time.Hour),
	})
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "2026-10-16T15:00:00Z", slots[0].StartAt)
	assert.Equal(t, int64(1599), slots[0].AppointmentSegments[0].ServiceVariationVersion)
	assert.Equal(t, "2026-10-16T15:30:00Z", slots[1].StartAt)
}

func TestClient_SearchAvailability_ErrorsArrayOn200(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"code":"RATE_LIMITED","detail":"rate limited"}]}`))
	})

	_, err := c.SearchAvailability(context.Background(), AvailabilityQuery{})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "rate limited", apiErr.Detail)
}

func TestClient_NonJSONErrorBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>bad gateway</html>`))
	})

	_, err := c.SearchAvailability(context.Background(), AvailabilityQuery{})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Empty(t, apiErr.Detail)
}

func TestClient_CreateBooking(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/bookings", r.URL.Path)

		var body createBookingRequest
		decodeBody(t, r, &body)
		assert.Equal(t, "2026-10-16T15-00-00Z", body.IdempotencyKey)
		assert.Equal(t, "CUST1", body.Booking.CustomerID)
		assert.Equal(t, "2026-10-16T15:00:00Z", body.Booking.StartAt)

		w.Write([]byte(`{"booking":{"id":"BK1","status":"ACCEPTED","start_at":"2026-10-16T15:00:00Z"}}`))
	})

	b, err := c.CreateBooking(context.Background(), Booking{
		LocationID: "LOC1",
		CustomerID: "CUST1",
		StartAt:    "2026-10-16T15:00:00Z",
		AppointmentSegments: []AppointmentSegment{{
			ServiceVariationID: "SV1",
			TeamMemberID:       "TM1",
		}},
	}, "2026-10-16T15-00-00Z")
	require.NoError(t, err)
	assert.Equal(t, "BK1", b.ID)
	assert.Equal(t, "ACCEPTED", b.Status)
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	c, err := NewClient(Options{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, nil)
	require.NoError(t, err)

	_, err = c.CreateCustomer(context.Background(), "Kwan", "")

	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr), "a timeout is not a provider-signalled failure")
}
