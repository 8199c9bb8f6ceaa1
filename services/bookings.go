package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	rentroam "github.com/rentroam/rentroam-go"
	"github.com/rentroam/rentroam-go/api"
)

// Bookings implements rentroam.BookingService.
type Bookings struct {
	client *api.Client
}

var _ rentroam.BookingService = (*Bookings)(nil)

// NewBookings creates a booking service over the given API client.
func NewBookings(client *api.Client) *Bookings {
	return &Bookings{client: client}
}

// Create reserves a vehicle for a date range.
func (s *Bookings) Create(ctx context.Context, req *rentroam.BookingRequest) (*rentroam.Booking, error) {
	if req == nil || req.VehicleID == "" {
		return nil, fmt.Errorf("rentroam/services: booking request requires a vehicle id")
	}
	var b rentroam.Booking
	if err := s.client.Post(ctx, "/api/bookings", req, &b); err != nil {
		return nil, fmt.Errorf("rentroam/services: create booking: %w", err)
	}
	return &b, nil
}

// ForCustomer returns a customer's bookings, newest first. limit <= 0 means
// the backend default.
func (s *Bookings) ForCustomer(ctx context.Context, customerID string, limit int) ([]rentroam.Booking, error) {
	if customerID == "" {
		return nil, fmt.Errorf("rentroam/services: customer id cannot be empty")
	}
	path := "/api/customers/" + url.PathEscape(customerID) + "/bookings"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	return s.list(ctx, path)
}

// ForOwner returns the bookings across an owner's fleet.
func (s *Bookings) ForOwner(ctx context.Context, ownerID string) ([]rentroam.Booking, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("rentroam/services: owner id cannot be empty")
	}
	return s.list(ctx, "/api/owners/"+url.PathEscape(ownerID)+"/bookings")
}

func (s *Bookings) list(ctx context.Context, path string) ([]rentroam.Booking, error) {
	raw, err := s.client.Fetch(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("rentroam/services: list bookings: %w", err)
	}
	var list []rentroam.Booking
	if err := api.ExtractList(raw, &list, "bookings", "data"); err != nil {
		return nil, fmt.Errorf("rentroam/services: list bookings: %w", err)
	}
	return list, nil
}
