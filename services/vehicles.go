// Package services provides typed clients for the marketplace REST surface.
// Every call goes through the api chokepoint, so the bearer credential and
// error normalization come for free.
package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"golang.org/x/sync/singleflight"

	rentroam "github.com/rentroam/rentroam-go"
	"github.com/rentroam/rentroam-go/api"
)

// Vehicles implements rentroam.VehicleService.
type Vehicles struct {
	client *api.Client

	// Collapses concurrent identical List calls into one request.
	sf singleflight.Group
}

var _ rentroam.VehicleService = (*Vehicles)(nil)

// NewVehicles creates a vehicle service over the given API client.
func NewVehicles(client *api.Client) *Vehicles {
	return &Vehicles{client: client}
}

// List returns vehicle listings. The backend ships lists bare or wrapped
// under "vehicles"/"data"; both are accepted.
//
// Concurrent calls with identical options are collapsed into a single
// backend request; collapsed callers share that request and its context,
// so cancelling the first caller cancels the shared flight.
func (s *Vehicles) List(ctx context.Context, opts rentroam.ListOptions) ([]rentroam.Vehicle, error) {
	path := listPath(opts)
	v, err, _ := s.sf.Do(path, func() (any, error) {
		raw, err := s.client.Fetch(ctx, path, nil)
		if err != nil {
			return nil, err
		}
		var list []rentroam.Vehicle
		if err := api.ExtractList(raw, &list, "vehicles", "data"); err != nil {
			return nil, err
		}
		return list, nil
	})
	if err != nil {
		return nil, fmt.Errorf("rentroam/services: list vehicles: %w", err)
	}
	return v.([]rentroam.Vehicle), nil
}

// Get returns a single vehicle by ID.
func (s *Vehicles) Get(ctx context.Context, id string) (*rentroam.Vehicle, error) {
	if id == "" {
		return nil, fmt.Errorf("rentroam/services: vehicle id cannot be empty")
	}
	var v rentroam.Vehicle
	if err := s.client.Get(ctx, "/api/vehicles/"+url.PathEscape(id), &v); err != nil {
		return nil, fmt.Errorf("rentroam/services: get vehicle: %w", err)
	}
	return &v, nil
}

// Create lists a new vehicle and returns the stored record.
func (s *Vehicles) Create(ctx context.Context, v *rentroam.Vehicle) (*rentroam.Vehicle, error) {
	var created rentroam.Vehicle
	if err := s.client.Post(ctx, "/api/vehicles", v, &created); err != nil {
		return nil, fmt.Errorf("rentroam/services: create vehicle: %w", err)
	}
	return &created, nil
}

// Update patches the given fields of a vehicle.
func (s *Vehicles) Update(ctx context.Context, id string, fields map[string]any) error {
	if id == "" {
		return fmt.Errorf("rentroam/services: vehicle id cannot be empty")
	}
	if err := s.client.Patch(ctx, "/api/vehicles/"+url.PathEscape(id), fields, nil); err != nil {
		return fmt.Errorf("rentroam/services: update vehicle: %w", err)
	}
	return nil
}

// SetAvailability flips a vehicle's availability flag.
func (s *Vehicles) SetAvailability(ctx context.Context, id string, available bool) error {
	if id == "" {
		return fmt.Errorf("rentroam/services: vehicle id cannot be empty")
	}
	body := map[string]any{"available": available}
	if err := s.client.Patch(ctx, "/api/vehicles/"+url.PathEscape(id)+"/availability", body, nil); err != nil {
		return fmt.Errorf("rentroam/services: set availability: %w", err)
	}
	return nil
}

// Delete removes a vehicle listing.
func (s *Vehicles) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("rentroam/services: vehicle id cannot be empty")
	}
	if err := s.client.Delete(ctx, "/api/vehicles/"+url.PathEscape(id)); err != nil {
		return fmt.Errorf("rentroam/services: delete vehicle: %w", err)
	}
	return nil
}

func listPath(opts rentroam.ListOptions) string {
	q := url.Values{}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(opts.PageSize))
	}
	if opts.Query != "" {
		q.Set("q", opts.Query)
	}
	if len(q) == 0 {
		return "/api/vehicles"
	}
	return "/api/vehicles?" + q.Encode()
}
