// Package rentroam provides a framework-agnostic Go SDK for the RentRoam
// vehicle-rental marketplace backend.
//
// The SDK defines interfaces for session state, durable storage, and the
// typed backend services (vehicles, bookings, KYC, admin). Concrete
// implementations live in subpackages and are injected via Option
// functions, keeping the root package independent of any transport or
// storage choice.
//
// Example usage:
//
//	st := storage.NewMemory()
//	sess := session.New(st)
//	apiClient := api.New(cfg.BaseURL, api.WithCredentials(sess))
//	sess.AttachClient(apiClient)
//
//	client, err := rentroam.NewClient(cfg,
//	    rentroam.WithSessionStore(sess),
//	    rentroam.WithVehicleService(services.NewVehicles(apiClient)),
//	)
package rentroam

import (
	"io"
	"log/slog"
)

// Client is the main entry point for marketplace operations.
// Service implementations are injected via Option functions.
type Client struct {
	config   Config
	logger   *slog.Logger
	session  SessionStore
	vehicles VehicleService
	bookings BookingService
	kyc      KYCService
	admin    AdminService
	accounts AccountService
}

// Option configures the Client.
type Option func(*Client)

// WithLogger sets a structured logger for the client.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithSessionStore sets the session store implementation.
func WithSessionStore(s SessionStore) Option {
	return func(c *Client) { c.session = s }
}

// WithVehicleService sets the vehicle inventory implementation.
func WithVehicleService(v VehicleService) Option {
	return func(c *Client) { c.vehicles = v }
}

// WithBookingService sets the booking implementation.
func WithBookingService(b BookingService) Option {
	return func(c *Client) { c.bookings = b }
}

// WithKYCService sets the KYC implementation.
func WithKYCService(k KYCService) Option {
	return func(c *Client) { c.kyc = k }
}

// WithAdminService sets the admin CRUD implementation.
func WithAdminService(a AdminService) Option {
	return func(c *Client) { c.admin = a }
}

// WithAccountService sets the account/registration implementation.
func WithAccountService(a AccountService) Option {
	return func(c *Client) { c.accounts = a }
}

// NewClient creates a new marketplace client with the given configuration
// and options. The configuration is normalized (trailing slash stripped,
// default routes filled in) before use.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	cfg.normalize()

	c := &Client{config: cfg}
	for _, o := range opts {
		o(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c, nil
}

// Config returns the client configuration.
func (c *Client) Config() Config { return c.config }

// Session returns the session store, or nil if not configured.
func (c *Client) Session() SessionStore { return c.session }

// Vehicles returns the vehicle service, or nil if not configured.
func (c *Client) Vehicles() VehicleService { return c.vehicles }

// Bookings returns the booking service, or nil if not configured.
func (c *Client) Bookings() BookingService { return c.bookings }

// KYC returns the KYC service, or nil if not configured.
func (c *Client) KYC() KYCService { return c.kyc }

// Admin returns the admin service, or nil if not configured.
func (c *Client) Admin() AdminService { return c.admin }

// Accounts returns the account service, or nil if not configured.
func (c *Client) Accounts() AccountService { return c.accounts }

// Close releases all resources held by the client.
// Any injected service that implements io.Closer will be closed.
func (c *Client) Close() error {
	closers := []any{
		c.session, c.vehicles, c.bookings,
		c.kyc, c.admin, c.accounts,
	}
	var firstErr error
	for _, svc := range closers {
		if cl, ok := svc.(io.Closer); ok && cl != nil {
			if err := cl.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
