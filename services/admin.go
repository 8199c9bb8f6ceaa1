package services

import (
	"context"
	"fmt"
	"net/url"

	rentroam "github.com/rentroam/rentroam-go"
	"github.com/rentroam/rentroam-go/api"
)

// Admin implements rentroam.AdminService. Every call requires an admin
// session; the backend rejects others with 403.
type Admin struct {
	client *api.Client
}

var _ rentroam.AdminService = (*Admin)(nil)

// NewAdmin creates an admin service over the given API client.
func NewAdmin(client *api.Client) *Admin {
	return &Admin{client: client}
}

// Stats returns marketplace-wide totals.
func (s *Admin) Stats(ctx context.Context) (*rentroam.AdminStats, error) {
	var stats rentroam.AdminStats
	if err := s.client.Get(ctx, "/api/admins/stats", &stats); err != nil {
		return nil, fmt.Errorf("rentroam/services: admin stats: %w", err)
	}
	return &stats, nil
}

// Customers lists all customer accounts.
func (s *Admin) Customers(ctx context.Context) ([]rentroam.Identity, error) {
	return s.listAccounts(ctx, "/api/admins/customers", "customers")
}

// Owners lists all owner accounts.
func (s *Admin) Owners(ctx context.Context) ([]rentroam.Identity, error) {
	return s.listAccounts(ctx, "/api/admins/owners", "owners")
}

// UpdateCustomer patches the given fields of a customer account.
func (s *Admin) UpdateCustomer(ctx context.Context, id string, fields map[string]any) error {
	return s.update(ctx, "/api/admins/customers/", id, fields)
}

// DeleteCustomer removes a customer account.
func (s *Admin) DeleteCustomer(ctx context.Context, id string) error {
	return s.remove(ctx, "/api/admins/customers/", id)
}

// UpdateOwner patches the given fields of an owner account.
func (s *Admin) UpdateOwner(ctx context.Context, id string, fields map[string]any) error {
	return s.update(ctx, "/api/admins/owners/", id, fields)
}

// DeleteOwner removes an owner account.
func (s *Admin) DeleteOwner(ctx context.Context, id string) error {
	return s.remove(ctx, "/api/admins/owners/", id)
}

// PendingKYC lists KYC records awaiting review.
func (s *Admin) PendingKYC(ctx context.Context) ([]rentroam.KYCDocument, error) {
	raw, err := s.client.Fetch(ctx, "/api/admins/kyc", nil)
	if err != nil {
		return nil, fmt.Errorf("rentroam/services: pending kyc: %w", err)
	}
	var list []rentroam.KYCDocument
	if err := api.ExtractList(raw, &list, "kyc", "data"); err != nil {
		return nil, fmt.Errorf("rentroam/services: pending kyc: %w", err)
	}
	return list, nil
}

// ReviewKYC records a review decision for a customer's documents.
func (s *Admin) ReviewKYC(ctx context.Context, customerID, status, note string) error {
	if customerID == "" {
		return fmt.Errorf("rentroam/services: customer id cannot be empty")
	}
	body := map[string]any{"status": status}
	if note != "" {
		body["note"] = note
	}
	if err := s.client.Patch(ctx, "/api/admins/kyc/"+url.PathEscape(customerID), body, nil); err != nil {
		return fmt.Errorf("rentroam/services: review kyc: %w", err)
	}
	return nil
}

func (s *Admin) listAccounts(ctx context.Context, path, envelopeKey string) ([]rentroam.Identity, error) {
	raw, err := s.client.Fetch(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("rentroam/services: list accounts: %w", err)
	}
	var list []rentroam.Identity
	if err := api.ExtractList(raw, &list, envelopeKey, "data"); err != nil {
		return nil, fmt.Errorf("rentroam/services: list accounts: %w", err)
	}
	return list, nil
}

func (s *Admin) update(ctx context.Context, prefix, id string, fields map[string]any) error {
	if id == "" {
		return fmt.Errorf("rentroam/services: account id cannot be empty")
	}
	if err := s.client.Patch(ctx, prefix+url.PathEscape(id), fields, nil); err != nil {
		return fmt.Errorf("rentroam/services: update account: %w", err)
	}
	return nil
}

func (s *Admin) remove(ctx context.Context, prefix, id string) error {
	if id == "" {
		return fmt.Errorf("rentroam/services: account id cannot be empty")
	}
	if err := s.client.Delete(ctx, prefix+url.PathEscape(id)); err != nil {
		return fmt.Errorf("rentroam/services: delete account: %w", err)
	}
	return nil
}
