package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	rentroam "github.com/rentroam/rentroam-go"
	"github.com/rentroam/rentroam-go/api"
)

// Accounts implements rentroam.AccountService.
type Accounts struct {
	client *api.Client
}

var _ rentroam.AccountService = (*Accounts)(nil)

// NewAccounts creates an account service over the given API client.
func NewAccounts(client *api.Client) *Accounts {
	return &Accounts{client: client}
}

// Signup registers a new account of the given role via a multipart form.
// When the backend auto-issues a session, the result carries the token and
// identity; hand them to the session store's LoginWithToken for auto-login.
func (s *Accounts) Signup(ctx context.Context, role rentroam.Role, sub rentroam.SignupSubmission) (*rentroam.SignupResult, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("rentroam/services: invalid signup role %q", role)
	}
	if len(sub.Fields) == 0 {
		return nil, fmt.Errorf("rentroam/services: signup requires form fields")
	}

	body, contentType, err := multipartBody(sub.Fields, sub.Files)
	if err != nil {
		return nil, fmt.Errorf("rentroam/services: encode signup: %w", err)
	}

	raw, err := s.client.Fetch(ctx, "/api/"+string(role)+"s/signup", &api.RequestOptions{
		Method:  http.MethodPost,
		RawBody: body,
		Headers: map[string]string{"Content-Type": contentType},
	})
	if err != nil {
		return nil, fmt.Errorf("rentroam/services: signup: %w", err)
	}

	result := &rentroam.SignupResult{}
	if tok, ok := api.ExtractToken(raw); ok {
		result.Token = tok
	}
	if userRaw, ok := api.ExtractUser(raw); ok {
		var id rentroam.Identity
		if err := json.Unmarshal(userRaw, &id); err == nil {
			if id.Role == "" {
				id.Role = role
			}
			result.Identity = &id
		}
	}
	return result, nil
}

// Profile returns a customer's profile record.
func (s *Accounts) Profile(ctx context.Context, customerID string) (*rentroam.Identity, error) {
	if customerID == "" {
		return nil, fmt.Errorf("rentroam/services: customer id cannot be empty")
	}
	var id rentroam.Identity
	if err := s.client.Get(ctx, "/api/customers/"+url.PathEscape(customerID), &id); err != nil {
		return nil, fmt.Errorf("rentroam/services: profile: %w", err)
	}
	return &id, nil
}

// OwnerStats returns an owner's fleet totals.
func (s *Accounts) OwnerStats(ctx context.Context, ownerID string) (*rentroam.OwnerStats, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("rentroam/services: owner id cannot be empty")
	}
	var stats rentroam.OwnerStats
	if err := s.client.Get(ctx, "/api/owners/"+url.PathEscape(ownerID)+"/stats", &stats); err != nil {
		return nil, fmt.Errorf("rentroam/services: owner stats: %w", err)
	}
	return &stats, nil
}
