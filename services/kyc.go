package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	rentroam "github.com/rentroam/rentroam-go"
	"github.com/rentroam/rentroam-go/api"
	"github.com/rentroam/rentroam-go/audit"
)

// KYC implements rentroam.KYCService.
type KYC struct {
	client   *api.Client
	auditLog *audit.Logger
}

var _ rentroam.KYCService = (*KYC)(nil)

// KYCOption configures the KYC service.
type KYCOption func(*KYC)

// WithAuditLogger records document submissions to the audit log.
func WithAuditLogger(l *audit.Logger) KYCOption {
	return func(s *KYC) { s.auditLog = l }
}

// NewKYC creates a KYC service over the given API client.
func NewKYC(client *api.Client, opts ...KYCOption) *KYC {
	s := &KYC{client: client}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Status returns a customer's current KYC record. The backend returns the
// record bare or wrapped under "kyc"; both are accepted.
func (s *KYC) Status(ctx context.Context, customerID string) (*rentroam.KYCDocument, error) {
	if customerID == "" {
		return nil, fmt.Errorf("rentroam/services: customer id cannot be empty")
	}
	raw, err := s.client.Fetch(ctx, "/api/customers/"+url.PathEscape(customerID)+"/kyc", nil)
	if err != nil {
		return nil, fmt.Errorf("rentroam/services: kyc status: %w", err)
	}
	return decodeKYC(raw)
}

// Submit uploads KYC documents as a multipart form.
func (s *KYC) Submit(ctx context.Context, customerID string, sub rentroam.KYCSubmission) (*rentroam.KYCDocument, error) {
	if customerID == "" {
		return nil, fmt.Errorf("rentroam/services: customer id cannot be empty")
	}
	if sub.Aadhar == nil && sub.License == nil {
		return nil, fmt.Errorf("rentroam/services: kyc submission requires at least one document")
	}

	files := make(map[string]rentroam.FileUpload, 2)
	if sub.Aadhar != nil {
		files["aadhar"] = *sub.Aadhar
	}
	if sub.License != nil {
		files["license"] = *sub.License
	}
	body, contentType, err := multipartBody(sub.Fields, files)
	if err != nil {
		return nil, fmt.Errorf("rentroam/services: encode kyc submission: %w", err)
	}

	raw, err := s.client.Fetch(ctx, "/api/customers/"+url.PathEscape(customerID)+"/kyc", &api.RequestOptions{
		Method:  http.MethodPost,
		RawBody: body,
		Headers: map[string]string{"Content-Type": contentType},
	})
	s.auditSubmit(customerID, err)
	if err != nil {
		return nil, fmt.Errorf("rentroam/services: submit kyc: %w", err)
	}
	return decodeKYC(raw)
}

func (s *KYC) auditSubmit(customerID string, err error) {
	if s.auditLog == nil {
		return
	}
	e := audit.Event{
		Action: audit.ActionKYCSubmit,
		UserID: customerID,
		Result: audit.ResultSuccess,
	}
	if err != nil {
		e.Result = audit.ResultFailure
		e.Error = err.Error()
	}
	s.auditLog.Log(e)
}

// decodeKYC accepts the record bare or under a "kyc" envelope.
func decodeKYC(raw json.RawMessage) (*rentroam.KYCDocument, error) {
	var env struct {
		KYC *rentroam.KYCDocument `json:"kyc"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && env.KYC != nil {
		return env.KYC, nil
	}

	var doc rentroam.KYCDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("rentroam/services: decode kyc record: %w", err)
	}
	return &doc, nil
}
