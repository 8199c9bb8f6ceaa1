// Package fake provides an in-memory marketplace backend for testing.
//
// Use fake.NewBackend() in unit tests and examples to exercise the SDK
// against a real HTTP surface without a deployed backend. The backend
// speaks the same JSON shapes the production API does, including the
// envelope and sign-in-response variants.
package fake

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	rentroam "github.com/rentroam/rentroam-go"
)

type account struct {
	id       string
	email    string
	password string
	role     rentroam.Role
}

// Backend is an httptest-backed fake of the marketplace REST surface.
type Backend struct {
	srv *httptest.Server

	mu       sync.RWMutex
	accounts map[string]*account // role/email → account
	tokens   map[string]*account // bearer token → account
	vehicles []rentroam.Vehicle
	bookings []rentroam.Booking
	kyc      map[string]*rentroam.KYCDocument // customerID → record
	nextID   int

	envelopeLists bool
	omitRole      bool
}

// Option configures the fake backend.
type Option func(*Backend)

// WithAccount seeds an account that can sign in.
func WithAccount(role rentroam.Role, id, email, password string) Option {
	return func(b *Backend) {
		b.accounts[accountKey(role, email)] = &account{
			id: id, email: email, password: password, role: role,
		}
	}
}

// WithVehicle seeds a vehicle listing.
func WithVehicle(v rentroam.Vehicle) Option {
	return func(b *Backend) { b.vehicles = append(b.vehicles, v) }
}

// WithKYC seeds a customer's KYC record.
func WithKYC(customerID string, doc rentroam.KYCDocument) Option {
	return func(b *Backend) { b.kyc[customerID] = &doc }
}

// WithEnvelopedLists wraps list responses in their envelope form
// ({"vehicles": [...]}) instead of bare arrays.
func WithEnvelopedLists() Option {
	return func(b *Backend) { b.envelopeLists = true }
}

// WithRoleOmitted drops the role field from sign-in user objects, the way
// some deployments do. Exercises the client's endpoint-path inference.
func WithRoleOmitted() Option {
	return func(b *Backend) { b.omitRole = true }
}

// NewBackend starts a fake backend. Callers must Close it.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{
		accounts: make(map[string]*account),
		tokens:   make(map[string]*account),
		kyc:      make(map[string]*rentroam.KYCDocument),
	}
	for _, o := range opts {
		o(b)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/customers/login", b.login(rentroam.RoleCustomer))
	mux.HandleFunc("POST /api/owners/login", b.login(rentroam.RoleOwner))
	mux.HandleFunc("POST /api/admins/login", b.login(rentroam.RoleAdmin))
	mux.HandleFunc("GET /api/vehicles", b.listVehicles)
	mux.HandleFunc("GET /api/vehicles/{id}", b.getVehicle)
	mux.HandleFunc("POST /api/bookings", b.auth(b.createBooking))
	mux.HandleFunc("GET /api/customers/{id}/bookings", b.auth(b.customerBookings))
	mux.HandleFunc("GET /api/customers/{id}/kyc", b.auth(b.kycStatus))
	mux.HandleFunc("POST /api/customers/{id}/kyc", b.auth(b.kycSubmit))
	mux.HandleFunc("GET /api/admins/stats", b.auth(b.adminStats))

	b.srv = httptest.NewServer(mux)
	return b
}

// URL returns the backend's base URL.
func (b *Backend) URL() string { return b.srv.URL }

// Close shuts the backend down.
func (b *Backend) Close() { b.srv.Close() }

// TokenFor returns the bearer token issued to an account, creating one if
// the account has not signed in yet. For seeding authenticated tests.
func (b *Backend) TokenFor(role rentroam.Role, email string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	acct, ok := b.accounts[accountKey(role, email)]
	if !ok {
		return "", false
	}
	token := "tok-" + acct.id
	b.tokens[token] = acct
	return token, true
}

func (b *Backend) login(role rentroam.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var inputs struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid request body"})
			return
		}

		b.mu.Lock()
		defer b.mu.Unlock()

		acct, ok := b.accounts[accountKey(role, inputs.Email)]
		if !ok || acct.password != inputs.Password {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "invalid email or password"})
			return
		}

		token := "tok-" + acct.id
		b.tokens[token] = acct

		user := map[string]any{"id": acct.id, "email": acct.email}
		if !b.omitRole {
			user["role"] = string(acct.role)
		}
		writeJSON(w, http.StatusOK, map[string]any{"token": token, "user": user})
	}
}

// auth wraps a handler with bearer-token authentication.
func (b *Backend) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "missing authorization token"})
			return
		}

		b.mu.RLock()
		_, known := b.tokens[token]
		b.mu.RUnlock()
		if !known {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "invalid token"})
			return
		}
		next(w, r)
	}
}

func (b *Backend) listVehicles(w http.ResponseWriter, r *http.Request) {
	b.mu.RLock()
	list := make([]rentroam.Vehicle, len(b.vehicles))
	copy(list, b.vehicles)
	enveloped := b.envelopeLists
	b.mu.RUnlock()

	if enveloped {
		writeJSON(w, http.StatusOK, map[string]any{"vehicles": list})
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (b *Backend) getVehicle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, v := range b.vehicles {
		if v.ID == id {
			writeJSON(w, http.StatusOK, v)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"error": "vehicle not found"})
}

func (b *Backend) createBooking(w http.ResponseWriter, r *http.Request) {
	var req rentroam.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid request body"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	booking := rentroam.Booking{
		ID:         fmt.Sprintf("bk-%d", b.nextID),
		VehicleID:  req.VehicleID,
		CustomerID: req.CustomerID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Status:     "confirmed",
	}
	b.bookings = append(b.bookings, booking)
	writeJSON(w, http.StatusCreated, booking)
}

func (b *Backend) customerBookings(w http.ResponseWriter, r *http.Request) {
	customerID := r.PathValue("id")

	b.mu.RLock()
	defer b.mu.RUnlock()
	list := make([]rentroam.Booking, 0)
	for _, bk := range b.bookings {
		if bk.CustomerID == customerID {
			list = append(list, bk)
		}
	}
	if b.envelopeLists {
		writeJSON(w, http.StatusOK, map[string]any{"bookings": list})
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (b *Backend) kycStatus(w http.ResponseWriter, r *http.Request) {
	customerID := r.PathValue("id")

	b.mu.RLock()
	defer b.mu.RUnlock()
	doc, ok := b.kyc[customerID]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "no kyc record"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"kyc": doc})
}

func (b *Backend) kycSubmit(w http.ResponseWriter, r *http.Request) {
	customerID := r.PathValue("id")
	if err := r.ParseMultipartForm(16 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid multipart form"})
		return
	}

	doc := &rentroam.KYCDocument{
		CustomerID: customerID,
		Status:     rentroam.KYCSubmitted,
	}
	if _, hdr, err := r.FormFile("aadhar"); err == nil {
		doc.AadharURL = "/uploads/" + hdr.Filename
	}
	if _, hdr, err := r.FormFile("license"); err == nil {
		doc.LicenseURL = "/uploads/" + hdr.Filename
	}

	b.mu.Lock()
	b.kyc[customerID] = doc
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"kyc": doc})
}

func (b *Backend) adminStats(w http.ResponseWriter, r *http.Request) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	stats := rentroam.AdminStats{
		TotalVehicles: len(b.vehicles),
		TotalBookings: len(b.bookings),
	}
	for _, acct := range b.accounts {
		switch acct.role {
		case rentroam.RoleCustomer:
			stats.TotalCustomers++
		case rentroam.RoleOwner:
			stats.TotalOwners++
		}
	}
	for _, doc := range b.kyc {
		if doc.Status == rentroam.KYCSubmitted || doc.Status == rentroam.KYCPending {
			stats.PendingKYC++
		}
	}
	writeJSON(w, http.StatusOK, stats)
}

func accountKey(role rentroam.Role, email string) string {
	return string(role) + "/" + strings.ToLower(email)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
