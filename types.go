package rentroam

import (
	"encoding/json"
	"io"
	"strconv"
	"time"
)

// Role is the closed set of account roles recognized by the backend.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleOwner    Role = "owner"
	RoleAdmin    Role = "admin"

	// RoleGuest is a display-only pseudo-role used when no identity is
	// present. It is never persisted and never satisfies a role check.
	RoleGuest Role = "guest"
)

// Valid reports whether r is one of the backend roles (guest excluded).
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleOwner, RoleAdmin:
		return true
	}
	return false
}

// Identity is the authenticated account's profile record, including its role.
//
// Backends return profile objects of varying shape; fields without a struct
// mapping are preserved in Profile so that persisting and re-hydrating an
// identity round-trips the full record.
type Identity struct {
	ID    string
	Name  string
	Email string
	Phone string
	Role  Role

	// Profile holds backend profile fields with no dedicated struct field.
	Profile map[string]any
}

// UnmarshalJSON accepts both string and numeric IDs, since backends disagree
// on the type of the id field.
func (id *Identity) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	*id = Identity{}
	for k, v := range m {
		switch k {
		case "id":
			switch t := v.(type) {
			case string:
				id.ID = t
			case float64:
				id.ID = strconv.FormatFloat(t, 'f', -1, 64)
			}
		case "name":
			id.Name, _ = v.(string)
		case "email":
			id.Email, _ = v.(string)
		case "phone":
			id.Phone, _ = v.(string)
		case "role":
			s, _ := v.(string)
			id.Role = Role(s)
		default:
			if id.Profile == nil {
				id.Profile = make(map[string]any)
			}
			id.Profile[k] = v
		}
	}
	return nil
}

// MarshalJSON emits the identity as a flat profile object.
func (id Identity) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(id.Profile)+5)
	for k, v := range id.Profile {
		m[k] = v
	}
	if id.ID != "" {
		m["id"] = id.ID
	}
	if id.Name != "" {
		m["name"] = id.Name
	}
	if id.Email != "" {
		m["email"] = id.Email
	}
	if id.Phone != "" {
		m["phone"] = id.Phone
	}
	if id.Role != "" {
		m["role"] = string(id.Role)
	}
	return json.Marshal(m)
}

// LoginRequest carries raw sign-in inputs and the backend route to post them to.
type LoginRequest struct {
	// Inputs is the free-form sign-in bag (email/phone, password, optional role).
	Inputs map[string]any

	// Endpoint is the backend sign-in route, e.g. "/api/customers/login".
	Endpoint string
}

// LoginResult is the recovered outcome of a sign-in attempt. Failures carry a
// human-readable message suitable for inline display rather than an error,
// so pages can render them without a surrounding error branch.
type LoginResult struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Vehicle is a rentable vehicle listing.
type Vehicle struct {
	ID          string  `json:"id"`
	OwnerID     string  `json:"owner_id,omitempty"`
	Name        string  `json:"name"`
	Make        string  `json:"make,omitempty"`
	Model       string  `json:"model,omitempty"`
	Year        int     `json:"year,omitempty"`
	Location    string  `json:"location,omitempty"`
	PricePerDay float64 `json:"price_per_day"`
	Available   bool    `json:"available"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// Booking is a reservation of a vehicle for a date range.
type Booking struct {
	ID         string    `json:"id"`
	VehicleID  string    `json:"vehicle_id"`
	CustomerID string    `json:"customer_id"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	Status     string    `json:"status,omitempty"`
	TotalPrice float64   `json:"total_price,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitzero"`
}

// BookingRequest is the payload for creating a booking.
type BookingRequest struct {
	VehicleID  string `json:"vehicle_id"`
	CustomerID string `json:"customer_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

// KYC document review states.
const (
	KYCPending   = "pending"
	KYCSubmitted = "submitted"
	KYCApproved  = "approved"
	KYCRejected  = "rejected"
)

// KYCDocument is the identity-verification record gating a customer's
// ability to book.
type KYCDocument struct {
	CustomerID  string `json:"customer_id,omitempty"`
	Status      string `json:"status"`
	AadharURL   string `json:"aadhar_url,omitempty"`
	LicenseURL  string `json:"license_url,omitempty"`
	SubmittedAt string `json:"submitted_at,omitempty"`
	ReviewedAt  string `json:"reviewed_at,omitempty"`
	Note        string `json:"note,omitempty"`
}

// FileUpload names a document stream for a multipart submission.
type FileUpload struct {
	Filename string
	Content  io.Reader
}

// KYCSubmission carries the documents for a KYC upload.
type KYCSubmission struct {
	Aadhar  *FileUpload
	License *FileUpload
	Fields  map[string]string
}

// SignupSubmission is the multipart payload for account registration.
type SignupSubmission struct {
	Fields map[string]string
	Files  map[string]FileUpload
}

// SignupResult is the backend response to a signup. Token and Identity are
// set when the backend auto-issues a session for the new account.
type SignupResult struct {
	Token    string
	Identity *Identity
}

// OwnerStats summarizes an owner's fleet activity.
type OwnerStats struct {
	TotalVehicles int     `json:"total_vehicles"`
	TotalBookings int     `json:"total_bookings"`
	TotalEarnings float64 `json:"total_earnings"`
}

// AdminStats summarizes marketplace-wide activity.
type AdminStats struct {
	TotalCustomers int `json:"total_customers"`
	TotalOwners    int `json:"total_owners"`
	TotalVehicles  int `json:"total_vehicles"`
	TotalBookings  int `json:"total_bookings"`
	PendingKYC     int `json:"pending_kyc"`
}

// ListOptions holds listing filters and pagination parameters.
type ListOptions struct {
	Page     int
	PageSize int
	Query    string
}
