package rentroam

import "context"

// Storage is durable, origin-scoped key/value storage backing the session.
// Implementations: storage/ (memory, file, redis).
//
// Get returns ok=false when the key is absent; absence is not an error.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// CredentialSource supplies the current bearer credential, or "" when the
// session is anonymous. The session store is the canonical implementation;
// the API client reads through it so there is a single source of truth.
type CredentialSource interface {
	Credential() string
}

// SessionStore owns the credential/identity pair, its persistence, and the
// login/logout transitions. Implementation: session/.
type SessionStore interface {
	CredentialSource

	// Login signs in with raw inputs against a backend sign-in route.
	// Failures are recovered into the result, never returned as errors.
	Login(ctx context.Context, req LoginRequest) LoginResult

	// LoginWithToken installs a ready-made credential/identity pair
	// obtained elsewhere (e.g. a signup that auto-issued a session).
	LoginWithToken(ctx context.Context, token string, identity *Identity) error

	// Logout clears the session; durable storage is cleared with it.
	Logout(ctx context.Context) error

	// Identity returns the authenticated identity, or nil when anonymous.
	Identity() *Identity

	// Role returns the identity's role, or RoleGuest when anonymous.
	Role() Role

	// Loading reports whether a sign-in attempt is in flight.
	Loading() bool

	// Authenticated reports whether a credential is present.
	Authenticated() bool
}

// VehicleService lists and manages vehicle inventory.
type VehicleService interface {
	List(ctx context.Context, opts ListOptions) ([]Vehicle, error)
	Get(ctx context.Context, id string) (*Vehicle, error)
	Create(ctx context.Context, v *Vehicle) (*Vehicle, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	SetAvailability(ctx context.Context, id string, available bool) error
	Delete(ctx context.Context, id string) error
}

// BookingService manages reservations.
type BookingService interface {
	Create(ctx context.Context, req *BookingRequest) (*Booking, error)
	ForCustomer(ctx context.Context, customerID string, limit int) ([]Booking, error)
	ForOwner(ctx context.Context, ownerID string) ([]Booking, error)
}

// KYCService reads and submits identity-verification documents.
type KYCService interface {
	Status(ctx context.Context, customerID string) (*KYCDocument, error)
	Submit(ctx context.Context, customerID string, sub KYCSubmission) (*KYCDocument, error)
}

// AdminService exposes the admin CRUD surface.
type AdminService interface {
	Stats(ctx context.Context) (*AdminStats, error)
	Customers(ctx context.Context) ([]Identity, error)
	Owners(ctx context.Context) ([]Identity, error)
	UpdateCustomer(ctx context.Context, id string, fields map[string]any) error
	DeleteCustomer(ctx context.Context, id string) error
	UpdateOwner(ctx context.Context, id string, fields map[string]any) error
	DeleteOwner(ctx context.Context, id string) error
	PendingKYC(ctx context.Context) ([]KYCDocument, error)
	ReviewKYC(ctx context.Context, customerID, status, note string) error
}

// AccountService covers registration and per-account reads outside the
// session's own lifecycle.
type AccountService interface {
	Signup(ctx context.Context, role Role, sub SignupSubmission) (*SignupResult, error)
	Profile(ctx context.Context, customerID string) (*Identity, error)
	OwnerStats(ctx context.Context, ownerID string) (*OwnerStats, error)
}
