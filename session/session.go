// Package session owns the authenticated session: the bearer credential,
// the identity record, and the login/logout transitions.
//
// The store is a process-wide singleton by convention: construct one at
// startup and share it with every component that needs authentication
// state. All mutation funnels through Login/LoginWithToken/Logout, and
// every change is written through to durable storage before the call
// returns, so a restart re-hydrates the same session.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	rentroam "github.com/rentroam/rentroam-go"
	"github.com/rentroam/rentroam-go/api"
	"github.com/rentroam/rentroam-go/audit"
	"github.com/rentroam/rentroam-go/metrics"
	"github.com/rentroam/rentroam-go/token"
)

// Durable storage keys for the persisted session.
const (
	credentialKey = "session.credential"
	identityKey   = "session.identity"
)

// Local login failures. The messages are user-facing and rendered inline
// next to sign-in forms.
var (
	// ErrMissingInput reports a login attempt without inputs or endpoint.
	// No network call is made.
	ErrMissingInput = errors.New("Missing credentials or endpoint")

	// ErrMissingToken reports a sign-in response that parsed successfully
	// but carried no credential. The transport succeeded; the login did not.
	ErrMissingToken = errors.New("Login response missing token")
)

// Store holds the current credential and identity, mirrored to durable
// storage on every change.
type Store struct {
	storage  rentroam.Storage
	client   *api.Client
	logger   *slog.Logger
	metrics  *metrics.Metrics
	auditLog *audit.Logger

	mu         sync.RWMutex
	credential string
	identity   *rentroam.Identity
	loading    bool
}

var _ rentroam.SessionStore = (*Store)(nil)
var _ rentroam.CredentialSource = (*Store)(nil)

// Option configures the Store.
type Option func(*Store)

// WithLogger sets a structured logger for session transitions.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithMetrics sets the metrics recorder for sign-in outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithAuditLogger sets the audit logger for session events.
func WithAuditLogger(l *audit.Logger) Option {
	return func(s *Store) { s.auditLog = l }
}

// WithClient sets the API client used for sign-in requests.
func WithClient(c *api.Client) Option {
	return func(s *Store) { s.client = c }
}

// New creates a session store backed by storage and hydrates any persisted
// session. A credential or identity that fails to load is treated as
// absent.
//
// The store is also the API client's credential source; when the client is
// constructed after the store, complete the wiring with AttachClient.
func New(storage rentroam.Storage, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		logger:  slog.Default(),
		metrics: metrics.New(false),
	}
	for _, o := range opts {
		o(s)
	}
	s.hydrate(context.Background())
	return s
}

// AttachClient sets the API client used for sign-in requests.
func (s *Store) AttachClient(c *api.Client) {
	s.client = c
}

func (s *Store) hydrate(ctx context.Context) {
	cred, ok, err := s.storage.Get(ctx, credentialKey)
	if err != nil {
		s.logger.Warn("session hydration failed", "key", credentialKey, "error", err)
		return
	}
	if ok {
		s.credential = cred
	}

	raw, ok, err := s.storage.Get(ctx, identityKey)
	if err != nil || !ok {
		return
	}
	var id rentroam.Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		// Corrupt persisted identity is treated as absent.
		s.logger.Warn("discarding unreadable persisted identity", "error", err)
		return
	}
	s.identity = &id
}

// Login signs in with raw inputs against a backend sign-in route.
//
// The response's credential is extracted via the ordered token rules; the
// identity comes from the response's user object, or is synthesized from
// the inputs. A role explicitly returned by the backend always wins; the
// endpoint-path inference is a fallback only. Failures leave the session
// untouched and are recovered into the result.
func (s *Store) Login(ctx context.Context, req rentroam.LoginRequest) rentroam.LoginResult {
	if len(req.Inputs) == 0 || req.Endpoint == "" {
		s.metrics.RecordLoginFailure("missing_input")
		return rentroam.LoginResult{OK: false, Error: ErrMissingInput.Error()}
	}

	s.setLoading(true)
	defer s.setLoading(false)

	if s.client == nil {
		return rentroam.LoginResult{OK: false, Error: "sign-in client not configured"}
	}

	raw, err := s.client.Fetch(ctx, req.Endpoint, &api.RequestOptions{
		Method: http.MethodPost,
		Body:   req.Inputs,
	})
	if err != nil {
		s.metrics.RecordLoginFailure("request")
		s.auditLogin(nil, req.Endpoint, err)
		return rentroam.LoginResult{OK: false, Error: loginErrorMessage(err)}
	}

	cred, hasToken := api.ExtractToken(raw)
	identity := resolveIdentity(raw, req)

	if !hasToken {
		s.metrics.RecordLoginFailure("missing_token")
		s.auditLogin(identity, req.Endpoint, ErrMissingToken)
		return rentroam.LoginResult{OK: false, Error: ErrMissingToken.Error()}
	}

	if err := s.setSession(ctx, cred, identity); err != nil {
		s.metrics.RecordLoginFailure("persistence")
		s.auditLogin(identity, req.Endpoint, err)
		return rentroam.LoginResult{OK: false, Error: loginErrorMessage(err)}
	}

	s.logger.Debug("session established", "role", identity.Role, "endpoint", req.Endpoint)
	s.metrics.RecordLoginSuccess(string(identity.Role))
	s.auditLogin(identity, req.Endpoint, nil)
	return rentroam.LoginResult{OK: true}
}

// LoginWithToken installs a ready-made credential/identity pair, e.g. from
// a signup response that auto-issued a session. No network call is made and
// no role inference runs; the pair is stored as given.
func (s *Store) LoginWithToken(ctx context.Context, cred string, identity *rentroam.Identity) error {
	if cred == "" || identity == nil {
		return fmt.Errorf("rentroam/session: token and identity are both required")
	}
	return s.setSession(ctx, cred, identity)
}

// Logout clears the credential and identity. Durable storage is cleared as
// part of the same transition.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	identity := s.identity
	s.credential = ""
	s.identity = nil
	s.mu.Unlock()

	err := s.storage.Delete(ctx, credentialKey)
	if derr := s.storage.Delete(ctx, identityKey); err == nil {
		err = derr
	}
	if err != nil {
		return fmt.Errorf("rentroam/session: clear storage: %w", err)
	}

	if s.auditLog != nil {
		e := audit.Event{Action: audit.ActionLogout, Result: audit.ResultSuccess}
		if identity != nil {
			e.UserID = identity.ID
			e.Role = string(identity.Role)
		}
		s.auditLog.Log(e)
	}
	return nil
}

// Credential returns the current bearer credential, or "" when anonymous.
func (s *Store) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}

// Identity returns the authenticated identity, or nil when anonymous.
// Callers must treat the returned record as read-only.
func (s *Store) Identity() *rentroam.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// Role returns the identity's role, or RoleGuest when anonymous. Guest is
// for display and navigation only; it never satisfies a role check.
func (s *Store) Role() rentroam.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil || s.identity.Role == "" {
		return rentroam.RoleGuest
	}
	return s.identity.Role
}

// Loading reports whether a sign-in attempt is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Authenticated reports whether a credential is present.
func (s *Store) Authenticated() bool {
	return s.Credential() != ""
}

// Claims peeks at the current credential's JWT claims for display purposes.
// The claims are not verified and never influence the session's role.
func (s *Store) Claims() (*token.Claims, error) {
	cred := s.Credential()
	if cred == "" {
		return nil, fmt.Errorf("rentroam/session: no credential present")
	}
	return token.Peek(cred)
}

// setSession persists both fields, then updates memory, so that durable
// storage always reflects the state a caller observes after the call. On a
// partial write the prior persisted credential is put back, keeping storage
// in step with the unchanged in-memory session.
func (s *Store) setSession(ctx context.Context, cred string, identity *rentroam.Identity) error {
	data, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("rentroam/session: encode identity: %w", err)
	}
	prevCred, hadCred, prevErr := s.storage.Get(ctx, credentialKey)
	if err := s.storage.Set(ctx, credentialKey, cred); err != nil {
		return fmt.Errorf("rentroam/session: persist credential: %w", err)
	}
	if err := s.storage.Set(ctx, identityKey, string(data)); err != nil {
		// Roll the credential back to what was stored before; storage must
		// keep mirroring the in-memory session, which has not changed.
		if prevErr == nil && hadCred {
			_ = s.storage.Set(ctx, credentialKey, prevCred)
		} else {
			_ = s.storage.Delete(ctx, credentialKey)
		}
		return fmt.Errorf("rentroam/session: persist identity: %w", err)
	}

	s.mu.Lock()
	s.credential = cred
	s.identity = identity
	s.mu.Unlock()
	return nil
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *Store) auditLogin(identity *rentroam.Identity, endpoint string, err error) {
	if s.auditLog == nil {
		return
	}
	e := audit.Event{
		Action:   audit.ActionLogin,
		Endpoint: endpoint,
		Result:   audit.ResultSuccess,
	}
	if identity != nil {
		e.UserID = identity.ID
		e.Role = string(identity.Role)
	}
	if err != nil {
		e.Result = audit.ResultFailure
		e.Error = err.Error()
	}
	s.auditLog.Log(e)
}

// resolveIdentity extracts the identity from a sign-in response, falling
// back to a minimal identity synthesized from the inputs. The role is
// resolved in order: backend response, sign-in inputs, endpoint inference.
func resolveIdentity(raw json.RawMessage, req rentroam.LoginRequest) *rentroam.Identity {
	var id rentroam.Identity

	userRaw, ok := api.ExtractUser(raw)
	if ok {
		if err := json.Unmarshal(userRaw, &id); err != nil {
			ok = false
		}
	}
	if !ok {
		id = rentroam.Identity{
			Email: stringInput(req.Inputs, "email"),
			Phone: stringInput(req.Inputs, "phone"),
			Role:  rentroam.Role(stringInput(req.Inputs, "role")),
		}
	}

	if id.Role == "" {
		id.Role = InferRole(req.Endpoint)
	}
	return &id
}

// InferRole guesses the account role from a sign-in endpoint path,
// case-insensitively. Heuristic fallback only: it never overrides a role
// the backend explicitly returned.
func InferRole(endpoint string) rentroam.Role {
	e := strings.ToLower(endpoint)
	switch {
	case strings.Contains(e, "/owner"):
		return rentroam.RoleOwner
	case strings.Contains(e, "/admin"):
		return rentroam.RoleAdmin
	}
	return rentroam.RoleCustomer
}

func loginErrorMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Login failed"
}

func stringInput(inputs map[string]any, key string) string {
	v, _ := inputs[key].(string)
	return v
}
