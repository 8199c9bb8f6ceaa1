// Package guard gates access to protected pages based on session state.
//
// The guard is a pure, synchronous decision over whatever session state is
// currently hydrated: it never suspends, never calls the backend, and has
// no error path. Framework adapters (middleware/ginmw) turn the decision
// into redirects.
package guard

import (
	rentroam "github.com/rentroam/rentroam-go"
	"github.com/rentroam/rentroam-go/metrics"
)

// Outcome of an access check.
type Outcome int

const (
	// Allow renders the protected content.
	Allow Outcome = iota

	// RedirectSignIn sends an unauthenticated visitor to the sign-in
	// route, replacing history so back-navigation does not return here.
	RedirectSignIn

	// RedirectHome sends a wrong-role visitor to the home route.
	RedirectHome
)

// Decision is the result of an access check. Target is the redirect route
// for the two redirect outcomes, empty for Allow.
type Decision struct {
	Outcome Outcome
	Target  string
}

// State is the slice of session state the guard reads. The session store
// satisfies it.
type State interface {
	Credential() string
	Identity() *rentroam.Identity
}

// Guard checks sessions against required roles.
type Guard struct {
	signInRoute string
	homeRoute   string
	metrics     *metrics.Metrics
}

// Option configures the Guard.
type Option func(*Guard)

// WithSignInRoute sets the redirect target for unauthenticated access.
func WithSignInRoute(route string) Option {
	return func(g *Guard) { g.signInRoute = route }
}

// WithHomeRoute sets the redirect target for role mismatches.
func WithHomeRoute(route string) Option {
	return func(g *Guard) { g.homeRoute = route }
}

// WithMetrics sets the metrics recorder for denials.
func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Guard) { g.metrics = m }
}

// New creates a Guard with the default sign-in and home routes.
func New(opts ...Option) *Guard {
	g := &Guard{
		signInRoute: rentroam.DefaultSignInRoute,
		homeRoute:   rentroam.DefaultHomeRoute,
		metrics:     metrics.New(false),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Check decides access for a page that requires a session and, when
// required is non-empty, that exact role.
//
// No credential redirects to sign-in. A required role with a missing
// identity or a different role redirects home. RoleGuest never satisfies
// a requirement because no identity carries it.
func (g *Guard) Check(sess State, required rentroam.Role) Decision {
	if sess == nil || sess.Credential() == "" {
		g.metrics.RecordGuardDenial("unauthenticated")
		return Decision{Outcome: RedirectSignIn, Target: g.signInRoute}
	}

	if required != "" {
		id := sess.Identity()
		if id == nil || id.Role != required {
			g.metrics.RecordGuardDenial("role_mismatch")
			return Decision{Outcome: RedirectHome, Target: g.homeRoute}
		}
	}

	return Decision{Outcome: Allow}
}
