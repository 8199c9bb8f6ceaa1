package guard

import (
	"testing"

	rentroam "github.com/rentroam/rentroam-go"
)

type fakeState struct {
	credential string
	identity   *rentroam.Identity
}

func (s *fakeState) Credential() string           { return s.credential }
func (s *fakeState) Identity() *rentroam.Identity { return s.identity }

func TestCheckUnauthenticated(t *testing.T) {
	g := New()

	for _, sess := range []State{
		nil,
		&fakeState{},
		&fakeState{identity: &rentroam.Identity{Role: rentroam.RoleAdmin}},
	} {
		d := g.Check(sess, "")
		if d.Outcome != RedirectSignIn {
			t.Errorf("Check(%+v) = %v, want RedirectSignIn", sess, d.Outcome)
		}
		if d.Target != rentroam.DefaultSignInRoute {
			t.Errorf("Target = %q, want %q", d.Target, rentroam.DefaultSignInRoute)
		}
	}
}

func TestCheckRoleMismatch(t *testing.T) {
	g := New()

	tests := []struct {
		name string
		sess State
	}{
		{"wrong role", &fakeState{credential: "t", identity: &rentroam.Identity{Role: rentroam.RoleCustomer}}},
		{"missing identity", &fakeState{credential: "t"}},
		{"guest never matches", &fakeState{credential: "t", identity: &rentroam.Identity{Role: rentroam.RoleGuest}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := g.Check(tt.sess, rentroam.RoleOwner)
			if d.Outcome != RedirectHome {
				t.Errorf("Outcome = %v, want RedirectHome", d.Outcome)
			}
			if d.Target != rentroam.DefaultHomeRoute {
				t.Errorf("Target = %q, want %q", d.Target, rentroam.DefaultHomeRoute)
			}
		})
	}
}

func TestCheckAllow(t *testing.T) {
	g := New()
	sess := &fakeState{credential: "t", identity: &rentroam.Identity{Role: rentroam.RoleOwner}}

	if d := g.Check(sess, ""); d.Outcome != Allow || d.Target != "" {
		t.Errorf("no-role check = %+v, want Allow", d)
	}
	if d := g.Check(sess, rentroam.RoleOwner); d.Outcome != Allow {
		t.Errorf("matching-role check = %+v, want Allow", d)
	}
}

func TestCheckCustomRoutes(t *testing.T) {
	g := New(WithSignInRoute("/signin"), WithHomeRoute("/dashboard"))

	if d := g.Check(&fakeState{}, ""); d.Target != "/signin" {
		t.Errorf("sign-in target = %q", d.Target)
	}
	sess := &fakeState{credential: "t", identity: &rentroam.Identity{Role: rentroam.RoleCustomer}}
	if d := g.Check(sess, rentroam.RoleAdmin); d.Target != "/dashboard" {
		t.Errorf("home target = %q", d.Target)
	}
}
