package ginmw

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	rentroam "github.com/rentroam/rentroam-go"
	"github.com/rentroam/rentroam-go/guard"
)

type fakeState struct {
	credential string
	identity   *rentroam.Identity
}

func (s *fakeState) Credential() string           { return s.credential }
func (s *fakeState) Identity() *rentroam.Identity { return s.identity }

func newRouter(sess guard.State, required rentroam.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", Protect(guard.New(), sess, required), func(c *gin.Context) {
		id := Identity(c)
		if id != nil {
			c.String(http.StatusOK, "hello %s", id.ID)
			return
		}
		c.String(http.StatusOK, "hello")
	})
	return r
}

func get(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)
	return w
}

func TestProtectRedirectsAnonymous(t *testing.T) {
	w := get(newRouter(&fakeState{}, ""))

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != rentroam.DefaultSignInRoute {
		t.Errorf("Location = %q, want %q", loc, rentroam.DefaultSignInRoute)
	}
}

func TestProtectRedirectsWrongRole(t *testing.T) {
	sess := &fakeState{credential: "t", identity: &rentroam.Identity{ID: "7", Role: rentroam.RoleCustomer}}
	w := get(newRouter(sess, rentroam.RoleAdmin))

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != rentroam.DefaultHomeRoute {
		t.Errorf("Location = %q, want %q", loc, rentroam.DefaultHomeRoute)
	}
}

func TestProtectAllowsAndExposesIdentity(t *testing.T) {
	sess := &fakeState{credential: "t", identity: &rentroam.Identity{ID: "7", Role: rentroam.RoleOwner}}
	w := get(newRouter(sess, rentroam.RoleOwner))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if body := w.Body.String(); body != "hello 7" {
		t.Errorf("body = %q, want %q", body, "hello 7")
	}
}

func TestSessionRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sess := &fakeState{credential: "t", identity: &rentroam.Identity{Role: rentroam.RoleAdmin}}

	r := gin.New()
	r.GET("/p", RequireSession(guard.New(), sess), func(c *gin.Context) {
		c.String(http.StatusOK, string(SessionRole(c)))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/p", nil))
	if w.Body.String() != "admin" {
		t.Errorf("role = %q, want admin", w.Body.String())
	}
}
