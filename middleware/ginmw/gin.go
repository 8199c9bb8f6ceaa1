// Package ginmw provides Gin HTTP middleware applying the route guard.
//
// The middleware reads the session store, applies guard.Check, and turns
// redirect decisions into HTTP redirects. On allow it stores the identity
// in the gin context (retrievable via Identity, SessionRole).
package ginmw

import (
	"net/http"

	"github.com/gin-gonic/gin"

	rentroam "github.com/rentroam/rentroam-go"
	"github.com/rentroam/rentroam-go/guard"
)

// Context keys for session data stored in gin.Context.
const (
	KeyIdentity = "rentroam_identity"
	KeyRole     = "rentroam_role"
)

// Protect returns middleware gating a route group on session state.
// required may be empty to demand only an authenticated session.
func Protect(g *guard.Guard, sess guard.State, required rentroam.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := g.Check(sess, required)
		switch d.Outcome {
		case guard.RedirectSignIn, guard.RedirectHome:
			c.Redirect(http.StatusSeeOther, d.Target)
			c.Abort()
			return
		}

		if id := sess.Identity(); id != nil {
			c.Set(KeyIdentity, id)
			c.Set(KeyRole, id.Role)
		} else {
			c.Set(KeyRole, rentroam.RoleGuest)
		}
		c.Next()
	}
}

// RequireSession is Protect without a role requirement.
func RequireSession(g *guard.Guard, sess guard.State) gin.HandlerFunc {
	return Protect(g, sess, "")
}

// Identity returns the session identity from the Gin context, or nil.
func Identity(c *gin.Context) *rentroam.Identity {
	v, _ := c.Get(KeyIdentity)
	id, _ := v.(*rentroam.Identity)
	return id
}

// SessionRole returns the session role from the Gin context. Returns
// RoleGuest when no identity was stored.
func SessionRole(c *gin.Context) rentroam.Role {
	v, _ := c.Get(KeyRole)
	if r, ok := v.(rentroam.Role); ok {
		return r
	}
	return rentroam.RoleGuest
}
