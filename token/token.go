// Package token peeks at bearer-credential JWT claims for display purposes.
//
// Claims are decoded without signature verification: this layer has no key
// material, so nothing here is an authorization decision. The session's
// role is always taken from the sign-in response (or inferred from the
// endpoint), never from these claims.
package token

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	rentroam "github.com/rentroam/rentroam-go"
)

// Claims holds display-oriented claims peeked from a bearer credential.
type Claims struct {
	Subject   string
	Email     string
	Role      rentroam.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the credential's expiry has passed. Tokens
// without an exp claim never report expired.
func (c *Claims) Expired() bool {
	return !c.ExpiresAt.IsZero() && time.Now().After(c.ExpiresAt)
}

// Peek decodes a JWT credential without verifying its signature.
func Peek(credential string) (*Claims, error) {
	credential = strings.TrimPrefix(credential, "Bearer ")

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(credential, claims); err != nil {
		return nil, fmt.Errorf("rentroam/token: %w", err)
	}

	c := &Claims{}
	if v, ok := claims["sub"].(string); ok {
		c.Subject = v
	}
	if v, ok := claims["email"].(string); ok {
		c.Email = v
	}
	if v, ok := claims["role"].(string); ok {
		c.Role = rentroam.Role(v)
	}
	if v, ok := claims["exp"].(float64); ok {
		c.ExpiresAt = time.Unix(int64(v), 0)
	}
	if v, ok := claims["iat"].(float64); ok {
		c.IssuedAt = time.Unix(int64(v), 0)
	}
	return c, nil
}
