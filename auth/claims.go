package auth

import (
	"fmt"
	"strings"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Claims are the fields of a petje.af OAuth2 access token that the client
// cares about.
type Claims struct {
	Subject   string
	Issuer    string
	Audience  []string
	ClientID  string
	Scopes    []string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token has an expiry at or before now.
func (c *Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// ExpiresWithin reports whether the token expires within d of now.
func (c *Claims) ExpiresWithin(now time.Time, d time.Duration) bool {
	return !c.ExpiresAt.IsZero() && !now.Add(d).Before(c.ExpiresAt)
}

// HasScope reports whether scope was granted.
func (c *Claims) HasScope(scope string) bool {
	for _, s := range c.Scopes {
		if s == scope || s == "*" {
			return true
		}
	}
	return false
}

type tokenClaims struct {
	gojwt.RegisteredClaims
	ClientID string `json:"client_id,omitempty"`
	Scopes   any    `json:"scopes,omitempty"`
	Scope    string `json:"scope,omitempty"`
}

// Inspect parses the access token as a JWT without verifying its
// signature. The API stays the authority on validity; the result is only
// informational. Opaque tokens return an error.
func Inspect(token string) (*Claims, error) {
	token = Normalize(token)
	if token == "" {
		return nil, fmt.Errorf("auth: empty access token")
	}
	var tc tokenClaims
	if _, _, err := gojwt.NewParser().ParseUnverified(token, &tc); err != nil {
		return nil, fmt.Errorf("auth: inspect access token: %w", err)
	}

	c := &Claims{
		Subject:  tc.Subject,
		Issuer:   tc.Issuer,
		Audience: []string(tc.Audience),
		ClientID: tc.ClientID,
		Scopes:   scopes(tc.Scopes, tc.Scope),
	}
	if tc.IssuedAt != nil {
		c.IssuedAt = tc.IssuedAt.Time
	}
	if tc.ExpiresAt != nil {
		c.ExpiresAt = tc.ExpiresAt.Time
	}
	if c.ClientID == "" && len(c.Audience) == 1 {
		c.ClientID = c.Audience[0]
	}
	return c, nil
}

// scopes accepts the "scopes" array form and the space separated "scope"
// string form.
func scopes(list any, joined string) []string {
	var out []string
	if items, ok := list.([]any); ok {
		for _, item := range items {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
	}
	if len(out) == 0 && joined != "" {
		out = strings.Fields(joined)
	}
	return out
}
