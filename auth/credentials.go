package auth

import (
	"strings"
	"sync"

	"github.com/petjeaf/petjeaf-go/util"
)

// maskPrefix is the number of token characters kept when masking.
const maskPrefix = 6

// Normalize trims surrounding whitespace from an access token.
func Normalize(token string) string {
	return strings.TrimSpace(token)
}

// Credentials holds the bearer access token. The zero value has no token
// and is ready to use.
type Credentials struct {
	mu    sync.RWMutex
	token string
}

// NewCredentials returns Credentials holding the normalised token.
func NewCredentials(token string) *Credentials {
	c := &Credentials{}
	c.Set(token)
	return c
}

// Set replaces the token.
func (c *Credentials) Set(token string) {
	c.mu.Lock()
	c.token = Normalize(token)
	c.mu.Unlock()
}

// Token returns the current token, "" when none is set.
func (c *Credentials) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// HasToken reports whether a non-empty token is set.
func (c *Credentials) HasToken() bool {
	return c.Token() != ""
}

// Masked returns the token with everything past a short prefix hidden.
func (c *Credentials) Masked() string {
	return util.MaskSecret(c.Token(), maskPrefix)
}
