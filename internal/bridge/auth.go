package bridge

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrUnauthorized is returned for a missing or rejected host token.
var ErrUnauthorized = errors.New("unauthorized host")

// hostClaims is the host token payload. Server pins the token to one
// bounty server when configured.
type hostClaims struct {
	Server string `json:"srv"`
	jwt.RegisteredClaims
}

// Authenticator verifies HS256 host tokens.
type Authenticator struct {
	secret   []byte
	serverID string
}

// NewAuthenticator creates authenticator. Empty serverID accepts any srv claim.
func NewAuthenticator(secret, serverID string) *Authenticator {
	return &Authenticator{secret: []byte(secret), serverID: serverID}
}

// Issue signs a token valid for ttl.
func (a *Authenticator) Issue(ttl time.Duration) (string, error) {
	now := time.Now()
	claims := hostClaims{
		Server: a.serverID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("signing host token: %w", err)
	}
	return token, nil
}

// Verify checks signature, expiry and the srv claim.
func (a *Authenticator) Verify(tokenStr string) error {
	claims := &hostClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	if a.serverID != "" && claims.Server != a.serverID {
		return fmt.Errorf("%w: token issued for server %q", ErrUnauthorized, claims.Server)
	}
	return nil
}

// VerifyRequest checks the Authorization: Bearer header.
func (a *Authenticator) VerifyRequest(r *http.Request) error {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return fmt.Errorf("%w: missing bearer token", ErrUnauthorized)
	}
	return a.Verify(token)
}
