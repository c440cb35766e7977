package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	nanoid "github.com/matoous/go-nanoid/v2"
)

// DefaultAccessTokenTTL is the lifetime of tokens minted without an explicit TTL.
const DefaultAccessTokenTTL = 24 * time.Hour

// MinSecretLength is the shortest accepted HMAC secret.
const MinSecretLength = 32

// Scopes granted to API clients.
const (
	ScopeRead  = "issues:read"
	ScopeWrite = "issues:write"
)

// JWTConfig holds the signing parameters for client tokens.
type JWTConfig struct {
	// Secret is the HS256 key.
	Secret []byte

	// Issuer is stamped into minted tokens. When set, parsing rejects
	// tokens from any other issuer.
	Issuer string

	// AccessTokenTTL defaults to DefaultAccessTokenTTL.
	AccessTokenTTL time.Duration
}

func (c JWTConfig) ttl() time.Duration {
	if c.AccessTokenTTL <= 0 {
		return DefaultAccessTokenTTL
	}
	return c.AccessTokenTTL
}

func (c JWTConfig) check() error {
	if len(c.Secret) < MinSecretLength {
		return ErrSecretTooShort
	}
	return nil
}

// ClientClaims are the claims carried by tokens minted for API clients.
// Scope is space separated; an empty Scope grants every scope.
type ClientClaims struct {
	jwt.RegisteredClaims
	Scope string `json:"scope,omitempty"`
}

// Scopes splits the scope claim.
func (c *ClientClaims) Scopes() []string {
	return strings.Fields(c.Scope)
}

// GenerateClientToken mints a token for subject limited to scopes.
func GenerateClientToken(cfg JWTConfig, subject string, scopes ...string) (string, error) {
	if err := cfg.check(); err != nil {
		return "", err
	}

	id, err := nanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate token id: %w", err)
	}

	now := time.Now()
	claims := ClientClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Subject:   subject,
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.ttl())),
		},
		Scope: strings.Join(scopes, " "),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cfg.Secret)
}

// ParseClientToken verifies token and returns its claims.
// Expired tokens yield ErrTokenExpired; every other failure ErrInvalidToken.
func ParseClientToken(cfg JWTConfig, token string) (*ClientClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	claims := &ClientClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return cfg.Secret, nil
	}, opts...)
	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	default:
		return nil, ErrInvalidToken
	}
}
