package auth

import (
	"crypto/subtle"
	"net/http"
	"slices"
	"strings"
)

// APIKeyHeader is the request header carrying an API key.
const APIKeyHeader = "X-API-Key"

// Method names how a caller authenticated.
type Method string

// Authentication methods.
const (
	MethodJWT    Method = "jwt"
	MethodAPIKey Method = "api_key"
)

// Principal is an authenticated caller.
type Principal struct {
	Subject string
	Method  Method
	Scopes  []string
}

// Allows reports whether p holds scope. A principal without scopes holds all of them.
func (p *Principal) Allows(scope string) bool {
	return len(p.Scopes) == 0 || slices.Contains(p.Scopes, scope)
}

// Verifier authenticates inbound requests by bearer JWT or API key.
type Verifier struct {
	jwt       *JWTConfig
	keyHashes []string
}

// NewVerifier creates a Verifier. A nil jwt disables bearer tokens; an empty
// keyHashes disables API keys. Hashes are SHA-256 hex as produced by HashAPIKey.
func NewVerifier(jwt *JWTConfig, keyHashes []string) *Verifier {
	hashes := make([]string, 0, len(keyHashes))
	for _, h := range keyHashes {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			hashes = append(hashes, h)
		}
	}
	return &Verifier{jwt: jwt, keyHashes: hashes}
}

// Enabled reports whether any authentication method is configured.
func (v *Verifier) Enabled() bool {
	return v != nil && (v.jwt != nil || len(v.keyHashes) > 0)
}

// Verify authenticates r.
func (v *Verifier) Verify(r *http.Request) (*Principal, error) {
	if key := r.Header.Get(APIKeyHeader); key != "" {
		return v.verifyAPIKey(key)
	}

	authz := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(authz, "Bearer ")
	if !ok || token == "" {
		return nil, ErrMissingCredentials
	}
	return v.verifyToken(token)
}

func (v *Verifier) verifyToken(token string) (*Principal, error) {
	if v.jwt == nil {
		return nil, ErrInvalidToken
	}

	claims, err := ParseClientToken(*v.jwt, token)
	if err != nil {
		return nil, err
	}

	return &Principal{
		Subject: claims.Subject,
		Method:  MethodJWT,
		Scopes:  claims.Scopes(),
	}, nil
}

func (v *Verifier) verifyAPIKey(key string) (*Principal, error) {
	if len(v.keyHashes) == 0 {
		return nil, ErrInvalidAPIKey
	}

	sum := []byte(HashAPIKey(key))
	for _, h := range v.keyHashes {
		if subtle.ConstantTimeCompare(sum, []byte(h)) == 1 {
			return &Principal{
				Subject: displayKey(key),
				Method:  MethodAPIKey,
			}, nil
		}
	}
	return nil, ErrInvalidAPIKey
}
