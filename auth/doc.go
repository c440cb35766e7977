// Package auth handles both directions of authentication.
//
// Outbound, Credentials attach a scheme to requests sent to a tracker
// backend:
//
//	creds := auth.Basic{Username: "alice", Password: "secret"}
//	creds.Apply(req) // Authorization: Basic YWxpY2U6c2VjcmV0
//
// Inbound, a Verifier protects the issue API with bearer JWTs or API keys:
//
//	v := auth.NewVerifier(&auth.JWTConfig{Secret: secret, Issuer: "issuegate"}, keyHashes)
//	principal, err := v.Verify(r)
//	if err != nil {
//	    // 401
//	}
//	if !principal.Allows(auth.ScopeWrite) {
//	    // 401
//	}
//
// # Tokens
//
// Tokens are HS256 JWTs. A token may carry a space-separated scope claim;
// a token without one is granted every scope:
//
//	token, err := auth.GenerateClientToken(cfg, "ci-bot", auth.ScopeRead)
//
// # API Keys
//
// Keys are generated once and only their SHA-256 hash is configured:
//
//	key, err := auth.NewAPIKey("")
//	// key.Key:  "igk_aBc123..." (hand to the client)
//	// key.Hash: auth.HashAPIKey(key.Key) (put in api_key_hashes)
package auth
