package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestVerifier(t *testing.T) {
	jwtCfg := &JWTConfig{
		Secret: []byte("this-is-a-test-secret-key-32-bytes!"),
		Issuer: "issuegate",
	}
	key, err := NewAPIKey("")
	if err != nil {
		t.Fatalf("NewAPIKey() error = %v", err)
	}
	token, err := GenerateClientToken(*jwtCfg, "ci-bot", ScopeRead)
	if err != nil {
		t.Fatalf("GenerateClientToken() error = %v", err)
	}

	v := NewVerifier(jwtCfg, []string{" " + key.Hash + " ", ""})

	tests := []struct {
		name        string
		headers     map[string]string
		wantErr     error
		wantMethod  Method
		wantSubject string
	}{
		{
			name:        "bearer token",
			headers:     map[string]string{"Authorization": "Bearer " + token},
			wantMethod:  MethodJWT,
			wantSubject: "ci-bot",
		},
		{
			name:        "api key",
			headers:     map[string]string{APIKeyHeader: key.Key},
			wantMethod:  MethodAPIKey,
			wantSubject: displayKey(key.Key),
		},
		{
			name:    "unknown api key",
			headers: map[string]string{APIKeyHeader: "igk_nope"},
			wantErr: ErrInvalidAPIKey,
		},
		{
			name:    "bad token",
			headers: map[string]string{"Authorization": "Bearer garbage"},
			wantErr: ErrInvalidToken,
		},
		{
			name:    "basic scheme",
			headers: map[string]string{"Authorization": "Basic YWxpY2U6czNjcmV0"},
			wantErr: ErrMissingCredentials,
		},
		{
			name:    "nothing",
			wantErr: ErrMissingCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/projects/ABC/issues/ABC-1", nil)
			for k, val := range tt.headers {
				req.Header.Set(k, val)
			}

			p, err := v.Verify(req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Verify() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
			if p.Method != tt.wantMethod {
				t.Errorf("Method = %q, want %q", p.Method, tt.wantMethod)
			}
			if p.Subject != tt.wantSubject {
				t.Errorf("Subject = %q, want %q", p.Subject, tt.wantSubject)
			}
		})
	}
}

func TestVerifierEnabled(t *testing.T) {
	var nilVerifier *Verifier
	if nilVerifier.Enabled() {
		t.Error("nil verifier should be disabled")
	}
	if NewVerifier(nil, nil).Enabled() {
		t.Error("empty verifier should be disabled")
	}
	if NewVerifier(nil, []string{"  "}).Enabled() {
		t.Error("blank hashes should not enable the verifier")
	}
	if !NewVerifier(nil, []string{HashAPIKey("k")}).Enabled() {
		t.Error("verifier with key hashes should be enabled")
	}
}

func TestVerifierTokenWithoutJWTConfig(t *testing.T) {
	v := NewVerifier(nil, []string{HashAPIKey("k")})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer anything")

	if _, err := v.Verify(req); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestPrincipalAllows(t *testing.T) {
	full := &Principal{Subject: "key"}
	if !full.Allows(ScopeWrite) {
		t.Error("principal without scopes should allow everything")
	}

	readOnly := &Principal{Subject: "bot", Scopes: []string{ScopeRead}}
	if !readOnly.Allows(ScopeRead) {
		t.Error("expected read scope")
	}
	if readOnly.Allows(ScopeWrite) {
		t.Error("read-only principal must not write")
	}
}
