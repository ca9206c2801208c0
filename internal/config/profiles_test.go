// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/zalando/go-keyring"
)

func TestAuthProfile_Validate(t *testing.T) {
	tests := []struct {
		name    string
		profile AuthProfile
		errText string
	}{
		{
			name:    "valid bearer",
			profile: AuthProfile{Type: "bearer", Token: "tok"},
		},
		{
			name:    "bearer missing token",
			profile: AuthProfile{Type: "bearer"},
			errText: "bearer profile requires token",
		},
		{
			name:    "valid basic",
			profile: AuthProfile{Type: "basic", Username: "u", Password: "p"},
		},
		{
			name:    "basic missing password",
			profile: AuthProfile{Type: "basic", Username: "u"},
			errText: "basic profile requires password",
		},
		{
			name:    "valid header",
			profile: AuthProfile{Type: "header", Name: "X-API-Key", Value: "v"},
		},
		{
			name:    "header missing name",
			profile: AuthProfile{Type: "header", Value: "v"},
			errText: "header profile requires name",
		},
		{
			name:    "valid query",
			profile: AuthProfile{Type: "query", Name: "api_key", Value: "v"},
		},
		{
			name:    "query missing value",
			profile: AuthProfile{Type: "query", Name: "api_key"},
			errText: "query profile requires value",
		},
		{
			name:    "valid keyring",
			profile: AuthProfile{Type: "keyring", Service: "svc", Account: "acct"},
		},
		{
			name:    "keyring missing account",
			profile: AuthProfile{Type: "keyring", Service: "svc"},
			errText: "keyring profile requires account",
		},
		{
			name: "valid oauth2",
			profile: AuthProfile{
				Type:         "oauth2",
				TokenURL:     "https://auth.example.com/token",
				ClientID:     "id",
				ClientSecret: "secret",
			},
		},
		{
			name:    "oauth2 missing token url",
			profile: AuthProfile{Type: "oauth2", ClientID: "id", ClientSecret: "s"},
			errText: "oauth2 profile requires token_url",
		},
		{
			name:    "valid jwt",
			profile: AuthProfile{Type: "jwt", Secret: "sekrit"},
		},
		{
			name:    "jwt missing secret",
			profile: AuthProfile{Type: "jwt"},
			errText: "jwt profile requires secret",
		},
		{
			name:    "missing type",
			profile: AuthProfile{},
			errText: "profile requires a type field",
		},
		{
			name:    "unknown type",
			profile: AuthProfile{Type: "ntlm"},
			errText: `unknown profile type "ntlm"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.validate()
			if tt.errText == "" {
				if err != nil {
					t.Errorf("validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("validate() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errText) {
				t.Errorf("validate() error = %q, want substring %q", err.Error(), tt.errText)
			}
		})
	}
}

func TestAuthProfile_Context_Bearer(t *testing.T) {
	sec, err := AuthProfile{Type: "bearer", Token: "tok-123"}.Context()
	if err != nil {
		t.Fatalf("Context() error = %v", err)
	}

	header, err := sec.ApplyHeader(context.Background(), http.Header{})
	if err != nil {
		t.Fatalf("ApplyHeader() error = %v", err)
	}
	if got := header.Get("Authorization"); got != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want %q", got, "Bearer tok-123")
	}
}

func TestAuthProfile_Context_Basic(t *testing.T) {
	sec, err := AuthProfile{Type: "basic", Username: "user", Password: "pass"}.Context()
	if err != nil {
		t.Fatalf("Context() error = %v", err)
	}

	header, err := sec.ApplyHeader(context.Background(), http.Header{})
	if err != nil {
		t.Fatalf("ApplyHeader() error = %v", err)
	}
	// base64("user:pass")
	if got := header.Get("Authorization"); got != "Basic dXNlcjpwYXNz" {
		t.Errorf("Authorization = %q, want %q", got, "Basic dXNlcjpwYXNz")
	}
}

func TestAuthProfile_Context_Header(t *testing.T) {
	sec, err := AuthProfile{Type: "header", Name: "X-API-Key", Value: "k-42"}.Context()
	if err != nil {
		t.Fatalf("Context() error = %v", err)
	}

	header, err := sec.ApplyHeader(context.Background(), http.Header{})
	if err != nil {
		t.Fatalf("ApplyHeader() error = %v", err)
	}
	if got := header.Get("X-API-Key"); got != "k-42" {
		t.Errorf("X-API-Key = %q, want %q", got, "k-42")
	}
}

func TestAuthProfile_Context_Query(t *testing.T) {
	sec, err := AuthProfile{Type: "query", Name: "api_key", Value: "q-7"}.Context()
	if err != nil {
		t.Fatalf("Context() error = %v", err)
	}

	query, err := sec.ApplyQuery(context.Background(), url.Values{})
	if err != nil {
		t.Fatalf("ApplyQuery() error = %v", err)
	}
	if got := query.Get("api_key"); got != "q-7" {
		t.Errorf("api_key = %q, want %q", got, "q-7")
	}
}

func TestAuthProfile_Context_EnvExpansion(t *testing.T) {
	t.Setenv("COURIER_TEST_TOKEN", "from-env")

	sec, err := AuthProfile{Type: "bearer", Token: "${COURIER_TEST_TOKEN}"}.Context()
	if err != nil {
		t.Fatalf("Context() error = %v", err)
	}

	header, err := sec.ApplyHeader(context.Background(), http.Header{})
	if err != nil {
		t.Fatalf("ApplyHeader() error = %v", err)
	}
	if got := header.Get("Authorization"); got != "Bearer from-env" {
		t.Errorf("Authorization = %q, want %q", got, "Bearer from-env")
	}
}

func TestAuthProfile_Context_Keyring(t *testing.T) {
	keyring.MockInit()
	if err := keyring.Set("courier-cfg", "deploy", "kr-secret"); err != nil {
		t.Fatalf("seeding keyring: %v", err)
	}

	sec, err := AuthProfile{Type: "keyring", Service: "courier-cfg", Account: "deploy"}.Context()
	if err != nil {
		t.Fatalf("Context() error = %v", err)
	}

	header, err := sec.ApplyHeader(context.Background(), http.Header{})
	if err != nil {
		t.Fatalf("ApplyHeader() error = %v", err)
	}
	if got := header.Get("Authorization"); got != "Bearer kr-secret" {
		t.Errorf("Authorization = %q, want %q", got, "Bearer kr-secret")
	}
}

func TestAuthProfile_Context_JWT(t *testing.T) {
	sec, err := AuthProfile{Type: "jwt", Secret: "signing-key", Issuer: "courier"}.Context()
	if err != nil {
		t.Fatalf("Context() error = %v", err)
	}

	header, err := sec.ApplyHeader(context.Background(), http.Header{})
	if err != nil {
		t.Fatalf("ApplyHeader() error = %v", err)
	}

	got := header.Get("Authorization")
	if !strings.HasPrefix(got, "Bearer ") {
		t.Fatalf("Authorization = %q, want Bearer token", got)
	}
	token := strings.TrimPrefix(got, "Bearer ")
	if strings.Count(token, ".") != 2 {
		t.Errorf("token %q is not a three-segment JWT", token)
	}
}

func TestAuthProfile_Context_OAuth2(t *testing.T) {
	// Token acquisition is lazy; construction must succeed without a
	// reachable token endpoint.
	sec, err := AuthProfile{
		Type:         "oauth2",
		TokenURL:     "https://auth.example.invalid/token",
		ClientID:     "client",
		ClientSecret: "secret",
	}.Context()
	if err != nil {
		t.Fatalf("Context() error = %v", err)
	}
	if sec == nil {
		t.Fatal("Context() returned nil context")
	}
}

func TestAuthProfile_Context_UnknownType(t *testing.T) {
	_, err := AuthProfile{Type: "ntlm"}.Context()
	if err == nil {
		t.Fatal("Context() expected error for unknown type")
	}
}

func TestConfig_Profile(t *testing.T) {
	cfg := Default()
	cfg.Auth["github"] = AuthProfile{Type: "bearer", Token: "tok"}

	sec, err := cfg.Profile("github")
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if sec == nil {
		t.Fatal("Profile() returned nil context")
	}

	_, err = cfg.Profile("gitlab")
	if err == nil {
		t.Fatal("Profile() expected error for unconfigured profile")
	}
	if !strings.Contains(err.Error(), `auth profile "gitlab" not configured`) {
		t.Errorf("Profile() error = %q", err.Error())
	}
}
