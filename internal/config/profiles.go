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
	"fmt"
	"time"

	"github.com/tombee/courier/pkg/auth"
)

// AuthProfile defines one named credential source. The Type field selects
// the scheme; the remaining fields apply per type. Credential values may
// reference environment variables with ${VAR} syntax.
type AuthProfile struct {
	// Type is one of: bearer, basic, header, query, keyring, oauth2, jwt.
	Type string `yaml:"type"`

	// Token is the bearer token (type: bearer).
	Token string `yaml:"token"`

	// Username and Password are HTTP Basic credentials (type: basic).
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// Name and Value carry an API key for header or query schemes
	// (type: header, query). Name is the header or parameter name.
	Name  string `yaml:"name"`
	Value string `yaml:"value"`

	// Service and Account locate a bearer token in the OS keyring
	// (type: keyring).
	Service string `yaml:"service"`
	Account string `yaml:"account"`

	// TokenURL, ClientID, ClientSecret and Scopes configure the OAuth2
	// client credentials flow (type: oauth2).
	TokenURL     string   `yaml:"token_url"`
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	Scopes       []string `yaml:"scopes"`

	// Secret, Issuer, Subject, Audience and TTL configure per-request
	// HS256 token minting (type: jwt).
	Secret   string        `yaml:"secret"`
	Issuer   string        `yaml:"issuer"`
	Subject  string        `yaml:"subject"`
	Audience []string      `yaml:"audience"`
	TTL      time.Duration `yaml:"ttl"`
}

// validate checks that the fields required by the profile type are set.
// Environment references are not expanded here; a profile may validate
// and still fail at Context time if a referenced variable is unset.
func (p AuthProfile) validate() error {
	switch p.Type {
	case "bearer":
		if p.Token == "" {
			return fmt.Errorf("bearer profile requires token")
		}
	case "basic":
		if p.Username == "" {
			return fmt.Errorf("basic profile requires username")
		}
		if p.Password == "" {
			return fmt.Errorf("basic profile requires password")
		}
	case "header":
		if p.Name == "" {
			return fmt.Errorf("header profile requires name")
		}
		if p.Value == "" {
			return fmt.Errorf("header profile requires value")
		}
	case "query":
		if p.Name == "" {
			return fmt.Errorf("query profile requires name")
		}
		if p.Value == "" {
			return fmt.Errorf("query profile requires value")
		}
	case "keyring":
		if p.Service == "" {
			return fmt.Errorf("keyring profile requires service")
		}
		if p.Account == "" {
			return fmt.Errorf("keyring profile requires account")
		}
	case "oauth2":
		if p.TokenURL == "" {
			return fmt.Errorf("oauth2 profile requires token_url")
		}
		if p.ClientID == "" {
			return fmt.Errorf("oauth2 profile requires client_id")
		}
		if p.ClientSecret == "" {
			return fmt.Errorf("oauth2 profile requires client_secret")
		}
	case "jwt":
		if p.Secret == "" {
			return fmt.Errorf("jwt profile requires secret")
		}
	case "":
		return fmt.Errorf("profile requires a type field")
	default:
		return fmt.Errorf("unknown profile type %q", p.Type)
	}
	return nil
}

// Context builds the security context for this profile. Environment
// references in credential values are expanded here, keyring lookups and
// token-source construction happen here; actual token acquisition for
// oauth2 happens lazily on first use.
func (p AuthProfile) Context() (*auth.Context, error) {
	switch p.Type {
	case "bearer":
		return auth.Bearer(p.Token)
	case "basic":
		return auth.Basic(p.Username, p.Password)
	case "header":
		return auth.APIKey(p.Name, p.Value)
	case "query":
		return auth.APIKeyQuery(p.Name, p.Value)
	case "keyring":
		return auth.BearerFromKeyring(p.Service, p.Account)
	case "oauth2":
		return auth.ClientCredentials(auth.ClientCredentialsConfig{
			ClientID:     p.ClientID,
			ClientSecret: p.ClientSecret,
			TokenURL:     p.TokenURL,
			Scopes:       p.Scopes,
		})
	case "jwt":
		return auth.JWTBearer(auth.JWTConfig{
			Secret:   p.Secret,
			Issuer:   p.Issuer,
			Subject:  p.Subject,
			Audience: p.Audience,
			TTL:      p.TTL,
		})
	default:
		return nil, fmt.Errorf("unknown profile type %q", p.Type)
	}
}

// Profile looks up a named auth profile and builds its security context.
func (c *Config) Profile(name string) (*auth.Context, error) {
	profile, ok := c.Auth[name]
	if !ok {
		return nil, fmt.Errorf("auth profile %q not configured", name)
	}
	return profile.Context()
}
