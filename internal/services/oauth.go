package services

import (
	"Reviv/internal/config"
	"Reviv/utils"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// OAuthIdentity is the provider-verified identity extracted from an ID token.
type OAuthIdentity struct {
	Subject string
	Email   string
	Name    string
}

type OAuthService interface {
	AuthUrl(ctx context.Context, provider string, state string, codeChallenge string) (string, error)
	Exchange(ctx context.Context, provider string, code string, codeVerifier string) (OAuthIdentity, error)
}

type providerClient struct {
	oauth2Config oauth2.Config
	verifier     *oidc.IDTokenVerifier
}

// providerEntry serializes discovery per provider, so a slow issuer only
// stalls logins for its own provider.
type providerEntry struct {
	mu     sync.Mutex
	client *providerClient
}

type oauthService struct {
	mu      sync.Mutex
	entries map[string]*providerEntry

	discover func(ctx context.Context, issuerUrl string) (*oidc.Provider, error)
}

func NewOAuthService() OAuthService {
	return &oauthService{
		entries:  make(map[string]*providerEntry),
		discover: oidc.NewProvider,
	}
}

// client lazily performs OIDC discovery for a configured provider and caches
// the result for the process lifetime. Failed discovery is not cached, the
// next request retries.
func (s *oauthService) client(ctx context.Context, name string) (*providerClient, error) {
	providerConfig, ok := config.C.OAuth.Providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown oauth provider %q: %w", name, utils.ErrHttpBadRequest)
	}

	s.mu.Lock()
	entry, ok := s.entries[name]
	if !ok {
		entry = &providerEntry{}
		s.entries[name] = entry
	}
	s.mu.Unlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.client != nil {
		return entry.client, nil
	}

	provider, err := s.discover(ctx, providerConfig.IssuerUrl)
	if err != nil {
		return nil, fmt.Errorf("discovering oidc provider %q: %w", name, err)
	}

	entry.client = &providerClient{
		oauth2Config: oauth2.Config{
			ClientID:     providerConfig.ClientId,
			ClientSecret: providerConfig.ClientSecret,
			RedirectURL:  providerConfig.RedirectUrl,
			Endpoint:     provider.Endpoint(),
			Scopes:       providerConfig.Scopes,
		},
		verifier: provider.Verifier(&oidc.Config{
			ClientID: providerConfig.ClientId,
		}),
	}
	return entry.client, nil
}

func (s *oauthService) AuthUrl(ctx context.Context, provider string, state string, codeChallenge string) (string, error) {
	client, err := s.client(ctx, provider)
	if err != nil {
		return "", err
	}

	return client.oauth2Config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	), nil
}

func (s *oauthService) Exchange(ctx context.Context, provider string, code string, codeVerifier string) (OAuthIdentity, error) {
	client, err := s.client(ctx, provider)
	if err != nil {
		return OAuthIdentity{}, err
	}

	oauth2Token, err := client.oauth2Config.Exchange(ctx, code,
		oauth2.SetAuthURLParam("code_verifier", codeVerifier),
	)
	if err != nil {
		return OAuthIdentity{}, fmt.Errorf("exchanging code: %w: %w", err, utils.ErrProviderError)
	}

	rawIdToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return OAuthIdentity{}, fmt.Errorf("no id_token in provider response: %w", utils.ErrProviderError)
	}

	idToken, err := client.verifier.Verify(ctx, rawIdToken)
	if err != nil {
		return OAuthIdentity{}, fmt.Errorf("verifying id token: %w: %w", err, utils.ErrProviderError)
	}

	var claims struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return OAuthIdentity{}, fmt.Errorf("parsing id token claims: %w", err)
	}

	return OAuthIdentity{
		Subject: idToken.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
	}, nil
}

// GenerateCodeVerifier returns a PKCE code verifier (RFC 7636).
func GenerateCodeVerifier() string {
	return base64.RawURLEncoding.EncodeToString(utils.GetSecureRandomBytes(32))
}

// GenerateCodeChallenge derives the S256 challenge for a verifier.
func GenerateCodeChallenge(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}
