package commands

import (
	"Reviv/internal/jsonTypes"
	"Reviv/internal/middlewares"
	"Reviv/internal/repositories"
	"Reviv/internal/services"
	"Reviv/utils"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/The127/ioc"

	"github.com/google/uuid"
)

const oauthTicketLifetime = 60 * time.Second

type CompleteOAuthCallback struct {
	Provider      string
	Code          string
	State         string
	ProviderError string
}

// Either RedirectUrl is set (front-channel flow with a one-time ticket) or
// Tokens carries the pair directly.
type CompleteOAuthCallbackResponse struct {
	RedirectUrl string

	Tokens      *services.TokenPair
	PrincipalId uuid.UUID
	Email       string
	DisplayName string
}

func HandleCompleteOAuthCallback(ctx context.Context, command CompleteOAuthCallback) (*CompleteOAuthCallbackResponse, error) {
	scope := middlewares.GetScope(ctx)

	if command.ProviderError != "" {
		return nil, utils.ErrProviderError.WithDetails(map[string]any{
			"provider_error": command.ProviderError,
		})
	}

	stateService := ioc.GetDependency[services.StateService](scope)
	payload, err := stateService.Pop(ctx, services.OAuthStateType, command.State)
	switch {
	case errors.Is(err, services.ErrStateNotFound):
		return nil, utils.ErrInvalidState

	case err != nil:
		return nil, fmt.Errorf("popping state: %w", err)
	}

	var state jsonTypes.OAuthState
	if err := json.Unmarshal([]byte(payload), &state); err != nil {
		return nil, fmt.Errorf("unmarshalling state payload: %w", err)
	}

	if state.Provider != command.Provider {
		return nil, utils.ErrInvalidState
	}

	oauthService := ioc.GetDependency[services.OAuthService](scope)
	identity, err := oauthService.Exchange(ctx, command.Provider, command.Code, state.CodeVerifier)
	if err != nil {
		return nil, fmt.Errorf("exchanging code: %w", err)
	}

	principal, err := findOrCreatePrincipal(ctx, command.Provider, identity)
	if err != nil {
		return nil, err
	}

	if state.ReturnTo != "" {
		ticketPayload, err := json.Marshal(jsonTypes.OAuthTicket{
			PrincipalId: principal.Id(),
		})
		if err != nil {
			return nil, fmt.Errorf("marshalling ticket payload: %w", err)
		}

		ticket, err := stateService.Store(ctx, services.OAuthTicketStateType, string(ticketPayload), oauthTicketLifetime)
		if err != nil {
			return nil, fmt.Errorf("storing ticket: %w", err)
		}

		return &CompleteOAuthCallbackResponse{
			RedirectUrl: appendTicket(state.ReturnTo, ticket),
		}, nil
	}

	sessionService := ioc.GetDependency[services.SessionService](scope)
	tokens, err := sessionService.Issue(ctx, principal.Id())
	if err != nil {
		return nil, fmt.Errorf("issuing tokens: %w", err)
	}

	return &CompleteOAuthCallbackResponse{
		Tokens:      &tokens,
		PrincipalId: principal.Id(),
		Email:       principal.Email(),
		DisplayName: principal.DisplayName(),
	}, nil
}

func findOrCreatePrincipal(ctx context.Context, provider string, identity services.OAuthIdentity) (*repositories.Principal, error) {
	scope := middlewares.GetScope(ctx)

	principalRepository := ioc.GetDependency[repositories.PrincipalRepository](scope)
	principalFilter := repositories.NewPrincipalFilter().OAuthIdentity(provider, identity.Subject)
	principal, err := principalRepository.First(ctx, principalFilter)
	if err != nil {
		return nil, fmt.Errorf("getting principal: %w", err)
	}
	if principal != nil {
		return principal, nil
	}

	displayName := identity.Name
	if displayName == "" {
		displayName = identity.Email
	}

	principal = repositories.NewFederatedPrincipal(
		strings.ToLower(identity.Email),
		displayName,
		provider,
		identity.Subject,
	)
	err = principalRepository.Insert(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("inserting principal: %w", err)
	}

	return principal, nil
}

func appendTicket(returnTo string, ticket string) string {
	separator := "?"
	if strings.Contains(returnTo, "?") {
		separator = "&"
	}
	return returnTo + separator + "ticket=" + url.QueryEscape(ticket)
}
