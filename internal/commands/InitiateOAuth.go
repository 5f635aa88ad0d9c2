package commands

import (
	"Reviv/internal/config"
	"Reviv/internal/jsonTypes"
	"Reviv/internal/middlewares"
	"Reviv/internal/services"
	"Reviv/utils"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/The127/ioc"
)

const oauthStateLifetime = 10 * time.Minute

type InitiateOAuth struct {
	Provider string
	ReturnTo string
}

type InitiateOAuthResponse struct {
	AuthUrl string
}

func HandleInitiateOAuth(ctx context.Context, command InitiateOAuth) (*InitiateOAuthResponse, error) {
	scope := middlewares.GetScope(ctx)

	err := validateReturnTo(command.ReturnTo)
	if err != nil {
		return nil, err
	}

	codeVerifier := services.GenerateCodeVerifier()

	payload, err := json.Marshal(jsonTypes.OAuthState{
		Provider:     command.Provider,
		CodeVerifier: codeVerifier,
		ReturnTo:     command.ReturnTo,
	})
	if err != nil {
		return nil, fmt.Errorf("marshalling state payload: %w", err)
	}

	stateService := ioc.GetDependency[services.StateService](scope)
	state, err := stateService.Store(ctx, services.OAuthStateType, string(payload), oauthStateLifetime)
	if err != nil {
		return nil, fmt.Errorf("storing state: %w", err)
	}

	oauthService := ioc.GetDependency[services.OAuthService](scope)
	authUrl, err := oauthService.AuthUrl(ctx, command.Provider, state, services.GenerateCodeChallenge(codeVerifier))
	if err != nil {
		return nil, fmt.Errorf("building auth url: %w", err)
	}

	return &InitiateOAuthResponse{
		AuthUrl: authUrl,
	}, nil
}

// validateReturnTo accepts an empty value, a relative path, or an absolute
// url sharing the frontend origin. Everything else is an open redirect.
func validateReturnTo(returnTo string) error {
	if returnTo == "" {
		return nil
	}

	if strings.HasPrefix(returnTo, "/") && !strings.HasPrefix(returnTo, "//") {
		return nil
	}

	target, err := url.Parse(returnTo)
	if err != nil {
		return fmt.Errorf("parsing return_to: %w: %w", err, utils.ErrInvalidReturnTo)
	}

	frontend, err := url.Parse(config.C.Frontend.ExternalUrl)
	if err != nil {
		return fmt.Errorf("parsing frontend url: %w", err)
	}

	if target.Scheme != frontend.Scheme || target.Host != frontend.Host {
		return utils.ErrInvalidReturnTo
	}

	return nil
}
