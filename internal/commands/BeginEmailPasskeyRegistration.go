package commands

import (
	"Reviv/internal/config"
	"Reviv/internal/jsonTypes"
	"Reviv/internal/middlewares"
	"Reviv/internal/repositories"
	"Reviv/internal/services"
	"Reviv/utils"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/The127/ioc"

	"github.com/google/uuid"
)

// An email passkey registration is open to anonymous callers: it is how an
// account without a federated identity comes into existence.

type BeginEmailPasskeyRegistration struct {
	Email       string
	DisplayName string
}

type BeginEmailPasskeyRegistrationResponse struct {
	RegistrationId  string
	Challenge       string
	RpId            string
	RpName          string
	UserId          uuid.UUID
	UserName        string
	UserDisplayName string
}

func HandleBeginEmailPasskeyRegistration(ctx context.Context, command BeginEmailPasskeyRegistration) (*BeginEmailPasskeyRegistrationResponse, error) {
	scope := middlewares.GetScope(ctx)

	email := strings.ToLower(command.Email)

	principalRepository := ioc.GetDependency[repositories.PrincipalRepository](scope)
	principalFilter := repositories.NewPrincipalFilter().Email(email)
	principal, err := principalRepository.First(ctx, principalFilter)
	if err != nil {
		return nil, fmt.Errorf("getting principal: %w", err)
	}

	if principal != nil && principal.OAuthProvider() != nil {
		return nil, utils.ErrConflictingIdentity
	}

	if principal == nil {
		displayName := command.DisplayName
		if displayName == "" {
			displayName = email
		}

		principal = repositories.NewPrincipal(email, displayName)
		err = principalRepository.Insert(ctx, principal)
		if err != nil {
			return nil, fmt.Errorf("inserting principal: %w", err)
		}
	}

	challenge := generateChallenge()
	payload, err := json.Marshal(jsonTypes.PasskeyRegisterChallenge{
		PrincipalId: principal.Id(),
		Challenge:   challenge,
	})
	if err != nil {
		return nil, fmt.Errorf("marshalling challenge payload: %w", err)
	}

	stateService := ioc.GetDependency[services.StateService](scope)
	registrationId, err := stateService.Store(ctx, services.PasskeyRegisterStateType, string(payload), registerChallengeLifetime)
	if err != nil {
		return nil, fmt.Errorf("storing challenge: %w", err)
	}

	return &BeginEmailPasskeyRegistrationResponse{
		RegistrationId:  registrationId,
		Challenge:       challenge,
		RpId:            config.C.RelyingParty.Id,
		RpName:          config.C.RelyingParty.Name,
		UserId:          principal.Id(),
		UserName:        principal.Email(),
		UserDisplayName: principal.DisplayName(),
	}, nil
}
