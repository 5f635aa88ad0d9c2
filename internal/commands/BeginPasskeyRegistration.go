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
	"time"

	"github.com/The127/ioc"

	"github.com/google/uuid"
)

const registerChallengeLifetime = 5 * time.Minute

type BeginPasskeyRegistration struct {
	PrincipalId uuid.UUID
}

type BeginPasskeyRegistrationResponse struct {
	RegistrationId       string
	Challenge            string
	RpId                 string
	RpName               string
	UserId               uuid.UUID
	UserName             string
	UserDisplayName      string
	ExcludeCredentialIds []string
}

func HandleBeginPasskeyRegistration(ctx context.Context, command BeginPasskeyRegistration) (*BeginPasskeyRegistrationResponse, error) {
	scope := middlewares.GetScope(ctx)

	principalRepository := ioc.GetDependency[repositories.PrincipalRepository](scope)
	principalFilter := repositories.NewPrincipalFilter().Id(command.PrincipalId)
	principal, err := principalRepository.Single(ctx, principalFilter)
	if err != nil {
		return nil, fmt.Errorf("getting principal: %w", err)
	}

	passkeyRepository := ioc.GetDependency[repositories.PasskeyRepository](scope)
	passkeyFilter := repositories.NewPasskeyFilter().PrincipalId(principal.Id())
	passkeys, err := passkeyRepository.List(ctx, passkeyFilter)
	if err != nil {
		return nil, fmt.Errorf("listing passkeys: %w", err)
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

	return &BeginPasskeyRegistrationResponse{
		RegistrationId:  registrationId,
		Challenge:       challenge,
		RpId:            config.C.RelyingParty.Id,
		RpName:          config.C.RelyingParty.Name,
		UserId:          principal.Id(),
		UserName:        principal.Email(),
		UserDisplayName: principal.DisplayName(),
		ExcludeCredentialIds: utils.MapSlice(passkeys, func(x *repositories.Passkey) string {
			return x.CredentialId()
		}),
	}, nil
}
