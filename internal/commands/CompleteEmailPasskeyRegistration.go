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

	"github.com/The127/ioc"

	"github.com/google/uuid"
)

type CompleteEmailPasskeyRegistration struct {
	RegistrationId    string
	ClientDataJSON    string
	AttestationObject string
	DeviceName        string
}

// The freshly registered device logs straight in, so the response carries a
// full token pair.
type CompleteEmailPasskeyRegistrationResponse struct {
	PasskeyId   uuid.UUID
	DeviceName  string
	Tokens      services.TokenPair
	PrincipalId uuid.UUID
	Email       string
	DisplayName string
}

func HandleCompleteEmailPasskeyRegistration(ctx context.Context, command CompleteEmailPasskeyRegistration) (*CompleteEmailPasskeyRegistrationResponse, error) {
	scope := middlewares.GetScope(ctx)

	stateService := ioc.GetDependency[services.StateService](scope)
	payload, err := stateService.Pop(ctx, services.PasskeyRegisterStateType, command.RegistrationId)
	switch {
	case errors.Is(err, services.ErrStateNotFound):
		return nil, utils.ErrChallengeNotFound

	case err != nil:
		return nil, fmt.Errorf("popping challenge: %w", err)
	}

	var challenge jsonTypes.PasskeyRegisterChallenge
	if err := json.Unmarshal([]byte(payload), &challenge); err != nil {
		return nil, fmt.Errorf("unmarshalling challenge payload: %w", err)
	}

	principalRepository := ioc.GetDependency[repositories.PrincipalRepository](scope)
	principalFilter := repositories.NewPrincipalFilter().Id(challenge.PrincipalId)
	principal, err := principalRepository.Single(ctx, principalFilter)
	if err != nil {
		return nil, fmt.Errorf("getting principal: %w", err)
	}

	passkey, err := buildPasskey(challenge, command.ClientDataJSON, command.AttestationObject, command.DeviceName)
	if err != nil {
		return nil, err
	}

	passkeyRepository := ioc.GetDependency[repositories.PasskeyRepository](scope)
	err = passkeyRepository.Insert(ctx, passkey)
	if err != nil {
		return nil, fmt.Errorf("inserting passkey: %w", err)
	}

	sessionService := ioc.GetDependency[services.SessionService](scope)
	tokens, err := sessionService.Issue(ctx, principal.Id())
	if err != nil {
		return nil, fmt.Errorf("issuing tokens: %w", err)
	}

	return &CompleteEmailPasskeyRegistrationResponse{
		PasskeyId:   passkey.Id(),
		DeviceName:  passkey.Name(),
		Tokens:      tokens,
		PrincipalId: principal.Id(),
		Email:       principal.Email(),
		DisplayName: principal.DisplayName(),
	}, nil
}
