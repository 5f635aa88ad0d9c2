package commands

import (
	"Reviv/internal/config"
	"Reviv/internal/jsonTypes"
	"Reviv/internal/middlewares"
	"Reviv/internal/services"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/The127/ioc"
)

const loginChallengeLifetime = 5 * time.Minute

// No request fields: login is anonymous and discoverable-credential based,
// the credential is only known once the assertion arrives.
type BeginPasskeyLogin struct {
}

type BeginPasskeyLoginResponse struct {
	AuthenticationId string
	Challenge        string
	RpId             string
}

func HandleBeginPasskeyLogin(ctx context.Context, command BeginPasskeyLogin) (*BeginPasskeyLoginResponse, error) {
	scope := middlewares.GetScope(ctx)

	challenge := generateChallenge()
	payload, err := json.Marshal(jsonTypes.PasskeyLoginChallenge{
		Challenge: challenge,
	})
	if err != nil {
		return nil, fmt.Errorf("marshalling challenge payload: %w", err)
	}

	stateService := ioc.GetDependency[services.StateService](scope)
	authenticationId, err := stateService.Store(ctx, services.PasskeyLoginStateType, string(payload), loginChallengeLifetime)
	if err != nil {
		return nil, fmt.Errorf("storing challenge: %w", err)
	}

	return &BeginPasskeyLoginResponse{
		AuthenticationId: authenticationId,
		Challenge:        challenge,
		RpId:             config.C.RelyingParty.Id,
	}, nil
}
