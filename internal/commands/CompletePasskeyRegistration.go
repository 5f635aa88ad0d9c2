package commands

import (
	"Reviv/internal/jsonTypes"
	"Reviv/internal/middlewares"
	"Reviv/internal/repositories"
	"Reviv/internal/services"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"Reviv/utils"

	"github.com/The127/ioc"

	"github.com/google/uuid"
)

const defaultDeviceName = "Unnamed Device"

type CompletePasskeyRegistration struct {
	PrincipalId       uuid.UUID
	RegistrationId    string
	ClientDataJSON    string
	AttestationObject string
	DeviceName        string
}

type CompletePasskeyRegistrationResponse struct {
	PasskeyId  uuid.UUID
	DeviceName string
}

func HandleCompletePasskeyRegistration(ctx context.Context, command CompletePasskeyRegistration) (*CompletePasskeyRegistrationResponse, error) {
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

	if challenge.PrincipalId != command.PrincipalId {
		return nil, utils.ErrRegistrationForUser
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

	return &CompletePasskeyRegistrationResponse{
		PasskeyId:  passkey.Id(),
		DeviceName: passkey.Name(),
	}, nil
}

// buildPasskey verifies the attestation against the stored challenge and
// returns the credential ready for insert.
func buildPasskey(challenge jsonTypes.PasskeyRegisterChallenge, clientDataJSONB64 string, attestationObjectB64 string, deviceName string) (*repositories.Passkey, error) {
	authData, err := verifyAttestation(challenge.Challenge, clientDataJSONB64, attestationObjectB64)
	if err != nil {
		return nil, err
	}

	if deviceName == "" {
		deviceName = defaultDeviceName
	}

	return repositories.NewPasskey(
		challenge.PrincipalId,
		base64.RawURLEncoding.EncodeToString(authData.CredentialId),
		authData.PublicKeyDER,
		authData.Algorithm,
		int64(authData.SignCount),
		deviceName,
	), nil
}
