package commands

import (
	"Reviv/internal/clock"
	"Reviv/internal/config"
	"Reviv/internal/jsonTypes"
	"Reviv/internal/middlewares"
	"Reviv/internal/repositories"
	"Reviv/internal/services"
	"Reviv/internal/webauthn"
	"Reviv/utils"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/The127/ioc"

	"github.com/google/uuid"
)

type CompletePasskeyLogin struct {
	AuthenticationId  string
	CredentialId      string
	ClientDataJSON    string
	AuthenticatorData string
	Signature         string
}

type CompletePasskeyLoginResponse struct {
	Tokens      services.TokenPair
	PrincipalId uuid.UUID
	Email       string
	DisplayName string
}

func HandleCompletePasskeyLogin(ctx context.Context, command CompletePasskeyLogin) (*CompletePasskeyLoginResponse, error) {
	scope := middlewares.GetScope(ctx)

	stateService := ioc.GetDependency[services.StateService](scope)
	payload, err := stateService.Pop(ctx, services.PasskeyLoginStateType, command.AuthenticationId)
	switch {
	case errors.Is(err, services.ErrStateNotFound):
		return nil, utils.ErrChallengeNotFound

	case err != nil:
		return nil, fmt.Errorf("popping challenge: %w", err)
	}

	var challenge jsonTypes.PasskeyLoginChallenge
	if err := json.Unmarshal([]byte(payload), &challenge); err != nil {
		return nil, fmt.Errorf("unmarshalling challenge payload: %w", err)
	}

	clientDataJSON, err := verifyClientData(command.ClientDataJSON, "webauthn.get", challenge.Challenge)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", err, utils.ErrAuthFailed)
	}

	credentialId, err := webauthn.NormalizeCredentialId(command.CredentialId)
	if err != nil {
		return nil, err
	}

	passkeyRepository := ioc.GetDependency[repositories.PasskeyRepository](scope)
	passkeyFilter := repositories.NewPasskeyFilter().CredentialId(credentialId)
	passkey, err := passkeyRepository.First(ctx, passkeyFilter)
	if err != nil {
		return nil, fmt.Errorf("getting passkey: %w", err)
	}
	if passkey == nil {
		return nil, utils.ErrUnknownCredential
	}

	authDataBytes, err := webauthn.DecodeWebauthnBase64(command.AuthenticatorData)
	if err != nil {
		return nil, fmt.Errorf("decoding authenticator data: %w: %w", err, utils.ErrAuthFailed)
	}

	authData, err := webauthn.ParseAuthData(authDataBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", err, utils.ErrAuthFailed)
	}

	if !authData.VerifyRpIdHash(config.C.RelyingParty.Id) {
		return nil, fmt.Errorf("rp id hash mismatch: %w", utils.ErrAuthFailed)
	}

	if !authData.UserPresent() {
		return nil, fmt.Errorf("user not present: %w", utils.ErrAuthFailed)
	}

	signature, err := webauthn.DecodeWebauthnBase64(command.Signature)
	if err != nil {
		return nil, fmt.Errorf("decoding signature: %w: %w", err, utils.ErrAuthFailed)
	}

	signedData := webauthn.SignedData(authDataBytes, clientDataJSON)
	err = webauthn.ValidateSignature(passkey.PublicKey(), passkey.PublicKeyAlgorithm(), signedData, signature)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", err, utils.ErrAuthFailed)
	}

	// A counter that does not move forward means a cloned authenticator
	// replayed an old assertion. The stored counter stays untouched.
	if int64(authData.SignCount) <= passkey.SignCount() {
		return nil, utils.ErrReplayDetected
	}

	clockService := ioc.GetDependency[clock.Service](scope)
	passkey.SetSignCount(int64(authData.SignCount))
	passkey.SetLastUsedAt(clockService.Now())

	err = passkeyRepository.Update(ctx, passkey)
	if err != nil {
		return nil, fmt.Errorf("updating passkey: %w", err)
	}

	principalRepository := ioc.GetDependency[repositories.PrincipalRepository](scope)
	principalFilter := repositories.NewPrincipalFilter().Id(passkey.PrincipalId())
	principal, err := principalRepository.Single(ctx, principalFilter)
	if err != nil {
		return nil, fmt.Errorf("getting principal: %w", err)
	}

	sessionService := ioc.GetDependency[services.SessionService](scope)
	tokens, err := sessionService.Issue(ctx, principal.Id())
	if err != nil {
		return nil, fmt.Errorf("issuing tokens: %w", err)
	}

	return &CompletePasskeyLoginResponse{
		Tokens:      tokens,
		PrincipalId: principal.Id(),
		Email:       principal.Email(),
		DisplayName: principal.DisplayName(),
	}, nil
}
