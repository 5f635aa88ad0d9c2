package services

import (
	"Reviv/internal/middlewares"
	"Reviv/internal/services/keyValue"
	"Reviv/utils"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/The127/ioc"
)

type StateType string

const (
	PasskeyRegisterStateType StateType = "passkey_register"
	PasskeyLoginStateType    StateType = "passkey_login"
	OAuthStateType           StateType = "oauth_state"
	OAuthTicketStateType     StateType = "oauth_ticket"
)

func (t StateType) Key(nonce string) string {
	return fmt.Sprintf("%s:%s", t, nonce)
}

var ErrStateNotFound = errors.New("ceremony state not found")

// StateService is the single-use ceremony state store. Store returns an
// unguessable nonce, Pop redeems it exactly once; expiry and redemption are
// handled by the underlying key-value store.
type StateService interface {
	Store(ctx context.Context, stateType StateType, payload string, expiration time.Duration) (string, error)
	Pop(ctx context.Context, stateType StateType, nonce string) (string, error)
}

type stateService struct {
}

func NewStateService() StateService {
	return &stateService{}
}

func (s *stateService) Store(ctx context.Context, stateType StateType, payload string, expiration time.Duration) (string, error) {
	bytes := utils.GetSecureRandomBytes(16)
	nonce := base64.RawURLEncoding.EncodeToString(bytes)

	scope := middlewares.GetScope(ctx)
	kvStore := ioc.GetDependency[keyValue.Store](scope)

	err := kvStore.Set(ctx, stateType.Key(nonce), payload, keyValue.WithExpiration(expiration))
	if err != nil {
		return "", fmt.Errorf("setting state in kv: %w", err)
	}

	return nonce, nil
}

func (s *stateService) Pop(ctx context.Context, stateType StateType, nonce string) (string, error) {
	scope := middlewares.GetScope(ctx)
	kvStore := ioc.GetDependency[keyValue.Store](scope)

	payload, err := kvStore.Pop(ctx, stateType.Key(nonce))
	switch {
	case errors.Is(err, keyValue.ErrNotFound):
		return "", ErrStateNotFound

	case err != nil:
		return "", fmt.Errorf("popping state from kv: %w", err)
	}

	return payload, nil
}
