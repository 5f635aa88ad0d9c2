package commands

import (
	"Reviv/internal/middlewares"
	"Reviv/internal/repositories"
	"context"
	"fmt"

	"github.com/The127/ioc"

	"github.com/google/uuid"
)

type DeletePasskey struct {
	PrincipalId uuid.UUID
	PasskeyId   uuid.UUID
}

type DeletePasskeyResponse struct {
}

func HandleDeletePasskey(ctx context.Context, command DeletePasskey) (*DeletePasskeyResponse, error) {
	scope := middlewares.GetScope(ctx)

	// Filtering on the principal keeps one caller from deleting another
	// caller's passkey, the miss reads as not found.
	passkeyRepository := ioc.GetDependency[repositories.PasskeyRepository](scope)
	passkeyFilter := repositories.NewPasskeyFilter().
		Id(command.PasskeyId).
		PrincipalId(command.PrincipalId)
	passkey, err := passkeyRepository.Single(ctx, passkeyFilter)
	if err != nil {
		return nil, fmt.Errorf("getting passkey: %w", err)
	}

	err = passkeyRepository.Delete(ctx, passkey.Id())
	if err != nil {
		return nil, fmt.Errorf("deleting passkey: %w", err)
	}

	return &DeletePasskeyResponse{}, nil
}
