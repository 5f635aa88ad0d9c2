package queries

import (
	"Reviv/internal/middlewares"
	"Reviv/internal/repositories"
	"context"
	"fmt"

	"github.com/The127/ioc"

	"github.com/google/uuid"
)

type GetPrincipalQuery struct {
	PrincipalId uuid.UUID
}

type GetPrincipalQueryResult struct {
	Id            uuid.UUID
	Email         string
	DisplayName   string
	HasPasskeys   bool
	OAuthProvider *string
}

func HandleGetPrincipalQuery(ctx context.Context, query GetPrincipalQuery) (*GetPrincipalQueryResult, error) {
	scope := middlewares.GetScope(ctx)

	principalRepository := ioc.GetDependency[repositories.PrincipalRepository](scope)
	principalFilter := repositories.NewPrincipalFilter().Id(query.PrincipalId)
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

	return &GetPrincipalQueryResult{
		Id:            principal.Id(),
		Email:         principal.Email(),
		DisplayName:   principal.DisplayName(),
		HasPasskeys:   len(passkeys) > 0,
		OAuthProvider: principal.OAuthProvider(),
	}, nil
}
