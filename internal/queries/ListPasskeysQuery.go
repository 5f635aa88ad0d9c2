package queries

import (
	"Reviv/internal/middlewares"
	"Reviv/internal/repositories"
	"Reviv/utils"
	"context"
	"fmt"
	"time"

	"github.com/The127/ioc"

	"github.com/google/uuid"
)

type ListPasskeysQuery struct {
	PrincipalId uuid.UUID
}

type ListPasskeysQueryResult struct {
	Items []ListPasskeysQueryResultItem
}

type ListPasskeysQueryResultItem struct {
	Id         uuid.UUID
	Name       string
	CreatedAt  time.Time
	LastUsedAt *time.Time
}

func HandleListPasskeysQuery(ctx context.Context, query ListPasskeysQuery) (*ListPasskeysQueryResult, error) {
	scope := middlewares.GetScope(ctx)

	passkeyRepository := ioc.GetDependency[repositories.PasskeyRepository](scope)
	passkeyFilter := repositories.NewPasskeyFilter().PrincipalId(query.PrincipalId)
	passkeys, err := passkeyRepository.List(ctx, passkeyFilter)
	if err != nil {
		return nil, fmt.Errorf("listing passkeys: %w", err)
	}

	items := utils.MapSlice(passkeys, func(x *repositories.Passkey) ListPasskeysQueryResultItem {
		return ListPasskeysQueryResultItem{
			Id:         x.Id(),
			Name:       x.Name(),
			CreatedAt:  x.AuditCreatedAt(),
			LastUsedAt: x.LastUsedAt(),
		}
	})

	return &ListPasskeysQueryResult{
		Items: items,
	}, nil
}
