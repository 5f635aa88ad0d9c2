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

type ExchangeOAuthTicket struct {
	Ticket string
}

type ExchangeOAuthTicketResponse struct {
	Tokens      services.TokenPair
	PrincipalId uuid.UUID
	Email       string
	DisplayName string
}

func HandleExchangeOAuthTicket(ctx context.Context, command ExchangeOAuthTicket) (*ExchangeOAuthTicketResponse, error) {
	scope := middlewares.GetScope(ctx)

	stateService := ioc.GetDependency[services.StateService](scope)
	payload, err := stateService.Pop(ctx, services.OAuthTicketStateType, command.Ticket)
	switch {
	case errors.Is(err, services.ErrStateNotFound):
		return nil, utils.ErrInvalidTicket

	case err != nil:
		return nil, fmt.Errorf("popping ticket: %w", err)
	}

	var ticket jsonTypes.OAuthTicket
	if err := json.Unmarshal([]byte(payload), &ticket); err != nil {
		return nil, fmt.Errorf("unmarshalling ticket payload: %w", err)
	}

	principalRepository := ioc.GetDependency[repositories.PrincipalRepository](scope)
	principalFilter := repositories.NewPrincipalFilter().Id(ticket.PrincipalId)
	principal, err := principalRepository.Single(ctx, principalFilter)
	if err != nil {
		return nil, fmt.Errorf("getting principal: %w", err)
	}

	sessionService := ioc.GetDependency[services.SessionService](scope)
	tokens, err := sessionService.Issue(ctx, principal.Id())
	if err != nil {
		return nil, fmt.Errorf("issuing tokens: %w", err)
	}

	return &ExchangeOAuthTicketResponse{
		Tokens:      tokens,
		PrincipalId: principal.Id(),
		Email:       principal.Email(),
		DisplayName: principal.DisplayName(),
	}, nil
}
