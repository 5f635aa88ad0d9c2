package commands

import (
	"Reviv/internal/clock"
	"Reviv/internal/jsonTypes"
	"Reviv/internal/middlewares"
	"Reviv/internal/repositories"
	"Reviv/internal/repositories/mocks"
	"Reviv/internal/services"
	"Reviv/internal/services/keyValue"
	"Reviv/utils"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/The127/ioc"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ExchangeOAuthTicketSuite struct {
	suite.Suite
}

func TestExchangeOAuthTicketSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(ExchangeOAuthTicketSuite))
}

func (s *ExchangeOAuthTicketSuite) createContext(
	principalRepository repositories.PrincipalRepository,
) context.Context {
	dc := ioc.NewDependencyCollection()

	clockService, _ := clock.NewMockServiceNow()
	ioc.RegisterTransient(dc, func(dp *ioc.DependencyProvider) clock.Service {
		return clockService
	})

	ioc.RegisterSingleton(dc, func(dp *ioc.DependencyProvider) keyValue.Store {
		return keyValue.NewMemoryStore()
	})
	ioc.RegisterSingleton(dc, func(dp *ioc.DependencyProvider) services.StateService {
		return services.NewStateService()
	})
	ioc.RegisterSingleton(dc, func(dp *ioc.DependencyProvider) services.SessionService {
		return services.NewSessionService()
	})

	if principalRepository != nil {
		ioc.RegisterTransient(dc, func(_ *ioc.DependencyProvider) repositories.PrincipalRepository {
			return principalRepository
		})
	}

	scope := dc.BuildProvider()
	s.T().Cleanup(func() {
		utils.PanicOnError(scope.Close, "closing scope")
	})

	return middlewares.ContextWithScope(s.T().Context(), scope)
}

func (s *ExchangeOAuthTicketSuite) storeTicket(ctx context.Context, principalId uuid.UUID) string {
	payload, err := json.Marshal(jsonTypes.OAuthTicket{
		PrincipalId: principalId,
	})
	s.Require().NoError(err)

	stateService := ioc.GetDependency[services.StateService](middlewares.GetScope(ctx))
	ticket, err := stateService.Store(ctx, services.OAuthTicketStateType, string(payload), time.Minute)
	s.Require().NoError(err)

	return ticket
}

func (s *ExchangeOAuthTicketSuite) TestHappyPath() {
	// arrange
	ctrl := gomock.NewController(s.T())
	defer ctrl.Finish()

	principal := repositories.NewFederatedPrincipal("user@mail", "User", "google", "subject")
	principal.Mock(time.Now())
	principalRepository := mocks.NewMockPrincipalRepository(ctrl)
	principalRepository.EXPECT().Single(gomock.Any(), gomock.Cond(func(x repositories.PrincipalFilter) bool {
		return x.GetId() == principal.Id()
	})).Return(principal, nil)

	ctx := s.createContext(principalRepository)
	ticket := s.storeTicket(ctx, principal.Id())

	// act
	resp, err := HandleExchangeOAuthTicket(ctx, ExchangeOAuthTicket{
		Ticket: ticket,
	})

	// assert
	s.Require().NoError(err)
	s.Equal(principal.Id(), resp.PrincipalId)
	s.NotEmpty(resp.Tokens.Access)
	s.NotEmpty(resp.Tokens.Refresh)
}

func (s *ExchangeOAuthTicketSuite) TestTicketIsSingleUse() {
	// arrange
	ctrl := gomock.NewController(s.T())
	defer ctrl.Finish()

	principal := repositories.NewFederatedPrincipal("user@mail", "User", "google", "subject")
	principal.Mock(time.Now())
	principalRepository := mocks.NewMockPrincipalRepository(ctrl)
	principalRepository.EXPECT().Single(gomock.Any(), gomock.Any()).Return(principal, nil)

	ctx := s.createContext(principalRepository)
	ticket := s.storeTicket(ctx, principal.Id())

	_, err := HandleExchangeOAuthTicket(ctx, ExchangeOAuthTicket{Ticket: ticket})
	s.Require().NoError(err)

	// act
	resp, err := HandleExchangeOAuthTicket(ctx, ExchangeOAuthTicket{Ticket: ticket})

	// assert
	s.ErrorIs(err, utils.ErrInvalidTicket)
	s.Nil(resp)
}

func (s *ExchangeOAuthTicketSuite) TestUnknownTicket() {
	// arrange
	ctx := s.createContext(nil)

	// act
	resp, err := HandleExchangeOAuthTicket(ctx, ExchangeOAuthTicket{
		Ticket: "does-not-exist",
	})

	// assert
	s.ErrorIs(err, utils.ErrInvalidTicket)
	s.Nil(resp)
}
