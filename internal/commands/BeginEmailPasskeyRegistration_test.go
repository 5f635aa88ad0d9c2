package commands

import (
	"Reviv/internal/clock"
	"Reviv/internal/middlewares"
	"Reviv/internal/repositories"
	"Reviv/internal/repositories/mocks"
	"Reviv/internal/services"
	"Reviv/internal/services/keyValue"
	"Reviv/utils"
	"context"
	"testing"
	"time"

	"github.com/The127/ioc"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BeginEmailPasskeyRegistrationSuite struct {
	suite.Suite
}

func TestBeginEmailPasskeyRegistrationSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(BeginEmailPasskeyRegistrationSuite))
}

func (s *BeginEmailPasskeyRegistrationSuite) createContext(
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

func (s *BeginEmailPasskeyRegistrationSuite) TestCreatesNewPrincipal() {
	// arrange
	ctrl := gomock.NewController(s.T())
	defer ctrl.Finish()

	principalRepository := mocks.NewMockPrincipalRepository(ctrl)
	principalRepository.EXPECT().First(gomock.Any(), gomock.Cond(func(x repositories.PrincipalFilter) bool {
		return x.GetEmail() == "user@mail"
	})).Return(nil, nil)
	principalRepository.EXPECT().Insert(gomock.Any(), gomock.Cond(func(x *repositories.Principal) bool {
		return x.Email() == "user@mail" &&
			x.DisplayName() == "User" &&
			x.OAuthProvider() == nil
	})).Return(nil)

	ctx := s.createContext(principalRepository)
	cmd := BeginEmailPasskeyRegistration{
		Email:       "User@Mail",
		DisplayName: "User",
	}

	// act
	resp, err := HandleBeginEmailPasskeyRegistration(ctx, cmd)

	// assert
	s.Require().NoError(err)
	s.NotEmpty(resp.RegistrationId)
	s.NotEmpty(resp.Challenge)
	s.Equal("user@mail", resp.UserName)
}

func (s *BeginEmailPasskeyRegistrationSuite) TestEmptyDisplayNameFallsBackToEmail() {
	// arrange
	ctrl := gomock.NewController(s.T())
	defer ctrl.Finish()

	principalRepository := mocks.NewMockPrincipalRepository(ctrl)
	principalRepository.EXPECT().First(gomock.Any(), gomock.Any()).Return(nil, nil)
	principalRepository.EXPECT().Insert(gomock.Any(), gomock.Cond(func(x *repositories.Principal) bool {
		return x.DisplayName() == "user@mail"
	})).Return(nil)

	ctx := s.createContext(principalRepository)

	// act
	resp, err := HandleBeginEmailPasskeyRegistration(ctx, BeginEmailPasskeyRegistration{
		Email: "user@mail",
	})

	// assert
	s.Require().NoError(err)
	s.Equal("user@mail", resp.UserDisplayName)
}

func (s *BeginEmailPasskeyRegistrationSuite) TestExistingPrincipalIsReused() {
	// arrange
	ctrl := gomock.NewController(s.T())
	defer ctrl.Finish()

	principal := repositories.NewPrincipal("user@mail", "User")
	principal.Mock(time.Now())
	principalRepository := mocks.NewMockPrincipalRepository(ctrl)
	principalRepository.EXPECT().First(gomock.Any(), gomock.Any()).Return(principal, nil)

	ctx := s.createContext(principalRepository)

	// act
	resp, err := HandleBeginEmailPasskeyRegistration(ctx, BeginEmailPasskeyRegistration{
		Email: "user@mail",
	})

	// assert
	s.Require().NoError(err)
	s.Equal(principal.Id(), resp.UserId)
}

func (s *BeginEmailPasskeyRegistrationSuite) TestFederatedPrincipalConflicts() {
	// arrange
	ctrl := gomock.NewController(s.T())
	defer ctrl.Finish()

	principal := repositories.NewFederatedPrincipal("user@mail", "User", "google", "subject")
	principal.Mock(time.Now())
	principalRepository := mocks.NewMockPrincipalRepository(ctrl)
	principalRepository.EXPECT().First(gomock.Any(), gomock.Any()).Return(principal, nil)

	ctx := s.createContext(principalRepository)

	// act
	resp, err := HandleBeginEmailPasskeyRegistration(ctx, BeginEmailPasskeyRegistration{
		Email: "user@mail",
	})

	// assert
	s.ErrorIs(err, utils.ErrConflictingIdentity)
	s.Nil(resp)
}
