package queries

import (
	"Reviv/internal/middlewares"
	"Reviv/internal/repositories"
	"Reviv/internal/repositories/mocks"
	"Reviv/utils"
	"context"
	"testing"
	"time"

	"github.com/The127/ioc"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type GetPrincipalQuerySuite struct {
	suite.Suite
}

func TestGetPrincipalQuerySuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(GetPrincipalQuerySuite))
}

func (s *GetPrincipalQuerySuite) createContext(
	principalRepository repositories.PrincipalRepository,
	passkeyRepository repositories.PasskeyRepository,
) context.Context {
	dc := ioc.NewDependencyCollection()

	if principalRepository != nil {
		ioc.RegisterTransient(dc, func(_ *ioc.DependencyProvider) repositories.PrincipalRepository {
			return principalRepository
		})
	}

	if passkeyRepository != nil {
		ioc.RegisterTransient(dc, func(_ *ioc.DependencyProvider) repositories.PasskeyRepository {
			return passkeyRepository
		})
	}

	scope := dc.BuildProvider()
	s.T().Cleanup(func() {
		utils.PanicOnError(scope.Close, "closing scope")
	})

	return middlewares.ContextWithScope(s.T().Context(), scope)
}

func (s *GetPrincipalQuerySuite) TestHappyPath() {
	// arrange
	ctrl := gomock.NewController(s.T())
	defer ctrl.Finish()

	now := time.Now()

	principal := repositories.NewPrincipal("user@mail", "User")
	principal.Mock(now)
	principalRepository := mocks.NewMockPrincipalRepository(ctrl)
	principalRepository.EXPECT().Single(gomock.Any(), gomock.Cond(func(x repositories.PrincipalFilter) bool {
		return x.GetId() == principal.Id()
	})).Return(principal, nil)

	passkey := repositories.NewPasskey(principal.Id(), "credential", nil, -7, 0, "Test Device")
	passkey.Mock(now)
	passkeyRepository := mocks.NewMockPasskeyRepository(ctrl)
	passkeyRepository.EXPECT().List(gomock.Any(), gomock.Any()).Return([]*repositories.Passkey{passkey}, nil)

	ctx := s.createContext(principalRepository, passkeyRepository)

	// act
	result, err := HandleGetPrincipalQuery(ctx, GetPrincipalQuery{
		PrincipalId: principal.Id(),
	})

	// assert
	s.Require().NoError(err)
	s.Equal(principal.Id(), result.Id)
	s.Equal("user@mail", result.Email)
	s.Equal("User", result.DisplayName)
	s.True(result.HasPasskeys)
	s.Nil(result.OAuthProvider)
}

func (s *GetPrincipalQuerySuite) TestFederatedPrincipalWithoutPasskeys() {
	// arrange
	ctrl := gomock.NewController(s.T())
	defer ctrl.Finish()

	principal := repositories.NewFederatedPrincipal("user@mail", "User", "google", "subject")
	principal.Mock(time.Now())
	principalRepository := mocks.NewMockPrincipalRepository(ctrl)
	principalRepository.EXPECT().Single(gomock.Any(), gomock.Any()).Return(principal, nil)

	passkeyRepository := mocks.NewMockPasskeyRepository(ctrl)
	passkeyRepository.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, nil)

	ctx := s.createContext(principalRepository, passkeyRepository)

	// act
	result, err := HandleGetPrincipalQuery(ctx, GetPrincipalQuery{
		PrincipalId: principal.Id(),
	})

	// assert
	s.Require().NoError(err)
	s.False(result.HasPasskeys)
	s.Equal("google", utils.ZeroIfNil(result.OAuthProvider))
}

func (s *GetPrincipalQuerySuite) TestUnknownPrincipal() {
	// arrange
	ctrl := gomock.NewController(s.T())
	defer ctrl.Finish()

	principalRepository := mocks.NewMockPrincipalRepository(ctrl)
	principalRepository.EXPECT().Single(gomock.Any(), gomock.Any()).Return(nil, utils.ErrPrincipalNotFound)

	ctx := s.createContext(principalRepository, nil)

	// act
	result, err := HandleGetPrincipalQuery(ctx, GetPrincipalQuery{})

	// assert
	s.ErrorIs(err, utils.ErrPrincipalNotFound)
	s.Nil(result)
}
