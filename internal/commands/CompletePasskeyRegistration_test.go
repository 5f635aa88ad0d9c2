package commands

import (
	"Reviv/internal/clock"
	"Reviv/internal/jsonTypes"
	"Reviv/internal/middlewares"
	"Reviv/internal/repositories"
	"Reviv/internal/repositories/mocks"
	"Reviv/internal/services"
	"Reviv/internal/services/keyValue"
	"Reviv/internal/webauthn"
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

type CompletePasskeyRegistrationSuite struct {
	suite.Suite
}

func TestCompletePasskeyRegistrationSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(CompletePasskeyRegistrationSuite))
}

func (s *CompletePasskeyRegistrationSuite) createContext(
	passkeyRepository repositories.PasskeyRepository,
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

func (s *CompletePasskeyRegistrationSuite) storeRegisterChallenge(ctx context.Context, principalId uuid.UUID) (string, string) {
	challenge := generateChallenge()
	payload, err := json.Marshal(jsonTypes.PasskeyRegisterChallenge{
		PrincipalId: principalId,
		Challenge:   challenge,
	})
	s.Require().NoError(err)

	stateService := ioc.GetDependency[services.StateService](middlewares.GetScope(ctx))
	registrationId, err := stateService.Store(ctx, services.PasskeyRegisterStateType, string(payload), time.Minute)
	s.Require().NoError(err)

	return registrationId, challenge
}

func (s *CompletePasskeyRegistrationSuite) TestHappyPath() {
	// arrange
	ctrl := gomock.NewController(s.T())
	defer ctrl.Finish()

	principalId := uuid.New()
	credential := newTestCredential()

	passkeyRepository := mocks.NewMockPasskeyRepository(ctrl)
	passkeyRepository.EXPECT().Insert(gomock.Any(), gomock.Cond(func(x *repositories.Passkey) bool {
		return x.PrincipalId() == principalId &&
			x.CredentialId() == credential.credentialIdB64() &&
			x.PublicKeyAlgorithm() == webauthn.CoseAlgorithmES256 &&
			x.SignCount() == 0 &&
			x.Name() == "My Laptop"
	})).Return(nil)

	ctx := s.createContext(passkeyRepository)
	registrationId, challenge := s.storeRegisterChallenge(ctx, principalId)

	cmd := CompletePasskeyRegistration{
		PrincipalId:       principalId,
		RegistrationId:    registrationId,
		ClientDataJSON:    clientDataJSONB64("webauthn.create", challenge),
		AttestationObject: credential.attestationObjectB64(0),
		DeviceName:        "My Laptop",
	}

	// act
	resp, err := HandleCompletePasskeyRegistration(ctx, cmd)

	// assert
	s.Require().NoError(err)
	s.Equal("My Laptop", resp.DeviceName)
}

func (s *CompletePasskeyRegistrationSuite) TestEmptyDeviceNameGetsDefault() {
	// arrange
	ctrl := gomock.NewController(s.T())
	defer ctrl.Finish()

	principalId := uuid.New()
	credential := newTestCredential()

	passkeyRepository := mocks.NewMockPasskeyRepository(ctrl)
	passkeyRepository.EXPECT().Insert(gomock.Any(), gomock.Cond(func(x *repositories.Passkey) bool {
		return x.Name() == "Unnamed Device"
	})).Return(nil)

	ctx := s.createContext(passkeyRepository)
	registrationId, challenge := s.storeRegisterChallenge(ctx, principalId)

	cmd := CompletePasskeyRegistration{
		PrincipalId:       principalId,
		RegistrationId:    registrationId,
		ClientDataJSON:    clientDataJSONB64("webauthn.create", challenge),
		AttestationObject: credential.attestationObjectB64(0),
	}

	// act
	resp, err := HandleCompletePasskeyRegistration(ctx, cmd)

	// assert
	s.Require().NoError(err)
	s.Equal("Unnamed Device", resp.DeviceName)
}

func (s *CompletePasskeyRegistrationSuite) TestChallengeBelongsToAnotherPrincipal() {
	// arrange
	credential := newTestCredential()

	ctx := s.createContext(nil)
	registrationId, challenge := s.storeRegisterChallenge(ctx, uuid.New())

	cmd := CompletePasskeyRegistration{
		PrincipalId:       uuid.New(),
		RegistrationId:    registrationId,
		ClientDataJSON:    clientDataJSONB64("webauthn.create", challenge),
		AttestationObject: credential.attestationObjectB64(0),
	}

	// act
	resp, err := HandleCompletePasskeyRegistration(ctx, cmd)

	// assert
	s.ErrorIs(err, utils.ErrRegistrationForUser)
	s.Nil(resp)
}

func (s *CompletePasskeyRegistrationSuite) TestUnknownRegistrationId() {
	// arrange
	ctx := s.createContext(nil)

	cmd := CompletePasskeyRegistration{
		PrincipalId:    uuid.New(),
		RegistrationId: "does-not-exist",
	}

	// act
	resp, err := HandleCompletePasskeyRegistration(ctx, cmd)

	// assert
	s.ErrorIs(err, utils.ErrChallengeNotFound)
	s.Nil(resp)
}

func (s *CompletePasskeyRegistrationSuite) TestWrongCeremonyType() {
	// arrange
	principalId := uuid.New()
	credential := newTestCredential()

	ctx := s.createContext(nil)
	registrationId, challenge := s.storeRegisterChallenge(ctx, principalId)

	cmd := CompletePasskeyRegistration{
		PrincipalId:       principalId,
		RegistrationId:    registrationId,
		ClientDataJSON:    clientDataJSONB64("webauthn.get", challenge),
		AttestationObject: credential.attestationObjectB64(0),
	}

	// act
	resp, err := HandleCompletePasskeyRegistration(ctx, cmd)

	// assert
	s.ErrorIs(err, utils.ErrAttestationFailed)
	s.Nil(resp)
}
