package services

import (
	"Reviv/internal/clock"
	"Reviv/internal/middlewares"
	"Reviv/internal/services/keyValue"
	"Reviv/utils"
	"context"
	"testing"
	"time"

	"github.com/The127/ioc"

	"github.com/stretchr/testify/suite"
)

type RateLimitServiceSuite struct {
	suite.Suite
}

func TestRateLimitServiceSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(RateLimitServiceSuite))
}

func (s *RateLimitServiceSuite) createContext() (context.Context, clock.TimeSetterFn) {
	dc := ioc.NewDependencyCollection()

	clockService, timeSetter := clock.NewMockServiceNow()
	ioc.RegisterTransient(dc, func(dp *ioc.DependencyProvider) clock.Service {
		return clockService
	})

	ioc.RegisterSingleton(dc, func(dp *ioc.DependencyProvider) keyValue.Store {
		return keyValue.NewMemoryStore()
	})

	scope := dc.BuildProvider()
	s.T().Cleanup(func() {
		utils.PanicOnError(scope.Close, "closing scope")
	})

	return middlewares.ContextWithScope(s.T().Context(), scope), timeSetter
}

func (s *RateLimitServiceSuite) TestAllowsUpToLimit() {
	// arrange
	ctx, _ := s.createContext()
	rateLimiter := NewRateLimitService()

	// act & assert
	for i := 0; i < 5; i++ {
		s.Require().NoError(rateLimiter.Allow(ctx, "register", "1.2.3.4", 5))
	}

	err := rateLimiter.Allow(ctx, "register", "1.2.3.4", 5)
	s.ErrorIs(err, utils.ErrRateLimited)
}

func (s *RateLimitServiceSuite) TestClientsAreCountedSeparately() {
	// arrange
	ctx, _ := s.createContext()
	rateLimiter := NewRateLimitService()

	for i := 0; i < 5; i++ {
		s.Require().NoError(rateLimiter.Allow(ctx, "register", "1.2.3.4", 5))
	}

	// act
	err := rateLimiter.Allow(ctx, "register", "5.6.7.8", 5)

	// assert
	s.NoError(err)
}

func (s *RateLimitServiceSuite) TestGroupsAreCountedSeparately() {
	// arrange
	ctx, _ := s.createContext()
	rateLimiter := NewRateLimitService()

	for i := 0; i < 5; i++ {
		s.Require().NoError(rateLimiter.Allow(ctx, "register", "1.2.3.4", 5))
	}

	// act
	err := rateLimiter.Allow(ctx, "login", "1.2.3.4", 10)

	// assert
	s.NoError(err)
}

func (s *RateLimitServiceSuite) TestWindowResets() {
	// arrange
	ctx, setTime := s.createContext()
	rateLimiter := NewRateLimitService()

	for i := 0; i < 5; i++ {
		s.Require().NoError(rateLimiter.Allow(ctx, "register", "1.2.3.4", 5))
	}
	s.Require().ErrorIs(rateLimiter.Allow(ctx, "register", "1.2.3.4", 5), utils.ErrRateLimited)

	setTime(time.Now().Add(time.Minute * 2))

	// act
	err := rateLimiter.Allow(ctx, "register", "1.2.3.4", 5)

	// assert
	s.NoError(err)
}
