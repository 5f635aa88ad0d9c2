package keyValue

import (
	"Reviv/internal/clock"
	"Reviv/internal/middlewares"
	"Reviv/utils"
	"context"
	"testing"
	"time"

	"github.com/The127/ioc"

	"github.com/stretchr/testify/suite"
)

type MemoryStoreSuite struct {
	suite.Suite
}

func TestMemoryStoreSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) createContext() (context.Context, clock.TimeSetterFn) {
	dc := ioc.NewDependencyCollection()

	clockService, timeSetter := clock.NewMockServiceNow()
	ioc.RegisterTransient(dc, func(dp *ioc.DependencyProvider) clock.Service {
		return clockService
	})

	scope := dc.BuildProvider()
	s.T().Cleanup(func() {
		utils.PanicOnError(scope.Close, "closing scope")
	})

	return middlewares.ContextWithScope(s.T().Context(), scope), timeSetter
}

func (s *MemoryStoreSuite) TestSetGet() {
	// arrange
	ctx, _ := s.createContext()
	store := NewMemoryStore()

	// act
	err := store.Set(ctx, "key", "value")
	s.Require().NoError(err)

	got, err := store.Get(ctx, "key")
	s.Require().NoError(err)

	// assert
	s.Equal("value", got)
}

func (s *MemoryStoreSuite) TestSetDeleteGet() {
	// arrange
	ctx, _ := s.createContext()
	store := NewMemoryStore()

	// act
	err := store.Set(ctx, "key", "value")
	s.Require().NoError(err)

	err = store.Delete(ctx, "key")
	s.Require().NoError(err)

	got, err := store.Get(ctx, "key")

	// assert
	s.Equal(ErrNotFound, err)
	s.Empty(got)
}

func (s *MemoryStoreSuite) TestGetExpired() {
	// arrange
	ctx, setTime := s.createContext()
	store := NewMemoryStore()

	// act
	err := store.Set(ctx, "key", "value", WithExpiration(time.Second))
	s.Require().NoError(err)

	setTime(time.Now().Add(time.Second * 2))

	got, err := store.Get(ctx, "key")

	// assert
	s.Equal(ErrNotFound, err)
	s.Empty(got)
}

func (s *MemoryStoreSuite) TestPopIsSingleUse() {
	// arrange
	ctx, _ := s.createContext()
	store := NewMemoryStore()

	err := store.Set(ctx, "key", "value")
	s.Require().NoError(err)

	// act
	first, firstErr := store.Pop(ctx, "key")
	second, secondErr := store.Pop(ctx, "key")

	// assert
	s.Require().NoError(firstErr)
	s.Equal("value", first)

	s.Equal(ErrNotFound, secondErr)
	s.Empty(second)
}

func (s *MemoryStoreSuite) TestPopExpired() {
	// arrange
	ctx, setTime := s.createContext()
	store := NewMemoryStore()

	err := store.Set(ctx, "key", "value", WithExpiration(time.Second))
	s.Require().NoError(err)

	setTime(time.Now().Add(time.Second * 2))

	// act
	got, err := store.Pop(ctx, "key")

	// assert
	s.Equal(ErrNotFound, err)
	s.Empty(got)
}

func (s *MemoryStoreSuite) TestIncrementCountsWithinWindow() {
	// arrange
	ctx, _ := s.createContext()
	store := NewMemoryStore()

	// act
	first, err := store.Increment(ctx, "counter", time.Minute)
	s.Require().NoError(err)

	second, err := store.Increment(ctx, "counter", time.Minute)
	s.Require().NoError(err)

	// assert
	s.Equal(int64(1), first)
	s.Equal(int64(2), second)
}

func (s *MemoryStoreSuite) TestIncrementStartsFreshWindowAfterExpiry() {
	// arrange
	ctx, setTime := s.createContext()
	store := NewMemoryStore()

	_, err := store.Increment(ctx, "counter", time.Minute)
	s.Require().NoError(err)

	setTime(time.Now().Add(time.Minute * 2))

	// act
	count, err := store.Increment(ctx, "counter", time.Minute)

	// assert
	s.Require().NoError(err)
	s.Equal(int64(1), count)
}
