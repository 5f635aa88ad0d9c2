package services

import (
	"Reviv/internal/middlewares"
	"Reviv/internal/services/keyValue"
	"Reviv/utils"
	"context"
	"fmt"
	"time"

	"github.com/The127/ioc"
)

// rateLimitService counts requests in fixed one-minute windows on top of the
// key-value store. The counter key carries the group and the client (ip or
// principal); the window starts on the first hit and the key expires with it.
type rateLimitService struct {
}

func NewRateLimitService() middlewares.RateLimiter {
	return &rateLimitService{}
}

func (s *rateLimitService) Allow(ctx context.Context, group string, client string, perMinute int) error {
	scope := middlewares.GetScope(ctx)
	kvStore := ioc.GetDependency[keyValue.Store](scope)

	key := fmt.Sprintf("ratelimit:%s:%s", group, client)
	count, err := kvStore.Increment(ctx, key, time.Minute)
	if err != nil {
		return fmt.Errorf("incrementing rate limit counter: %w", err)
	}

	if count > int64(perMinute) {
		return utils.ErrRateLimited
	}

	return nil
}
