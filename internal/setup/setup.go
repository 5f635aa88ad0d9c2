package setup

import (
	"Reviv/internal/config"
	"Reviv/internal/middlewares"
	"Reviv/internal/services"
	"Reviv/internal/services/keyValue"

	"github.com/The127/ioc"
)

func Caching(dc *ioc.DependencyCollection, mode config.CacheMode) {
	ioc.RegisterSingleton(dc, func(dp *ioc.DependencyProvider) keyValue.Store {
		switch mode {
		case config.CacheModeMemory:
			return keyValue.NewMemoryStore()

		case config.CacheModeRedis:
			return keyValue.NewRedisStore()

		default:
			panic("cache mode missing or not supported")
		}
	})
}

func Services(dc *ioc.DependencyCollection) {
	ioc.RegisterSingleton(dc, func(dp *ioc.DependencyProvider) services.StateService {
		return services.NewStateService()
	})
	ioc.RegisterSingleton(dc, func(dp *ioc.DependencyProvider) services.SessionService {
		return services.NewSessionService()
	})
	ioc.RegisterSingleton(dc, func(dp *ioc.DependencyProvider) middlewares.TokenVerifier {
		return ioc.GetDependency[services.SessionService](dp)
	})
	ioc.RegisterSingleton(dc, func(dp *ioc.DependencyProvider) middlewares.RateLimiter {
		return services.NewRateLimitService()
	})
	ioc.RegisterSingleton(dc, func(dp *ioc.DependencyProvider) services.OAuthService {
		return services.NewOAuthService()
	})
}
