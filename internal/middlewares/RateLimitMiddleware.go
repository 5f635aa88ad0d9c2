package middlewares

import (
	"Reviv/internal/config"
	"Reviv/utils"
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/The127/ioc"

	"github.com/gorilla/mux"
)

// RateLimiter is implemented by the rate limit service. Declared here so the
// middleware does not depend on the services package.
type RateLimiter interface {
	Allow(ctx context.Context, group string, client string, perMinute int) error
}

func clientAddress(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimitMiddleware gates a ceremony endpoint group to a fixed per-minute
// window, keyed by client address and, when authenticated, principal id.
func RateLimitMiddleware(group string, perMinute int) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions || config.C.RateLimit.Disabled {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			scope := GetScope(ctx)
			limiter := ioc.GetDependency[RateLimiter](scope)

			clients := []string{"ip:" + clientAddress(r)}
			if principal, ok := GetPrincipal(ctx); ok {
				clients = append(clients, "principal:"+principal.PrincipalId().String())
			}

			for _, client := range clients {
				err := limiter.Allow(ctx, group, client, perMinute)
				if err != nil {
					utils.HandleHttpError(w, err)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
