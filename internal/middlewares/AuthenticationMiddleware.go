package middlewares

import (
	"Reviv/utils"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/The127/ioc"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type CurrentPrincipal struct {
	principalId uuid.UUID
}

func (p *CurrentPrincipal) PrincipalId() uuid.UUID {
	return p.principalId
}

type currentPrincipalCtxKeyType string

const (
	currentPrincipalCtxKey currentPrincipalCtxKeyType = "currentPrincipalCtxKey"
)

// TokenVerifier is implemented by the session service. Declared here so the
// middleware does not depend on the services package.
type TokenVerifier interface {
	VerifyAccessToken(tokenString string) (uuid.UUID, error)
}

// AuthenticationMiddleware requires a valid bearer access token and puts the
// verified principal into the request context.
func AuthenticationMiddleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			scope := GetScope(ctx)

			authorization := r.Header.Get("Authorization")
			if authorization == "" {
				utils.HandleHttpError(w, utils.ErrNotAuthenticated)
				return
			}

			tokenString, ok := strings.CutPrefix(authorization, "Bearer ")
			if !ok {
				utils.HandleHttpError(w, fmt.Errorf("unsupported authorization scheme: %w", utils.ErrHttpUnauthorized))
				return
			}

			verifier := ioc.GetDependency[TokenVerifier](scope)
			principalId, err := verifier.VerifyAccessToken(tokenString)
			if err != nil {
				utils.HandleHttpError(w, err)
				return
			}

			r = r.WithContext(ContextWithPrincipal(ctx, CurrentPrincipal{
				principalId: principalId,
			}))
			next.ServeHTTP(w, r)
		})
	}
}

func ContextWithPrincipal(ctx context.Context, principal CurrentPrincipal) context.Context {
	return context.WithValue(ctx, currentPrincipalCtxKey, principal)
}

func GetPrincipal(ctx context.Context) (CurrentPrincipal, bool) {
	value, ok := ctx.Value(currentPrincipalCtxKey).(CurrentPrincipal)
	return value, ok
}
