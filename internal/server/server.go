package server

import (
	"Reviv/internal/config"
	"Reviv/internal/handlers"
	"Reviv/internal/logging"
	"Reviv/internal/middlewares"
	"fmt"
	"net/http"

	"github.com/The127/ioc"

	gh "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

func Serve(dp *ioc.DependencyProvider, serverConfig config.ServerConfig) {
	r := mux.NewRouter()

	r.Use(middlewares.RecoverMiddleware())
	r.Use(middlewares.LoggingMiddleware())
	r.Use(middlewares.ScopeMiddleware(dp))

	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/debug/vars", handlers.ExpvarVars).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/metrics", handlers.PrometheusMetrics).Methods(http.MethodGet, http.MethodOptions)

	apiRouter := r.PathPrefix("/auth").Subrouter()

	apiRouter.Use(gh.CORS(
		gh.AllowedOrigins(serverConfig.AllowedOrigins),
		gh.AllowedMethods([]string{"GET", "POST", "DELETE"}),
		gh.AllowedHeaders([]string{"Authorization", "Content-Type"}),
		gh.AllowCredentials(),
		gh.MaxAge(3600),
	))

	apiRouter.HandleFunc("/oauth/initiate", handlers.OAuthInitiate).Methods(http.MethodPost, http.MethodOptions)
	apiRouter.HandleFunc("/oauth/callback/{provider}", handlers.OAuthCallback).Methods(http.MethodGet, http.MethodPost, http.MethodOptions)
	apiRouter.HandleFunc("/oauth/exchange", handlers.OAuthExchange).Methods(http.MethodPost, http.MethodOptions)

	apiRouter.HandleFunc("/token/refresh", handlers.RefreshToken).Methods(http.MethodPost, http.MethodOptions)

	// Auth runs before the rate limiter so the register window is keyed by
	// principal as well as client address.
	bearerRegisterRouter := apiRouter.NewRoute().Subrouter()
	bearerRegisterRouter.Use(middlewares.AuthenticationMiddleware())
	bearerRegisterRouter.Use(middlewares.RateLimitMiddleware("register", config.C.RateLimit.CeremonyPerMinute))
	bearerRegisterRouter.HandleFunc("/passkey/register/begin", handlers.BeginPasskeyRegistration).Methods(http.MethodPost, http.MethodOptions)
	bearerRegisterRouter.HandleFunc("/passkey/register/complete", handlers.CompletePasskeyRegistration).Methods(http.MethodPost, http.MethodOptions)

	registerRouter := apiRouter.NewRoute().Subrouter()
	registerRouter.Use(middlewares.RateLimitMiddleware("register", config.C.RateLimit.CeremonyPerMinute))
	registerRouter.HandleFunc("/email-passkey/register/begin", handlers.BeginEmailPasskeyRegistration).Methods(http.MethodPost, http.MethodOptions)
	registerRouter.HandleFunc("/email-passkey/register/complete", handlers.CompleteEmailPasskeyRegistration).Methods(http.MethodPost, http.MethodOptions)

	loginRouter := apiRouter.NewRoute().Subrouter()
	loginRouter.Use(middlewares.RateLimitMiddleware("login", config.C.RateLimit.AssertionPerMinute))
	loginRouter.HandleFunc("/passkey/login/begin", handlers.BeginPasskeyLogin).Methods(http.MethodPost, http.MethodOptions)
	loginRouter.HandleFunc("/passkey/login/complete", handlers.CompletePasskeyLogin).Methods(http.MethodPost, http.MethodOptions)

	bearerRouter := apiRouter.NewRoute().Subrouter()
	bearerRouter.Use(middlewares.AuthenticationMiddleware())
	bearerRouter.HandleFunc("/me", handlers.Me).Methods(http.MethodGet, http.MethodOptions)
	bearerRouter.HandleFunc("/logout", handlers.Logout).Methods(http.MethodPost, http.MethodOptions)
	bearerRouter.HandleFunc("/passkeys", handlers.ListPasskeys).Methods(http.MethodGet, http.MethodOptions)
	bearerRouter.HandleFunc("/passkeys/{passkeyId}", handlers.DeletePasskey).Methods(http.MethodDelete, http.MethodOptions)

	addr := fmt.Sprintf("%s:%d", serverConfig.Host, serverConfig.Port)
	logging.Logger.Infof("running server at %s", addr)
	srv := &http.Server{
		Handler: r,
		Addr:    addr,
	}

	go serve(srv)
}

func serve(srv *http.Server) {
	err := srv.ListenAndServe()
	if err != nil {
		panic(fmt.Errorf("error while running server: %w", err))
	}
}
