package handlers

import (
	"Reviv/internal/commands"
	"Reviv/internal/config"
	"Reviv/internal/middlewares"
	"Reviv/internal/queries"
	"Reviv/internal/services"
	"Reviv/utils"
	"encoding/json"
	"net/http"

	"github.com/The127/ioc"
	"github.com/The127/mediatr"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type userDto struct {
	Id          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
}

type OAuthInitiateRequestDto struct {
	Provider string `json:"provider" validate:"required"`
	ReturnTo string `json:"return_to"`
}

type OAuthInitiateResponseDto struct {
	AuthUrl string `json:"auth_url"`
}

// OAuthInitiate starts a provider login and returns the authorization url.
func OAuthInitiate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scope := middlewares.GetScope(ctx)

	var dto OAuthInitiateRequestDto
	err := utils.DecodeDto(r, &dto)
	if err != nil {
		utils.HandleHttpError(w, err)
		return
	}

	err = utils.ValidateDto(dto)
	if err != nil {
		utils.HandleHttpError(w, err)
		return
	}

	m := ioc.GetDependency[mediatr.Mediator](scope)
	response, err := mediatr.Send[*commands.InitiateOAuthResponse](ctx, m, commands.InitiateOAuth{
		Provider: dto.Provider,
		ReturnTo: dto.ReturnTo,
	})
	if err != nil {
		utils.HandleHttpError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(OAuthInitiateResponseDto{
		AuthUrl: response.AuthUrl,
	})
	if err != nil {
		utils.HandleHttpError(w, err)
		return
	}
}

type OAuthCallbackResponseDto struct {
	AccessToken string  `json:"access"`
	Refresh     string  `json:"refresh"`
	User        userDto `json:"user"`
}

// callbackParam reads an authorization response parameter. Providers using
// response_mode=form_post deliver code and state in a POST body instead of
// the query string.
func callbackParam(r *http.Request, name string) string {
	if value := r.URL.Query().Get(name); value != "" {
		return value
	}
	return r.PostFormValue(name)
}

// OAuthCallback is the provider redirect target. With a stored return_to it
// redirects to the frontend carrying a one-time ticket, otherwise it answers
// with the token pair directly.
func OAuthCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scope := middlewares.GetScope(ctx)

	vars := mux.Vars(r)

	m := ioc.GetDependency[mediatr.Mediator](scope)
	response, err := mediatr.Send[*commands.CompleteOAuthCallbackResponse](ctx, m, commands.CompleteOAuthCallback{
		Provider:      vars["provider"],
		Code:          callbackParam(r, "code"),
		State:         callbackParam(r, "state"),
		ProviderError: callbackParam(r, "error"),
	})
	if err != nil {
		utils.HandleHttpError(w, err)
		return
	}

	if response.RedirectUrl != "" {
		http.Redirect(w, r, response.RedirectUrl, http.StatusFound)
		return
	}

	middlewares.SetRefreshCookie(w, response.Tokens.Refresh, config.C.Jwt.RefreshTokenLifetime)

	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(OAuthCallbackResponseDto{
		AccessToken: response.Tokens.Access,
		Refresh:     response.Tokens.Refresh,
		User: userDto{
			Id:          response.PrincipalId,
			Email:       response.Email,
			DisplayName: response.DisplayName,
		},
	})
	if err != nil {
		utils.HandleHttpError(w, err)
		return
	}
}

type OAuthExchangeRequestDto struct {
	Ticket string `json:"ticket" validate:"required"`
}

type OAuthExchangeResponseDto struct {
	AccessToken string  `json:"access"`
	User        userDto `json:"user"`
}

// OAuthExchange redeems a one-time ticket for a session. The refresh token
// only travels in the cookie here.
func OAuthExchange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scope := middlewares.GetScope(ctx)

	var dto OAuthExchangeRequestDto
	err := utils.DecodeDto(r, &dto)
	if err != nil {
		utils.HandleHttpError(w, err)
		return
	}

	err = utils.ValidateDto(dto)
	if err != nil {
		utils.HandleHttpError(w, err)
		return
	}

	m := ioc.GetDependency[mediatr.Mediator](scope)
	response, err := mediatr.Send[*commands.ExchangeOAuthTicketResponse](ctx, m, commands.ExchangeOAuthTicket{
		Ticket: dto.Ticket,
	})
	if err != nil {
		utils.HandleHttpError(w, err)
		return
	}

	middlewares.SetRefreshCookie(w, response.Tokens.Refresh, config.C.Jwt.RefreshTokenLifetime)

	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(OAuthExchangeResponseDto{
		AccessToken: response.Tokens.Access,
		User: userDto{
			Id:          response.PrincipalId,
			Email:       response.Email,
			DisplayName: response.DisplayName,
		},
	})
	if err != nil {
		utils.HandleHttpError(w, err)
		return
	}
}

type RefreshTokenRequestDto struct {
	Refresh string `json:"refresh"`
}

type RefreshTokenResponseDto struct {
	AccessToken string `json:"access"`
}

// RefreshToken mints a new access token from the refresh cookie or, for
// non-cookie clients, a refresh field in the body.
func RefreshToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scope := middlewares.GetScope(ctx)

	refreshToken := ""
	if cookie, err := r.Cookie(config.C.Cookie.Name); err == nil {
		refreshToken = cookie.Value
	}

	if refreshToken == "" {
		var dto RefreshTokenRequestDto
		err := json.NewDecoder(r.Body).Decode(&dto)
		if err == nil {
			refreshToken = dto.Refresh
		}
	}

	if refreshToken == "" {
		utils.HandleHttpError(w, utils.ErrInvalidToken)
		return
	}

	sessionService := ioc.GetDependency[services.SessionService](scope)
	access, err := sessionService.Refresh(ctx, refreshToken)
	if err != nil {
		utils.HandleHttpError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(RefreshTokenResponseDto{
		AccessToken: access,
	})
	if err != nil {
		utils.HandleHttpError(w, err)
		return
	}
}

type LogoutResponseDto struct {
	LoggedOut bool `json:"logged_out"`
}

// Logout clears the refresh cookie. Access tokens are stateless and simply
// age out.
func Logout(w http.ResponseWriter, r *http.Request) {
	middlewares.ClearRefreshCookie(w)

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(LogoutResponseDto{
		LoggedOut: true,
	})
	if err != nil {
		utils.HandleHttpError(w, err)
		return
	}
}

type MeResponseDto struct {
	Id            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	DisplayName   string    `json:"display_name"`
	HasPasskeys   bool      `json:"has_passkeys"`
	OAuthProvider *string   `json:"oauth_provider"`
}

// Me returns the authenticated principal.
func Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scope := middlewares.GetScope(ctx)

	principal, ok := middlewares.GetPrincipal(ctx)
	if !ok {
		utils.HandleHttpError(w, utils.ErrNotAuthenticated)
		return
	}

	m := ioc.GetDependency[mediatr.Mediator](scope)
	response, err := mediatr.Send[*queries.GetPrincipalQueryResult](ctx, m, queries.GetPrincipalQuery{
		PrincipalId: principal.PrincipalId(),
	})
	if err != nil {
		utils.HandleHttpError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(MeResponseDto{
		Id:            response.Id,
		Email:         response.Email,
		DisplayName:   response.DisplayName,
		HasPasskeys:   response.HasPasskeys,
		OAuthProvider: response.OAuthProvider,
	})
	if err != nil {
		utils.HandleHttpError(w, err)
		return
	}
}
