package handlers

import (
	"Reviv/internal/commands"
	"Reviv/internal/config"
	"Reviv/internal/middlewares"
	"Reviv/internal/queries"
	"Reviv/internal/webauthn"
	"Reviv/utils"
	"encoding/json"
	"net/http"
	"time"

	"github.com/The127/ioc"
	"github.com/The127/mediatr"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const webauthnTimeoutMs = 60000

type pubKeyCredParamDto struct {
	Type string `json:"type"`
	Alg  int    `json:"alg"`
}

type credentialDescriptorDto struct {
	Type string `json:"type"`
	Id   string `json:"id"`
}

type rpDto struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

type ceremonyUserDto struct {
	Id          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"displayName"`
}

func pubKeyCredParams() []pubKeyCredParamDto {
	return []pubKeyCredParamDto{
		{Type: "public-key", Alg: webauthn.CoseAlgorithmES256},
		{Type: "public-key", Alg: webauthn.CoseAlgorithmEd25519},
		{Type: "public-key", Alg: webauthn.CoseAlgorithmRS256},
	}
}

type BeginPasskeyRegistrationResponseDto struct {
	RegistrationId     string                    `json:"registration_id"`
	Challenge          string                    `json:"challenge"`
	Rp                 rpDto                     `json:"rp"`
	User               ceremonyUserDto           `json:"user"`
	PubKeyCredParams   []pubKeyCredParamDto      `json:"pubKeyCredParams"`
	Timeout            int                       `json:"timeout"`
	Attestation        string                    `json:"attestation"`
	ExcludeCredentials []credentialDescriptorDto `json:"excludeCredentials"`
}

// BeginPasskeyRegistration starts a credential-creation ceremony for the
// authenticated principal.
func BeginPasskeyRegistration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scope := middlewares.GetScope(ctx)

	principal, ok := middlewares.GetPrincipal(ctx)
	if !ok {
		utils.HandleHttpError(w, utils.ErrNotAuthenticated)
		return
	}

	m := ioc.GetDependency[mediatr.Mediator](scope)
	response, err := mediatr.Send[*commands.BeginPasskeyRegistrationResponse](ctx, m, commands.BeginPasskeyRegistration{
		PrincipalId: principal.PrincipalId(),
	})
	if err != nil {
		utils.HandleHttpError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(BeginPasskeyRegistrationResponseDto{
		RegistrationId: response.RegistrationId,
		Challenge:      response.Challenge,
		Rp: rpDto{
			Id:   response.RpId,
			Name: response.RpName,
		},
		User: ceremonyUserDto{
			Id:          response.UserId,
			Name:        response.UserName,
			DisplayName: response.UserDisplayName,
		},
		PubKeyCredParams: pubKeyCredParams(),
		Timeout:          webauthnTimeoutMs,
		Attestation:      "none",
		ExcludeCredentials: utils.MapSlice(response.ExcludeCredentialIds, func(id string) credentialDescriptorDto {
			return credentialDescriptorDto{
				Type: "public-key",
				Id:   id,
			}
		}),
	})
	if err != nil {
		utils.HandleHttpError(w, err)
		return
	}
}

type CompletePasskeyRegistrationRequestDto struct {
	RegistrationId    string `json:"registration_id" validate:"required"`
	ClientDataJSON    string `json:"client_data_json" validate:"required"`
	AttestationObject string `json:"attestation_object" validate:"required"`
	DeviceName        string `json:"device_name"`
}

type CompletePasskeyRegistrationResponseDto struct {
	Id         uuid.UUID `json:"id"`
	DeviceName string    `json:"device_name"`
}

// CompletePasskeyRegistration verifies the attestation and persists the new
// credential.
func CompletePasskeyRegistration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scope := middlewares.GetScope(ctx)

	principal, ok := middlewares.GetPrincipal(ctx)
	if !ok {
		utils.HandleHttpError(w, utils.ErrNotAuthenticated)
		return
	}

	var dto CompletePasskeyRegistrationRequestDto
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
	response, err := mediatr.Send[*commands.CompletePasskeyRegistrationResponse](ctx, m, commands.CompletePasskeyRegistration{
		PrincipalId:       principal.PrincipalId(),
		RegistrationId:    dto.RegistrationId,
		ClientDataJSON:    dto.ClientDataJSON,
		AttestationObject: dto.AttestationObject,
		DeviceName:        dto.DeviceName,
	})
	if err != nil {
		utils.HandleHttpError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(CompletePasskeyRegistrationResponseDto{
		Id:         response.PasskeyId,
		DeviceName: response.DeviceName,
	})
	if err != nil {
		utils.HandleHttpError(w, err)
		return
	}
}

type BeginEmailPasskeyRegistrationRequestDto struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"display_name"`
}

type BeginEmailPasskeyRegistrationResponseDto struct {
	RegistrationId   string               `json:"registration_id"`
	Challenge        string               `json:"challenge"`
	Rp               rpDto                `json:"rp"`
	User             ceremonyUserDto      `json:"user"`
	PubKeyCredParams []pubKeyCredParamDto `json:"pubKeyCredParams"`
	Timeout          int                  `json:"timeout"`
	Attestation      string               `json:"attestation"`
}

// BeginEmailPasskeyRegistration starts a creation ceremony for an anonymous
// caller identified by email, creating the principal when necessary.
func BeginEmailPasskeyRegistration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scope := middlewares.GetScope(ctx)

	var dto BeginEmailPasskeyRegistrationRequestDto
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
	response, err := mediatr.Send[*commands.BeginEmailPasskeyRegistrationResponse](ctx, m, commands.BeginEmailPasskeyRegistration{
		Email:       dto.Email,
		DisplayName: dto.DisplayName,
	})
	if err != nil {
		utils.HandleHttpError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(BeginEmailPasskeyRegistrationResponseDto{
		RegistrationId: response.RegistrationId,
		Challenge:      response.Challenge,
		Rp: rpDto{
			Id:   response.RpId,
			Name: response.RpName,
		},
		User: ceremonyUserDto{
			Id:          response.UserId,
			Name:        response.UserName,
			DisplayName: response.UserDisplayName,
		},
		PubKeyCredParams: pubKeyCredParams(),
		Timeout:          webauthnTimeoutMs,
		Attestation:      "none",
	})
	if err != nil {
		utils.HandleHttpError(w, err)
		return
	}
}

type CompleteEmailPasskeyRegistrationRequestDto struct {
	RegistrationId    string `json:"registration_id" validate:"required"`
	ClientDataJSON    string `json:"client_data_json" validate:"required"`
	AttestationObject string `json:"attestation_object" validate:"required"`
	DeviceName        string `json:"device_name"`
}

type CompleteEmailPasskeyRegistrationResponseDto struct {
	Id          uuid.UUID `json:"id"`
	DeviceName  string    `json:"device_name"`
	AccessToken string    `json:"access"`
	Refresh     string    `json:"refresh"`
	User        userDto   `json:"user"`
}

// CompleteEmailPasskeyRegistration verifies the attestation and logs the new
// device in.
func CompleteEmailPasskeyRegistration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scope := middlewares.GetScope(ctx)

	var dto CompleteEmailPasskeyRegistrationRequestDto
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
	response, err := mediatr.Send[*commands.CompleteEmailPasskeyRegistrationResponse](ctx, m, commands.CompleteEmailPasskeyRegistration{
		RegistrationId:    dto.RegistrationId,
		ClientDataJSON:    dto.ClientDataJSON,
		AttestationObject: dto.AttestationObject,
		DeviceName:        dto.DeviceName,
	})
	if err != nil {
		utils.HandleHttpError(w, err)
		return
	}

	middlewares.SetRefreshCookie(w, response.Tokens.Refresh, config.C.Jwt.RefreshTokenLifetime)

	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(CompleteEmailPasskeyRegistrationResponseDto{
		Id:          response.PasskeyId,
		DeviceName:  response.DeviceName,
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

type BeginPasskeyLoginResponseDto struct {
	AuthenticationId string `json:"authentication_id"`
	Challenge        string `json:"challenge"`
	RpId             string `json:"rpId"`
	Timeout          int    `json:"timeout"`
	UserVerification string `json:"userVerification"`
}

// BeginPasskeyLogin starts an anonymous assertion ceremony.
func BeginPasskeyLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scope := middlewares.GetScope(ctx)

	m := ioc.GetDependency[mediatr.Mediator](scope)
	response, err := mediatr.Send[*commands.BeginPasskeyLoginResponse](ctx, m, commands.BeginPasskeyLogin{})
	if err != nil {
		utils.HandleHttpError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(BeginPasskeyLoginResponseDto{
		AuthenticationId: response.AuthenticationId,
		Challenge:        response.Challenge,
		RpId:             response.RpId,
		Timeout:          webauthnTimeoutMs,
		UserVerification: "preferred",
	})
	if err != nil {
		utils.HandleHttpError(w, err)
		return
	}
}

type CompletePasskeyLoginRequestDto struct {
	AuthenticationId  string `json:"authentication_id" validate:"required"`
	CredentialId      string `json:"credential_id" validate:"required"`
	ClientDataJSON    string `json:"client_data_json" validate:"required"`
	AuthenticatorData string `json:"authenticator_data" validate:"required"`
	Signature         string `json:"signature" validate:"required"`
}

type CompletePasskeyLoginResponseDto struct {
	AccessToken string  `json:"access"`
	Refresh     string  `json:"refresh"`
	User        userDto `json:"user"`
}

// CompletePasskeyLogin verifies the assertion and issues a session.
func CompletePasskeyLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scope := middlewares.GetScope(ctx)

	var dto CompletePasskeyLoginRequestDto
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
	response, err := mediatr.Send[*commands.CompletePasskeyLoginResponse](ctx, m, commands.CompletePasskeyLogin{
		AuthenticationId:  dto.AuthenticationId,
		CredentialId:      dto.CredentialId,
		ClientDataJSON:    dto.ClientDataJSON,
		AuthenticatorData: dto.AuthenticatorData,
		Signature:         dto.Signature,
	})
	if err != nil {
		utils.HandleHttpError(w, err)
		return
	}

	middlewares.SetRefreshCookie(w, response.Tokens.Refresh, config.C.Jwt.RefreshTokenLifetime)

	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(CompletePasskeyLoginResponseDto{
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

type ListPasskeysResponseDto struct {
	Passkeys []ListPasskeysResponseItemDto `json:"passkeys"`
}

type ListPasskeysResponseItemDto struct {
	Id         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at"`
}

// ListPasskeys returns the caller's registered passkeys.
func ListPasskeys(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scope := middlewares.GetScope(ctx)

	principal, ok := middlewares.GetPrincipal(ctx)
	if !ok {
		utils.HandleHttpError(w, utils.ErrNotAuthenticated)
		return
	}

	m := ioc.GetDependency[mediatr.Mediator](scope)
	response, err := mediatr.Send[*queries.ListPasskeysQueryResult](ctx, m, queries.ListPasskeysQuery{
		PrincipalId: principal.PrincipalId(),
	})
	if err != nil {
		utils.HandleHttpError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(ListPasskeysResponseDto{
		Passkeys: utils.EmptyIfNil(utils.MapSlice(response.Items, func(x queries.ListPasskeysQueryResultItem) ListPasskeysResponseItemDto {
			return ListPasskeysResponseItemDto{
				Id:         x.Id,
				Name:       x.Name,
				CreatedAt:  x.CreatedAt,
				LastUsedAt: x.LastUsedAt,
			}
		})),
	})
	if err != nil {
		utils.HandleHttpError(w, err)
		return
	}
}

// DeletePasskey removes one of the caller's passkeys.
func DeletePasskey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scope := middlewares.GetScope(ctx)

	principal, ok := middlewares.GetPrincipal(ctx)
	if !ok {
		utils.HandleHttpError(w, utils.ErrNotAuthenticated)
		return
	}

	vars := mux.Vars(r)
	passkeyId, err := uuid.Parse(vars["passkeyId"])
	if err != nil {
		utils.HandleHttpError(w, utils.ErrPasskeyNotFound)
		return
	}

	m := ioc.GetDependency[mediatr.Mediator](scope)
	_, err = mediatr.Send[*commands.DeletePasskeyResponse](ctx, m, commands.DeletePasskey{
		PrincipalId: principal.PrincipalId(),
		PasskeyId:   passkeyId,
	})
	if err != nil {
		utils.HandleHttpError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
