package jsonTypes

import "github.com/google/uuid"

// PasskeyRegisterChallenge is the payload stored for an in-flight
// credential-creation ceremony.
type PasskeyRegisterChallenge struct {
	PrincipalId uuid.UUID `json:"principalId"`
	Challenge   string    `json:"challenge"`
}

// PasskeyLoginChallenge is the payload stored for an in-flight
// credential-assertion ceremony. No principal binding: the credential is not
// known until the assertion arrives.
type PasskeyLoginChallenge struct {
	Challenge string `json:"challenge"`
}

// OAuthState is the payload stored between initiate and the provider
// callback.
type OAuthState struct {
	Provider     string `json:"provider"`
	CodeVerifier string `json:"codeVerifier"`
	ReturnTo     string `json:"returnTo"`
}

// OAuthTicket is the payload behind a one-time ticket minted after a
// successful provider callback.
type OAuthTicket struct {
	PrincipalId uuid.UUID `json:"principalId"`
}
