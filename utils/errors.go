package utils

import (
	"Reviv/internal/config"
	"Reviv/internal/logging"
	"encoding/json"
	"errors"
	"net/http"
)

var ErrHttpBadRequest = errors.New("bad request")
var ErrHttpUnauthorized = errors.New("unauthorized")
var ErrHttpNotFound = errors.New("not found")
var ErrHttpConflict = errors.New("conflict")
var ErrHttpTooManyRequests = errors.New("too many requests")

// HttpError is a sentinel-wrapping error that carries the machine-readable
// code surfaced in the uniform error body.
type HttpError struct {
	Code    string
	Message string
	Details map[string]any

	cause error
}

func (e *HttpError) Error() string {
	return e.Message
}

func (e *HttpError) Unwrap() error {
	return e.cause
}

func (e *HttpError) WithDetails(details map[string]any) *HttpError {
	clone := *e
	clone.Details = details
	return &clone
}

func NewHttpError(code string, message string, cause error) *HttpError {
	return &HttpError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

var (
	ErrInvalidReturnTo     = NewHttpError("INVALID_RETURN_TO", "return_to must be a relative path or share the frontend origin", ErrHttpBadRequest)
	ErrProviderError       = NewHttpError("PROVIDER_ERROR", "the oauth provider reported an error", ErrHttpBadRequest)
	ErrInvalidState        = NewHttpError("INVALID_STATE", "oauth state is unknown or expired", ErrHttpBadRequest)
	ErrInvalidTicket       = NewHttpError("INVALID_TICKET", "ticket is invalid or expired", ErrHttpBadRequest)
	ErrInvalidToken        = NewHttpError("INVALID_TOKEN", "token is invalid or expired", ErrHttpUnauthorized)
	ErrNotAuthenticated    = NewHttpError("NOT_AUTHENTICATED", "authentication required", ErrHttpUnauthorized)
	ErrChallengeNotFound   = NewHttpError("CHALLENGE_NOT_FOUND", "no ceremony in progress", ErrHttpBadRequest)
	ErrRegistrationForUser = NewHttpError("REGISTRATION_MISMATCH", "registration does not match the authenticated user", ErrHttpBadRequest)
	ErrAttestationFailed   = NewHttpError("ATTESTATION_FAILED", "attestation verification failed", ErrHttpBadRequest)
	ErrAuthFailed          = NewHttpError("AUTH_FAILED", "assertion verification failed", ErrHttpUnauthorized)
	ErrReplayDetected      = NewHttpError("REPLAY_DETECTED", "replay detected", ErrHttpBadRequest)
	ErrUnknownCredential   = NewHttpError("UNKNOWN_CREDENTIAL", "unknown credential", ErrHttpNotFound)
	ErrCredentialExists    = NewHttpError("CREDENTIAL_EXISTS", "credential is already registered", ErrHttpConflict)
	ErrConflictingIdentity = NewHttpError("CONFLICTING_IDENTITY", "email is already bound to another identity", ErrHttpConflict)
	ErrRateLimited         = NewHttpError("RATE_LIMITED", "too many requests", ErrHttpTooManyRequests)
	ErrPrincipalNotFound   = NewHttpError("NOT_FOUND", "principal not found", ErrHttpNotFound)
	ErrPasskeyNotFound     = NewHttpError("CREDENTIAL_NOT_FOUND", "passkey not found", ErrHttpNotFound)
)

type errorBody struct {
	Error errorBodyContent `json:"error"`
}

type errorBodyContent struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

// HandleHttpError writes the uniform error body for err. The status is
// derived from the sentinel chain, the code from the closest HttpError.
func HandleHttpError(w http.ResponseWriter, err error) {
	var status int
	code := "INTERNAL_ERROR"
	msg := err.Error()
	details := map[string]any{}

	var httpError *HttpError
	if errors.As(err, &httpError) {
		code = httpError.Code
		msg = httpError.Message
		if httpError.Details != nil {
			details = httpError.Details
		}
	}

	switch {
	case errors.Is(err, ErrHttpBadRequest):
		status = http.StatusBadRequest
		if code == "INTERNAL_ERROR" {
			code = "VALIDATION_ERROR"
		}

	case errors.Is(err, ErrHttpUnauthorized):
		status = http.StatusUnauthorized
		if code == "INTERNAL_ERROR" {
			code = "NOT_AUTHENTICATED"
		}

	case errors.Is(err, ErrHttpNotFound):
		status = http.StatusNotFound
		if code == "INTERNAL_ERROR" {
			code = "NOT_FOUND"
		}

	case errors.Is(err, ErrHttpConflict):
		status = http.StatusConflict
		if code == "INTERNAL_ERROR" {
			code = "CONFLICT"
		}

	case errors.Is(err, ErrHttpTooManyRequests):
		status = http.StatusTooManyRequests
		code = "RATE_LIMITED"

	default:
		status = http.StatusInternalServerError
		if config.IsProduction() {
			msg = "internal server error"
		}
		logging.Logger.Errorf("internal error: %v", err)
	}

	WriteJsonError(w, status, code, msg, details)
}

func WriteJsonError(w http.ResponseWriter, status int, code string, msg string, details map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if details == nil {
		details = map[string]any{}
	}

	err := json.NewEncoder(w).Encode(errorBody{
		Error: errorBodyContent{
			Code:    code,
			Message: msg,
			Details: details,
		},
	})
	if err != nil {
		logging.Logger.Errorf("writing error body: %v", err)
	}
}

func PanicOnError(f func() error, msg string) {
	err := f()
	if err != nil {
		logging.Logger.Fatalf("%s: %v", msg, err)
	}
}
