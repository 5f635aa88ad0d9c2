package utils

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func ValidateDto(s any) error {
	err := validate.Struct(s)
	if err != nil {
		return fmt.Errorf("invalid request: %s: %w", err.Error(), ErrHttpBadRequest)
	}

	return nil
}

// DecodeDto reads a JSON request body. Malformed bodies are a client error,
// not an internal one.
func DecodeDto(r *http.Request, dto any) error {
	err := json.NewDecoder(r.Body).Decode(dto)
	if err != nil {
		return fmt.Errorf("decoding request body: %s: %w", err.Error(), ErrHttpBadRequest)
	}

	return nil
}
