package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type DecodeDtoSuite struct {
	suite.Suite
}

func TestDecodeDtoSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(DecodeDtoSuite))
}

type decodeTestDto struct {
	Provider string `json:"provider" validate:"required"`
}

func (s *DecodeDtoSuite) TestDecodesValidBody() {
	// arrange
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"provider":"google"}`))

	// act
	var dto decodeTestDto
	err := DecodeDto(r, &dto)

	// assert
	s.Require().NoError(err)
	s.Equal("google", dto.Provider)
}

func (s *DecodeDtoSuite) TestMalformedBodyIsABadRequest() {
	// arrange
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"provider":`))

	// act
	var dto decodeTestDto
	err := DecodeDto(r, &dto)

	// assert
	s.Require().Error(err)
	s.ErrorIs(err, ErrHttpBadRequest)
}

func (s *DecodeDtoSuite) TestMalformedBodyMapsToValidationError() {
	// arrange
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"provider":`))
	w := httptest.NewRecorder()

	var dto decodeTestDto
	err := DecodeDto(r, &dto)
	s.Require().Error(err)

	// act
	HandleHttpError(w, err)

	// assert
	s.Equal(http.StatusBadRequest, w.Code)

	var body errorBody
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&body))
	s.Equal("VALIDATION_ERROR", body.Error.Code)
}

func (s *DecodeDtoSuite) TestEmptyBodyIsABadRequest() {
	// arrange
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))

	// act
	var dto decodeTestDto
	err := DecodeDto(r, &dto)

	// assert
	s.ErrorIs(err, ErrHttpBadRequest)
}
