package commands

import (
	"Reviv/internal/config"
	"Reviv/internal/webauthn"
	"Reviv/utils"
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

const challengeByteLength = 64

type clientData struct {
	Type      string `json:"type"`
	Challenge string `json:"challenge"`
	Origin    string `json:"origin"`
}

func generateChallenge() string {
	return base64.RawURLEncoding.EncodeToString(utils.GetSecureRandomBytes(challengeByteLength))
}

// verifyClientData decodes clientDataJSON and checks the ceremony type, the
// challenge binding and the origin. It returns the raw bytes because the
// assertion signature covers them.
func verifyClientData(clientDataJSONB64 string, expectedType string, expectedChallenge string) ([]byte, error) {
	clientDataJSON, err := webauthn.DecodeWebauthnBase64(clientDataJSONB64)
	if err != nil {
		return nil, fmt.Errorf("decoding clientDataJSON: %w", err)
	}

	var data clientData
	if err := json.Unmarshal(clientDataJSON, &data); err != nil {
		return nil, fmt.Errorf("parsing clientDataJSON: %w", err)
	}

	if data.Type != expectedType {
		return nil, fmt.Errorf("unexpected client data type %q", data.Type)
	}

	// Challenges are compared as bytes, browsers re-encode the base64url.
	gotChallenge, err := webauthn.DecodeWebauthnBase64(data.Challenge)
	if err != nil {
		return nil, fmt.Errorf("decoding client data challenge: %w", err)
	}
	wantChallenge, err := base64.RawURLEncoding.DecodeString(expectedChallenge)
	if err != nil {
		return nil, fmt.Errorf("decoding stored challenge: %w", err)
	}
	if !bytes.Equal(gotChallenge, wantChallenge) {
		return nil, fmt.Errorf("challenge mismatch")
	}

	if data.Origin != config.C.RelyingParty.Origin {
		return nil, fmt.Errorf("unexpected origin %q", data.Origin)
	}

	return clientDataJSON, nil
}

// verifyAttestation runs the create-ceremony checks and returns the parsed
// authenticator data with the new credential.
func verifyAttestation(challenge string, clientDataJSONB64 string, attestationObjectB64 string) (*webauthn.AuthData, error) {
	_, err := verifyClientData(clientDataJSONB64, "webauthn.create", challenge)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", err, utils.ErrAttestationFailed)
	}

	attestationBytes, err := webauthn.DecodeWebauthnBase64(attestationObjectB64)
	if err != nil {
		return nil, fmt.Errorf("decoding attestation object: %w: %w", err, utils.ErrAttestationFailed)
	}

	attestation, err := webauthn.ParseAttestationObject(attestationBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", err, utils.ErrAttestationFailed)
	}

	authData, err := webauthn.ParseAuthData(attestation.AuthData)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", err, utils.ErrAttestationFailed)
	}

	if !authData.VerifyRpIdHash(config.C.RelyingParty.Id) {
		return nil, fmt.Errorf("rp id hash mismatch: %w", utils.ErrAttestationFailed)
	}

	if !authData.UserPresent() {
		return nil, fmt.Errorf("user not present: %w", utils.ErrAttestationFailed)
	}

	if !authData.HasAttestedCredentialData() {
		return nil, fmt.Errorf("no attested credential data: %w", utils.ErrAttestationFailed)
	}

	return authData, nil
}
