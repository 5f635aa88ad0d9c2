package webauthn

import (
	"Reviv/utils"
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"
)

const (
	CoseAlgorithmES256   = -7
	CoseAlgorithmEd25519 = -8 // COSE calls this EdDSA and marks it as deprecated, but implementations seem to use it for Ed25519 instead of -19 (which is what COSE uses for Ed25519)
	CoseAlgorithmPS256   = -37
	CoseAlgorithmRS256   = -257
)

const (
	coseKeyTypeOKP = 1
	coseKeyTypeEC2 = 2
	coseKeyTypeRSA = 3
)

const (
	flagUserPresent            = 0x01
	flagAttestedCredentialData = 0x40
)

var ErrSignatureInvalid = fmt.Errorf("signature verification failed: %w", utils.ErrHttpUnauthorized)
var ErrSignatureInvalidAlgorithm = errors.New("invalid public key algorithm")
var ErrMalformedAuthData = errors.New("malformed authenticator data")

// AttestationObject is the CBOR structure returned by a create ceremony.
type AttestationObject struct {
	Fmt      string                 `cbor:"fmt"`
	AuthData []byte                 `cbor:"authData"`
	AttStmt  map[string]interface{} `cbor:"attStmt"`
}

func ParseAttestationObject(raw []byte) (*AttestationObject, error) {
	var att AttestationObject
	if err := cbor.Unmarshal(raw, &att); err != nil {
		return nil, fmt.Errorf("decoding attestation object: %w", err)
	}
	return &att, nil
}

// AuthData is the parsed authenticator data of an attestation or assertion.
// CredentialId, PublicKeyDER and Algorithm are only present when the
// attested-credential-data flag is set.
type AuthData struct {
	RpIdHash     []byte
	Flags        byte
	SignCount    uint32
	CredentialId []byte
	PublicKeyDER []byte
	Algorithm    int
}

func (a *AuthData) UserPresent() bool {
	return a.Flags&flagUserPresent != 0
}

func (a *AuthData) HasAttestedCredentialData() bool {
	return a.Flags&flagAttestedCredentialData != 0
}

// ParseAuthData splits authenticator data into rp-id hash, flags, the
// signature counter (bytes 33..37, big endian), and, if present, the
// attested credential id and COSE public key.
func ParseAuthData(authData []byte) (*AuthData, error) {
	if len(authData) < 37 {
		return nil, fmt.Errorf("authData too short: %w", ErrMalformedAuthData)
	}

	parsed := &AuthData{
		RpIdHash:  authData[:32],
		Flags:     authData[32],
		SignCount: binary.BigEndian.Uint32(authData[33:37]),
	}

	if !parsed.HasAttestedCredentialData() {
		return parsed, nil
	}

	if len(authData) < 55 {
		return nil, fmt.Errorf("authData too short for attested credential: %w", ErrMalformedAuthData)
	}

	credentialIdLen := int(binary.BigEndian.Uint16(authData[53:55]))
	if len(authData) < 55+credentialIdLen {
		return nil, fmt.Errorf("credential id out of bounds: %w", ErrMalformedAuthData)
	}
	parsed.CredentialId = authData[55 : 55+credentialIdLen]

	publicKeyDER, algorithm, err := ParseCOSEKey(authData[55+credentialIdLen:])
	if err != nil {
		return nil, err
	}
	parsed.PublicKeyDER = publicKeyDER
	parsed.Algorithm = algorithm

	return parsed, nil
}

// VerifyRpIdHash checks that the authenticator operated for our relying
// party.
func (a *AuthData) VerifyRpIdHash(rpId string) bool {
	expected := sha256.Sum256([]byte(rpId))
	return len(a.RpIdHash) == len(expected) && string(a.RpIdHash) == string(expected[:])
}

// ParseCOSEKey extracts a DER-encoded public key and the COSE algorithm from
// COSE_Key bytes.
func ParseCOSEKey(cose []byte) ([]byte, int, error) {
	var m map[int]interface{}
	if err := cbor.Unmarshal(cose, &m); err != nil {
		return nil, 0, fmt.Errorf("decoding COSE key: %w", err)
	}

	keyType, ok := coseInt(m[1])
	if !ok {
		return nil, 0, fmt.Errorf("COSE key missing kty (1)")
	}

	algorithm, _ := coseInt(m[3])

	switch keyType {
	case coseKeyTypeEC2:
		if algorithm == 0 {
			algorithm = CoseAlgorithmES256
		}

		x, ok := m[-2].([]byte)
		if !ok {
			return nil, 0, fmt.Errorf("COSE key x coordinate (-2) is not []byte")
		}

		y, ok := m[-3].([]byte)
		if !ok {
			return nil, 0, fmt.Errorf("COSE key y coordinate (-3) is not []byte")
		}

		pubKey := &ecdsa.PublicKey{
			Curve: elliptic.P256(),
			X:     new(big.Int).SetBytes(x),
			Y:     new(big.Int).SetBytes(y),
		}

		der, err := x509.MarshalPKIXPublicKey(pubKey)
		if err != nil {
			return nil, 0, err
		}
		return der, algorithm, nil

	case coseKeyTypeOKP:
		if algorithm == 0 {
			algorithm = CoseAlgorithmEd25519
		}

		x, ok := m[-2].([]byte)
		if !ok {
			return nil, 0, fmt.Errorf("COSE key x coordinate (-2) is not []byte")
		}

		der, err := x509.MarshalPKIXPublicKey(ed25519.PublicKey(x))
		if err != nil {
			return nil, 0, err
		}
		return der, algorithm, nil

	case coseKeyTypeRSA:
		if algorithm == 0 {
			algorithm = CoseAlgorithmRS256
		}

		n, ok := m[-1].([]byte)
		if !ok {
			return nil, 0, fmt.Errorf("COSE key modulus (-1) is not []byte")
		}

		e, ok := m[-2].([]byte)
		if !ok {
			return nil, 0, fmt.Errorf("COSE key exponent (-2) is not []byte")
		}

		pubKey := &rsa.PublicKey{
			N: new(big.Int).SetBytes(n),
			E: int(new(big.Int).SetBytes(e).Int64()),
		}

		der, err := x509.MarshalPKIXPublicKey(pubKey)
		if err != nil {
			return nil, 0, err
		}
		return der, algorithm, nil

	default:
		return nil, 0, fmt.Errorf("unsupported COSE key type %d: %w", keyType, ErrSignatureInvalidAlgorithm)
	}
}

func coseInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case int:
		return n, true
	default:
		return 0, false
	}
}

// SignedData builds the message an assertion signature covers.
func SignedData(authData []byte, clientDataJSON []byte) []byte {
	clientHash := sha256.Sum256(clientDataJSON)
	signedData := make([]byte, len(authData)+len(clientHash))
	copy(signedData, authData)
	copy(signedData[len(authData):], clientHash[:])
	return signedData
}

// ValidateSignature verifies sig over message with a DER-encoded public key
// and its COSE algorithm.
func ValidateSignature(publicKeyDER []byte, algorithm int, message []byte, sig []byte) error {
	pubKey, err := x509.ParsePKIXPublicKey(publicKeyDER)
	if err != nil {
		return fmt.Errorf("parsing public key: %w", err)
	}

	switch k := pubKey.(type) {
	case *rsa.PublicKey:
		switch algorithm {
		case CoseAlgorithmRS256:
			err := rsa.VerifyPKCS1v15(k, crypto.SHA256, hashed(message), sig)
			if err != nil {
				return ErrSignatureInvalid
			}

		case CoseAlgorithmPS256:
			err := rsa.VerifyPSS(k, crypto.SHA256, hashed(message), sig, nil)
			if err != nil {
				return ErrSignatureInvalid
			}

		default:
			return ErrSignatureInvalidAlgorithm
		}

	case *ecdsa.PublicKey:
		if algorithm != CoseAlgorithmES256 {
			return ErrSignatureInvalidAlgorithm
		}

		if !ecdsa.VerifyASN1(k, hashed(message), sig) {
			return ErrSignatureInvalid
		}

	case ed25519.PublicKey:
		if algorithm != CoseAlgorithmEd25519 {
			return ErrSignatureInvalidAlgorithm
		}

		if !ed25519.Verify(k, message, sig) {
			return ErrSignatureInvalid
		}

	default:
		return ErrSignatureInvalidAlgorithm
	}

	return nil
}

func hashed(message []byte) []byte {
	hash := sha256.Sum256(message)
	return hash[:]
}

// NormalizeCredentialId re-encodes a client-supplied credential id to
// unpadded base64url, the canonical storage form.
func NormalizeCredentialId(credentialId string) (string, error) {
	decoded, err := DecodeWebauthnBase64(credentialId)
	if err != nil {
		return "", fmt.Errorf("invalid credential id: %w: %w", err, utils.ErrHttpBadRequest)
	}
	return base64.RawURLEncoding.EncodeToString(decoded), nil
}

// DecodeWebauthnBase64 accepts both padded and unpadded base64url, which
// browsers disagree on.
func DecodeWebauthnBase64(value string) ([]byte, error) {
	if decoded, err := base64.RawURLEncoding.DecodeString(value); err == nil {
		return decoded, nil
	}
	return base64.URLEncoding.DecodeString(value)
}
