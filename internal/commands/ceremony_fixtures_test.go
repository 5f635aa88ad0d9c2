package commands

import (
	"Reviv/internal/config"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// testCredential is an ES256 software authenticator for ceremony tests.
type testCredential struct {
	privateKey   *ecdsa.PrivateKey
	credentialId []byte
}

func newTestCredential() *testCredential {
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		panic(fmt.Errorf("generating test key: %w", err))
	}

	credentialId := make([]byte, 16)
	if _, err := rand.Read(credentialId); err != nil {
		panic(fmt.Errorf("generating test credential id: %w", err))
	}

	return &testCredential{
		privateKey:   privateKey,
		credentialId: credentialId,
	}
}

func (c *testCredential) credentialIdB64() string {
	return base64.RawURLEncoding.EncodeToString(c.credentialId)
}

func (c *testCredential) publicKeyDER() []byte {
	der, err := x509.MarshalPKIXPublicKey(&c.privateKey.PublicKey)
	if err != nil {
		panic(fmt.Errorf("marshalling test public key: %w", err))
	}
	return der
}

func (c *testCredential) coseKey() []byte {
	coseKey, err := cbor.Marshal(map[int]interface{}{
		1:  2,  // EC2
		3:  -7, // ES256
		-1: 1,  // P-256
		-2: c.privateKey.PublicKey.X.FillBytes(make([]byte, 32)),
		-3: c.privateKey.PublicKey.Y.FillBytes(make([]byte, 32)),
	})
	if err != nil {
		panic(fmt.Errorf("marshalling test COSE key: %w", err))
	}
	return coseKey
}

func (c *testCredential) authData(flags byte, signCount uint32, attested bool) []byte {
	rpIdHash := sha256.Sum256([]byte(config.C.RelyingParty.Id))

	authData := append([]byte{}, rpIdHash[:]...)
	authData = append(authData, flags)
	authData = binary.BigEndian.AppendUint32(authData, signCount)

	if attested {
		authData = append(authData, make([]byte, 16)...) // aaguid
		authData = binary.BigEndian.AppendUint16(authData, uint16(len(c.credentialId)))
		authData = append(authData, c.credentialId...)
		authData = append(authData, c.coseKey()...)
	}

	return authData
}

// attestationObjectB64 produces a fmt "none" attestation as the browser would
// hand it over after a create ceremony.
func (c *testCredential) attestationObjectB64(signCount uint32) string {
	attestation, err := cbor.Marshal(map[string]interface{}{
		"fmt":      "none",
		"authData": c.authData(0x01|0x40, signCount, true),
		"attStmt":  map[string]interface{}{},
	})
	if err != nil {
		panic(fmt.Errorf("marshalling test attestation object: %w", err))
	}
	return base64.RawURLEncoding.EncodeToString(attestation)
}

// assertion signs a login ceremony and returns the authenticator data and the
// signature, both base64url.
func (c *testCredential) assertion(clientDataJSONB64 string, signCount uint32) (string, string) {
	clientDataJSON, err := base64.RawURLEncoding.DecodeString(clientDataJSONB64)
	if err != nil {
		panic(fmt.Errorf("decoding test client data: %w", err))
	}

	authData := c.authData(0x01, signCount, false)

	clientHash := sha256.Sum256(clientDataJSON)
	message := append(append([]byte{}, authData...), clientHash[:]...)
	messageHash := sha256.Sum256(message)

	sig, err := ecdsa.SignASN1(rand.Reader, c.privateKey, messageHash[:])
	if err != nil {
		panic(fmt.Errorf("signing test assertion: %w", err))
	}

	return base64.RawURLEncoding.EncodeToString(authData),
		base64.RawURLEncoding.EncodeToString(sig)
}

func clientDataJSONB64(ceremonyType string, challenge string) string {
	clientDataJSON, err := json.Marshal(map[string]string{
		"type":      ceremonyType,
		"challenge": challenge,
		"origin":    config.C.RelyingParty.Origin,
	})
	if err != nil {
		panic(fmt.Errorf("marshalling test client data: %w", err))
	}
	return base64.RawURLEncoding.EncodeToString(clientDataJSON)
}
