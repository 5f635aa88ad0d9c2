package repositories

import (
	"Reviv/utils"
	"context"
	"time"

	"github.com/google/uuid"
)

// Passkey is a registered webauthn credential. The credential id is stored
// in unpadded base64url, the public key as DER bytes together with its COSE
// algorithm.
type Passkey struct {
	ModelBase

	principalId uuid.UUID

	credentialId       string
	publicKey          []byte
	publicKeyAlgorithm int
	signCount          int64

	name       string
	lastUsedAt *time.Time
}

func NewPasskey(principalId uuid.UUID, credentialId string, publicKey []byte, publicKeyAlgorithm int, signCount int64, name string) *Passkey {
	return &Passkey{
		ModelBase:          NewModelBase(),
		principalId:        principalId,
		credentialId:       credentialId,
		publicKey:          publicKey,
		publicKeyAlgorithm: publicKeyAlgorithm,
		signCount:          signCount,
		name:               name,
	}
}

func (p *Passkey) GetScanPointers() []any {
	return []any{
		&p.id,
		&p.auditCreatedAt,
		&p.auditUpdatedAt,
		&p.version,
		&p.principalId,
		&p.credentialId,
		&p.publicKey,
		&p.publicKeyAlgorithm,
		&p.signCount,
		&p.name,
		&p.lastUsedAt,
	}
}

func (p *Passkey) PrincipalId() uuid.UUID {
	return p.principalId
}

func (p *Passkey) CredentialId() string {
	return p.credentialId
}

func (p *Passkey) PublicKey() []byte {
	return p.publicKey
}

func (p *Passkey) PublicKeyAlgorithm() int {
	return p.publicKeyAlgorithm
}

func (p *Passkey) SignCount() int64 {
	return p.signCount
}

func (p *Passkey) SetSignCount(signCount int64) {
	p.signCount = signCount
	p.TrackChange("sign_count", signCount)
}

func (p *Passkey) Name() string {
	return p.name
}

func (p *Passkey) SetName(name string) {
	if p.name == name {
		return
	}

	p.name = name
	p.TrackChange("name", name)
}

func (p *Passkey) LastUsedAt() *time.Time {
	return p.lastUsedAt
}

func (p *Passkey) SetLastUsedAt(lastUsedAt time.Time) {
	p.lastUsedAt = &lastUsedAt
	p.TrackChange("last_used_at", &lastUsedAt)
}

type PasskeyFilter struct {
	id           *uuid.UUID
	principalId  *uuid.UUID
	credentialId *string
}

func NewPasskeyFilter() PasskeyFilter {
	return PasskeyFilter{}
}

func (f PasskeyFilter) Clone() PasskeyFilter {
	return f
}

func (f PasskeyFilter) Id(id uuid.UUID) PasskeyFilter {
	filter := f.Clone()
	filter.id = &id
	return filter
}

func (f PasskeyFilter) HasId() bool {
	return f.id != nil
}

func (f PasskeyFilter) GetId() uuid.UUID {
	return utils.ZeroIfNil(f.id)
}

func (f PasskeyFilter) PrincipalId(principalId uuid.UUID) PasskeyFilter {
	filter := f.Clone()
	filter.principalId = &principalId
	return filter
}

func (f PasskeyFilter) HasPrincipalId() bool {
	return f.principalId != nil
}

func (f PasskeyFilter) GetPrincipalId() uuid.UUID {
	return utils.ZeroIfNil(f.principalId)
}

func (f PasskeyFilter) CredentialId(credentialId string) PasskeyFilter {
	filter := f.Clone()
	filter.credentialId = &credentialId
	return filter
}

func (f PasskeyFilter) HasCredentialId() bool {
	return f.credentialId != nil
}

func (f PasskeyFilter) GetCredentialId() string {
	return utils.ZeroIfNil(f.credentialId)
}

//go:generate mockgen -destination=./mocks/passkey_repository.go -package=mocks Reviv/internal/repositories PasskeyRepository
type PasskeyRepository interface {
	Single(ctx context.Context, filter PasskeyFilter) (*Passkey, error)
	First(ctx context.Context, filter PasskeyFilter) (*Passkey, error)
	List(ctx context.Context, filter PasskeyFilter) ([]*Passkey, error)
	Insert(ctx context.Context, passkey *Passkey) error
	Update(ctx context.Context, passkey *Passkey) error
	Delete(ctx context.Context, id uuid.UUID) error
}
