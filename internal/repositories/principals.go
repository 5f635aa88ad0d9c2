package repositories

import (
	"Reviv/utils"
	"context"

	"github.com/google/uuid"
)

// Principal is an account. It is created either through an email passkey
// registration or on first login with a federated identity.
type Principal struct {
	ModelBase

	email       string
	displayName string

	oauthProvider *string
	oauthSubject  *string
}

func NewPrincipal(email string, displayName string) *Principal {
	return &Principal{
		ModelBase:   NewModelBase(),
		email:       email,
		displayName: displayName,
	}
}

func NewFederatedPrincipal(email string, displayName string, oauthProvider string, oauthSubject string) *Principal {
	return &Principal{
		ModelBase:     NewModelBase(),
		email:         email,
		displayName:   displayName,
		oauthProvider: &oauthProvider,
		oauthSubject:  &oauthSubject,
	}
}

func (p *Principal) GetScanPointers() []any {
	return []any{
		&p.id,
		&p.auditCreatedAt,
		&p.auditUpdatedAt,
		&p.version,
		&p.email,
		&p.displayName,
		&p.oauthProvider,
		&p.oauthSubject,
	}
}

func (p *Principal) Email() string {
	return p.email
}

func (p *Principal) DisplayName() string {
	return p.displayName
}

func (p *Principal) SetDisplayName(displayName string) {
	if p.displayName == displayName {
		return
	}

	p.displayName = displayName
	p.TrackChange("display_name", displayName)
}

func (p *Principal) OAuthProvider() *string {
	return p.oauthProvider
}

func (p *Principal) OAuthSubject() *string {
	return p.oauthSubject
}

type PrincipalFilter struct {
	id            *uuid.UUID
	email         *string
	oauthProvider *string
	oauthSubject  *string
}

func NewPrincipalFilter() PrincipalFilter {
	return PrincipalFilter{}
}

func (f PrincipalFilter) Clone() PrincipalFilter {
	return f
}

func (f PrincipalFilter) Id(id uuid.UUID) PrincipalFilter {
	filter := f.Clone()
	filter.id = &id
	return filter
}

func (f PrincipalFilter) HasId() bool {
	return f.id != nil
}

func (f PrincipalFilter) GetId() uuid.UUID {
	return utils.ZeroIfNil(f.id)
}

func (f PrincipalFilter) Email(email string) PrincipalFilter {
	filter := f.Clone()
	filter.email = &email
	return filter
}

func (f PrincipalFilter) HasEmail() bool {
	return f.email != nil
}

func (f PrincipalFilter) GetEmail() string {
	return utils.ZeroIfNil(f.email)
}

// OAuthIdentity filters on the federated identity pair.
func (f PrincipalFilter) OAuthIdentity(provider string, subject string) PrincipalFilter {
	filter := f.Clone()
	filter.oauthProvider = &provider
	filter.oauthSubject = &subject
	return filter
}

func (f PrincipalFilter) HasOAuthIdentity() bool {
	return f.oauthProvider != nil && f.oauthSubject != nil
}

func (f PrincipalFilter) GetOAuthProvider() string {
	return utils.ZeroIfNil(f.oauthProvider)
}

func (f PrincipalFilter) GetOAuthSubject() string {
	return utils.ZeroIfNil(f.oauthSubject)
}

//go:generate mockgen -destination=./mocks/principal_repository.go -package=mocks Reviv/internal/repositories PrincipalRepository
type PrincipalRepository interface {
	Single(ctx context.Context, filter PrincipalFilter) (*Principal, error)
	First(ctx context.Context, filter PrincipalFilter) (*Principal, error)
	Insert(ctx context.Context, principal *Principal) error
	Update(ctx context.Context, principal *Principal) error
}
