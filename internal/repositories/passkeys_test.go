package repositories

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPasskeyFilter(t *testing.T) {
	// arrange
	f := NewPasskeyFilter()
	id := uuid.New()
	principalId := uuid.New()
	credentialId := "credential"

	// act
	f = f.Id(id)
	f = f.PrincipalId(principalId)
	f = f.CredentialId(credentialId)

	// assert
	assert.Equal(t, &id, f.id)
	assert.Equal(t, &principalId, f.principalId)
	assert.Equal(t, &credentialId, f.credentialId)
}

func TestPasskeyTracksSignCountChange(t *testing.T) {
	// arrange
	p := NewPasskey(uuid.New(), "credential", nil, -7, 5, "Test Device")

	// act
	p.SetSignCount(6)

	// assert
	assert.Equal(t, int64(6), p.SignCount())
	assert.Equal(t, map[string]any{"sign_count": int64(6)}, p.Changes())
}

func TestPasskeyTracksLastUsedAtChange(t *testing.T) {
	// arrange
	p := NewPasskey(uuid.New(), "credential", nil, -7, 0, "Test Device")
	now := time.Now()

	// act
	p.SetLastUsedAt(now)

	// assert
	assert.Equal(t, &now, p.LastUsedAt())
	assert.Contains(t, p.Changes(), "last_used_at")
}

func TestPasskeyIgnoresNoopNameChange(t *testing.T) {
	// arrange
	p := NewPasskey(uuid.New(), "credential", nil, -7, 0, "Test Device")

	// act
	p.SetName("Test Device")

	// assert
	assert.Empty(t, p.Changes())
}
