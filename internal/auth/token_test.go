package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	token, expiresAt, err := tm.GenerateToken("agent-7", RoleAgent)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.False(t, expiresAt.IsZero())

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "agent-7", claims.SubjectID)
	assert.Equal(t, RoleAgent, claims.Role)
}

func TestParseToken_WrongSecret(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	token, _, err := tm.GenerateToken("admin", RoleAdmin)
	require.NoError(t, err)

	other := NewTokenManager("other-secret", 60)
	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestParseToken_Garbage(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	_, err := tm.ParseToken("not-a-jwt")
	assert.Error(t, err)
}

func TestOwnerScope(t *testing.T) {
	assert.Equal(t, "", OwnerScope(nil))
	assert.Equal(t, "", OwnerScope(&Principal{SubjectID: "admin", Role: RoleAdmin}))
	assert.Equal(t, "agent-7", OwnerScope(&Principal{SubjectID: "agent-7", Role: RoleAgent}))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2", 4)
	require.NoError(t, err)

	assert.NoError(t, ComparePassword(hash, "hunter2"))
	assert.Error(t, ComparePassword(hash, "wrong"))
}

func TestResolveAdminHash(t *testing.T) {
	precomputed, err := HashPassword("hunter2", 4)
	require.NoError(t, err)

	// a pre-computed hash is used as-is, even when a password is also set
	hash, err := ResolveAdminHash(precomputed, "ignored", 4)
	require.NoError(t, err)
	assert.Equal(t, precomputed, hash)

	// a plaintext password gets hashed at the given cost
	hash, err = ResolveAdminHash("", "hunter2", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)
	assert.NoError(t, ComparePassword(hash, "hunter2"))

	// neither configured resolves to empty, disabling admin login
	hash, err = ResolveAdminHash("", "", 4)
	require.NoError(t, err)
	assert.Empty(t, hash)
}
