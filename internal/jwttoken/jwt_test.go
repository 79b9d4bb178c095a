package jwttoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "trustcore/pkg/domainerrors"
)

var jwtService = NewService(
	"test-signing-key",
	"test-issuer",
	"test-audience",
)

const (
	uid      = "u_1"
	username = "alice"
	domain   = "tenantA"
)

var expiresIn = time.Hour

func Test_GenerateAccessToken(t *testing.T) {
	token, jti, err := jwtService.GenerateAccessToken(uid, username, domain, expiresIn)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, jti)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Equal(t, uid, claims.UID)
	assert.Equal(t, username, claims.Username)
	assert.Equal(t, domain, claims.Domain)
	assert.Equal(t, jti, claims.ID)
	assert.WithinDuration(t, time.Now().Add(expiresIn), claims.ExpiresAt.Time, time.Minute)
}

func Test_GenerateAccessToken_UniqueJTI(t *testing.T) {
	_, jti1, err := jwtService.GenerateAccessToken(uid, username, domain, expiresIn)
	require.NoError(t, err)
	_, jti2, err := jwtService.GenerateAccessToken(uid, username, domain, expiresIn)
	require.NoError(t, err)
	assert.NotEqual(t, jti1, jti2)
}

func Test_ValidateToken_InvalidToken(t *testing.T) {
	_, err := jwtService.ValidateToken("invalid-token-string")
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeTokenInvalid))
}

func Test_ValidateToken_ExpiredToken(t *testing.T) {
	token, _, err := jwtService.GenerateAccessToken(uid, username, domain, -time.Hour)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeTokenExpired))
}

func Test_ValidateToken_WrongKey(t *testing.T) {
	other := NewService("other-key", "test-issuer", "test-audience")
	token, _, err := other.GenerateAccessToken(uid, username, domain, expiresIn)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeTokenInvalid))
}
