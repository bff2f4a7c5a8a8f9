package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndParse(t *testing.T) {
	token, exp, err := Generate(testSecret, "user-1", "owner@shop.ke", "OWNER", "stock-pos", 60)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	s, err := Parse(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", s.UserID)
	assert.Equal(t, "owner@shop.ke", s.Email)
	assert.Equal(t, "OWNER", s.Role)
	assert.WithinDuration(t, exp, s.ExpiresAt, time.Second)
}

func TestParse_Rejections(t *testing.T) {
	token, _, err := Generate(testSecret, "user-1", "a@b.c", "CASHIER", "stock-pos", 60)
	require.NoError(t, err)

	// Caso 1: secreto distinto
	_, err = Parse("otro", token)
	assert.Error(t, err)

	// Caso 2: token expirado
	expired, _, err := Generate(testSecret, "user-1", "a@b.c", "CASHIER", "stock-pos", -1)
	require.NoError(t, err)
	_, err = Parse(testSecret, expired)
	assert.Error(t, err)

	// Caso 3: algoritmo none
	unsigned := gojwt.NewWithClaims(gojwt.SigningMethodNone, Claims{UserID: "x"})
	raw, err := unsigned.SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = Parse(testSecret, raw)
	assert.Error(t, err)

	// Caso 4: secreto vacío
	_, _, err = Generate("", "u", "e", "r", "i", 1)
	assert.Error(t, err)
}
