package main

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifierSharedSecret(t *testing.T) {
	v, err := newVerifier(IdentityConfig{JWTSecret: "s3cret", Issuer: "https://clerk.example"})
	require.NoError(t, err)

	tok, err := signToken("s3cret", "https://clerk.example", "user_2abc", time.Minute)
	require.NoError(t, err)
	sub, err := v.subject(tok)
	require.NoError(t, err)
	assert.Equal(t, "user_2abc", sub)

	wrongIssuer, err := signToken("s3cret", "https://evil.example", "user_2abc", time.Minute)
	require.NoError(t, err)
	_, err = v.subject(wrongIssuer)
	assert.Error(t, err)

	expired, err := signToken("s3cret", "https://clerk.example", "user_2abc", -time.Minute)
	require.NoError(t, err)
	_, err = v.subject(expired)
	assert.Error(t, err)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user_2abc", "iss": "https://clerk.example"})
	raw, err := noExp.SignedString([]byte("s3cret"))
	require.NoError(t, err)
	_, err = v.subject(raw)
	assert.Error(t, err)
}

func TestVerifierRS256(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pemKey := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})

	v, err := newVerifier(IdentityConfig{PublicKey: string(pemKey)})
	require.NoError(t, err)

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"sub": "user_rsa",
		"exp": time.Now().Add(time.Minute).Unix(),
	})
	raw, err := tok.SignedString(key)
	require.NoError(t, err)
	sub, err := v.subject(raw)
	require.NoError(t, err)
	assert.Equal(t, "user_rsa", sub)

	// An HS256 token cannot be accepted when only the public key is configured.
	hs, err := signToken(string(pemKey), "", "user_rsa", time.Minute)
	require.NoError(t, err)
	_, err = v.subject(hs)
	assert.Error(t, err)
}

func TestVerifierUnconfigured(t *testing.T) {
	v, err := newVerifier(IdentityConfig{})
	require.NoError(t, err)
	_, err = v.subject("anything")
	assert.ErrorIs(t, err, errNoVerifier)

	_, err = newVerifier(IdentityConfig{PublicKey: "not pem"})
	assert.Error(t, err)
}
