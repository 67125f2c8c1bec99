package jwt

import (
	"context"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"testing"
	"time"

	"github.com/golang-devkit/logconv/convention"
	"github.com/golang-devkit/logconv/crypto/rsa"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type grant struct {
	Role string `json:"role"`
}

func newKeyPair(t *testing.T) *rsa.KeyPair {
	t.Helper()
	kp, err := rsa.GenerateKeyPair()
	require.NoError(t, err)
	return kp
}

func TestSignAndValidateRS256(t *testing.T) {
	kp := newKeyPair(t)
	opt := NewOption().SetUserId("u-1").SetSessionId("s-1").SetIssuer("devkit").SetLiveTime(time.Minute)

	token, err := Sign(kp.PrivateKey, grant{Role: "admin"}, opt)
	require.NoError(t, err)

	claims, err := NewValidatorRS256(kp.PublicKey()).Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserId)
	assert.Equal(t, "s-1", claims.SessionId)
	assert.Equal(t, "devkit", claims.Issuer)
	assert.NotEmpty(t, claims.ID)

	var g grant
	require.NoError(t, claims.ParsePayload(&g))
	assert.Equal(t, "admin", g.Role)

	ctx := claims.ApplyContext(context.Background())
	assert.Equal(t, "u-1", UserIdFromContext(ctx))
	assert.Equal(t, "s-1", SessionIdFromContext(ctx))
	assert.Same(t, claims, ClaimsFromContext(ctx))
}

func TestValidate_Rejections(t *testing.T) {
	kp := newKeyPair(t)
	other := newKeyPair(t)
	validator := NewValidatorRS256(kp.PublicKey())

	t.Run("missing", func(t *testing.T) {
		_, err := validator.Validate("")
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := validator.Validate("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.ErrorIs(t, err, jwt.ErrTokenMalformed)
	})

	t.Run("wrong key", func(t *testing.T) {
		token, err := Sign(other.PrivateKey, nil)
		require.NoError(t, err)
		_, err = validator.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("expired", func(t *testing.T) {
		claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, &claims).SignedString(kp.PrivateKey)
		require.NoError(t, err)
		_, err = validator.Validate(token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("other algorithm", func(t *testing.T) {
		_, priv, err := ed25519.GenerateKey(rand.Reader)
		require.NoError(t, err)
		token, err := Sign(priv, nil)
		require.NoError(t, err)
		_, err = validator.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestValidate_ExpirationNotRequired(t *testing.T) {
	kp := newKeyPair(t)
	claims := Claims{UserId: "forever"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, &claims).SignedString(kp.PrivateKey)
	require.NoError(t, err)

	got, err := NewValidatorRS256(kp.PublicKey()).Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "forever", got.UserId)
}

func TestNewValidator_KeyTypes(t *testing.T) {
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	for name, tc := range map[string]struct {
		signKey any
		pubKey  any
	}{
		"ecdsa":   {ecKey, &ecKey.PublicKey},
		"ed25519": {priv, pub},
	} {
		t.Run(name, func(t *testing.T) {
			token, err := Sign(tc.signKey, nil, NewOption().SetUserId(name))
			require.NoError(t, err)
			v, err := NewValidator(tc.pubKey)
			require.NoError(t, err)
			claims, err := v.Validate(token)
			require.NoError(t, err)
			assert.Equal(t, name, claims.UserId)
		})
	}

	_, err = NewValidator("not a key")
	assert.True(t, errors.Is(err, ErrUnsupportedKey))
	_, err = Sign("not a key", nil)
	assert.ErrorIs(t, err, ErrUnsupportedKey)
}

func TestClaims_LogFields(t *testing.T) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{ID: "j-1", Subject: "sub"},
		SessionId:        "s-1",
		UserId:           "u-1",
		Payload:          map[string]string{"secret": "x"},
	}
	assert.Equal(t,
		`jti="j-1", sub="sub", iss="", sessionid="s-1", userid="u-1"`,
		convention.ForLogging("", claims))
}

func TestParseUnverified(t *testing.T) {
	kp := newKeyPair(t)
	token, err := Sign(kp.PrivateKey, nil, NewOption().SetUserId("u-2"))
	require.NoError(t, err)

	claims, err := ParseUnverified(token)
	require.NoError(t, err)
	assert.Equal(t, "u-2", claims.UserId)

	_, err = ParseUnverified("x.y")
	assert.Error(t, err)
}
