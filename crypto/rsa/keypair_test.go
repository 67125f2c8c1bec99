package rsa

import (
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyPair_RoundTrip(t *testing.T) {
	kp, err := GenerateKeyPair()
	require.NoError(t, err)

	secret, err := kp.PKCS8PrivateKey()
	require.NoError(t, err)
	restored, err := KeyPairFromSecret(secret)
	require.NoError(t, err)
	assert.True(t, kp.PrivateKey.Equal(restored.PrivateKey))

	_, err = KeyPairFromSecret("not base64!")
	assert.Error(t, err)
}

func TestParsePublicKey(t *testing.T) {
	kp, err := GenerateKeyPair()
	require.NoError(t, err)

	pkix, err := kp.PKIXPublicKey()
	require.NoError(t, err)
	pubPEM, _, err := kp.PEM()
	require.NoError(t, err)
	pkcs1 := base64.StdEncoding.EncodeToString(x509.MarshalPKCS1PublicKey(kp.PublicKey()))
	pkcs1PEM := string(pem.EncodeToMemory(&pem.Block{Type: "RSA PUBLIC KEY", Bytes: x509.MarshalPKCS1PublicKey(kp.PublicKey())}))

	for name, in := range map[string]string{
		"pkix base64":  pkix,
		"pkix pem":     string(pubPEM),
		"pkcs1 base64": pkcs1,
		"pkcs1 pem":    pkcs1PEM,
	} {
		t.Run(name, func(t *testing.T) {
			pub, err := ParsePublicKey(in)
			require.NoError(t, err)
			assert.True(t, kp.PublicKey().Equal(pub))
		})
	}

	_, err = ParsePublicKey("")
	assert.Error(t, err)
	_, err = ParsePublicKey("@@@")
	assert.Error(t, err)
	_, err = ParsePublicKey(base64.StdEncoding.EncodeToString([]byte("garbage")))
	assert.Error(t, err)
}
