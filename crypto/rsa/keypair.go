package rsa

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"
)

const (
	RSAKeySize = 2048
)

var ErrNotRSAKey = errors.New("key is not an RSA key")

func GenerateKeyPair() (*KeyPair, error) {
	// Generate RSA key pair
	key, err := rsa.GenerateKey(rand.Reader, RSAKeySize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key pair: %w", err)
	}
	return &KeyPair{PrivateKey: key}, nil
}

// KeyPairFromSecret reads a base64 encoded PKCS8 private key.
func KeyPairFromSecret(secret string) (*KeyPair, error) {
	der, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to decode secret: %w", err)
	}

	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	privateKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, ErrNotRSAKey
	}
	return &KeyPair{
		PrivateKey: privateKey,
	}, nil
}

// ParsePublicKey accepts a PEM block ("PUBLIC KEY" or "RSA PUBLIC KEY") or
// the base64 encoding of a PKIX or PKCS1 DER public key.
func ParsePublicKey(s string) (*rsa.PublicKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("public key is empty")
	}
	var der []byte
	if block, _ := pem.Decode([]byte(s)); block != nil {
		der = block.Bytes
	} else {
		decoded, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("failed to decode public key: %w", err)
		}
		der = decoded
	}
	if pub, err := x509.ParsePKIXPublicKey(der); err == nil {
		rsaPub, ok := pub.(*rsa.PublicKey)
		if !ok {
			return nil, ErrNotRSAKey
		}
		return rsaPub, nil
	}
	pub, err := x509.ParsePKCS1PublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	return pub, nil
}

type KeyPair struct {
	PrivateKey *rsa.PrivateKey
}

func (p *KeyPair) PublicKey() *rsa.PublicKey {
	return &p.PrivateKey.PublicKey
}

// PKIXPublicKey is the base64 encoded PKIX form of the public key.
func (p *KeyPair) PKIXPublicKey() (string, error) {
	if p.PrivateKey == nil {
		return "", fmt.Errorf("private key is nil")
	}
	bin, err := x509.MarshalPKIXPublicKey(p.PrivateKey.Public())
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(bin), nil
}

func (p *KeyPair) PKCS8PrivateKey() (string, error) {
	bin, err := x509.MarshalPKCS8PrivateKey(p.PrivateKey)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(bin), nil
}

func (p *KeyPair) PEM() (public []byte, private []byte, err error) {
	// PKIX marshal public key
	pkix, err := x509.MarshalPKIXPublicKey(p.PrivateKey.Public())
	if err != nil {
		return nil, nil, err
	}
	o1 := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: pkix,
	})
	// PKCS8 marshal private key
	bin, err := x509.MarshalPKCS8PrivateKey(p.PrivateKey)
	if err != nil {
		return nil, nil, err
	}
	o2 := pem.EncodeToMemory(&pem.Block{
		// PKCS8 kind of key is commonly encoded in PEM blocks of type "PRIVATE KEY".
		Type:  "PRIVATE KEY",
		Bytes: bin,
	})
	return o1, o2, nil
}
