package jwt

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-devkit/logconv/convention"
	"github.com/golang-devkit/logconv/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrMissingToken   = errors.New("missing credentials")
	ErrInvalidToken   = errors.New("invalid token")
	ErrUnsupportedKey = errors.New("only rsa, ecdsa or ed25519 keys are supported")
)

func signingMethod(key any) (jwt.SigningMethod, error) {
	switch key.(type) {
	case *rsa.PrivateKey:
		return jwt.SigningMethodRS256, nil
	case *ecdsa.PrivateKey:
		return jwt.SigningMethodES256, nil
	case ed25519.PrivateKey:
		return jwt.SigningMethodEdDSA, nil
	default:
		return nil, ErrUnsupportedKey
	}
}

// Sign issues a token for payload. The signing method follows the key:
// RS256 for *rsa.PrivateKey, ES256 for *ecdsa.PrivateKey, EdDSA for ed25519.
func Sign(key any, payload any, opts ...*Option) (string, error) {

	opt := NewOption()
	for i, op := range opts {
		if op == nil {
			continue
		}
		if op.liveTime > 0 && (i == 0 || op.liveTime < opt.liveTime) {
			opt = opt.SetLiveTime(op.liveTime)
		}
		if i == 0 {
			if op.sessionId != "" {
				opt = opt.SetSessionId(op.sessionId)
			}
			opt = opt.SetUserId(op.userId).SetIssuer(op.issuer).SetSubject(op.subject).SetAudience(op.audience...)
		}
	}

	method, err := signingMethod(key)
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    opt.issuer,
			Subject:   opt.subject,
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(opt.LiveTime())),
		},
		SessionId: opt.SessionId(),
		UserId:    opt.UserId(),
		Payload:   payload,
	}
	if len(opt.audience) > 0 {
		claims.Audience = opt.audience
	}

	return jwt.NewWithClaims(method, &claims).SignedString(key)
}

// SignRS256 issues an RS256 token.
func SignRS256(key *rsa.PrivateKey, payload any, opts ...*Option) (string, error) {
	return Sign(key, payload, opts...)
}

// Validator checks token signatures against a single public key. Lifetime
// claims are validated when present, expiration is not required, issuer and
// audience are not checked.
type Validator struct {
	key    crypto.PublicKey
	parser *jwt.Parser
}

func NewValidator(pub crypto.PublicKey) (*Validator, error) {
	var methods []string
	switch pub.(type) {
	case *rsa.PublicKey:
		methods = []string{jwt.SigningMethodRS256.Alg()}
	case *ecdsa.PublicKey:
		methods = []string{jwt.SigningMethodES256.Alg()}
	case ed25519.PublicKey:
		methods = []string{jwt.SigningMethodEdDSA.Alg()}
	default:
		return nil, ErrUnsupportedKey
	}
	return &Validator{
		key:    pub,
		parser: jwt.NewParser(jwt.WithValidMethods(methods)),
	}, nil
}

// NewValidatorRS256 validates tokens signed with RS256.
func NewValidatorRS256(pub *rsa.PublicKey) *Validator {
	return &Validator{
		key:    pub,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()})),
	}
}

// Validate returns the claims of a valid token. Errors wrap ErrMissingToken
// or ErrInvalidToken together with the jwt library error.
func (v *Validator) Validate(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	parsed, err := v.parser.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return v.key, nil
	})
	if err != nil {
		logRejected(err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func logRejected(err error) {
	var reason string
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		reason = "token expired"
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		reason = "token not valid yet (nbf)"
	case errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		reason = "token used before issued (iat)"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		reason = "invalid signature"
	case errors.Is(err, jwt.ErrTokenMalformed):
		reason = "malformed token"
	default:
		reason = "rejected"
	}
	logger.NewLog(logger.NewEntry().With(zap.String(logger.KeyFunctionName, "Validator.Validate"))).
		WarnMapping("token rejected", convention.NewMapping(
			convention.F("reason", reason),
			convention.F(logger.KeyError, err.Error()),
		))
}

// ParseUnverified reads the claims without checking the signature.
// Only use it for logging or routing decisions.
func ParseUnverified(token string) (*Claims, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, &Claims{})
	if err != nil {
		return nil, err
	}
	if claims, ok := parsed.Claims.(*Claims); ok {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token claims")
}
