package jwt

import (
	"context"
	"encoding/json"

	"github.com/golang-devkit/logconv/convention"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"github.com/golang-jwt/jwt/v5"
)

// Claims defines the JWT claims structure.
//
// Example:
//
//	{
//		  "iss": "Issuer,omitempty",
//		  "sub": "Subject,omitempty",
//		  "jti": "ID,omitempty",
//		  "aud": ["Audience,omitempty"],
//		  "nbf": 1753416843,
//		  "iat": 1753416843,
//		  "exp": 1753416963,
//		  "userId":"6883664f484674420f55c16b",
//		  "sessionId": "0cf835de-5c39-481d-a371-94884ba91fcd",
//		  "payload": {"role": "admin"}
//		}
type Claims struct {
	jwt.RegisteredClaims
	SessionId string `json:"sessionId,omitempty"`
	UserId    string `json:"userId,omitempty"`
	Payload   any    `json:"payload,omitempty"`
}

// LogFields lists the identifying claims. The payload is left out.
func (claims *Claims) LogFields() []convention.Field {
	fields := []convention.Field{
		convention.F("jti", claims.ID),
		convention.F("sub", claims.Subject),
		convention.F("iss", claims.Issuer),
		convention.F("sessionId", claims.SessionId),
		convention.F("userId", claims.UserId),
	}
	if claims.ExpiresAt != nil {
		fields = append(fields, convention.F("exp", claims.ExpiresAt.Time))
	}
	return fields
}

// ParsePayload parses the JWT claims payload into the given struct.
// If v is proto.Message, please use Claims.ParseMessage(v proto.Message) instead.
func (claims *Claims) ParsePayload(v any) error {
	if claims.Payload == nil {
		return nil
	}
	b, err := json.Marshal(claims.Payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// ParseMessage parses the JWT claims payload into the given proto.Message.
func (claims *Claims) ParseMessage(v proto.Message) error {
	if claims.Payload == nil {
		return nil
	}
	b, err := json.Marshal(claims.Payload)
	if err != nil {
		return err
	}
	return protojson.Unmarshal(b, v)
}

// ApplyContext stores the session and user ids on ctx, overwriting earlier values.
func (claims *Claims) ApplyContext(ctx context.Context) context.Context {
	ctx = setClaimsToContext(ctx, claims)
	ctx = setSessionIdToContext(ctx, claims.SessionId)
	ctx = setUserIdToContext(ctx, claims.UserId)
	return ctx
}
