package net

import (
	"net/http"
	"strings"

	"github.com/golang-devkit/logconv/crypto/jwt"
	"github.com/golang-devkit/logconv/logger"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const bearerScheme = "Bearer"

// TokenValidator checks a bearer token and returns its claims.
type TokenValidator interface {
	Validate(token string) (*jwt.Claims, error)
}

// bearerToken splits an Authorization value. ok is false when the scheme is
// not Bearer; token may still be empty when ok is true.
func bearerToken(header string) (token string, ok bool) {
	scheme, rest, _ := strings.Cut(strings.TrimSpace(header), " ")
	if !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

// AuthorizeJWT validates Bearer tokens. Requests without an Authorization
// header, or with another scheme, pass through unauthenticated so the handler
// decides. A Bearer header with an empty or invalid token is rejected with 401.
func AuthorizeJWT(v TokenValidator) mux.MiddlewareFunc {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(headerAuthorization)
			if header == "" {
				h.ServeHTTP(w, r)
				return
			}
			token, ok := bearerToken(header)
			if !ok {
				h.ServeHTTP(w, r)
				return
			}

			entry := getLoggerFromContext(r.Context())
			if token == "" {
				w.Header().Set(headerWWWAuthenticate, bearerScheme)
				WriteFriendlyError(w, NewFriendlyError(http.StatusUnauthorized, "Missing credentials"))
				return
			}
			claims, err := v.Validate(token)
			if err != nil {
				entry.Debug("authorization failed", zap.Error(err))
				w.Header().Set(headerWWWAuthenticate, bearerScheme+` error="invalid_token"`)
				WriteFriendlyError(w, NewFriendlyError(http.StatusUnauthorized, "Invalid token"))
				return
			}

			ctx := claims.ApplyContext(r.Context())
			ctx = setLoggerToContext(ctx, entry.With(logger.Formatted(logger.KeyJwtString, claims)))
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
