package jwt

import "context"

type contextKey string

const (
	ClaimsKey    contextKey = "claims"
	SessionIdKey contextKey = "sessionIdOfClaims"
	UserIdKey    contextKey = "userIdOfClaims"
)

func setClaimsToContext(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}

// ClaimsFromContext returns the validated claims of the caller, nil for anonymous requests.
func ClaimsFromContext(ctx context.Context) *Claims {
	if val, ok := ctx.Value(ClaimsKey).(*Claims); ok {
		return val
	}
	return nil
}

func setSessionIdToContext(ctx context.Context, sessionId string) context.Context {
	return context.WithValue(ctx, SessionIdKey, sessionId)
}

func SessionIdFromContext(ctx context.Context) string {
	if val, ok := ctx.Value(SessionIdKey).(string); ok {
		return val
	}
	return ""
}

func setUserIdToContext(ctx context.Context, userId string) context.Context {
	return context.WithValue(ctx, UserIdKey, userId)
}

func UserIdFromContext(ctx context.Context) string {
	if val, ok := ctx.Value(UserIdKey).(string); ok {
		return val
	}
	return ""
}
