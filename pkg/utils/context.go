package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	IdentityKey contextKey = "identity"
	TokenKey    contextKey = "token"
)

// Identity is the authenticated caller bound to a request by the session
// middleware. IsActivated is read from the user row on every request.
type Identity struct {
	UserID      uuid.UUID
	Username    string
	Email       string
	IsActivated bool
}

func SetIdentityContext(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

func GetIdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(*Identity)
	if !ok || identity == nil || identity.UserID == uuid.Nil {
		return nil, false
	}
	return identity, true
}

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	identity, ok := GetIdentityFromContext(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return identity.UserID, true
}

// GetTokenFromContext mendapatkan token dari context
func GetTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenKey).(string)
	return token, ok && token != ""
}

// SetTokenContext menambahkan token ke context
func SetTokenContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, TokenKey, token)
}
