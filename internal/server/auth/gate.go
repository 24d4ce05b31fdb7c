package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/blogauth/internal/common"
)

// Identity is what the gate attaches to an authorized request.
type Identity struct {
	UserID int64
	Email  string
}

// Gate authorizes requests by their bearer access token. It trusts the token
// alone and does not consult the credential store, so a revoked session
// stays usable until its access token expires.
type Gate struct {
	codec *TokenCodec
}

func NewGate(codec *TokenCodec) *Gate {
	return &Gate{codec: codec}
}

// Authorize validates the value of an Authorization header.
func (g *Gate) Authorize(header string) (Identity, error) {
	token, ok := bearerToken(header)
	if !ok {
		return Identity{}, common.ErrAccessTokenRequired
	}

	claims, err := g.codec.Verify(token)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return Identity{}, common.ErrAccessTokenExpired
		}
		return Identity{}, common.ErrInvalidToken
	}
	if claims.Type != TokenTypeAccess {
		return Identity{}, common.ErrInvalidToken
	}

	return Identity{UserID: claims.UserID, Email: claims.Email}, nil
}

func bearerToken(header string) (string, bool) {
	if len(header) < len(common.BearerPrefix) || !strings.EqualFold(header[:len(common.BearerPrefix)], common.BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(common.BearerPrefix):])
	return token, token != ""
}

type ctxKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IdentityFromContext returns the identity stored by WithIdentity.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
