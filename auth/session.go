// api/auth/session.go

package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	harvest_errors "github.com/harvestlink/market/api/errors"
	"github.com/harvestlink/market/api/model"
)

// SessionProvider resolves the caller of a request from its session state.
// A request with no usable session yields an error wrapping
// ErrUnauthenticated and a nil identity.
type SessionProvider interface {
	CurrentIdentity(r *http.Request) (*model.UserIdentity, error)
}

// SessionClaims are the claims the hosted backend puts in its access tokens.
type SessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// JWTSessionProvider validates the backend's HS256 access token, taken from
// the Authorization header or, failing that, the session cookie.
type JWTSessionProvider struct {
	secret     []byte
	cookieName string
	parser     *jwt.Parser
}

var _ SessionProvider = &JWTSessionProvider{}

// NewJWTSessionProvider refuses an empty secret: HMAC accepts a zero-length
// key, which would let anyone mint a valid session.
func NewJWTSessionProvider(secret, cookieName string) (*JWTSessionProvider, error) {
	if secret == "" {
		return nil, harvest_errors.ErrMissingSessionSecret
	}
	return &JWTSessionProvider{
		secret:     []byte(secret),
		cookieName: cookieName,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}, nil
}

func (p *JWTSessionProvider) CurrentIdentity(r *http.Request) (*model.UserIdentity, error) {
	tokenString := p.tokenFromRequest(r)
	if tokenString == "" {
		return nil, fmt.Errorf("no session token: %w", harvest_errors.ErrUnauthenticated)
	}

	claims := &SessionClaims{}
	token, err := p.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return p.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %v: %w", err, harvest_errors.ErrUnauthenticated)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("session token has no subject: %w", harvest_errors.ErrUnauthenticated)
	}

	return &model.UserIdentity{ID: claims.Subject, Email: claims.Email}, nil
}

func (p *JWTSessionProvider) tokenFromRequest(r *http.Request) string {
	// Only a Bearer credential is a session token; any other scheme falls
	// through to the cookie.
	if scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " "); ok && strings.EqualFold(scheme, "Bearer") {
		if token = strings.TrimSpace(token); token != "" {
			return token
		}
	}
	if p.cookieName == "" {
		return ""
	}
	cookie, err := r.Cookie(p.cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
