// Package identity verifies credentials presented by the identity provider
// and exposes the claims the rest of the application acts on.
package identity

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer   = "ronotbroyt-id"
	audience = "ronotbroyt-site"
)

var (
	ErrMissingToken = errors.New("credential required")
	ErrInvalidToken = errors.New("invalid or expired credential")
)

// Claims is the verified identity of a request. ExternalID is the provider's
// subject; profile fields are used to create the internal User lazily.
type Claims struct {
	ExternalID string
	Username   string
	Email      string
	Avatar     string
	Role       string
}

// Verifier validates a raw credential and returns its claims.
type Verifier interface {
	Verify(token string) (*Claims, error)
}

// JWTVerifier validates HMAC-signed JWTs issued by the identity provider.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, ok := mapClaims["sub"].(string)
	if !ok || sub == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{ExternalID: sub}
	if username, ok := mapClaims["username"].(string); ok {
		claims.Username = username
	}
	if email, ok := mapClaims["email"].(string); ok {
		claims.Email = email
	}
	if avatar, ok := mapClaims["avatar"].(string); ok {
		claims.Avatar = avatar
	}
	if role, ok := mapClaims["role"].(string); ok {
		claims.Role = role
	}
	return claims, nil
}

// SignToken mints a token for the given claims. Used by tests and the
// local development seeder; production tokens come from the provider.
func SignToken(secret string, claims *Claims) (string, error) {
	mapClaims := jwt.MapClaims{
		"iss":      issuer,
		"aud":      audience,
		"sub":      claims.ExternalID,
		"username": claims.Username,
		"email":    claims.Email,
	}
	if claims.Avatar != "" {
		mapClaims["avatar"] = claims.Avatar
	}
	if claims.Role != "" {
		mapClaims["role"] = claims.Role
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)
	return token.SignedString([]byte(secret))
}
