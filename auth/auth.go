package auth

import (
	"crypto/subtle"
	"fmt"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// AdminAuthenticator decides whether a registration credential grants
// admin rights. It is called from the transport layer before the action
// enters the game's serialized context, so implementations may block.
type AdminAuthenticator interface {
	IsAdmin(credential string) bool
}

// StaticKeyAuthenticator grants admin to callers presenting the shared
// passphrase. Comparison is constant time.
type StaticKeyAuthenticator struct {
	Key string
}

func (a StaticKeyAuthenticator) IsAdmin(credential string) bool {
	if a.Key == "" || credential == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a.Key), []byte(credential)) == 1
}

// JWKSAuthenticator treats the credential as a JWT and validates it
// against a JWKS endpoint. The token must carry a "role":"admin" claim.
type JWKSAuthenticator struct {
	JWKSURL string
	Issuer  string
}

func (a JWKSAuthenticator) IsAdmin(credential string) bool {
	if credential == "" {
		return false
	}
	claims, err := a.validate(credential)
	if err != nil {
		return false
	}
	role, _ := claims["role"].(string)
	return role == "admin"
}

func (a JWKSAuthenticator) validate(tokenString string) (jwt.MapClaims, error) {
	jwks, err := keyfunc.NewDefault([]string{a.JWKSURL})
	if err != nil {
		return nil, err
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"EdDSA", "RS256", "ES256"}),
	}
	if a.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.Issuer))
	}

	token, err := jwt.Parse(tokenString, jwks.Keyfunc, opts...)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
