package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var errInvalidCookie = errors.New("session: invalid cookie")

type cookieClaims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

// Codec signs and verifies the session cookie. The cookie is an HS256 JWT
// whose sid claim names the server-side session.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// Encode returns a signed token for sid that expires ttl after now.
func (c *Codec) Encode(sid string, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, cookieClaims{
		SID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	})
	return token.SignedString(c.secret)
}

// Decode verifies the signature and expiry and returns the session id.
func (c *Codec) Decode(raw string) (string, error) {
	var claims cookieClaims
	tkn, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil || !tkn.Valid || claims.SID == "" {
		return "", errInvalidCookie
	}
	return claims.SID, nil
}
