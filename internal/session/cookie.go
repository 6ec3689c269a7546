package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the browser cookie carrying the signed session ID.
const CookieName = "webui_session"

type cookieClaims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

// CookieCodec signs and verifies the session cookie. The cookie carries only
// the session ID; all state lives in the Store.
type CookieCodec struct {
	secret string
	issuer string
	ttl    time.Duration
}

func NewCookieCodec(secret, issuer string, ttl time.Duration) *CookieCodec {
	return &CookieCodec{secret: secret, issuer: issuer, ttl: ttl}
}

func (c *CookieCodec) Encode(sid string) (string, error) {
	now := time.Now().UTC()
	claims := cookieClaims{
		SID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sid,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(c.secret))
}

// Decode returns the session ID from a cookie value, or "" when the value is
// missing, expired or tampered with. A bad cookie is treated as no session,
// not as an error.
func (c *CookieCodec) Decode(value string) string {
	if value == "" {
		return ""
	}
	token, err := jwt.ParseWithClaims(value, &cookieClaims{}, func(*jwt.Token) (interface{}, error) {
		return []byte(c.secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(c.issuer))
	if err != nil {
		return ""
	}
	claims, ok := token.Claims.(*cookieClaims)
	if !ok || !token.Valid {
		return ""
	}
	return claims.SID
}

// TTL is the cookie lifetime, matching the stored session TTL.
func (c *CookieCodec) TTL() time.Duration {
	return c.ttl
}
