package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenInvalid = errors.New("security: token invalid")
	ErrTokenExpired = errors.New("security: token expired")
)

// TokenCodec signs and verifies stateless bearer tokens carrying only the
// user id; the profile is re-resolved from storage on every request.
type TokenCodec struct {
	Secret []byte
	TTL    time.Duration
}

type claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

func (t TokenCodec) Issue(userID string, now time.Time) (string, error) {
	if now.IsZero() {
		now = time.Now()
	}
	ttl := t.TTL
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString(t.Secret)
}

func (t TokenCodec) Verify(raw string) (string, error) {
	parsed, err := jwt.ParseWithClaims(raw, &claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return t.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}
	payload, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid || payload.UserID == "" {
		return "", ErrTokenInvalid
	}
	return payload.UserID, nil
}
