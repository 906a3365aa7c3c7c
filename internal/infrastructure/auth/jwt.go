package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/taskward/taskward/internal/application/ports"
	domerrors "github.com/taskward/taskward/internal/domain/errors"
)

// DefaultTokenTTL is used when no TTL is configured (7 days).
const DefaultTokenTTL = 7 * 24 * time.Hour

type accessClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// TokenIssuer implements ports.TokenIssuer with HS256. The secret is
// injected at construction and immutable for the process lifetime; it
// never appears in logs or errors.
type TokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	log    zerolog.Logger
}

func NewTokenIssuer(secret []byte, issuer string, ttl time.Duration, log zerolog.Logger) (*TokenIssuer, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("token issuer: signing secret is required")
	}
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: secret, issuer: issuer, ttl: ttl, log: log}, nil
}

// Issue signs a token for userID with iat=now and exp=now+ttl. Two
// tokens for the same user at different instants differ; tokens are
// issued credentials, not idempotent artifacts.
func (t *TokenIssuer) Issue(userID string) (string, int64, error) {
	now := time.Now()
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
		UserID: userID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", 0, err
	}
	return signed, int64(t.ttl.Seconds()), nil
}

// Verify checks structure, signature, and expiry, in that order, and
// returns the user ID. All failures surface as ErrUnauthenticated so
// the caller cannot distinguish an expired token from a tampered one;
// the distinction is logged at debug level for diagnostics.
func (t *TokenIssuer) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &accessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			t.log.Debug().Msg("token rejected: expired")
		case errors.Is(err, jwt.ErrTokenMalformed):
			t.log.Debug().Msg("token rejected: malformed")
		default:
			t.log.Debug().Msg("token rejected: signature or claims invalid")
		}
		return "", domerrors.ErrUnauthenticated
	}
	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return "", domerrors.ErrUnauthenticated
	}
	return claims.UserID, nil
}

var _ ports.TokenIssuer = (*TokenIssuer)(nil)
