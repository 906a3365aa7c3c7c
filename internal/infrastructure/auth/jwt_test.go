package auth

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domerrors "github.com/taskward/taskward/internal/domain/errors"
)

func newTestIssuer(t *testing.T, secret string, ttl time.Duration) *TokenIssuer {
	t.Helper()
	iss, err := NewTokenIssuer([]byte(secret), "taskward-test", ttl, zerolog.Nop())
	require.NoError(t, err)
	return iss
}

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()
	iss := newTestIssuer(t, "super-secret", time.Hour)

	tok, expiresIn, err := iss.Issue("user-123")
	require.NoError(t, err)
	assert.Equal(t, int64(3600), expiresIn)

	userID, err := iss.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestIssueNotIdempotent(t *testing.T) {
	t.Parallel()
	iss := newTestIssuer(t, "super-secret", time.Hour)

	t1, _, err := iss.Issue("u1")
	require.NoError(t, err)
	time.Sleep(1100 * time.Millisecond) // iat has second granularity
	t2, _, err := iss.Issue("u1")
	require.NoError(t, err)
	assert.NotEqual(t, t1, t2)
}

func TestVerifyExpired(t *testing.T) {
	t.Parallel()
	iss := newTestIssuer(t, "secret", -time.Second)

	tok, _, err := iss.Issue("u1")
	require.NoError(t, err)

	_, err = iss.Verify(tok)
	assert.ErrorIs(t, err, domerrors.ErrUnauthenticated)
}

func TestVerifyWrongSecret(t *testing.T) {
	t.Parallel()
	right := newTestIssuer(t, "right-secret", time.Hour)
	wrong := newTestIssuer(t, "wrong-secret", time.Hour)

	tok, _, err := right.Issue("u2")
	require.NoError(t, err)

	_, err = wrong.Verify(tok)
	assert.ErrorIs(t, err, domerrors.ErrUnauthenticated)
}

// Expired and tampered tokens must be the same error category; callers
// get no oracle for which check failed.
func TestVerifyFailureShapeUniform(t *testing.T) {
	t.Parallel()
	iss := newTestIssuer(t, "secret", time.Hour)
	expiredIss := newTestIssuer(t, "secret", -time.Minute)

	expired, _, err := expiredIss.Issue("u3")
	require.NoError(t, err)
	good, _, err := iss.Issue("u3")
	require.NoError(t, err)
	tampered := good[:len(good)-2] + "xx"

	_, errExpired := iss.Verify(expired)
	_, errTampered := iss.Verify(tampered)
	_, errMalformed := iss.Verify("not.a.jwt")

	assert.ErrorIs(t, errExpired, domerrors.ErrUnauthenticated)
	assert.ErrorIs(t, errTampered, domerrors.ErrUnauthenticated)
	assert.ErrorIs(t, errMalformed, domerrors.ErrUnauthenticated)
	assert.Equal(t, errExpired.Error(), errTampered.Error())
}

func TestNewTokenIssuerRequiresSecret(t *testing.T) {
	t.Parallel()
	_, err := NewTokenIssuer(nil, "taskward-test", time.Hour, zerolog.Nop())
	assert.Error(t, err)
}
