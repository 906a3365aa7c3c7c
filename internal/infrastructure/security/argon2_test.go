package security

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domerrors "github.com/taskward/taskward/internal/domain/errors"
)

// testParams keeps hashing fast in tests; production defaults are far heavier.
func testParams() Argon2Params {
	return Argon2Params{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
}

func TestHashVerifyRoundTrip(t *testing.T) {
	h := NewArgon2Hasher(testParams())

	digest, err := h.Hash("Secret123!")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(digest, "$argon2id$"))

	ok, err := h.Verify("Secret123!", digest)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("wrong", digest)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashFreshSaltPerCall(t *testing.T) {
	h := NewArgon2Hasher(testParams())

	d1, err := h.Hash("same-password")
	require.NoError(t, err)
	d2, err := h.Hash("same-password")
	require.NoError(t, err)
	assert.NotEqual(t, d1, d2)
}

func TestHashRejectsEmptyPassword(t *testing.T) {
	h := NewArgon2Hasher(testParams())

	_, err := h.Hash("")
	assert.ErrorIs(t, err, domerrors.ErrInvalidInput)
}

func TestVerifyMalformedDigest(t *testing.T) {
	h := NewArgon2Hasher(testParams())

	for _, digest := range []string{
		"",
		"not a digest",
		"$argon2id$v=19$m=8192,t=1,p=1$short", // missing hash segment
		"$bcrypt$v=19$m=8192,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=8192,t=1,p=1$c2FsdA$aGFzaA", // wrong version
	} {
		_, err := h.Verify("whatever", digest)
		assert.True(t, errors.Is(err, domerrors.ErrMalformedDigest), "digest %q should be malformed", digest)
	}
}

func TestVerifyParamsFromDigestNotHasher(t *testing.T) {
	// Digest produced with one parameter set must verify through a hasher
	// configured with another; the embedded params win.
	h1 := NewArgon2Hasher(testParams())
	digest, err := h1.Hash("pw")
	require.NoError(t, err)

	h2 := NewArgon2Hasher(Argon2Params{Memory: 16 * 1024, Iterations: 2, Parallelism: 2, SaltLength: 16, KeyLength: 32})
	ok, err := h2.Verify("pw", digest)
	require.NoError(t, err)
	assert.True(t, ok)
}
