package ports

// PasswordHasher hashes and verifies passwords (Argon2id). Verify
// returns (false, nil) on a plain mismatch and a non-nil error only
// when the stored digest is not in the expected encoded form.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) (bool, error)
}

// TokenIssuer signs and validates bearer tokens (HS256). Verify maps
// every failure mode — malformed, bad signature, expired — to
// errors.ErrUnauthenticated so callers cannot tell them apart.
type TokenIssuer interface {
	Issue(userID string) (token string, expiresIn int64, err error)
	Verify(token string) (userID string, err error)
}
