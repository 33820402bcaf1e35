package security

import "golang.org/x/crypto/bcrypt"

// BcryptCost is the work factor used for town update-password hashing.
// bcrypt.DefaultCost matches the teacher corpus's security posture of
// leaning on well-known library defaults rather than hand-tuning them.
const BcryptCost = bcrypt.DefaultCost

// BcryptHasher implements registry.PasswordHasher over golang.org/x/crypto/bcrypt.
type BcryptHasher struct{}

// Hash returns the bcrypt hash of password.
func (BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare reports whether password matches hash. It never returns an
// error to callers: a malformed hash or a mismatched password are both
// treated as "not authenticated", per the spec's silent-failure policy
// for authorization misses (§7).
func (BcryptHasher) Compare(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
