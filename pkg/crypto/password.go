package crypto

import "golang.org/x/crypto/bcrypt"

// HashPassword generates a salted bcrypt digest. Hashing the same plaintext
// twice yields different digests; both verify.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// VerifyPassword reports whether the plaintext matches the digest. A malformed
// digest verifies as false rather than erroring.
func VerifyPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
