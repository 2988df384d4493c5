package auth

import "golang.org/x/crypto/bcrypt"

const bcryptCost = 12

// BcryptHasher implements domain.PasswordHasher with bcrypt.
type BcryptHasher struct{}

// Hash derives a bcrypt hash from the plaintext password.
func (BcryptHasher) Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare checks a plaintext password against a stored hash.
func (BcryptHasher) Compare(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
