package utils

import (
	"golang.org/x/crypto/bcrypt"
)

const BcryptCost = 14

// HashAccessKey returns the bcrypt hash to store in
// ADMIN_ACCESS_KEY_HASH. The plain key is never persisted.
func HashAccessKey(key string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(key), BcryptCost)
	return string(bytes), err
}

// CheckAccessKey reports whether key matches the stored bcrypt hash.
func CheckAccessKey(key, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(key))
}
