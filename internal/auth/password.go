package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Cost 10 matches the hashes already present in migrated databases, so
// existing credentials keep verifying.
const bcryptCost = 10

func HashPassword(pw string) (string, error) {
	if pw == "" {
		return "", errors.New("password must not be empty")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func VerifyPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
