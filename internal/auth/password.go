// Package auth - password.go handles password hashing and verification with bcrypt.
// Only the hash ever touches the database.
package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost balances hashing strength against login latency
const bcryptCost = 10

// MinPasswordLength is enforced on user creation and password changes
const MinPasswordLength = 8

// HashPassword returns the bcrypt hash of a plaintext password
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", errors.New("password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword verifies a plaintext password against a stored bcrypt hash
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
