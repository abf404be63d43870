package auth

import (
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	t.Run("produces bcrypt hash", func(t *testing.T) {
		hash, err := HashPassword("correct-horse-battery")
		if err != nil {
			t.Fatalf("HashPassword() error: %v", err)
		}
		if !strings.HasPrefix(hash, "$2a$") && !strings.HasPrefix(hash, "$2b$") {
			t.Errorf("hash = %q, want bcrypt prefix", hash)
		}
	})

	t.Run("rejects short password", func(t *testing.T) {
		if _, err := HashPassword("short"); err == nil {
			t.Error("HashPassword() expected error for short password, got nil")
		}
	})

	t.Run("same password hashes differently", func(t *testing.T) {
		h1, err := HashPassword("correct-horse-battery")
		if err != nil {
			t.Fatalf("HashPassword() error: %v", err)
		}
		h2, err := HashPassword("correct-horse-battery")
		if err != nil {
			t.Fatalf("HashPassword() error: %v", err)
		}
		if h1 == h2 {
			t.Error("two hashes of the same password are identical, want distinct salts")
		}
	})
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse-battery")
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}

	t.Run("matching password", func(t *testing.T) {
		if !CheckPassword(hash, "correct-horse-battery") {
			t.Error("CheckPassword() = false, want true")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if CheckPassword(hash, "wrong-password-here") {
			t.Error("CheckPassword() = true, want false")
		}
	})

	t.Run("garbage hash", func(t *testing.T) {
		if CheckPassword("not-a-hash", "correct-horse-battery") {
			t.Error("CheckPassword() = true, want false")
		}
	})
}
