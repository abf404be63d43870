// Package main is a utility for generating bcrypt hashes of passwords.
// The inventory stores only bcrypt hashes of user passwords — never the raw
// values — so this tool is used when manually seeding or repairing user
// records in the database without running the full server. Running it locally
// produces a hash that can be inserted directly into the users table.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/asset-inventory/asset-inventory/internal/auth"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("usage: %s <password>", os.Args[0])
	}

	password := os.Args[1]
	if len(password) < auth.MinPasswordLength {
		log.Fatalf("password must be at least %d characters", auth.MinPasswordLength)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	fmt.Println(hash)
}
