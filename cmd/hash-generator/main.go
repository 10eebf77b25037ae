// Command hash-generator produces a bcrypt hash for the admin password,
// suitable for the auth.admin_password_hash configuration value.
//
// Usage:
//
//	hash-generator -password 'secret'
package main

import (
	"flag"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/service/auth"
)

func main() {
	password := flag.String("password", "", "password to hash")
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost factor")
	flag.Parse()

	if *password == "" {
		log.Fatal("missing required -password flag")
	}

	hash, err := auth.HashPassword(*password, *cost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	fmt.Println(hash)
}
