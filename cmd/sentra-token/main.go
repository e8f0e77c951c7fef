// Command sentra-token mints an operator token for the admin surface.
// It reads ADMIN_TOKEN_SECRET (and optionally ADMIN_TOKEN_EXPIRY) from the
// environment or a .env file and prints the signed token to stdout.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sentra-ids/sentra/internal/auth"
)

func main() {
	operator := flag.String("operator", "operator", "name recorded in the token's operator claim")
	expiry := flag.Duration("expiry", 0, "token lifetime (default: ADMIN_TOKEN_EXPIRY or 12h)")
	flag.Parse()

	_ = godotenv.Load()

	secret := os.Getenv("ADMIN_TOKEN_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "ADMIN_TOKEN_SECRET is required")
		os.Exit(1)
	}

	lifetime := *expiry
	if lifetime == 0 {
		lifetime = 12 * time.Hour
		if raw := os.Getenv("ADMIN_TOKEN_EXPIRY"); raw != "" {
			parsed, err := time.ParseDuration(raw)
			if err != nil {
				fmt.Fprintf(os.Stderr, "invalid ADMIN_TOKEN_EXPIRY: %v\n", err)
				os.Exit(1)
			}
			lifetime = parsed
		}
	}

	tm := auth.NewTokenManager(secret, lifetime)
	token, err := tm.Generate(*operator)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to generate token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
