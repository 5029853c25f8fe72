// Command hash-generator prints bcrypt hashes for account passwords, for
// seeding the accounts table by hand.
//
//	hash-generator -cost 12 'Secret123' 'Пароль2024'
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/phrazzld/storefront-api/internal/service/auth"
	"github.com/phrazzld/storefront-api/internal/validation"
)

func main() {
	cost := flag.Int("cost", 10, "bcrypt cost")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: hash-generator [-cost N] password...")
		os.Exit(2)
	}

	hasher := auth.NewBcryptHasher(*cost)
	failed := false
	for _, password := range flag.Args() {
		if ok, msg := validation.ValidatePassword(password); !ok {
			fmt.Fprintf(os.Stderr, "skipping password: %s\n", msg)
			failed = true
			continue
		}
		hash, err := hasher.Hash(password)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error generating hash: %v\n", err)
			failed = true
			continue
		}
		fmt.Println(hash)
	}

	if failed {
		os.Exit(1)
	}
}
