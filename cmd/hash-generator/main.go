// Command hash-generator prints bcrypt hashes for seeding user rows by hand.
// Passwords are read from the arguments and checked against the password
// policy before hashing.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/phrazzld/taskflow-api/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: hash-generator [-cost n] password...")
		os.Exit(2)
	}

	failed := false
	for _, password := range flag.Args() {
		if err := domain.CheckPasswordPolicy(password); err != nil {
			fmt.Fprintf(os.Stderr, "Rejected %q: %v\n", password, err)
			failed = true
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), *cost)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating hash for %q: %v\n", password, err)
			failed = true
			continue
		}
		fmt.Printf("Password: %s\nHash: %s\n\n", password, string(hash))
	}
	if failed {
		os.Exit(1)
	}
}
