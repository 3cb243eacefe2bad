// Command hashkey prints the bcrypt hash of an admin access key, ready
// to be stored in the ADMIN_ACCESS_KEY_HASH environment variable.
package main

import (
	"fmt"
	"os"

	"github.com/Fermalla/golf-league-system/utils"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: hashkey <access-key>")
		os.Exit(2)
	}

	hash, err := utils.HashAccessKey(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash access key: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
