// Command admin is the maintenance CLI for user accounts, the category
// catalog and password generation.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(openBackend).Execute(); err != nil {
		os.Exit(1)
	}
}
