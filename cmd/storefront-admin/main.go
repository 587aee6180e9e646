// Command storefront-admin manages the catalog through the HTTP API.
package main

import (
	"fmt"
	"os"
)

// Set via ldflags during build.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
