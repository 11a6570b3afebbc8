// ABOUTME: Entry point for the shopfront CLI
// ABOUTME: Terminal storefront with a persistent session and paginated catalog

package main

import (
	"fmt"
	"os"

	"github.com/markalston/shopfront/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
