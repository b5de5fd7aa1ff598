// Package main is the entry point of the ongkirctl operator CLI.
package main

import (
	"os"

	"github.com/GTDGit/gtd_ongkir/cmd/ongkirctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
