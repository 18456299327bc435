// GridWatch CLI entry point
package main

import (
	"os"

	"github.com/gridwatch/gridwatch/cmd/gridctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
