// main is the entry point for the touchline CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/touchline/cmd"
)

func main() {
	err := cmd.Execute()
	cmd.Shutdown()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
