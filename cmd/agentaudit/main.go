package main

import (
	"fmt"
	"os"

	"github.com/tdkit/agentaudit/internal/adapters/inbound/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		if !cli.IsStrictFailure(err) {
			fmt.Fprintf(os.Stderr, "agentaudit: %v\n", err)
		}
		os.Exit(cli.ExitCode(err))
	}
}
