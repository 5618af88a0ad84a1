package main

import (
	"fmt"
	"os"

	"github.com/open-cli-collective/richtext-cli/internal/cmd/root"
	"github.com/open-cli-collective/richtext-cli/internal/config"
	"github.com/open-cli-collective/richtext-cli/internal/logging"
	"github.com/open-cli-collective/richtext-cli/internal/logging/events"
)

func main() {
	logging.Configure(config.DefaultLogPath())

	cmd := root.NewCmdRoot()
	if err := cmd.Execute(); err != nil {
		events.App.Error(err)
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
