// Command labeld serves the label printing HTTP API and offers a few
// operator commands against the same CUPS gateway.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.1.0"

var configPath string

var rootCmd = &cobra.Command{
	Use:           "labeld",
	Short:         "Label printing service for CUPS printers",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE:          runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "labeld.yaml", "path to the YAML config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
