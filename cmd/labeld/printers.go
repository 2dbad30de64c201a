package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var printersJSON bool

var printersCmd = &cobra.Command{
	Use:   "printers",
	Short: "List printers known to CUPS",
	Args:  cobra.NoArgs,
	RunE:  runPrinters,
}

func init() {
	printersCmd.Flags().BoolVar(&printersJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(printersCmd)
}

func runPrinters(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	printers, err := a.directory.ListPrinters(context.Background())
	if err != nil {
		return err
	}

	if printersJSON {
		data, err := json.MarshalIndent(printers, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal printers: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(printers) == 0 {
		cmd.Println("No printers found.")
		return nil
	}
	for _, p := range printers {
		cmd.Println(p)
	}
	return nil
}
