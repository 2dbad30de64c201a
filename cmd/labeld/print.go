package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orrn/labelserver/internal/core"
)

var (
	printPrinter   string
	printLabelSize string
)

var printCmd = &cobra.Command{
	Use:   "print LINE1 [LINE2 [LINE3 [LINE4]]]",
	Short: "Print a label directly, without the HTTP API",
	Args:  cobra.RangeArgs(1, 4),
	RunE:  runPrint,
}

func init() {
	printCmd.Flags().StringVarP(&printPrinter, "printer", "p", "", "printer name (default: discovered)")
	printCmd.Flags().StringVarP(&printLabelSize, "label-size", "s", "", "media size passed to lp")
	rootCmd.AddCommand(printCmd)
}

func runPrint(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	lines := make([]string, 4)
	copy(lines, args)

	jobID, err := a.printer.Submit(context.Background(), core.LabelRequest{
		Line1:       lines[0],
		Line2:       lines[1],
		Line3:       lines[2],
		Line4:       lines[3],
		PrinterName: printPrinter,
		LabelSize:   printLabelSize,
	})
	if err != nil {
		return fmt.Errorf("print failed: %w", err)
	}

	cmd.Printf("Print job submitted: %s\n", jobID)
	return nil
}
