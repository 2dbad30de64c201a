package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently submitted labels",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of entries")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.cfg.Database.Path == "" {
		return errors.New("print history is disabled (database.path is empty)")
	}
	if err := a.openHistory(); err != nil {
		return err
	}

	records, err := a.history.Recent(context.Background(), historyLimit)
	if err != nil {
		return err
	}

	if historyJSON {
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal history: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(records) == 0 {
		cmd.Println("No labels printed yet.")
		return nil
	}

	for _, r := range records {
		status := "ok"
		detail := r.JobID
		if !r.Success {
			status = r.ErrorKind
			detail = r.ErrorMessage
		}
		firstLine := strings.TrimSpace(strings.SplitN(strings.TrimLeft(r.Content, "\n"), "\n", 2)[0])
		cmd.Printf("%s  %-18s %-24s %-20s %s\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"), status, r.Printer, firstLine, detail)
	}
	return nil
}
