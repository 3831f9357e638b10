package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Aashish23092/access-key-extractor/service"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previously processed documents",
	Long: `History prints the most recent extractions recorded in the SQLite database
given by --db or DATABASE_PATH, newest first.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of records to list")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		return fmt.Errorf("--limit must be positive, got %d", limit)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	records, err := a.service.History(cmd.Context(), limit)
	if errors.Is(err, service.ErrHistoryDisabled) {
		return fmt.Errorf("%w: set --db or DATABASE_PATH", err)
	}
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PROCESSED\tFILE\tRESULT\tSTAGE")
	for _, r := range records {
		outcome := "not found"
		switch {
		case r.Error != "":
			outcome = "error " + r.Error
		case r.Found:
			outcome = r.AccessKey
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ProcessedAt, r.Filename, outcome, r.Stage)
	}
	return tw.Flush()
}
