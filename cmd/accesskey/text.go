package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var textCmd = &cobra.Command{
	Use:   "text [file|-]",
	Short: "Extract the access key from plain text",
	Long: `Text searches already extracted document text for the access key. The text
is read from the named file, or from standard input when the argument is "-"
or omitted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runText,
}

func init() {
	textCmd.Flags().Bool("json", false, "output the result as JSON")

	rootCmd.AddCommand(textCmd)
}

func runText(cmd *cobra.Command, args []string) error {
	name := "-"
	if len(args) == 1 {
		name = args[0]
	}

	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
		name = "stdin"
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return fmt.Errorf("failed to read text: %w", err)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.service.ExtractFromText(string(data))
	if err != nil {
		return err
	}
	result.Filename = name

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if result.Found {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, result.AccessKey)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: not found\n", name)
	}
	return nil
}
