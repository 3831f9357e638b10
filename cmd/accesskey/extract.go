package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Aashish23092/access-key-extractor/dto"
	"github.com/Aashish23092/access-key-extractor/service"
)

var extractCmd = &cobra.Command{
	Use:   "extract [files...]",
	Short: "Extract access keys from PDF files",
	Long: `Extract reads each PDF, searches its text for the access key and prints
one line per file. Scanned pages fall back to barcode decoding and OCR when
--ocr is set. The command fails only when every file failed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("password", "", "password for encrypted PDFs")
	extractCmd.Flags().Int("workers", 0, "number of files processed concurrently (default from config)")
	extractCmd.Flags().Bool("json", false, "output results as JSON")
	extractCmd.Flags().Bool("ocr", true, "fall back to barcodes and OCR for scanned pages")

	_ = viper.BindPFlag("max_workers", extractCmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("enable_ocr", extractCmd.Flags().Lookup("ocr"))

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	password, _ := cmd.Flags().GetString("password")
	asJSON, _ := cmd.Flags().GetBool("json")

	docs, readErrs := readDocuments(args, password, a.cfg.MaxFileSize)

	bp := service.NewBatchProcessor(a.service, a.cfg.MaxWorkers, a.logger)
	resp := bp.ProcessBatch(cmd.Context(), docs)
	resp = mergeReadErrors(args, resp, readErrs)

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return err
		}
	} else {
		printResults(out, resp.Results)
	}

	if resp.Summary.Total > 0 && resp.Summary.Failed == resp.Summary.Total {
		return fmt.Errorf("all %d file(s) failed", resp.Summary.Total)
	}
	return nil
}

// readDocuments loads every readable path. Paths that cannot be read are
// returned in readErrs keyed by their position in paths.
func readDocuments(paths []string, password string, maxSize int64) ([]dto.Document, map[int]error) {
	docs := make([]dto.Document, 0, len(paths))
	readErrs := make(map[int]error)
	for i, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			readErrs[i] = err
			continue
		}
		if maxSize > 0 && info.Size() > maxSize {
			readErrs[i] = fmt.Errorf("%w: %d bytes", dto.ErrFileTooLarge, info.Size())
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			readErrs[i] = err
			continue
		}
		docs = append(docs, dto.Document{
			Filename: filepath.Base(p),
			Data:     data,
			Password: password,
		})
	}
	return docs, readErrs
}

// mergeReadErrors puts failed reads back at their original positions.
func mergeReadErrors(paths []string, resp *dto.BatchResponse, readErrs map[int]error) *dto.BatchResponse {
	if len(readErrs) == 0 {
		return resp
	}

	merged := make([]dto.AccessKeyResult, 0, len(paths))
	next := 0
	for i, p := range paths {
		if err, ok := readErrs[i]; ok {
			merged = append(merged, dto.AccessKeyResult{
				Filename:    filepath.Base(p),
				Error:       err.Error(),
				ProcessedAt: resp.ProcessedAt,
			})
			continue
		}
		merged = append(merged, resp.Results[next])
		next++
	}

	resp.Results = merged
	resp.Summary.Total += len(readErrs)
	resp.Summary.Failed += len(readErrs)
	return resp
}

func printResults(w io.Writer, results []dto.AccessKeyResult) {
	for _, r := range results {
		switch {
		case r.Error != "":
			fmt.Fprintf(w, "%s: error %s\n", r.Filename, r.Error)
		case r.Found:
			fmt.Fprintf(w, "%s: %s\n", r.Filename, r.AccessKey)
		default:
			fmt.Fprintf(w, "%s: not found\n", r.Filename)
		}
	}
}
