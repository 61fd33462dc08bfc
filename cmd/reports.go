package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sells-group/pharma-intel/internal/model"
	"github.com/sells-group/pharma-intel/internal/store"
)

var (
	reportsQuery  string
	reportsFormat string
	reportsLimit  int
	reportsOffset int

	downloadOutput string
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List stored reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		var format model.Format
		if reportsFormat != "" {
			f, err := model.ParseFormat(reportsFormat)
			if err != nil {
				return err
			}
			format = f
		}

		env, err := initReportEnv(cmd.Context(), "report")
		if err != nil {
			return err
		}
		defer env.Close()

		summaries, err := env.store.ListReports(cmd.Context(), store.ReportFilter{
			Query:  reportsQuery,
			Format: format,
			Limit:  reportsLimit,
			Offset: reportsOffset,
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download [report-id]",
	Short: "Write a stored report body to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initReportEnv(cmd.Context(), "report")
		if err != nil {
			return err
		}
		defer env.Close()

		artifact, err := env.store.GetReport(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		path := downloadOutput
		if path == "" {
			path = artifact.ID + artifact.Format.Extension()
		} else if !strings.Contains(path, ".") {
			path += artifact.Format.Extension()
		}
		if err := os.WriteFile(path, artifact.Body, 0o644); err != nil {
			return err
		}
		if err := env.store.IncrementDownloads(cmd.Context(), artifact.ID); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

func init() {
	reportsCmd.Flags().StringVar(&reportsQuery, "query", "", "filter by query substring")
	reportsCmd.Flags().StringVar(&reportsFormat, "format", "", "filter by report format")
	reportsCmd.Flags().IntVar(&reportsLimit, "limit", 50, "max rows to return")
	reportsCmd.Flags().IntVar(&reportsOffset, "offset", 0, "rows to skip")
	rootCmd.AddCommand(reportsCmd)

	downloadCmd.Flags().StringVarP(&downloadOutput, "output", "o", "", "output file (default <report-id> with format extension)")
	reportsCmd.AddCommand(downloadCmd)
}
