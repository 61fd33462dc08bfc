package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/pharma-intel/internal/model"
	"github.com/sells-group/pharma-intel/internal/synthetic"
)

var (
	reportFormat     string
	reportCategories []string
	reportLimit      int
	reportOutput     string
	reportHSCode     string
	reportPhase      string
	reportStatus     string
)

var reportCmd = &cobra.Command{
	Use:   "report [query]",
	Short: "Resolve a query and synthesize a stored report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := model.ParseFormat(reportFormat)
		if err != nil {
			return err
		}

		env, err := initReportEnv(cmd.Context(), "report")
		if err != nil {
			return err
		}
		defer env.Close()

		categories, err := parseCategories(reportCategories)
		if err != nil {
			return err
		}

		query := args[0]
		sections, results := env.orchestrator.ResolveAll(cmd.Context(), query, categories, reportLimit, synthetic.Filters{
			HSCode: reportHSCode,
			Phase:  reportPhase,
			Status: reportStatus,
		})
		for _, res := range results {
			if res.Err != "" {
				zap.L().Warn("category not resolved",
					zap.String("category", string(res.Category)),
					zap.String("error", res.Err))
			}
		}

		artifact, err := env.engine.Synthesize(query, sections, format)
		if err != nil {
			return err
		}
		if err := env.store.SaveReport(cmd.Context(), artifact); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Report %s (%s) generated: %d sections, %d data points\n",
			artifact.ID, artifact.Format,
			len(artifact.Metadata.SectionNames), artifact.Metadata.DataPointCount)

		if reportOutput != "" {
			path := reportOutput
			if !strings.Contains(path, ".") {
				path += format.Extension()
			}
			if err := os.WriteFile(path, artifact.Body, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		}

		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "text", "report format (text, excel, pdf)")
	reportCmd.Flags().StringSliceVar(&reportCategories, "category", nil, "categories to include (default all)")
	reportCmd.Flags().IntVar(&reportLimit, "limit", 0, "max records per category (default from config)")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "also write the rendered body to a file")
	reportCmd.Flags().StringVar(&reportHSCode, "hs-code", "", "HS code for trade lookups")
	reportCmd.Flags().StringVar(&reportPhase, "phase", "", "clinical trial phase filter")
	reportCmd.Flags().StringVar(&reportStatus, "status", "", "clinical trial status filter")
	rootCmd.AddCommand(reportCmd)
}
