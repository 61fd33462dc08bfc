package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/sells-group/pharma-intel/internal/model"
	"github.com/sells-group/pharma-intel/internal/synthetic"
)

var (
	resolveCategories []string
	resolveLimit      int
	resolveHSCode     string
	resolvePhase      string
	resolveStatus     string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [query]",
	Short: "Resolve research data for a query without generating a report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initReportEnv(cmd.Context(), "resolve")
		if err != nil {
			return err
		}
		defer env.Close()

		categories, err := parseCategories(resolveCategories)
		if err != nil {
			return err
		}

		_, results := env.orchestrator.ResolveAll(cmd.Context(), args[0], categories, resolveLimit, synthetic.Filters{
			HSCode: resolveHSCode,
			Phase:  resolvePhase,
			Status: resolveStatus,
		})

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	},
}

func parseCategories(names []string) ([]model.Category, error) {
	categories := make([]model.Category, 0, len(names))
	for _, name := range names {
		cat, err := model.ParseCategory(name)
		if err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}
	return categories, nil
}

func init() {
	resolveCmd.Flags().StringSliceVar(&resolveCategories, "category", nil, "categories to resolve (default all)")
	resolveCmd.Flags().IntVar(&resolveLimit, "limit", 0, "max records per category (default from config)")
	resolveCmd.Flags().StringVar(&resolveHSCode, "hs-code", "", "HS code for trade lookups")
	resolveCmd.Flags().StringVar(&resolvePhase, "phase", "", "clinical trial phase filter")
	resolveCmd.Flags().StringVar(&resolveStatus, "status", "", "clinical trial status filter")
	rootCmd.AddCommand(resolveCmd)
}
