package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/pharma-intel/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "pharma-intel",
	Short: "Pharmaceutical research intelligence reports",
	Long:  "Resolves research signals (trade data, clinical trials, patents, market intelligence, web and internal documents) through cascading source chains and synthesizes them into text, excel, or pdf reports.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
