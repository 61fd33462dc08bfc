package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sells-group/pharma-intel/internal/model"
)

const docExcerptLen = 200

var (
	docTitle      string
	docUploadedBy string

	docSearchLimit int
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage the internal document corpus",
}

var docsUploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Upload a text document into the corpus",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		content := string(raw)

		title := docTitle
		if title == "" {
			title = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		}

		env, err := initReportEnv(cmd.Context(), "report")
		if err != nil {
			return err
		}
		defer env.Close()

		doc := model.InternalDoc{
			DocID:       "DOC-" + uuid.New().String(),
			Title:       title,
			TextExcerpt: excerpt(content),
			UploadedBy:  docUploadedBy,
			UploadedAt:  time.Now().UTC().Format("2006-01-02"),
		}
		if err := env.store.UploadDocument(cmd.Context(), doc, content); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s (%s)\n", doc.DocID, doc.Title)
		return nil
	},
}

var docsSearchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Search uploaded documents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initReportEnv(cmd.Context(), "report")
		if err != nil {
			return err
		}
		defer env.Close()

		docs, err := env.store.SearchDocuments(cmd.Context(), args[0], docSearchLimit)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	},
}

// excerpt collapses whitespace and truncates on a rune boundary so multibyte
// characters are never cut mid-sequence.
func excerpt(content string) string {
	trimmed := strings.Join(strings.Fields(content), " ")
	if len(trimmed) <= docExcerptLen {
		return trimmed
	}
	cut := docExcerptLen
	for cut > 0 && !utf8.RuneStart(trimmed[cut]) {
		cut--
	}
	return trimmed[:cut] + "..."
}

func init() {
	docsUploadCmd.Flags().StringVar(&docTitle, "title", "", "document title (default file name)")
	docsUploadCmd.Flags().StringVar(&docUploadedBy, "uploaded-by", "cli", "uploader attribution")
	docsCmd.AddCommand(docsUploadCmd)

	docsSearchCmd.Flags().IntVar(&docSearchLimit, "limit", 20, "max documents to return")
	docsCmd.AddCommand(docsSearchCmd)

	rootCmd.AddCommand(docsCmd)
}
