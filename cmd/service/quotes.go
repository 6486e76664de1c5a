package main

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/jsamuelsen/quote-reader/internal/adapters/http/dto"
)

var quotesCmd = &cobra.Command{
	Use:   "quotes <subject>",
	Short: "Generate quotes for a subject and print them as JSON",
	Long: `Runs the same pipeline as POST /api/quotes: classify the subject, ask the
model for five quotes, and fall back to the built-in catalog on any failure.`,
	Example: `  quote-reader quotes success
  quote-reader quotes "Winston Churchill"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuotes,
}

func init() {
	rootCmd.AddCommand(quotesCmd)
}

func runQuotes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)

	comps, err := buildComponents(cfg, logger, nil)
	if err != nil {
		return err
	}

	result, err := comps.quotes.GenerateQuotes(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}

	out, err := sonic.ConfigStd.MarshalIndent(dto.NewQuoteResponse(result), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding quotes: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	return nil
}
