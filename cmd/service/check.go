package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/quote-reader/internal/domain"
)

var checkSubject string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the model API key by generating quotes once",
	Long: `Sends one quote-generation prompt straight to the language model, without
the fallback catalog, and reports whether the reply parses. Exits non-zero
when the key is missing, the call fails or the reply is malformed.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkSubject, "subject", "success", "topic to request quotes about")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	subject, err := domain.NewSubject(checkSubject)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)

	comps, err := buildComponents(cfg, logger, nil)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "model:    %s\n", cfg.LLM.Model)
	fmt.Fprintf(out, "endpoint: %s\n", cfg.LLM.BaseURL)

	start := time.Now()

	raw, err := comps.model.Generate(cmd.Context(), domain.BuildQuotePrompt(subject, false))
	if err != nil {
		return fmt.Errorf("generating quotes: %w", err)
	}

	quotes, err := domain.ParseQuotes(raw)
	if err != nil {
		return fmt.Errorf("parsing model reply: %w", err)
	}

	fmt.Fprintf(out, "received %d quotes about %q in %s\n",
		len(quotes), subject, time.Since(start).Round(time.Millisecond))

	for i, q := range quotes {
		fmt.Fprintf(out, "  %d. %q (%s)\n", i+1, q.Text, q.Context)
	}

	return nil
}
