package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/quote-reader/internal/domain"
)

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List the selectable speech voices",
	Args:  cobra.NoArgs,
	RunE:  runVoices,
}

func init() {
	rootCmd.AddCommand(voicesCmd)
}

func runVoices(cmd *cobra.Command, _ []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "ID\tGENDER\tDESCRIPTION")

	for _, v := range domain.DefaultVoiceCatalog().List() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", v.ID, v.Gender, v.Description)
	}

	return w.Flush()
}
