package main

import (
	"fmt"

	"SPVWaterfall/internal/scenario"
	"SPVWaterfall/internal/waterfall"

	"github.com/spf13/cobra"
)

func newScenariosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List the preset scenarios and their outcome class.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			for _, s := range scenario.Presets() {
				res := waterfall.Allocate(s.Input)
				if _, err := fmt.Fprintf(w, "%-12s %-20s %s\n", s.Name, res.Class, s.Description); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
