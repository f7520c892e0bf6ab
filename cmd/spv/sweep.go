package main

import (
	"encoding/json"
	"fmt"

	"SPVWaterfall/internal/notifier"
	"SPVWaterfall/internal/scenario"
	"SPVWaterfall/internal/service"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Allocate the same structure over a range of loss amounts.",
		Long: `sweep runs one independent allocation per loss level on an evenly ` +
			`spaced grid. --to defaults to total capital plus premiums, the loss ` +
			`at which every tranche is wiped out.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			in, err := resolveInput(cmd, cfg)
			if err != nil {
				return err
			}
			svc := service.New(nil, nil, cfg.Strict())
			if err := svc.Check(in); err != nil {
				return err
			}

			from := decimal.Zero
			to := in.Capital.Total().Add(in.Outcome.Premiums)
			if err := decimalFlag(cmd, "from", &from); err != nil {
				return err
			}
			if err := decimalFlag(cmd, "to", &to); err != nil {
				return err
			}
			if err := svc.CheckSweep(in, from, to); err != nil {
				return err
			}
			steps, _ := cmd.Flags().GetInt("steps")

			points, err := scenario.LossSweep(in, from, to, steps)
			if err != nil {
				return err
			}

			if asJSON, _ := cmd.Flags().GetBool(flagJSON); asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(points)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), notifier.FormatSweep(points))
			return err
		},
	}
	addInputFlags(cmd)
	cmd.Flags().String("from", "", "lowest loss amount (default 0)")
	cmd.Flags().String("to", "", "highest loss amount (default capital plus premiums)")
	cmd.Flags().Int("steps", 11, "number of grid points, including both ends")
	return cmd
}
