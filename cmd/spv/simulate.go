package main

import (
	"encoding/json"
	"fmt"

	"SPVWaterfall/internal/notifier"
	"SPVWaterfall/internal/recorder"
	"SPVWaterfall/internal/service"

	"github.com/spf13/cobra"
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run one waterfall allocation and print the payouts.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			in, err := resolveInput(cmd, cfg)
			if err != nil {
				return err
			}

			rec := openRecorder(cmd.Context(), cfg)
			defer rec.Close()

			out, err := service.New(nil, rec, cfg.Strict()).Run(cmd.Context(), in, recorder.SourceCLI)
			if err != nil {
				return err
			}

			if asJSON, _ := cmd.Flags().GetBool(flagJSON); asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), notifier.FormatResult(out.Result))
			return err
		},
	}
	addInputFlags(cmd)
	return cmd
}
