package main

import (
	"encoding/json"
	"fmt"

	"SPVWaterfall/internal/notifier"
	"SPVWaterfall/internal/service"
	"SPVWaterfall/internal/waterfall"

	"github.com/spf13/cobra"
)

func newAttachCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attach",
		Short: "Print the loss levels at which each tranche is impaired and exhausted.",
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
			if err := service.New(nil, nil, cfg.Strict()).Check(in); err != nil {
				return err
			}

			ap := waterfall.AttachmentPoints(in.Capital, in.Rates, in.Outcome.Premiums)
			if asJSON, _ := cmd.Flags().GetBool(flagJSON); asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(ap)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), notifier.FormatAttachment(ap))
			return err
		},
	}
	addInputFlags(cmd)
	return cmd
}
