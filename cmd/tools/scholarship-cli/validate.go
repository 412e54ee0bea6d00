package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scholarship-workers/internal/common/errors"
	"scholarship-workers/internal/common/validation"
	"scholarship-workers/pkg/registry"
)

func newValidateCmd() *cobra.Command {
	var seedPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check every listing in a seed file",
		Long:  "Validates each scholarship listing in a JSON or YAML seed file and reports the ones the matching engine would skip.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			listings, err := registry.LoadListings(seedPath)
			if err != nil {
				return fmt.Errorf("failed to load seed file %s: %w", seedPath, err)
			}

			out := cmd.OutOrStdout()
			invalid := 0
			for _, l := range listings {
				if err := validation.ValidateListing(l); err != nil {
					invalid++
					fmt.Fprintf(out, "INVALID %s: %s\n", l.ID, errors.Normalize(err).Details)
				}
			}

			fmt.Fprintf(out, "%d listing(s) checked, %d invalid\n", len(listings), invalid)
			if invalid > 0 {
				return fmt.Errorf("%d invalid listing(s) in %s", invalid, seedPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&seedPath, "seed", "s", "", "Path to the seed listings file (required)")
	if err := cmd.MarkFlagRequired("seed"); err != nil {
		panic(fmt.Sprintf("failed to mark seed flag as required: %v", err))
	}
	return cmd
}
