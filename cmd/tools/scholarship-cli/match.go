package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/matching"
	"scholarship-workers/internal/models"
	"scholarship-workers/pkg/registry"
)

type matchFlags struct {
	profilePath    string
	seedPath       string
	top            int
	summaryTopN    int
	includeExpired bool
	asOf           string
}

func newMatchCmd() *cobra.Command {
	var f matchFlags

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Run the matching engine for one student profile",
		Long:  "Filters, scores and ranks the seed listings for a student profile JSON file and prints the result as JSON.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMatch(cmd, f)
		},
	}

	cmd.Flags().StringVarP(&f.profilePath, "profile", "p", "", "Path to the student profile JSON file (required)")
	cmd.Flags().StringVarP(&f.seedPath, "seed", "s", "", "Path to the seed listings file (required)")
	cmd.Flags().IntVarP(&f.top, "top", "n", 0, "Return at most N matches (0 = all)")
	cmd.Flags().IntVar(&f.summaryTopN, "summary-top", 5, "Matches considered for recommendations")
	cmd.Flags().BoolVar(&f.includeExpired, "include-expired", false, "Keep listings whose deadline has passed")
	cmd.Flags().StringVar(&f.asOf, "as-of", "", "Evaluate deadlines as of this date (YYYY-MM-DD)")

	for _, name := range []string{"profile", "seed"} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}
	return cmd
}

func runMatch(cmd *cobra.Command, f matchFlags) error {
	data, err := os.ReadFile(f.profilePath)
	if err != nil {
		return fmt.Errorf("failed to read profile file %s: %w", f.profilePath, err)
	}
	var profile models.StudentProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return fmt.Errorf("failed to unmarshal profile JSON: %w", err)
	}

	listings, err := registry.LoadListings(f.seedPath)
	if err != nil {
		return fmt.Errorf("failed to load seed file %s: %w", f.seedPath, err)
	}

	opts := matching.Options{
		MaxResults:     f.top,
		SummaryTopN:    f.summaryTopN,
		IncludeExpired: f.includeExpired,
	}
	if f.asOf != "" {
		asOf, err := time.Parse(models.DeadlineLayout, f.asOf)
		if err != nil {
			return fmt.Errorf("invalid --as-of date %q: %w", f.asOf, err)
		}
		opts.Now = func() time.Time { return asOf }
	}

	engine := matching.NewEngine(logger.NewNoOpLogger(), opts)
	out, err := engine.Match(context.Background(), &profile, listings)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
