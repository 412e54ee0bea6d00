package matching

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"scholarship-workers/internal/common/errors"
	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/common/metrics"
	"scholarship-workers/internal/common/observability"
	"scholarship-workers/internal/common/validation"
	"scholarship-workers/internal/models"
)

// Skip reasons recorded on MatchOutput.SkippedListings.
const (
	SkipInvalid = "invalid"
	SkipExpired = "expired"
)

// Options tune a matching run. Zero values mean unlimited results, a summary
// over every match, and expired listings dropped.
type Options struct {
	MaxResults     int
	SummaryTopN    int
	IncludeExpired bool
	Now            func() time.Time
}

// Engine runs filter, score, rank and summarize over a listing set.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	opts   Options
	logger logger.Logger
}

func NewEngine(log logger.Logger, opts Options) *Engine {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Engine{opts: opts, logger: log}
}

// WithOptions returns a copy of the engine using opts. A nil Now keeps the
// current clock.
func (e *Engine) WithOptions(opts Options) *Engine {
	if opts.Now == nil {
		opts.Now = e.opts.Now
	}
	return &Engine{opts: opts, logger: e.logger}
}

func (e *Engine) Options() Options {
	return e.opts
}

// Evaluate filters and scores one pair. The bool is false with the failed
// rule when the listing is not eligible.
func Evaluate(profile *models.StudentProfile, listing *models.ScholarshipListing) (models.MatchResult, bool, Rule) {
	ok, rule := CheckEligibility(profile, listing)
	if !ok {
		return models.MatchResult{}, false, rule
	}
	score, reasons := Score(profile, listing)
	return models.MatchResult{Listing: *listing, Score: score, Reasons: reasons}, true, RuleNone
}

// Match runs the full pipeline. A nil profile fails with PROFILE_REQUIRED.
// Invalid or expired listings are skipped and counted; they never fail the run.
func (e *Engine) Match(ctx context.Context, profile *models.StudentProfile, listings []models.ScholarshipListing) (*models.MatchOutput, error) {
	_, span := observability.StartSpan(ctx, "matching.Match",
		attribute.Int("listings.input", len(listings)))

	if profile == nil {
		err := errors.NewProfileRequiredError("")
		observability.EndSpan(span, err)
		return nil, err
	}

	now := e.opts.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	log := e.logger.WithFields(map[string]interface{}{"studentId": profile.ID})

	out := &models.MatchOutput{
		RunID:      uuid.NewString(),
		StudentID:  profile.ID,
		Matches:    []models.MatchResult{},
		ComputedAt: now,
	}

	ineligible := make(map[Rule]int)
	for i := range listings {
		listing := &listings[i]

		if err := validation.ValidateListing(*listing); err != nil {
			log.Warn("Skipping invalid scholarship listing", map[string]interface{}{
				"listingId": listing.ID,
				"error":     errors.Normalize(err).Details,
			})
			e.skip(out, listing.ID, SkipInvalid)
			continue
		}

		if !e.opts.IncludeExpired {
			deadline, _ := listing.DeadlineTime()
			if deadline.Before(today) {
				e.skip(out, listing.ID, SkipExpired)
				continue
			}
		}

		out.Evaluated++
		metrics.ListingsEvaluated.Inc()

		result, ok, rule := Evaluate(profile, listing)
		if !ok {
			ineligible[rule]++
			metrics.ListingsSkipped.WithLabelValues("ineligible").Inc()
			continue
		}
		metrics.MatchScore.Observe(float64(result.Score))
		out.Matches = append(out.Matches, result)
	}
	out.Eligible = len(out.Matches)

	out.Matches = Rank(out.Matches)
	if e.opts.MaxResults > 0 && len(out.Matches) > e.opts.MaxResults {
		out.Matches = out.Matches[:e.opts.MaxResults]
	}

	summarized := out.Matches
	if e.opts.SummaryTopN > 0 && len(summarized) > e.opts.SummaryTopN {
		summarized = summarized[:e.opts.SummaryTopN]
	}
	out.Recommendations = Summarize(summarized)

	fields := map[string]interface{}{
		"runId":     out.RunID,
		"evaluated": out.Evaluated,
		"eligible":  out.Eligible,
		"skipped":   out.Skipped,
		"returned":  len(out.Matches),
	}
	for rule, n := range ineligible {
		fields["ineligible."+string(rule)] = n
	}
	log.Debug("Scholarship matching completed", fields)

	span.SetAttributes(
		attribute.String("run.id", out.RunID),
		attribute.Int("listings.evaluated", out.Evaluated),
		attribute.Int("listings.eligible", out.Eligible),
		attribute.Int("listings.skipped", out.Skipped),
	)
	observability.EndSpan(span, nil)
	return out, nil
}

func (e *Engine) skip(out *models.MatchOutput, id, reason string) {
	out.Skipped++
	out.SkippedListings = append(out.SkippedListings, models.SkippedListing{ID: id, Reason: reason})
	metrics.ListingsSkipped.WithLabelValues(reason).Inc()
}
