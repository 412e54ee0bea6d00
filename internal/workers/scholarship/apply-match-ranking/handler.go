// internal/workers/scholarship/apply-match-ranking/handler.go
package applymatchranking

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"scholarship-workers/internal/common/errors"
	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/common/metrics"
	"scholarship-workers/internal/matching"
	"scholarship-workers/internal/models"
)

const (
	TaskType = "apply-scholarship-ranking"
)

type Handler struct {
	config       *Config
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		logger:       log,
		errorHandler: errors.NewErrorHandler(log),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	timer := metrics.StartJob(TaskType)
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, timer, errors.NewInvalidInputError(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, timer, err)
		return
	}

	h.completeJob(client, job, output)
	timer.Done("")
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	start := time.Now()

	listings := make(map[string]models.ScholarshipListing, len(input.Scholarships))
	for _, l := range input.Scholarships {
		listings[l.ID] = l
	}

	// Ineligible scores never reach the ranking. A score without its listing
	// or a repeated listing ID is dropped.
	seen := make(map[string]bool, len(input.Scores))
	eligible := make([]models.MatchResult, 0, len(input.Scores))
	for _, sc := range input.Scores {
		if !sc.Eligible || seen[sc.ScholarshipID] {
			continue
		}
		listing, ok := listings[sc.ScholarshipID]
		if !ok {
			h.logger.Warn("score without matching scholarship", map[string]interface{}{
				"scholarshipId": sc.ScholarshipID,
			})
			continue
		}
		seen[sc.ScholarshipID] = true

		reasons := sc.Reasons
		if reasons == nil {
			reasons = []string{}
		}
		clamped := max(0, min(sc.MatchScore, matching.MaxScore))
		if clamped != sc.MatchScore {
			h.logger.Warn("match score out of range, clamped", map[string]interface{}{
				"scholarshipId": sc.ScholarshipID,
				"matchScore":    sc.MatchScore,
			})
		}
		eligible = append(eligible, models.MatchResult{Listing: listing, Score: clamped, Reasons: reasons})
	}

	ranked := matching.Rank(eligible)

	limit := h.config.MaxItems
	if input.MaxResults > 0 {
		limit = input.MaxResults
	}
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	summarized := ranked
	if h.config.SummaryTopN > 0 && len(summarized) > h.config.SummaryTopN {
		summarized = summarized[:h.config.SummaryTopN]
	}

	duration := time.Since(start).Milliseconds()
	h.logger.Info("ranking completed", map[string]interface{}{
		"inputCount":  len(input.Scores),
		"outputCount": len(ranked),
		"durationMs":  duration,
	})
	if duration > 500 {
		h.logger.Warn("ranking exceeded 500ms", map[string]interface{}{
			"durationMs": duration,
		})
	}

	return &Output{
		RankedMatches:   ranked,
		Recommendations: matching.Summarize(summarized),
		TotalMatches:    len(eligible),
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, timer *metrics.JobTimer, err error) {
	timer.Done(string(errors.Normalize(err).Code))
	h.errorHandler.HandleJobError(context.Background(), client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
