// internal/workers/scholarship/calculate-match-score/handler.go
package calculatematchscore

import (
	"context"
	"encoding/json"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"scholarship-workers/internal/common/errors"
	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/common/metrics"
	"scholarship-workers/internal/common/validation"
	"scholarship-workers/internal/matching"
	"scholarship-workers/internal/repository"
)

const (
	TaskType = "calculate-scholarship-match-score"
)

type Handler struct {
	config       *Config
	profiles     repository.ProfileRepository
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(config *Config, profiles repository.ProfileRepository, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		profiles:     profiles,
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

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	profile, err := repository.ResolveProfile(ctx, h.profiles, input.StudentProfile, input.StudentID)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateProfile(profile); err != nil {
		return nil, err
	}
	if err := validation.ValidateListing(input.Scholarship); err != nil {
		return nil, err
	}

	output := &Output{ScholarshipID: input.Scholarship.ID, Reasons: []string{}}

	result, ok, rule := matching.Evaluate(profile, &input.Scholarship)
	if !ok {
		output.FailedRule = string(rule)
		h.logger.Info("listing not eligible", map[string]interface{}{
			"studentId":     profile.ID,
			"scholarshipId": input.Scholarship.ID,
			"failedRule":    string(rule),
		})
		return output, nil
	}

	output.Eligible = true
	output.MatchScore = result.Score
	output.Reasons = result.Reasons
	metrics.MatchScore.Observe(float64(result.Score))

	h.logger.Info("match score calculated", map[string]interface{}{
		"studentId":     profile.ID,
		"scholarshipId": input.Scholarship.ID,
		"score":         result.Score,
		"reasons":       len(result.Reasons),
	})
	return output, nil
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
