// internal/workers/scholarship/match-scholarships/handler.go
package matchscholarships

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"scholarship-workers/internal/common/errors"
	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/common/metrics"
	"scholarship-workers/internal/common/observability"
	"scholarship-workers/internal/common/validation"
	"scholarship-workers/internal/matching"
	"scholarship-workers/internal/models"
	"scholarship-workers/internal/notification"
	"scholarship-workers/internal/repository"
)

const (
	TaskType = "match-scholarships"
)

// Dependencies groups the ports the worker drives. Store, Cache and
// Notifier are optional.
type Dependencies struct {
	Engine        *matching.Engine
	Listings      repository.ListingRepository
	Profiles      repository.ProfileRepository
	Store         repository.MatchStore
	Cache         repository.MatchCache
	Notifier      notification.Notifier
	Observability *observability.Observability
}

type Handler struct {
	config       *Config
	deps         Dependencies
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

type profileInvalidator interface {
	Invalidate(ctx context.Context, studentID string) error
}

func NewHandler(config *Config, deps Dependencies, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	if deps.Notifier == nil {
		deps.Notifier = notification.NoopNotifier{}
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	if deps.Engine == nil {
		deps.Engine = matching.NewEngine(log, matching.Options{})
	}
	return &Handler{
		config:       config,
		deps:         deps,
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
	elapsed := timer.Done("")
	h.deps.Observability.RecordJobProcessed(ctx, TaskType, "completed")
	h.deps.Observability.RecordJobDuration(ctx, TaskType, elapsed, "completed")
}

func (h *Handler) execute(ctx context.Context, input *Input) (output *Output, err error) {
	ctx, span := observability.StartSpan(ctx, "match-scholarships.execute",
		attribute.String("student.id", input.StudentID))
	defer func() { observability.EndSpan(span, err) }()

	start := time.Now()
	cacheable := h.cacheable(input)

	if cacheable && !input.Refresh {
		if cached := h.cachedMatches(ctx, input.StudentID); cached != nil {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return newOutput(cached, true), nil
		}
	}
	if input.Refresh && input.StudentProfile == nil {
		h.invalidateProfile(ctx, input.StudentID)
	}

	engine := h.engineFor(input)
	profile, listings, err := h.load(ctx, input, engine.Options())
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateProfile(profile); err != nil {
		return nil, err
	}

	out, err := engine.Match(ctx, profile, listings)
	if err != nil {
		return nil, err
	}

	if h.deps.Store != nil {
		if err := h.deps.Store.SaveMatches(ctx, out); err != nil {
			if stderrors.Is(err, context.DeadlineExceeded) {
				return nil, errors.NewTimeoutError("match-store", err)
			}
			return nil, errors.NewMatchPersistFailedError(err)
		}
	}

	if cacheable {
		if err := h.deps.Cache.Set(ctx, out); err != nil {
			h.logger.Warn("failed to cache match results", map[string]interface{}{
				"studentId": out.StudentID,
				"error":     err.Error(),
			})
		}
	}

	if err := h.deps.Notifier.NotifyMatchesReady(ctx, out); err != nil {
		return nil, errors.NewNotificationFailedError(err)
	}

	h.deps.Observability.RecordMatches(ctx, len(out.Matches))
	h.logger.Info("scholarship matching completed", map[string]interface{}{
		"studentId":  out.StudentID,
		"runId":      out.RunID,
		"listings":   len(listings),
		"matches":    len(out.Matches),
		"skipped":    out.Skipped,
		"durationMs": time.Since(start).Milliseconds(),
	})
	return newOutput(out, false), nil
}

// load fetches the profile and the listing set concurrently. The first
// failure cancels the other lookup.
func (h *Handler) load(ctx context.Context, input *Input, opts matching.Options) (*models.StudentProfile, []models.ScholarshipListing, error) {
	var (
		profile  *models.StudentProfile
		listings []models.ScholarshipListing
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := repository.ResolveProfile(gctx, h.deps.Profiles, input.StudentProfile, input.StudentID)
		if err != nil {
			return err
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		ls, err := h.deps.Listings.ListActive(gctx, h.listingQuery(input, opts))
		if err != nil {
			if stderrors.Is(err, context.DeadlineExceeded) {
				return errors.NewTimeoutError(h.config.ListingSource, err)
			}
			return errors.NewListingSourceFailedError(h.config.ListingSource, err)
		}
		listings = ls
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return profile, listings, nil
}

// listingQuery narrows by state only when the profile came with the job,
// since a stored profile is still being fetched.
func (h *Handler) listingQuery(input *Input, opts matching.Options) models.ListingQuery {
	q := models.ListingQuery{Limit: h.config.ListingLimit}
	if !opts.IncludeExpired {
		q.DeadlineAfter = opts.Now().UTC().Format(models.DeadlineLayout)
	}
	if p := input.StudentProfile; p != nil {
		q.State = strings.ToUpper(strings.TrimSpace(p.State))
		q.Majors = p.IntendedMajors
	}
	return q
}

func (h *Handler) engineFor(input *Input) *matching.Engine {
	if input.MaxResults == 0 && input.IncludeExpired == nil {
		return h.deps.Engine
	}
	opts := h.deps.Engine.Options()
	if input.MaxResults > 0 {
		opts.MaxResults = input.MaxResults
	}
	if input.IncludeExpired != nil {
		opts.IncludeExpired = *input.IncludeExpired
	}
	return h.deps.Engine.WithOptions(opts)
}

// cacheable reports whether this run matches what a cached run would hold:
// a stored profile and the default engine options.
func (h *Handler) cacheable(input *Input) bool {
	return h.config.UseCache &&
		h.deps.Cache != nil &&
		input.StudentProfile == nil &&
		input.StudentID != "" &&
		input.MaxResults == 0 &&
		input.IncludeExpired == nil
}

func (h *Handler) cachedMatches(ctx context.Context, studentID string) *models.MatchOutput {
	cached, err := h.deps.Cache.Get(ctx, studentID)
	if err != nil {
		h.logger.Warn("match cache read failed", map[string]interface{}{
			"studentId": studentID,
			"error":     err.Error(),
		})
		return nil
	}
	return cached
}

func (h *Handler) invalidateProfile(ctx context.Context, studentID string) {
	inv, ok := h.deps.Profiles.(profileInvalidator)
	if !ok || studentID == "" {
		return
	}
	if err := inv.Invalidate(ctx, studentID); err != nil {
		h.logger.Warn("failed to invalidate cached profile", map[string]interface{}{
			"studentId": studentID,
			"error":     err.Error(),
		})
	}
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
	elapsed := timer.Done(string(errors.Normalize(err).Code))
	h.deps.Observability.RecordJobProcessed(context.Background(), TaskType, "failed")
	h.deps.Observability.RecordJobDuration(context.Background(), TaskType, elapsed, "failed")
	h.errorHandler.HandleJobError(context.Background(), client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
