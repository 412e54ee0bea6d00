// internal/workers/scholarship/match-scholarships/handler_test.go
package matchscholarships

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scholarship-workers/internal/common/errors"
	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/matching"
	"scholarship-workers/internal/models"
	"scholarship-workers/internal/repository"
)

// ==========================
// Test Doubles
// ==========================

type fakeListings struct {
	mu       sync.Mutex
	listings []models.ScholarshipListing
	err      error
	queries  []models.ListingQuery
}

func (f *fakeListings) ListActive(_ context.Context, q models.ListingQuery) ([]models.ScholarshipListing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.ScholarshipListing, len(f.listings))
	copy(out, f.listings)
	return out, nil
}

type fakeProfiles struct {
	profile     *models.StudentProfile
	err         error
	invalidated []string
}

func (f *fakeProfiles) GetProfile(context.Context, string) (*models.StudentProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	p := *f.profile
	return &p, nil
}

func (f *fakeProfiles) Invalidate(_ context.Context, studentID string) error {
	f.invalidated = append(f.invalidated, studentID)
	return nil
}

type fakeStore struct {
	saved []*models.MatchOutput
	err   error
}

func (f *fakeStore) SaveMatches(_ context.Context, out *models.MatchOutput) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, out)
	return nil
}

type fakeNotifier struct {
	events []*models.MatchOutput
	err    error
}

func (f *fakeNotifier) NotifyMatchesReady(_ context.Context, out *models.MatchOutput) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, out)
	return nil
}

// ==========================
// Test Helper Functions
// ==========================

func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool        { return &v }

var fixedNow = func() time.Time { return time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC) }

func createTestProfile() *models.StudentProfile {
	return &models.StudentProfile{
		ID:             "stu-1",
		GPA:            floatPtr(3.8),
		IntendedMajors: []string{"Computer Science"},
		IncomeBand:     models.IncomeBand50kTo75k,
		State:          "ca",
	}
}

func createTestListings() []models.ScholarshipListing {
	return []models.ScholarshipListing{
		{
			ID: "national-merit", Title: "National Merit Grant", Amount: 2000, Deadline: "2030-04-01",
			GPAMin: floatPtr(3.0), Competitiveness: models.CompetitivenessHigh, Tags: []string{"merit"},
		},
		{
			ID: "stem-ca", Title: "California STEM Award", Amount: 5000, Deadline: "2030-03-01",
			GPAMin: floatPtr(3.5), Majors: []string{"Computer Science"}, States: []string{"CA"},
			Competitiveness: models.CompetitivenessLow, Tags: []string{"STEM"},
		},
		{ID: "tx-only", Title: "Lone Star Fund", Amount: 1500, Deadline: "2030-05-01", States: []string{"TX"}},
		{ID: "expired", Title: "Last Year Award", Amount: 1000, Deadline: "2025-12-31"},
		{ID: "invalid", Title: "", Amount: 1000, Deadline: "2030-01-01"},
	}
}

type fixture struct {
	listings *fakeListings
	profiles *fakeProfiles
	store    *fakeStore
	notifier *fakeNotifier
	redis    *miniredis.Miniredis
	handler  *Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	f := &fixture{
		listings: &fakeListings{listings: createTestListings()},
		profiles: &fakeProfiles{profile: createTestProfile()},
		store:    &fakeStore{},
		notifier: &fakeNotifier{},
		redis:    mr,
	}
	log := logger.NewTestLogger(t)
	f.handler = NewHandler(LoadConfig(), Dependencies{
		Engine:   matching.NewEngine(log, matching.Options{SummaryTopN: 5, Now: fixedNow}),
		Listings: f.listings,
		Profiles: f.profiles,
		Store:    f.store,
		Cache:    repository.NewRedisMatchCache(rdb, 15*time.Minute),
		Notifier: f.notifier,
	}, log)
	return f
}

func matchIDs(out *Output) []string {
	ids := make([]string, 0, len(out.Matches))
	for _, m := range out.Matches {
		ids = append(ids, m.Listing.ID)
	}
	return ids
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_InlineProfile(t *testing.T) {
	f := newFixture(t)

	out, err := f.handler.Execute(context.Background(), &Input{StudentProfile: createTestProfile()})
	require.NoError(t, err)

	assert.Equal(t, []string{"stem-ca", "national-merit"}, matchIDs(out))
	assert.Equal(t, matching.PointsGPA+matching.PointsMajor+matching.PointsLowComp, out.Matches[0].Score)
	assert.Equal(t, matching.PointsGPA, out.Matches[1].Score)
	assert.Equal(t, 3, out.Evaluated)
	assert.Equal(t, 2, out.Eligible)
	assert.Equal(t, 2, out.Skipped)
	assert.Equal(t, 2, out.MatchCount)
	assert.Equal(t, "stu-1", out.StudentID)
	assert.False(t, out.FromCache)
	assert.Equal(t, "Top match: California STEM Award (55% match)", out.Recommendations[0])

	require.Len(t, f.store.saved, 1)
	assert.Equal(t, out.RunID, f.store.saved[0].RunID)
	require.Len(t, f.notifier.events, 1)
	assert.False(t, f.redis.Exists(repository.MatchCacheKey("stu-1")), "inline profiles are not cached")
}

func TestHandler_Execute_ListingQuery(t *testing.T) {
	f := newFixture(t)

	_, err := f.handler.Execute(context.Background(), &Input{StudentProfile: createTestProfile()})
	require.NoError(t, err)
	require.Len(t, f.listings.queries, 1)
	assert.Equal(t, models.ListingQuery{
		State:         "CA",
		Majors:        []string{"Computer Science"},
		DeadlineAfter: "2026-01-15",
	}, f.listings.queries[0])

	_, err = f.handler.Execute(context.Background(), &Input{StudentID: "stu-1", IncludeExpired: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, models.ListingQuery{}, f.listings.queries[1])
}

func TestHandler_Execute_CachedByStudentID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.handler.Execute(ctx, &Input{StudentID: "stu-1"})
	require.NoError(t, err)
	assert.False(t, first.FromCache)
	assert.True(t, f.redis.Exists(repository.MatchCacheKey("stu-1")))

	second, err := f.handler.Execute(ctx, &Input{StudentID: "stu-1"})
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.RunID, second.RunID)
	assert.Equal(t, matchIDs(first), matchIDs(second))
	assert.Len(t, f.store.saved, 1)
	assert.Len(t, f.listings.queries, 1)

	third, err := f.handler.Execute(ctx, &Input{StudentID: "stu-1", Refresh: true})
	require.NoError(t, err)
	assert.False(t, third.FromCache)
	assert.NotEqual(t, first.RunID, third.RunID)
	assert.Equal(t, []string{"stu-1"}, f.profiles.invalidated)
}

func TestHandler_Execute_Overrides(t *testing.T) {
	f := newFixture(t)

	out, err := f.handler.Execute(context.Background(), &Input{
		StudentID:      "stu-1",
		MaxResults:     1,
		IncludeExpired: boolPtr(true),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"stem-ca"}, matchIDs(out))
	assert.Equal(t, 4, out.Evaluated, "expired listing is evaluated")
	assert.Equal(t, 1, out.Skipped)
	assert.False(t, f.redis.Exists(repository.MatchCacheKey("stu-1")), "overridden runs are not cached")
}

func TestHandler_Execute_NoListings(t *testing.T) {
	f := newFixture(t)
	f.listings.listings = nil

	out, err := f.handler.Execute(context.Background(), &Input{StudentProfile: createTestProfile()})
	require.NoError(t, err)
	assert.Empty(t, out.Matches)
	assert.Equal(t, []string{matching.FallbackRecommendation}, out.Recommendations)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(f *fixture)
		input     *Input
		code      errors.ErrorCode
		retryable bool
	}{
		{
			name:  "no student",
			input: &Input{},
			code:  errors.ErrCodeProfileRequired,
		},
		{
			name:  "unknown student",
			setup: func(f *fixture) { f.profiles.err = repository.ErrProfileNotFound },
			input: &Input{StudentID: "ghost"},
			code:  errors.ErrCodeProfileRequired,
		},
		{
			name:  "invalid profile",
			input: &Input{StudentProfile: &models.StudentProfile{ID: "stu-1", GPA: floatPtr(5)}},
			code:  errors.ErrCodeProfileInvalid,
		},
		{
			name:      "listing source down",
			setup:     func(f *fixture) { f.listings.err = stderrors.New("connection refused") },
			input:     &Input{StudentProfile: createTestProfile()},
			code:      errors.ErrCodeListingSourceFailed,
			retryable: true,
		},
		{
			name:      "listing source timeout",
			setup:     func(f *fixture) { f.listings.err = context.DeadlineExceeded },
			input:     &Input{StudentProfile: createTestProfile()},
			code:      errors.ErrCodeTimeout,
			retryable: true,
		},
		{
			name:      "persist failure",
			setup:     func(f *fixture) { f.store.err = stderrors.New("deadlock detected") },
			input:     &Input{StudentProfile: createTestProfile()},
			code:      errors.ErrCodeMatchPersistFailed,
			retryable: true,
		},
		{
			name:      "notification failure",
			setup:     func(f *fixture) { f.notifier.err = stderrors.New("throttled") },
			input:     &Input{StudentProfile: createTestProfile()},
			code:      errors.ErrCodeNotificationFailed,
			retryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setup != nil {
				tt.setup(f)
			}

			_, err := f.handler.Execute(context.Background(), tt.input)
			require.Error(t, err)
			stdErr := errors.Normalize(err)
			assert.Equal(t, tt.code, stdErr.Code)
			assert.Equal(t, tt.retryable, stdErr.Retryable)
		})
	}
}

func TestHandler_Execute_ProfileFailureStopsRun(t *testing.T) {
	f := newFixture(t)
	f.profiles.err = repository.ErrProfileNotFound

	_, err := f.handler.Execute(context.Background(), &Input{StudentID: "ghost"})
	require.Error(t, err)
	code, _ := errors.CodeOf(err)
	assert.Equal(t, errors.ErrCodeProfileRequired, code)
	assert.Empty(t, f.store.saved)
	assert.Empty(t, f.notifier.events)
}
