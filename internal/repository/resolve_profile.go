package repository

import (
	"context"
	stderrors "errors"

	"scholarship-workers/internal/common/errors"
	"scholarship-workers/internal/models"
)

// ResolveProfile prefers a profile passed in with the job and otherwise
// looks it up by student ID. An unknown student is PROFILE_REQUIRED so the
// process can prompt for onboarding; any other lookup failure is retryable.
func ResolveProfile(ctx context.Context, repo ProfileRepository, inline *models.StudentProfile, studentID string) (*models.StudentProfile, error) {
	if inline != nil {
		profile := *inline
		if profile.ID == "" {
			profile.ID = studentID
		}
		return &profile, nil
	}
	if studentID == "" || repo == nil {
		return nil, errors.NewProfileRequiredError(studentID)
	}

	profile, err := repo.GetProfile(ctx, studentID)
	if err != nil {
		if stderrors.Is(err, ErrProfileNotFound) {
			return nil, errors.NewProfileRequiredError(studentID)
		}
		if stderrors.Is(err, context.DeadlineExceeded) {
			return nil, errors.NewTimeoutError("profile-store", err)
		}
		return nil, errors.NewProfileLookupFailedError(studentID, err)
	}
	return profile, nil
}
