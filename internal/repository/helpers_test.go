package repository

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/models"
)

// ===== Test Helper Functions =====

type testLogger struct {
	t *testing.T
}

func (l *testLogger) Debug(msg string, fields map[string]interface{}) {
	l.t.Logf("DEBUG: %s %v", msg, fields)
}
func (l *testLogger) Info(msg string, fields map[string]interface{}) {
	l.t.Logf("INFO: %s %v", msg, fields)
}
func (l *testLogger) Warn(msg string, fields map[string]interface{}) {
	l.t.Logf("WARN: %s %v", msg, fields)
}
func (l *testLogger) Error(msg string, fields map[string]interface{}) {
	l.t.Logf("ERROR: %s %v", msg, fields)
}
func (l *testLogger) WithFields(fields map[string]interface{}) logger.Logger { return l }
func (l *testLogger) WithError(err error) logger.Logger                      { return l }

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func seed() []models.ScholarshipListing {
	return []models.ScholarshipListing{
		{ID: "ca-only", Title: "Golden State Grant", Amount: 2000, Deadline: "2030-02-01", States: []string{"CA"}},
		{ID: "national", Title: "National Merit Award", Amount: 10000, Deadline: "2030-05-01", Tags: []string{"merit"}},
		{ID: "tx-only", Title: "Lone Star Award", Amount: 1500, Deadline: "2030-03-01", States: []string{"TX"}},
		{ID: "early", Title: "Early Bird Prize", Amount: 500, Deadline: "2025-01-01"},
	}
}
