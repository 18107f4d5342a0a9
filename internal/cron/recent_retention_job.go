package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/akinleyeOJ/culturer-backend/pkg/logger"
)

const (
	defaultRecentRetention  = 30 * 24 * time.Hour
	defaultRecentMaxPerUser = 50
)

type recentRetentionRepo interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	UserIDsWithHistory(ctx context.Context) ([]uuid.UUID, error)
	TrimForUser(ctx context.Context, userID uuid.UUID, max int) (int64, error)
}

type RecentRetentionJobParams struct {
	Logger     *logger.Logger
	Repository recentRetentionRepo
	Retention  time.Duration
	MaxPerUser int
}

// NewRecentRetentionJob prunes the recently-viewed history: rows older than
// the retention window go first, then each user is trimmed to the cap.
func NewRecentRetentionJob(params RecentRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("recent repository required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = defaultRecentRetention
	}
	maxPerUser := params.MaxPerUser
	if maxPerUser <= 0 {
		maxPerUser = defaultRecentMaxPerUser
	}
	return &recentRetentionJob{
		logg:       params.Logger,
		repo:       params.Repository,
		retention:  retention,
		maxPerUser: maxPerUser,
		now:        time.Now,
	}, nil
}

type recentRetentionJob struct {
	logg       *logger.Logger
	repo       recentRetentionRepo
	retention  time.Duration
	maxPerUser int
	now        func() time.Time
}

func (j *recentRetentionJob) Name() string { return "recent-retention" }

func (j *recentRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.retention)
	expired, err := j.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("recent retention: %w", err)
	}

	userIDs, err := j.repo.UserIDsWithHistory(ctx)
	if err != nil {
		return fmt.Errorf("recent retention list users: %w", err)
	}

	var trimmed int64
	for _, userID := range userIDs {
		rows, err := j.repo.TrimForUser(ctx, userID, j.maxPerUser)
		if err != nil {
			return fmt.Errorf("recent retention trim %s: %w", userID, err)
		}
		trimmed += rows
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":       cutoff,
		"rows_expired": expired,
		"rows_trimmed": trimmed,
		"max_per_user": j.maxPerUser,
	})
	j.logg.Info(logCtx, "recent retention complete")
	return nil
}
