package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/akinleyeOJ/culturer-backend/pkg/logger"
)

const defaultStaleDraftRetention = 90 * 24 * time.Hour

type staleDraftRepo interface {
	DeleteStaleDrafts(ctx context.Context, cutoff time.Time) (int64, error)
}

type StaleDraftJobParams struct {
	Logger     *logger.Logger
	Repository staleDraftRepo
	Retention  time.Duration
}

// NewStaleDraftJob deletes draft listings their seller abandoned.
func NewStaleDraftJob(params StaleDraftJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("product repository required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = defaultStaleDraftRetention
	}
	return &staleDraftJob{
		logg:      params.Logger,
		repo:      params.Repository,
		retention: retention,
		now:       time.Now,
	}, nil
}

type staleDraftJob struct {
	logg      *logger.Logger
	repo      staleDraftRepo
	retention time.Duration
	now       func() time.Time
}

func (j *staleDraftJob) Name() string { return "stale-draft-cleanup" }

func (j *staleDraftJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.retention)
	deleted, err := j.repo.DeleteStaleDrafts(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("stale draft cleanup: %w", err)
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":       cutoff,
		"rows_deleted": deleted,
	})
	j.logg.Info(logCtx, "stale draft cleanup complete")
	return nil
}
