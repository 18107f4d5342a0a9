package optimistic

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/akinleyeOJ/culturer-backend/pkg/logger"
	"github.com/akinleyeOJ/culturer-backend/pkg/metrics"
)

// Outcome is the terminal state of a mutation. A mutation is pending from
// Apply until the remote write settles, then exactly one of these holds.
type Outcome int

const (
	OutcomeCommitted Outcome = iota
	OutcomeRolledBack
)

func (o Outcome) String() string {
	if o == OutcomeCommitted {
		return "committed"
	}
	return "rolled_back"
}

// Mutation is a local-first state change. Apply performs the local update
// immediately and returns the function that undoes it; Persist performs the
// remote write the local update anticipated.
type Mutation struct {
	Name    string
	Apply   func() (rollback func())
	Persist func(ctx context.Context) error
}

// Runner executes optimistic mutations and records their outcomes.
type Runner struct {
	metrics *metrics.MutationMetrics
	logg    *logger.Logger
}

// NewRunner builds a mutation runner. Metrics are optional.
func NewRunner(m *metrics.MutationMetrics, logg *logger.Logger) (*Runner, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Runner{metrics: m, logg: logg}, nil
}

// Run applies the mutation locally, then persists it. On a failed remote
// write the local change is rolled back and the error returned, so the
// caller's state matches the server again.
func (r *Runner) Run(ctx context.Context, m Mutation) (Outcome, error) {
	if m.Apply == nil || m.Persist == nil {
		return OutcomeRolledBack, fmt.Errorf("mutation %q needs apply and persist", m.Name)
	}

	start := time.Now()
	rollback := m.Apply()

	if err := m.Persist(ctx); err != nil {
		if rollback != nil {
			rollback()
		}
		r.metrics.IncRolledBack(m.Name)
		r.metrics.ObserveDuration(m.Name, time.Since(start))
		r.logg.Warn(r.logg.WithField(ctx, "mutation", m.Name), "optimistic mutation rolled back")
		return OutcomeRolledBack, err
	}

	r.metrics.IncCommitted(m.Name)
	r.metrics.ObserveDuration(m.Name, time.Since(start))
	return OutcomeCommitted, nil
}

// BulkResult reports how a bulk mutation settled. When ReloadRequired is
// true the local state was rolled back and the caller must refetch from the
// server, because some remote writes landed and others did not.
type BulkResult struct {
	Outcome        Outcome
	ReloadRequired bool
	Succeeded      int
	Failed         int
}

// RunBulk applies one local change covering the whole batch, then runs the
// remote writes concurrently. If any write fails the local change is rolled
// back and ReloadRequired is set; the combined error carries every failure.
func (r *Runner) RunBulk(ctx context.Context, name string, apply func() (rollback func()), persists []func(ctx context.Context) error) (BulkResult, error) {
	if apply == nil || len(persists) == 0 {
		return BulkResult{Outcome: OutcomeRolledBack}, fmt.Errorf("bulk mutation %q needs apply and at least one persist", name)
	}

	start := time.Now()
	rollback := apply()

	var mu sync.Mutex
	var combined error
	failed := 0

	g, gctx := errgroup.WithContext(ctx)
	for _, persist := range persists {
		persist := persist
		g.Go(func() error {
			if err := persist(gctx); err != nil {
				mu.Lock()
				combined = multierr.Append(combined, err)
				failed++
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	result := BulkResult{
		Succeeded: len(persists) - failed,
		Failed:    failed,
	}

	if combined != nil {
		if rollback != nil {
			rollback()
		}
		result.Outcome = OutcomeRolledBack
		result.ReloadRequired = result.Succeeded > 0
		r.metrics.IncRolledBack(name)
		if result.ReloadRequired {
			r.metrics.IncBulkReload(name)
		}
		r.metrics.ObserveDuration(name, time.Since(start))
		r.logg.Warn(r.logg.WithField(ctx, "mutation", name), "bulk mutation rolled back")
		return result, combined
	}

	result.Outcome = OutcomeCommitted
	r.metrics.IncCommitted(name)
	r.metrics.ObserveDuration(name, time.Since(start))
	return result, nil
}
