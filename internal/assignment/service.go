// Package assignment assigns workers to annotation projects: it loads the project and its
// eligible pool, runs the selector and commits the picks under a capacity check.
package assignment

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/datagraph/internal/db"
	"github.com/jonathan/datagraph/internal/logger"
	"github.com/jonathan/datagraph/internal/matching"
	"github.com/jonathan/datagraph/internal/types"
)

// Defaults used when Options leaves a field unset.
const (
	DefaultConcurrency   = 4
	DefaultCommitRetries = 3
	DefaultRetryBackoff  = 20 * time.Millisecond

	maxRetryBackoff = time.Second
)

// Store is the persistence the service needs. *db.DB satisfies it.
type Store interface {
	GetProject(ctx context.Context, id uuid.UUID) (*db.Project, error)
	ListOpenProjects(ctx context.Context) ([]db.Project, error)
	ListEligibleCandidates(ctx context.Context, projectID uuid.UUID) ([]types.CandidateProfile, error)
	CommitAssignments(ctx context.Context, projectID uuid.UUID, expectedCount int, rows []db.NewAssignment) ([]db.Assignment, error)
}

// Options configures a Service.
type Options struct {
	Matcher       *matching.Matcher
	Logger        *zap.Logger
	Concurrency   int           // projects processed in parallel by AutoAssign
	CommitRetries int           // extra attempts after a commit conflict
	RetryBackoff  time.Duration // base wait before a retry, doubled per attempt and jittered
}

// Service runs assign-one and auto-assign-all.
type Service struct {
	store         Store
	matcher       *matching.Matcher
	logger        *zap.Logger
	concurrency   int
	commitRetries int
	retryBackoff  time.Duration
}

// NewService creates a Service. Zero options fall back to the defaults.
func NewService(store Store, opts Options) *Service {
	s := &Service{
		store:         store,
		matcher:       opts.Matcher,
		logger:        logger.WithFields(opts.Logger),
		concurrency:   opts.Concurrency,
		commitRetries: opts.CommitRetries,
		retryBackoff:  opts.RetryBackoff,
	}
	if s.matcher == nil {
		s.matcher = matching.Default()
	}
	if s.concurrency <= 0 {
		s.concurrency = DefaultConcurrency
	}
	if s.commitRetries <= 0 {
		s.commitRetries = DefaultCommitRetries
	}
	if s.retryBackoff <= 0 {
		s.retryBackoff = DefaultRetryBackoff
	}
	return s
}

// Matcher returns the matcher the service scores with.
func (s *Service) Matcher() *matching.Matcher {
	return s.matcher
}

// AssignProject selects workers for one project and persists them with status assigned.
//
// It returns ErrProjectUnavailable or ErrProjectAtCapacity before any scoring. When no
// candidate qualifies the result has zero assignments and no error. A commit that loses a
// race with another writer is retried from a fresh read.
func (s *Service) AssignProject(ctx context.Context, projectID uuid.UUID) (*types.AssignResult, error) {
	log := s.logger.With(logger.ProjectField(projectID))

	for attempt := 0; ; attempt++ {
		result, err := s.assignOnce(ctx, log, projectID)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, db.ErrAssignmentConflict) {
			return nil, err
		}
		if attempt >= s.commitRetries {
			return nil, fmt.Errorf("giving up after %d attempts: %w", attempt+1, err)
		}
		wait := s.backoff(attempt)
		log.Warn("assignment commit conflicted, retrying", zap.Int("attempt", attempt+1), zap.Duration("backoff", wait))
		if err := sleepCtx(ctx, wait); err != nil {
			return nil, err
		}
	}
}

// backoff returns the wait before retry number attempt+1: the base doubled per attempt,
// capped, then scaled by a random factor in [0.5, 1.5) so racing callers spread out.
func (s *Service) backoff(attempt int) time.Duration {
	ceiling := max(s.retryBackoff, maxRetryBackoff)
	d := s.retryBackoff << min(attempt, 10)
	if d > ceiling || d <= 0 {
		d = ceiling
	}
	return time.Duration(float64(d) * (0.5 + rand.Float64()))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Service) assignOnce(ctx context.Context, log *zap.Logger, projectID uuid.UUID) (*types.AssignResult, error) {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if project == nil || !project.Open() {
		return nil, ErrProjectUnavailable
	}
	if project.AssignedCount >= project.MaxAssignments {
		return nil, ErrProjectAtCapacity
	}

	pool, err := s.store.ListEligibleCandidates(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}

	profile := project.Profile()
	sel, err := s.matcher.SelectDetailed(&profile, pool)
	if err != nil {
		return nil, fmt.Errorf("failed to select candidates: %w", err)
	}
	log.Info("selection computed", logger.SelectionFields(len(pool), sel.Qualified, len(sel.Selected))...)

	result := &types.AssignResult{
		ProjectID:   projectID,
		Considered:  len(pool),
		Qualified:   sel.Qualified,
		Assignments: []types.AssignedWorker{},
	}
	if len(sel.Selected) == 0 {
		return result, nil
	}

	rows := make([]db.NewAssignment, len(sel.Selected))
	for i, m := range sel.Selected {
		rows[i] = db.NewAssignment{UserID: m.CandidateID, MatchScore: m.Score}
	}

	created, err := s.store.CommitAssignments(ctx, projectID, project.AssignedCount, rows)
	switch {
	case errors.Is(err, db.ErrProjectNotFound), errors.Is(err, db.ErrProjectClosed):
		return nil, ErrProjectUnavailable
	case err != nil:
		return nil, err
	}

	for _, a := range created {
		result.Assignments = append(result.Assignments, types.AssignedWorker{UserID: a.UserID, MatchScore: a.MatchScore})
	}
	result.Assigned = len(result.Assignments)
	log.Info("assignments committed", zap.Int("assigned", result.Assigned))
	return result, nil
}

// AutoAssign runs AssignProject over every open project with remaining capacity.
// Projects that closed or filled up since the listing are counted as skipped; any other
// per-project error is reported in Failed and does not stop the sweep.
func (s *Service) AutoAssign(ctx context.Context) (*types.AutoAssignResult, error) {
	projects, err := s.store.ListOpenProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list open projects: %w", err)
	}

	results := make([]*types.AssignResult, len(projects))
	failures := make([]error, len(projects))
	var skipped int
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range projects {
		id := projects[i].ID
		g.Go(func() error {
			res, err := s.AssignProject(gctx, id)
			switch {
			case errors.Is(err, ErrProjectUnavailable), errors.Is(err, ErrProjectAtCapacity):
				mu.Lock()
				skipped++
				mu.Unlock()
			case err != nil:
				failures[i] = err
			default:
				results[i] = res
			}
			// Per-project failures are collected, never returned, so gctx is only
			// cancelled when the caller's context is.
			return nil
		})
	}
	_ = g.Wait()

	out := &types.AutoAssignResult{
		Projects: []types.AssignResult{},
		Skipped:  skipped,
		Failed:   []types.ProjectFailure{},
	}
	for i := range projects {
		if failures[i] != nil {
			s.logger.Error("auto-assign failed for project",
				logger.ProjectField(projects[i].ID), zap.Error(failures[i]))
			out.Failed = append(out.Failed, types.ProjectFailure{ProjectID: projects[i].ID, Error: failures[i].Error()})
			continue
		}
		if results[i] == nil {
			continue
		}
		out.Projects = append(out.Projects, *results[i])
		out.TotalAssigned += results[i].Assigned
	}

	s.logger.Info("auto-assign finished",
		zap.Int("projects", len(projects)),
		zap.Int("total_assigned", out.TotalAssigned),
		zap.Int("skipped", out.Skipped),
		zap.Int("failed", len(out.Failed)))
	return out, nil
}

// PreviewMatches scores the project's whole eligible pool without persisting anything.
// Unqualified candidates are included with Qualified false. Returns nil, nil when the
// project does not exist.
func (s *Service) PreviewMatches(ctx context.Context, projectID uuid.UUID) (*Preview, error) {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if project == nil {
		return nil, nil
	}

	pool, err := s.store.ListEligibleCandidates(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}

	profile := project.Profile()
	ranked, err := s.matcher.Rank(&profile.ProjectRequirements, pool)
	if err != nil {
		return nil, fmt.Errorf("failed to rank candidates: %w", err)
	}

	return &Preview{
		ProjectID:      projectID,
		RemainingSlots: profile.RemainingSlots(),
		Threshold:      s.matcher.Threshold(),
		Candidates:     ranked,
	}, nil
}

// Preview is the read-only score listing for a project.
type Preview struct {
	ProjectID      uuid.UUID              `json:"project_id"`
	RemainingSlots int                    `json:"remaining_slots"`
	Threshold      float64                `json:"threshold"`
	Candidates     []types.ScoreBreakdown `json:"candidates"`
}
