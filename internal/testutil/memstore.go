// Package testutil provides an in-memory store with the same semantics as the PostgreSQL
// store, for tests that exercise services and handlers without a database.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/datagraph/internal/db"
	"github.com/jonathan/datagraph/internal/types"
)

// MemStore is a goroutine-safe in-memory store.
type MemStore struct {
	mu          sync.Mutex
	users       map[uuid.UUID]*db.User
	projects    map[uuid.UUID]*db.Project
	assignments map[uuid.UUID]*db.Assignment
	seq         int

	// BeforeCommit, if set, runs at the start of CommitAssignments without the lock held.
	BeforeCommit func(projectID uuid.UUID)
	// Err, if set, is returned by every read and write.
	Err error
	// Commits counts successful CommitAssignments calls.
	Commits int
}

// NewMemStore returns an empty store.
func NewMemStore() *MemStore {
	return &MemStore{
		users:       map[uuid.UUID]*db.User{},
		projects:    map[uuid.UUID]*db.Project{},
		assignments: map[uuid.UUID]*db.Assignment{},
	}
}

// now returns strictly increasing timestamps so ordering by time is deterministic.
func (m *MemStore) now() time.Time {
	m.seq++
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(m.seq) * time.Second)
}

func (m *MemStore) liveCount(projectID uuid.UUID) int {
	n := 0
	for _, a := range m.assignments {
		if a.ProjectID == projectID && a.Status.Live() {
			n++
		}
	}
	return n
}

func (m *MemStore) projectCopy(p *db.Project) *db.Project {
	out := *p
	out.RequiredSkills = append([]string{}, p.RequiredSkills...)
	out.RequiredLanguages = append([]string{}, p.RequiredLanguages...)
	out.AssignedCount = m.liveCount(p.ID)
	return &out
}

func userCopy(u *db.User) *db.User {
	out := *u
	out.Skills = append([]string{}, u.Skills...)
	out.Languages = append([]string{}, u.Languages...)
	return &out
}

// Ping implements the health check.
func (m *MemStore) Ping(context.Context) error {
	return m.Err
}

// CreateUser registers a worker.
func (m *MemStore) CreateUser(_ context.Context, name, email string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range m.users {
		if u.Email == email {
			return nil, db.ErrEmailTaken
		}
	}
	ts := m.now()
	u := &db.User{ID: uuid.New(), Name: strings.TrimSpace(name), Email: email,
		Skills: []string{}, Languages: []string{}, CreatedAt: ts, UpdatedAt: ts}
	m.users[u.ID] = u
	return userCopy(u), nil
}

// AddWorker inserts an onboarded worker with the given profile and returns its id.
func (m *MemStore) AddWorker(skills, languages []string, level types.ExperienceLevel) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()

	ts := m.now()
	u := &db.User{
		ID:                  uuid.New(),
		Name:                "worker",
		Email:               uuid.NewString() + "@example.com",
		Skills:              append([]string{}, skills...),
		Languages:           append([]string{}, languages...),
		ExperienceLevel:     level.Ptr(),
		OnboardingCompleted: true,
		CreatedAt:           ts,
		UpdatedAt:           ts,
	}
	m.users[u.ID] = u
	return u.ID
}

// GetUser returns nil, nil when the user does not exist.
func (m *MemStore) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return userCopy(u), nil
}

// UpdateUserProfile replaces the user's matching profile.
func (m *MemStore) UpdateUserProfile(_ context.Context, id uuid.UUID, profile db.UserProfile) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	u.Skills = append([]string{}, profile.Skills...)
	u.Languages = append([]string{}, profile.Languages...)
	u.ExperienceLevel = profile.ExperienceLevel.Ptr()
	u.OnboardingCompleted = profile.OnboardingCompleted
	u.UpdatedAt = m.now()
	return userCopy(u), nil
}

// CreateProject inserts a project.
func (m *MemStore) CreateProject(_ context.Context, in db.ProjectInput) (*db.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if in.MaxAssignments <= 0 {
		return nil, fmt.Errorf("failed to create project: max_assignments must be positive")
	}
	ts := m.now()
	p := &db.Project{
		ID:                 uuid.New(),
		Title:              in.Title,
		Description:        in.Description,
		RequiredSkills:     append([]string{}, in.RequiredSkills...),
		RequiredLanguages:  append([]string{}, in.RequiredLanguages...),
		RequiredExperience: in.RequiredExperience.Ptr(),
		MaxAssignments:     in.MaxAssignments,
		IsActive:           in.IsActive,
		IsPublished:        in.IsPublished,
		CreatedAt:          ts,
		UpdatedAt:          ts,
	}
	m.projects[p.ID] = p
	return m.projectCopy(p), nil
}

// GetProject returns nil, nil when the project does not exist.
func (m *MemStore) GetProject(_ context.Context, id uuid.UUID) (*db.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	p, ok := m.projects[id]
	if !ok {
		return nil, nil
	}
	return m.projectCopy(p), nil
}

// ListProjects returns projects newest first.
func (m *MemStore) ListProjects(_ context.Context, filters db.ProjectFilters) ([]db.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	var out []db.Project
	for _, p := range m.projects {
		if filters.OpenOnly && !p.Open() {
			continue
		}
		out = append(out, *m.projectCopy(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if filters.Offset > 0 {
		if filters.Offset >= len(out) {
			return nil, nil
		}
		out = out[filters.Offset:]
	}
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, nil
}

// ListOpenProjects returns open projects with capacity, oldest first.
func (m *MemStore) ListOpenProjects(_ context.Context) ([]db.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	var out []db.Project
	for _, p := range m.projects {
		if p.Open() && m.liveCount(p.ID) < p.MaxAssignments {
			out = append(out, *m.projectCopy(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// UpdateProject applies a partial update.
func (m *MemStore) UpdateProject(_ context.Context, id uuid.UUID, upd db.ProjectUpdate) (*db.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	p, ok := m.projects[id]
	if !ok {
		return nil, nil
	}
	if upd.MaxAssignments != nil && *upd.MaxAssignments < m.liveCount(id) {
		return nil, db.ErrCapacityBelowAssigned
	}

	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.RequiredSkills != nil {
		p.RequiredSkills = append([]string{}, upd.RequiredSkills...)
	}
	if upd.RequiredLanguages != nil {
		p.RequiredLanguages = append([]string{}, upd.RequiredLanguages...)
	}
	if upd.RequiredExperience != nil {
		p.RequiredExperience = upd.RequiredExperience.Ptr()
	}
	if upd.MaxAssignments != nil {
		p.MaxAssignments = *upd.MaxAssignments
	}
	if upd.IsActive != nil {
		p.IsActive = *upd.IsActive
	}
	if upd.IsPublished != nil {
		p.IsPublished = *upd.IsPublished
	}
	p.UpdatedAt = m.now()
	return m.projectCopy(p), nil
}

// ListEligibleCandidates mirrors the SQL eligibility filter.
func (m *MemStore) ListEligibleCandidates(_ context.Context, projectID uuid.UUID) ([]types.CandidateProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	assigned := map[uuid.UUID]bool{}
	for _, a := range m.assignments {
		if a.ProjectID == projectID {
			assigned[a.UserID] = true
		}
	}

	var out []types.CandidateProfile
	for _, u := range m.users {
		if !u.OnboardingCompleted || (len(u.Skills) == 0 && len(u.Languages) == 0) || assigned[u.ID] {
			continue
		}
		out = append(out, userCopy(u).Candidate())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

// CommitAssignments checks the live count and capacity, then inserts all rows or none.
func (m *MemStore) CommitAssignments(_ context.Context, projectID uuid.UUID, expectedCount int, rows []db.NewAssignment) ([]db.Assignment, error) {
	if m.BeforeCommit != nil {
		m.BeforeCommit(projectID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	p, ok := m.projects[projectID]
	if !ok {
		return nil, db.ErrProjectNotFound
	}
	if !p.Open() {
		return nil, db.ErrProjectClosed
	}
	live := m.liveCount(projectID)
	if live != expectedCount || live+len(rows) > p.MaxAssignments {
		return nil, db.ErrAssignmentConflict
	}
	for _, r := range rows {
		for _, a := range m.assignments {
			if a.ProjectID == projectID && a.UserID == r.UserID {
				return nil, db.ErrAssignmentConflict
			}
		}
	}

	created := make([]db.Assignment, 0, len(rows))
	for _, r := range rows {
		ts := m.now()
		a := &db.Assignment{
			ID:         uuid.New(),
			ProjectID:  projectID,
			UserID:     r.UserID,
			MatchScore: r.MatchScore,
			Status:     types.AssignmentAssigned,
			AssignedAt: ts,
			UpdatedAt:  ts,
		}
		m.assignments[a.ID] = a
		created = append(created, *a)
	}
	m.Commits++
	return created, nil
}

// InsertAssignment adds an assignment row directly, bypassing capacity checks.
func (m *MemStore) InsertAssignment(projectID, userID uuid.UUID, score float64, status types.AssignmentStatus) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()

	ts := m.now()
	a := &db.Assignment{ID: uuid.New(), ProjectID: projectID, UserID: userID,
		MatchScore: score, Status: status, AssignedAt: ts, UpdatedAt: ts}
	m.assignments[a.ID] = a
	return a.ID
}

// GetAssignment returns nil, nil when the assignment does not exist.
func (m *MemStore) GetAssignment(_ context.Context, id uuid.UUID) (*db.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	a, ok := m.assignments[id]
	if !ok {
		return nil, nil
	}
	out := *a
	return &out, nil
}

// ListAssignmentsByProject returns a project's assignments, highest score first.
func (m *MemStore) ListAssignmentsByProject(_ context.Context, projectID uuid.UUID) ([]db.Assignment, error) {
	return m.listAssignments(func(a *db.Assignment) bool { return a.ProjectID == projectID },
		func(a, b db.Assignment) bool {
			if a.MatchScore != b.MatchScore {
				return a.MatchScore > b.MatchScore
			}
			return a.UserID.String() < b.UserID.String()
		})
}

// ListAssignmentsByUser returns a worker's assignments, newest first.
func (m *MemStore) ListAssignmentsByUser(_ context.Context, userID uuid.UUID) ([]db.Assignment, error) {
	return m.listAssignments(func(a *db.Assignment) bool { return a.UserID == userID },
		func(a, b db.Assignment) bool { return a.AssignedAt.After(b.AssignedAt) })
}

func (m *MemStore) listAssignments(keep func(*db.Assignment) bool, less func(a, b db.Assignment) bool) ([]db.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	var out []db.Assignment
	for _, a := range m.assignments {
		if keep(a) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out, nil
}

// UpdateAssignmentStatus moves an assignment to next if the transition is allowed.
func (m *MemStore) UpdateAssignmentStatus(_ context.Context, id uuid.UUID, next types.AssignmentStatus) (*db.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	a, ok := m.assignments[id]
	if !ok {
		return nil, db.ErrAssignmentNotFound
	}
	if !a.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", db.ErrInvalidTransition, a.Status, next)
	}
	a.Status = next
	a.UpdatedAt = m.now()
	out := *a
	return &out, nil
}
