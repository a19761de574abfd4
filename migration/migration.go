// Package migration provides a version-tracked migration runner. The host
// application registers migrations explicitly at startup; nothing is
// discovered by scanning.
package migration

import (
	"context"
	"fmt"
	"time"
)

// Migration is one registered migration. Version 0 marks a migration as
// unversioned; unversioned migrations run only when the runner is built
// with WithUnversioned.
type Migration interface {
	Version() int64
	Name() string
	Up(ctx context.Context) error
}

// State is the persisted record of one migration run, keyed by StateID.
type State struct {
	Id          string    `json:"id"`
	Version     int64     `json:"version"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at,omitempty"`
}

// Completed reports whether the run finished.
func (s State) Completed() bool {
	return !s.CompletedAt.IsZero()
}

// StateID returns the persistence key for a version: "migration-<version>".
func StateID(version int64) string {
	return fmt.Sprintf("migration-%d", version)
}

// StateStore persists migration state records.
type StateStore interface {
	All(ctx context.Context) ([]State, error)
	Save(ctx context.Context, state State) error
}

// MemoryStateStore is an in-process StateStore, useful in tests and for
// single-node tools.
type MemoryStateStore struct {
	states map[string]State
}

// NewMemoryStateStore creates an empty store.
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{states: make(map[string]State)}
}

// All returns every saved state.
func (m *MemoryStateStore) All(ctx context.Context) ([]State, error) {
	out := make([]State, 0, len(m.states))
	for _, s := range m.states {
		out = append(out, s)
	}
	return out, nil
}

// Save upserts a state record by id.
func (m *MemoryStateStore) Save(ctx context.Context, state State) error {
	m.states[state.Id] = state
	return nil
}
