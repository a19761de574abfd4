package migration

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// Runner executes registered migrations in version order, marking start
// and completion around each. On a first-ever run (empty state store) it
// records the highest registered version as completed without executing
// anything, so a freshly provisioned system never replays history.
type Runner struct {
	store       StateStore
	log         zerolog.Logger
	unversioned bool
	migrations  []Migration
}

// Option configures a Runner.
type Option func(*Runner)

// WithUnversioned opts into running unversioned (Version()==0) migrations.
func WithUnversioned() Option {
	return func(r *Runner) { r.unversioned = true }
}

// WithLogger sets the runner's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Runner) { r.log = log }
}

// NewRunner creates a runner on the given state store.
func NewRunner(store StateStore, opts ...Option) *Runner {
	r := &Runner{store: store, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds migrations to the runner. Call during setup, before Run.
func (r *Runner) Register(migrations ...Migration) {
	r.migrations = append(r.migrations, migrations...)
}

// Run executes all registered migrations whose version exceeds the highest
// completed version.
func (r *Runner) Run(ctx context.Context) error {
	states, err := r.store.All(ctx)
	if err != nil {
		return fmt.Errorf("load migration state: %w", err)
	}

	if len(states) == 0 {
		return r.bootstrap(ctx)
	}

	var maxCompleted int64
	for _, s := range states {
		if s.Completed() && s.Version > maxCompleted {
			maxCompleted = s.Version
		}
	}

	pending := make([]Migration, 0, len(r.migrations))
	for _, m := range r.migrations {
		switch {
		case m.Version() == 0:
			if r.unversioned {
				pending = append(pending, m)
			}
		case m.Version() > maxCompleted:
			pending = append(pending, m)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].Version() < pending[j].Version() })

	for _, m := range pending {
		if err := r.runOne(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// bootstrap marks the highest known version complete without executing.
func (r *Runner) bootstrap(ctx context.Context) error {
	var highest int64
	for _, m := range r.migrations {
		if m.Version() > highest {
			highest = m.Version()
		}
	}
	if highest == 0 {
		return nil
	}
	now := time.Now().UTC()
	state := State{Id: StateID(highest), Version: highest, StartedAt: now, CompletedAt: now}
	if err := r.store.Save(ctx, state); err != nil {
		return fmt.Errorf("bootstrap migration state: %w", err)
	}
	r.log.Info().Int64("version", highest).Msg("first run, marked baseline version complete")
	return nil
}

func (r *Runner) runOne(ctx context.Context, m Migration) error {
	state := State{Id: StateID(m.Version()), Version: m.Version(), StartedAt: time.Now().UTC()}
	if err := r.store.Save(ctx, state); err != nil {
		return fmt.Errorf("mark migration %d started: %w", m.Version(), err)
	}

	r.log.Info().Int64("version", m.Version()).Str("name", m.Name()).Msg("running migration")
	if err := m.Up(ctx); err != nil {
		return fmt.Errorf("migration %d (%s): %w", m.Version(), m.Name(), err)
	}

	state.CompletedAt = time.Now().UTC()
	if err := r.store.Save(ctx, state); err != nil {
		return fmt.Errorf("mark migration %d completed: %w", m.Version(), err)
	}
	return nil
}
