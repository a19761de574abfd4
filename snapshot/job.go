// Package snapshot runs named, timestamped backend snapshots under a
// distributed lock, with bounded retries on initiation and a polling loop
// that classifies the terminal state.
package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

// Status is the backend-reported state of a snapshot.
type Status int

const (
	StatusUnknown Status = iota
	StatusInProgress
	StatusSuccess
	StatusFailed
	StatusAborted
	StatusMissing
)

// Outcome is the job's terminal classification.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeFailed
	OutcomeAborted
	OutcomeMissing
	OutcomeTimeout
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailed:
		return "failed"
	case OutcomeAborted:
		return "aborted"
	case OutcomeMissing:
		return "missing"
	case OutcomeTimeout:
		return "timeout"
	}
	return "unknown"
}

// Result reports what the job did.
type Result struct {
	Name    string
	Outcome Outcome
}

// Snapshotter is the backend snapshot API the job drives.
type Snapshotter interface {
	CreateSnapshot(ctx context.Context, repository, name string) error
	SnapshotStatus(ctx context.Context, repository, name string) (Status, error)
}

// Locker fences the job so only one process snapshots at a time. The
// redis-backed cache client's lock satisfies this.
type Locker interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (func(), error)
}

// Config wires a snapshot job.
type Config struct {
	// Repository is the backend snapshot repository name. Required.
	Repository string

	// Snapshotter is the backend snapshot API. Required.
	Snapshotter Snapshotter

	// Locker is optional; without one the job runs unfenced.
	Locker Locker

	Logger *zerolog.Logger

	// InitAttempts is how many times snapshot initiation is tried before
	// giving up. Default 5.
	InitAttempts int

	// RetryInterval is the fixed wait between initiation attempts.
	// Default 10s.
	RetryInterval time.Duration

	// PollInterval is the wait between status polls. Default 10s.
	PollInterval time.Duration

	// Timeout is the polling ceiling, after which the job classifies the
	// snapshot as timed out. Default 1h.
	Timeout time.Duration
}

// Job takes one snapshot per Run call.
type Job struct {
	repository    string
	snaps         Snapshotter
	locker        Locker
	log           zerolog.Logger
	initAttempts  int
	retryInterval time.Duration
	pollInterval  time.Duration
	timeout       time.Duration
}

// New validates the config and creates a job.
func New(cfg Config) (*Job, error) {
	if cfg.Repository == "" {
		return nil, fmt.Errorf("snapshot: repository is required")
	}
	if cfg.Snapshotter == nil {
		return nil, fmt.Errorf("snapshot: snapshotter is required")
	}

	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = cfg.Logger.With().Str("snapshot_repository", cfg.Repository).Logger()
	}

	j := &Job{
		repository:    cfg.Repository,
		snaps:         cfg.Snapshotter,
		locker:        cfg.Locker,
		log:           log,
		initAttempts:  cfg.InitAttempts,
		retryInterval: cfg.RetryInterval,
		pollInterval:  cfg.PollInterval,
		timeout:       cfg.Timeout,
	}
	if j.initAttempts <= 0 {
		j.initAttempts = 5
	}
	if j.retryInterval <= 0 {
		j.retryInterval = 10 * time.Second
	}
	if j.pollInterval <= 0 {
		j.pollInterval = 10 * time.Second
	}
	if j.timeout <= 0 {
		j.timeout = time.Hour
	}
	return j, nil
}

// Run takes one named, timestamped snapshot and waits for it to reach a
// terminal state.
func (j *Job) Run(ctx context.Context) (*Result, error) {
	name := "snapshot-" + time.Now().UTC().Format("2006-01-02-15-04-05")

	if j.locker != nil {
		release, err := j.locker.Acquire(ctx, "snapshot:"+j.repository, j.timeout)
		if err != nil {
			return nil, fmt.Errorf("snapshot lock: %w", err)
		}
		defer release()
	}

	if err := j.initiate(ctx, name); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		j.log.Error().Err(err).Str("snapshot", name).Msg("snapshot initiation failed")
		return &Result{Name: name, Outcome: OutcomeFailed}, nil
	}

	return j.await(ctx, name)
}

// initiate calls the snapshot API with a fixed-interval retry policy.
func (j *Job) initiate(ctx context.Context, name string) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(j.retryInterval), uint64(j.initAttempts-1)),
		ctx,
	)
	return backoff.Retry(func() error {
		return j.snaps.CreateSnapshot(ctx, j.repository, name)
	}, policy)
}

// await polls the snapshot status until it is terminal or the ceiling
// elapses.
func (j *Job) await(ctx context.Context, name string) (*Result, error) {
	deadline := time.NewTimer(j.timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(j.pollInterval)
	defer ticker.Stop()

	for {
		status, err := j.snaps.SnapshotStatus(ctx, j.repository, name)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			j.log.Warn().Err(err).Str("snapshot", name).Msg("status poll failed")
		} else {
			switch status {
			case StatusSuccess:
				j.log.Info().Str("snapshot", name).Msg("snapshot completed")
				return &Result{Name: name, Outcome: OutcomeSuccess}, nil
			case StatusFailed:
				return &Result{Name: name, Outcome: OutcomeFailed}, nil
			case StatusAborted:
				return &Result{Name: name, Outcome: OutcomeAborted}, nil
			case StatusMissing:
				return &Result{Name: name, Outcome: OutcomeMissing}, nil
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return &Result{Name: name, Outcome: OutcomeTimeout}, nil
		case <-ticker.C:
		}
	}
}
