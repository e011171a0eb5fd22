// Package orchestrator drives the full evaluation flow over a batch of
// candidates: fetch snapshot → fee calculation → risk scoring → decision.
// Fetches fan out concurrently up to a configured in-flight bound; results
// are reassembled in input order.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"asin-scout/internal/decision"
	"asin-scout/internal/domain"
	"asin-scout/internal/fees"
	"asin-scout/internal/provider"
	"asin-scout/internal/risk"
)

// Status classifies the outcome of one candidate evaluation.
type Status string

const (
	// StatusDecided means the candidate got a verdict.
	StatusDecided Status = "DECIDED"
	// StatusFailed means evaluation failed for this candidate only.
	StatusFailed Status = "FAILED"
	// StatusCancelled means the batch was cancelled before this candidate
	// was dispatched. Never silently dropped.
	StatusCancelled Status = "CANCELLED"
)

// Outcome ties one candidate to its evaluation result. For failed and
// cancelled candidates the derived fields stay nil and Err carries the cause.
// Profit and risk metrics are populated even on rejection, so near-misses
// can be reviewed.
type Outcome struct {
	Candidate domain.Candidate
	Status    Status

	Snapshot *domain.MarketSnapshot
	Profit   *domain.ProfitMetrics
	Risk     *domain.RiskMetrics
	Decision *domain.Decision

	Err error
}

// Options configures an Orchestrator.
type Options struct {
	Provider   provider.Provider
	Schedule   fees.Schedule
	Thresholds risk.Thresholds
	Policy     decision.Policy

	// MaxInFlight bounds concurrently dispatched provider fetches.
	MaxInFlight int

	// MaxRetries bounds additional attempts after the first failed fetch.
	// Only rate-limit and transient errors are retried.
	MaxRetries     uint64
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	Logger *zap.Logger
}

// Orchestrator evaluates candidate batches. Safe for a single EvaluateAll
// call at a time; the in-flight bound is the only shared mutable state and
// it lives in the worker pool.
type Orchestrator struct {
	provider   provider.Provider
	schedule   fees.Schedule
	thresholds risk.Thresholds
	policy     decision.Policy

	maxInFlight    int
	maxRetries     uint64
	initialBackoff time.Duration
	maxBackoff     time.Duration

	logger *zap.Logger
}

// New creates an Orchestrator, validating the configuration it will run with.
func New(opts Options) (*Orchestrator, error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("orchestrator: provider is required")
	}
	if opts.MaxInFlight <= 0 {
		return nil, fmt.Errorf("orchestrator: max in-flight must be positive, got %d", opts.MaxInFlight)
	}
	if err := opts.Schedule.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Thresholds.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Policy.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	initial := opts.InitialBackoff
	if initial <= 0 {
		initial = 500 * time.Millisecond
	}
	max := opts.MaxBackoff
	if max <= 0 {
		max = 30 * time.Second
	}

	return &Orchestrator{
		provider:       opts.Provider,
		schedule:       opts.Schedule,
		thresholds:     opts.Thresholds,
		policy:         opts.Policy,
		maxInFlight:    opts.MaxInFlight,
		maxRetries:     opts.MaxRetries,
		initialBackoff: initial,
		maxBackoff:     max,
		logger:         logger,
	}, nil
}

// EvaluateAll evaluates every candidate and returns outcomes in input order.
// Per-candidate failures never abort the batch. Cancelling ctx stops new
// dispatches, lets in-flight fetches drain, and marks undispatched
// candidates Cancelled.
func (o *Orchestrator) EvaluateAll(ctx context.Context, candidates []domain.Candidate) []Outcome {
	outcomes := make([]Outcome, len(candidates))
	if len(candidates) == 0 {
		return outcomes
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := o.maxInFlight
	if workers > len(candidates) {
		workers = len(candidates)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				// Each worker writes a distinct index; no shared state.
				outcomes[i] = o.evaluate(ctx, candidates[i])
			}
		}()
	}

	// Dispatch in input order, stopping on cancellation.
	go func() {
		defer close(jobs)
		for i := range candidates {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()

	for i := range outcomes {
		if outcomes[i].Status == "" {
			outcomes[i] = Outcome{
				Candidate: candidates[i],
				Status:    StatusCancelled,
				Err:       context.Cause(ctx),
			}
		}
	}
	return outcomes
}

// evaluate runs the full per-candidate flow. Any failure is captured in the
// returned outcome, isolated from the rest of the batch.
func (o *Orchestrator) evaluate(ctx context.Context, cand domain.Candidate) Outcome {
	out := Outcome{Candidate: cand}

	snap, err := o.fetchWithRetry(ctx, cand.Identifier)
	if err != nil {
		o.logger.Warn("snapshot fetch failed",
			zap.String("identifier", cand.Identifier),
			zap.Error(err),
		)
		out.Status = StatusFailed
		out.Err = fmt.Errorf("fetch snapshot: %w", err)
		return out
	}
	if err := snap.Validate(); err != nil {
		out.Status = StatusFailed
		out.Err = fmt.Errorf("invalid snapshot: %w", err)
		return out
	}
	out.Snapshot = snap

	profit, err := fees.Compute(cand, snap, o.schedule)
	if err != nil {
		out.Status = StatusFailed
		out.Err = fmt.Errorf("compute profit: %w", err)
		return out
	}
	out.Profit = &profit

	riskMetrics := risk.Score(snap, o.thresholds)
	out.Risk = &riskMetrics

	dec := decision.Decide(profit, riskMetrics, o.policy)
	out.Decision = &dec
	out.Status = StatusDecided

	o.logger.Debug("candidate evaluated",
		zap.String("identifier", cand.Identifier),
		zap.String("verdict", string(dec.Verdict)),
		zap.Strings("reasons", dec.Reasons),
	)
	return out
}

// fetchWithRetry applies jittered exponential backoff around transient
// provider errors. Not-found and malformed responses are permanent and fail
// immediately.
func (o *Orchestrator) fetchWithRetry(ctx context.Context, identifier string) (*domain.MarketSnapshot, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = o.initialBackoff
	bo.MaxInterval = o.maxBackoff

	var snap *domain.MarketSnapshot
	operation := func() error {
		s, err := o.provider.FetchSnapshot(ctx, identifier)
		if err != nil {
			if provider.Retryable(err) {
				o.logger.Debug("retrying snapshot fetch",
					zap.String("identifier", identifier),
					zap.Error(err),
				)
				return err
			}
			return backoff.Permanent(err)
		}
		snap = s
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, o.maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return snap, nil
}
