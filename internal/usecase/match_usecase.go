package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"talentmatch/internal/domain/candidate"
	"talentmatch/internal/domain/job"
	"talentmatch/internal/domain/scoring"
	"talentmatch/internal/pkg/workerpool"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidTarget = errors.New("invalid target")
)

// MatchCache memoizes fused results. Implementations must be safe for
// concurrent use; the usecase adds per-key single-flight on top so a miss
// computes at most once.
type MatchCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Enhancer is the qualitative-analysis collaborator. Any error selects
// the degraded scoring path; it is never surfaced to callers.
type Enhancer interface {
	Analyze(ctx context.Context, f scoring.Features, t scoring.Target, deterministicScore int) (*scoring.Qualitative, error)
}

// MatchUsecase is the scoring engine's caller-facing boundary. Candidate
// and job records arrive already loaded; persistence stays outside.
type MatchUsecase interface {
	ScoreAgainstJob(ctx context.Context, cand candidate.Record, posting job.Posting) (scoring.MatchResult, error)
	ScoreAgainstCriteria(ctx context.Context, cand candidate.Record, criteria scoring.CriteriaTarget) (scoring.MatchResult, error)
	RankCandidatesForJob(ctx context.Context, cands []candidate.Record, posting job.Posting) ([]scoring.MatchResult, error)
	RankCandidatesForCriteria(ctx context.Context, cands []candidate.Record, criteria scoring.CriteriaTarget) ([]scoring.MatchResult, error)
	Invalidate(ctx context.Context, candidateID uuid.UUID, target scoring.Target) error
}

type MatchOptions struct {
	// Workers bounds batch concurrency. Defaults to 4.
	Workers int
	// EnhancementRPS throttles outbound enhancement calls during batch
	// runs. Zero disables throttling.
	EnhancementRPS int
	// JobTTL / CriteriaTTL override the per-kind cache lifetimes when
	// positive.
	JobTTL      time.Duration
	CriteriaTTL time.Duration
}

const defaultBatchWorkers = 4

type Match struct {
	cache    MatchCache
	enhancer Enhancer
	logger   *zap.Logger
	opts     MatchOptions

	flight singleflight.Group
}

func NewMatchUsecase(cache MatchCache, enhancer Enhancer, logger *zap.Logger, opts MatchOptions) *Match {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Workers <= 0 {
		opts.Workers = defaultBatchWorkers
	}
	return &Match{cache: cache, enhancer: enhancer, logger: logger, opts: opts}
}

func (u *Match) ScoreAgainstJob(ctx context.Context, cand candidate.Record, posting job.Posting) (scoring.MatchResult, error) {
	target := scoring.NewJobTarget(posting)
	if err := target.Validate(); err != nil {
		return scoring.MatchResult{}, fmt.Errorf("%w: %v", ErrInvalidTarget, err)
	}
	return u.getOrCompute(ctx, cand, target)
}

func (u *Match) ScoreAgainstCriteria(ctx context.Context, cand candidate.Record, criteria scoring.CriteriaTarget) (scoring.MatchResult, error) {
	if err := criteria.Validate(); err != nil {
		return scoring.MatchResult{}, fmt.Errorf("%w: %v", ErrInvalidTarget, err)
	}
	return u.getOrCompute(ctx, cand, criteria)
}

func (u *Match) RankCandidatesForJob(ctx context.Context, cands []candidate.Record, posting job.Posting) ([]scoring.MatchResult, error) {
	target := scoring.NewJobTarget(posting)
	if err := target.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTarget, err)
	}
	return u.rank(ctx, cands, target)
}

func (u *Match) RankCandidatesForCriteria(ctx context.Context, cands []candidate.Record, criteria scoring.CriteriaTarget) ([]scoring.MatchResult, error) {
	if err := criteria.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTarget, err)
	}
	return u.rank(ctx, cands, criteria)
}

// Invalidate drops the cached result for one (candidate, target) pair so
// the next request recomputes.
func (u *Match) Invalidate(ctx context.Context, candidateID uuid.UUID, target scoring.Target) error {
	if err := target.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTarget, err)
	}
	if u.cache == nil {
		return nil
	}
	return u.cache.Delete(ctx, MatchCacheKey(candidateID, target))
}

// getOrCompute serves from cache when possible; on a miss it computes the
// full pipeline under per-key single-flight, so two near-simultaneous
// requests for the same (candidate, target) share one enhancement call.
func (u *Match) getOrCompute(ctx context.Context, cand candidate.Record, target scoring.Target) (scoring.MatchResult, error) {
	key := MatchCacheKey(cand.ID, target)

	if u.cache != nil {
		var cached scoring.MatchResult
		hit, err := u.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			u.logger.Warn("match cache read failed", zap.String("key", key), zap.Error(err))
		}
		if hit {
			u.logger.Debug("match cache hit", zap.String("key", key))
			return cached, nil
		}
	}

	v, err, _ := u.flight.Do(key, func() (any, error) {
		// Losers of the single-flight race may arrive after the winner
		// stored its result; check once more before computing.
		if u.cache != nil {
			var cached scoring.MatchResult
			if hit, _ := u.cache.GetJSON(ctx, key, &cached); hit {
				return cached, nil
			}
		}

		res := u.compute(ctx, cand, target)

		if u.cache != nil {
			if err := u.cache.SetJSON(ctx, key, res, u.ttlFor(target)); err != nil {
				u.logger.Warn("match cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
		return res, nil
	})
	if err != nil {
		return scoring.MatchResult{}, err
	}
	return v.(scoring.MatchResult), nil
}

// ttlFor applies the configured per-kind override, falling back to the
// target's default lifetime.
func (u *Match) ttlFor(target scoring.Target) time.Duration {
	switch target.Kind() {
	case scoring.TargetKindJob:
		if u.opts.JobTTL > 0 {
			return u.opts.JobTTL
		}
	case scoring.TargetKindCriteria:
		if u.opts.CriteriaTTL > 0 {
			return u.opts.CriteriaTTL
		}
	}
	return target.CacheTTL()
}

// compute runs the full scoring pipeline for one candidate. It never
// fails: enhancement errors select the degraded path and a panic while
// scoring yields a zero-score degraded result, so one malformed record
// cannot abort a batch.
func (u *Match) compute(ctx context.Context, cand candidate.Record, target scoring.Target) (res scoring.MatchResult) {
	defer func() {
		if r := recover(); r != nil {
			u.logger.Error("scoring panic, falling back to empty degraded result",
				zap.String("candidate_id", cand.ID.String()),
				zap.Any("panic", r),
			)
			res = scoring.Fuse(cand.ID, scoring.DeterministicResult{}, nil, target.Kind())
		}
	}()

	features := scoring.ExtractFeatures(cand)
	det := scoring.ScoreDeterministic(features, target)

	var qualitative *scoring.Qualitative
	if u.enhancer != nil {
		q, err := u.enhancer.Analyze(ctx, features, target, det.Breakdown.Overall)
		if err != nil {
			u.logger.Info("enhancement unavailable, degrading to rule-based score",
				zap.String("candidate_id", cand.ID.String()),
				zap.String("target_kind", string(target.Kind())),
				zap.Error(err),
			)
		} else {
			qualitative = q
		}
	}

	return scoring.Fuse(cand.ID, det, qualitative, target.Kind())
}

// rank scores every candidate concurrently under the bounded pool and
// returns results ordered by descending score. Ties keep the input order,
// so identical inputs always produce identical output.
func (u *Match) rank(ctx context.Context, cands []candidate.Record, target scoring.Target) ([]scoring.MatchResult, error) {
	if len(cands) == 0 {
		return []scoring.MatchResult{}, nil
	}

	results := make([]scoring.MatchResult, len(cands))
	done := make([]bool, len(cands))

	pool := workerpool.New(u.opts.Workers, len(cands))
	if u.opts.EnhancementRPS > 0 {
		pool.SetRateLimit(u.opts.EnhancementRPS)
	}

	for i := range cands {
		i := i
		pool.Submit(func(taskCtx context.Context) error {
			res, err := u.getOrCompute(taskCtx, cands[i], target)
			if err != nil {
				return err
			}
			results[i] = res
			done[i] = true
			return nil
		})
	}
	pool.Close()

	for r := range pool.Run(ctx) {
		if r.Err != nil {
			// Per-candidate failures are isolated; the slot's done flag
			// stays false and it falls back below. Cancellation aborts.
			if errors.Is(r.Err, context.Canceled) || errors.Is(r.Err, context.DeadlineExceeded) {
				return nil, r.Err
			}
			u.logger.Warn("batch item failed", zap.Error(r.Err))
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]scoring.MatchResult, 0, len(results))
	for i := range results {
		if done[i] {
			out = append(out, results[i])
			continue
		}
		u.logger.Warn("batch item missing result, recording degraded fallback",
			zap.String("candidate_id", cands[i].ID.String()),
		)
		out = append(out, scoring.Fuse(cands[i].ID, scoring.DeterministicResult{}, nil, target.Kind()))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	return out, nil
}
