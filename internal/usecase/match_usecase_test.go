package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"talentmatch/internal/domain/candidate"
	"talentmatch/internal/domain/job"
	"talentmatch/internal/domain/scoring"

	"github.com/google/uuid"
)

type memCacheEntry struct {
	payload   scoring.MatchResult
	expiresAt time.Time
}

type mockCache struct {
	mu      sync.Mutex
	entries map[string]memCacheEntry
	gets    int
	sets    int
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string]memCacheEntry)}
}

func (m *mockCache) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	e, ok := m.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		return false, nil
	}
	*(out.(*scoring.MatchResult)) = e.payload
	return true, nil
}

func (m *mockCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	m.entries[key] = memCacheEntry{payload: value.(scoring.MatchResult), expiresAt: time.Now().Add(ttl)}
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

type mockEnhancer struct {
	mu      sync.Mutex
	calls   atomic.Int32
	fail    bool
	score   int
	block   chan struct{}
	lastDet int
}

func (m *mockEnhancer) Analyze(ctx context.Context, f scoring.Features, t scoring.Target, det int) (*scoring.Qualitative, error) {
	m.calls.Add(1)
	m.mu.Lock()
	m.lastDet = det
	m.mu.Unlock()
	if m.block != nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-m.block:
		}
	}
	if m.fail {
		return nil, errors.New("enhancement unavailable")
	}
	return &scoring.Qualitative{OverallScore: m.score, Insights: []string{"ok"}}, nil
}

func reactCandidate() candidate.Record {
	start := time.Now().AddDate(-3, 0, 0)
	return candidate.Record{
		ID:     uuid.New(),
		Name:   "Ada",
		Skills: []candidate.Skill{{Name: "React", Proficiency: 8}, {Name: "JavaScript", Proficiency: 9}},
		Profile: &candidate.Profile{
			Experience: []candidate.WorkEntry{
				{Company: "Acme", Title: "Frontend Engineer", StartDate: &start},
			},
		},
	}
}

func reactNodeJob() job.Posting {
	return job.Posting{
		ID:    uuid.New(),
		Title: "Frontend Engineer",
		RequiredSkills: []job.RequiredSkill{
			{Name: "React", IsRequired: true},
			{Name: "Node", IsRequired: true},
		},
		ExperienceMin: 2,
	}
}

func TestScoreAgainstJob_DegradedPathMatchesDeterministic(t *testing.T) {
	enh := &mockEnhancer{fail: true}
	uc := NewMatchUsecase(newMockCache(), enh, nil, MatchOptions{})

	res, err := uc.ScoreAgainstJob(context.Background(), reactCandidate(), reactNodeJob())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Score != 50 {
		t.Fatalf("expected degraded score 50, got %d", res.Score)
	}
	if !res.Degraded {
		t.Fatal("expected degraded result")
	}
	if len(res.Insights) != 1 || res.Insights[0] != scoring.DegradedAnalysisNote {
		t.Fatalf("expected degraded advisory, got %v", res.Insights)
	}
	if len(res.MatchedCriteria) == 0 {
		t.Fatal("matched criteria must survive degradation")
	}
}

func TestScoreAgainstJob_FusedScore(t *testing.T) {
	enh := &mockEnhancer{score: 80}
	uc := NewMatchUsecase(newMockCache(), enh, nil, MatchOptions{})

	res, err := uc.ScoreAgainstJob(context.Background(), reactCandidate(), reactNodeJob())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 50*0.6 + 80*0.4 = 62
	if res.Score != 62 {
		t.Fatalf("expected fused score 62, got %d", res.Score)
	}
	enh.mu.Lock()
	det := enh.lastDet
	enh.mu.Unlock()
	if det != 50 {
		t.Fatalf("enhancer must receive the deterministic overall, got %d", det)
	}
}

func TestScoreAgainstJob_CacheHitSkipsEnhancer(t *testing.T) {
	enh := &mockEnhancer{score: 80}
	uc := NewMatchUsecase(newMockCache(), enh, nil, MatchOptions{})

	cand := reactCandidate()
	posting := reactNodeJob()

	first, err := uc.ScoreAgainstJob(context.Background(), cand, posting)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := uc.ScoreAgainstJob(context.Background(), cand, posting)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}

	if enh.calls.Load() != 1 {
		t.Fatalf("cache hit must not re-invoke the enhancer, calls=%d", enh.calls.Load())
	}
	if first.Score != second.Score {
		t.Fatalf("cached result differs: %d vs %d", first.Score, second.Score)
	}
}

func TestScoreAgainstCriteria_EquivalentCriteriaShareCacheEntry(t *testing.T) {
	enh := &mockEnhancer{score: 70}
	cache := newMockCache()
	uc := NewMatchUsecase(cache, enh, nil, MatchOptions{})

	cand := reactCandidate()

	if _, err := uc.ScoreAgainstCriteria(context.Background(), cand, scoring.CriteriaTarget{Skills: []string{"React", "JavaScript"}}); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := uc.ScoreAgainstCriteria(context.Background(), cand, scoring.CriteriaTarget{Skills: []string{"JavaScript", "React"}}); err != nil {
		t.Fatalf("second call: %v", err)
	}

	if enh.calls.Load() != 1 {
		t.Fatalf("reordered criteria must hit the same entry, enhancer calls=%d", enh.calls.Load())
	}
}

func TestScoreAgainstCriteria_InvalidTargetFailsFast(t *testing.T) {
	enh := &mockEnhancer{}
	uc := NewMatchUsecase(newMockCache(), enh, nil, MatchOptions{})

	_, err := uc.ScoreAgainstCriteria(context.Background(), reactCandidate(), scoring.CriteriaTarget{})
	if !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("expected ErrInvalidTarget, got %v", err)
	}
	if enh.calls.Load() != 0 {
		t.Fatal("validation must fail before any scoring work")
	}
}

func TestGetOrCompute_SingleFlightDeduplicatesConcurrentMisses(t *testing.T) {
	enh := &mockEnhancer{score: 60, block: make(chan struct{})}
	uc := NewMatchUsecase(newMockCache(), enh, nil, MatchOptions{})

	cand := reactCandidate()
	posting := reactNodeJob()

	const callers = 8
	var wg sync.WaitGroup
	scores := make([]int, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			res, err := uc.ScoreAgainstJob(context.Background(), cand, posting)
			if err != nil {
				t.Errorf("caller %d: %v", n, err)
				return
			}
			scores[n] = res.Score
		}(i)
	}

	// Give the racers time to pile up on the key, then release.
	time.Sleep(50 * time.Millisecond)
	close(enh.block)
	wg.Wait()

	if got := enh.calls.Load(); got != 1 {
		t.Fatalf("expected exactly one enhancement call across %d concurrent misses, got %d", callers, got)
	}
	for i, s := range scores {
		if s != scores[0] {
			t.Fatalf("caller %d saw a different score: %d vs %d", i, s, scores[0])
		}
	}
}

func TestInvalidate_ForcesRecompute(t *testing.T) {
	enh := &mockEnhancer{score: 80}
	uc := NewMatchUsecase(newMockCache(), enh, nil, MatchOptions{})

	cand := reactCandidate()
	posting := reactNodeJob()

	if _, err := uc.ScoreAgainstJob(context.Background(), cand, posting); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if err := uc.Invalidate(context.Background(), cand.ID, scoring.NewJobTarget(posting)); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, err := uc.ScoreAgainstJob(context.Background(), cand, posting); err != nil {
		t.Fatalf("second call: %v", err)
	}

	if enh.calls.Load() != 2 {
		t.Fatalf("expected recompute after invalidation, calls=%d", enh.calls.Load())
	}
}
