package usecase

import (
	"context"
	"testing"
	"time"

	"talentmatch/internal/domain/candidate"
	"talentmatch/internal/domain/job"
	"talentmatch/internal/domain/scoring"

	"github.com/google/uuid"
)

func candidateWithSkills(name string, skills ...string) candidate.Record {
	cs := make([]candidate.Skill, 0, len(skills))
	for _, s := range skills {
		cs = append(cs, candidate.Skill{Name: s, Proficiency: 7})
	}
	return candidate.Record{ID: uuid.New(), Name: name, Skills: cs}
}

func TestRankCandidatesForJob_OrdersByScoreDescending(t *testing.T) {
	enh := &mockEnhancer{fail: true}
	uc := NewMatchUsecase(newMockCache(), enh, nil, MatchOptions{Workers: 3})

	cands := []candidate.Record{
		candidateWithSkills("none"),
		candidateWithSkills("both", "React", "Node"),
		candidateWithSkills("one", "React"),
	}
	posting := job.Posting{
		ID: uuid.New(),
		RequiredSkills: []job.RequiredSkill{
			{Name: "React", IsRequired: true},
			{Name: "Node", IsRequired: true},
		},
	}

	results, err := uc.RankCandidatesForJob(context.Background(), cands, posting)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].CandidateID != cands[1].ID {
		t.Fatalf("expected full match first, got %v", results[0].CandidateID)
	}
	if results[1].CandidateID != cands[2].ID {
		t.Fatalf("expected partial match second, got %v", results[1].CandidateID)
	}
	if results[2].CandidateID != cands[0].ID {
		t.Fatalf("expected empty candidate last, got %v", results[2].CandidateID)
	}
}

func TestRankCandidatesForJob_StableTieBreakByInputOrder(t *testing.T) {
	enh := &mockEnhancer{fail: true}
	uc := NewMatchUsecase(newMockCache(), enh, nil, MatchOptions{Workers: 4})

	// Identical skill sets produce identical scores.
	cands := []candidate.Record{
		candidateWithSkills("first", "Go"),
		candidateWithSkills("second", "Go"),
		candidateWithSkills("third", "Go"),
	}
	posting := job.Posting{
		ID:             uuid.New(),
		RequiredSkills: []job.RequiredSkill{{Name: "Go", IsRequired: true}},
	}

	for attempt := 0; attempt < 5; attempt++ {
		results, err := uc.RankCandidatesForJob(context.Background(), cands, posting)
		if err != nil {
			t.Fatalf("attempt %d: %v", attempt, err)
		}
		for i := range cands {
			if results[i].CandidateID != cands[i].ID {
				t.Fatalf("attempt %d: tie order diverged from input order at %d", attempt, i)
			}
		}
	}
}

func TestRankCandidatesForCriteria_EmptyBatch(t *testing.T) {
	uc := NewMatchUsecase(newMockCache(), &mockEnhancer{}, nil, MatchOptions{})

	results, err := uc.RankCandidatesForCriteria(context.Background(), nil, scoring.CriteriaTarget{Skills: []string{"Go"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected empty result set, got %d", len(results))
	}
}

func TestRankCandidatesForCriteria_FailureIsolation(t *testing.T) {
	// The enhancer fails for everyone; every candidate still gets a
	// deterministic-only result and the batch completes.
	enh := &mockEnhancer{fail: true}
	uc := NewMatchUsecase(newMockCache(), enh, nil, MatchOptions{Workers: 2})

	cands := []candidate.Record{
		candidateWithSkills("a", "Go"),
		candidateWithSkills("b"),
		candidateWithSkills("c", "Go", "SQL"),
	}

	results, err := uc.RankCandidatesForCriteria(context.Background(), cands, scoring.CriteriaTarget{Skills: []string{"Go", "SQL"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("batch must not shrink on failures, got %d results", len(results))
	}
	for _, r := range results {
		if !r.Degraded {
			t.Fatalf("expected every result degraded, got %+v", r)
		}
	}
}

func TestRankCandidatesForJob_CancelledContextAborts(t *testing.T) {
	enh := &mockEnhancer{block: make(chan struct{})}
	uc := NewMatchUsecase(newMockCache(), enh, nil, MatchOptions{Workers: 1})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	cands := []candidate.Record{
		candidateWithSkills("a", "Go"),
		candidateWithSkills("b", "Go"),
	}
	posting := job.Posting{
		ID:             uuid.New(),
		RequiredSkills: []job.RequiredSkill{{Name: "Go", IsRequired: true}},
	}

	_, err := uc.RankCandidatesForJob(ctx, cands, posting)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestRankCandidatesForJob_ZeroValueCandidateIDStillScored(t *testing.T) {
	// A record with the zero UUID must be treated like any other: its
	// computed result is emitted, not a degraded placeholder.
	enh := &mockEnhancer{score: 80}
	uc := NewMatchUsecase(newMockCache(), enh, nil, MatchOptions{Workers: 2})

	blank := candidateWithSkills("blank", "Go")
	blank.ID = uuid.Nil
	cands := []candidate.Record{blank, candidateWithSkills("named", "Go")}
	posting := job.Posting{
		ID:             uuid.New(),
		RequiredSkills: []job.RequiredSkill{{Name: "Go", IsRequired: true}},
	}

	results, err := uc.RankCandidatesForJob(context.Background(), cands, posting)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if r.Degraded {
			t.Fatalf("expected computed result, got degraded fallback for %v", r.CandidateID)
		}
		if r.Score == 0 {
			t.Fatalf("expected nonzero score for %v", r.CandidateID)
		}
	}
}
