package scoring

import (
	"math"

	"github.com/google/uuid"
)

// DegradedAnalysisNote is the fixed advisory attached to results produced
// without qualitative analysis.
const DegradedAnalysisNote = "Qualitative analysis unavailable; score reflects rule-based matching only."

// Fusion ratios. Job matching stays scorer-dominant; ad-hoc search blends
// evenly with the qualitative signal.
const (
	jobDeterministicRatio      = 0.6
	criteriaDeterministicRatio = 0.5
)

// Qualitative is the structured result of the external reasoning call.
type Qualitative struct {
	OverallScore int
	Insights     []string
	Strengths    []string
	Weaknesses   []string
	Suggestions  []string
}

// MatchResult is the final scoring envelope. Immutable once produced; it
// lives for the cache TTL and is recomputed afterwards, never mutated.
type MatchResult struct {
	CandidateID     uuid.UUID `json:"candidate_id"`
	Score           int       `json:"score"`
	Breakdown       Breakdown `json:"breakdown"`
	Insights        []string  `json:"insights"`
	Strengths       []string  `json:"strengths"`
	Weaknesses      []string  `json:"weaknesses,omitempty"`
	Suggestions     []string  `json:"suggestions"`
	MatchedCriteria []string  `json:"matched_criteria"`
	Degraded        bool      `json:"degraded"`
}

// Fuse blends the deterministic pass with the qualitative result. A nil
// qualitative result selects the degraded path: the deterministic overall
// stands as-is and the fixed advisory is recorded.
func Fuse(candidateID uuid.UUID, det DeterministicResult, q *Qualitative, kind TargetKind) MatchResult {
	res := MatchResult{
		CandidateID:     candidateID,
		Breakdown:       det.Breakdown,
		Insights:        []string{},
		Strengths:       []string{},
		Suggestions:     []string{},
		MatchedCriteria: det.MatchedCriteria,
	}
	if res.MatchedCriteria == nil {
		res.MatchedCriteria = []string{}
	}

	if q == nil {
		res.Score = clampScore(det.Breakdown.Overall)
		res.Breakdown.AIEnhancement = 0
		res.Insights = []string{DegradedAnalysisNote}
		res.Degraded = true
		return res
	}

	ratio := criteriaDeterministicRatio
	if kind == TargetKindJob {
		ratio = jobDeterministicRatio
	}

	qualitative := clampScore(q.OverallScore)
	fused := float64(det.Breakdown.Overall)*ratio + float64(qualitative)*(1-ratio)
	res.Score = clampScore(int(math.Round(fused)))
	res.Breakdown.AIEnhancement = float64(res.Score - det.Breakdown.Overall)

	if len(q.Insights) > 0 {
		res.Insights = q.Insights
	}
	if len(q.Strengths) > 0 {
		res.Strengths = q.Strengths
	}
	if len(q.Weaknesses) > 0 {
		res.Weaknesses = q.Weaknesses
	}
	if len(q.Suggestions) > 0 {
		res.Suggestions = q.Suggestions
	}

	return res
}
