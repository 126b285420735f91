package dto

import (
	"github.com/google/uuid"

	"talentmatch/internal/domain/scoring"
)

type BreakdownResponse struct {
	Skills        float64 `json:"skills"`
	Experience    float64 `json:"experience"`
	Education     float64 `json:"education"`
	Relevance     float64 `json:"relevance"`
	Location      float64 `json:"location"`
	AIEnhancement float64 `json:"ai_enhancement"`
	Overall       int     `json:"overall"`
}

type MatchResultResponse struct {
	CandidateID     uuid.UUID         `json:"candidate_id"`
	Score           int               `json:"score"`
	Breakdown       BreakdownResponse `json:"breakdown"`
	Insights        []string          `json:"insights"`
	Strengths       []string          `json:"strengths"`
	Weaknesses      []string          `json:"weaknesses,omitempty"`
	Suggestions     []string          `json:"suggestions"`
	MatchedCriteria []string          `json:"matched_criteria"`
	Degraded        bool              `json:"degraded"`
}

type RankResponse struct {
	Results []MatchResultResponse `json:"results"`
	// NotFound lists requested candidate ids that have no stored record.
	NotFound []uuid.UUID `json:"not_found,omitempty"`
}

func NewMatchResultResponse(res scoring.MatchResult) MatchResultResponse {
	return MatchResultResponse{
		CandidateID: res.CandidateID,
		Score:       res.Score,
		Breakdown: BreakdownResponse{
			Skills:        res.Breakdown.Skills,
			Experience:    res.Breakdown.Experience,
			Education:     res.Breakdown.Education,
			Relevance:     res.Breakdown.Relevance,
			Location:      res.Breakdown.Location,
			AIEnhancement: res.Breakdown.AIEnhancement,
			Overall:       res.Breakdown.Overall,
		},
		Insights:        res.Insights,
		Strengths:       res.Strengths,
		Weaknesses:      res.Weaknesses,
		Suggestions:     res.Suggestions,
		MatchedCriteria: res.MatchedCriteria,
		Degraded:        res.Degraded,
	}
}

func NewRankResponse(results []scoring.MatchResult, notFound []uuid.UUID) RankResponse {
	out := RankResponse{
		Results:  make([]MatchResultResponse, 0, len(results)),
		NotFound: notFound,
	}
	for _, res := range results {
		out.Results = append(out.Results, NewMatchResultResponse(res))
	}
	return out
}
