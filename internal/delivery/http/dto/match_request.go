package dto

// CriteriaRequest is the ad-hoc target a recruiter scores against without
// creating a job posting. All fields are optional, but at least one must
// constrain something.
type CriteriaRequest struct {
	Skills        []string `json:"skills"`
	SearchTerm    string   `json:"search_term"`
	Location      string   `json:"location"`
	MinExperience int      `json:"min_experience"`
	JobTitle      string   `json:"job_title"`
	Industry      string   `json:"industry"`
}

type RankJobRequest struct {
	CandidateIDs []string `json:"candidate_ids"`
}

type RankCriteriaRequest struct {
	Criteria     CriteriaRequest `json:"criteria"`
	CandidateIDs []string        `json:"candidate_ids"`
}
