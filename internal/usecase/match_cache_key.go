package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"

	"talentmatch/internal/domain/scoring"

	"github.com/google/uuid"
)

// Cache keys are "match:<kind>:<candidate>:<fingerprint>" where the
// fingerprint is a stable hash of the normalized target fields. Set-like
// fields are sorted and strings lowercased so semantically identical
// targets share one entry regardless of how the caller ordered them.

type jobTargetKeyInput struct {
	JobID                 string   `json:"job_id"`
	Title                 string   `json:"title"`
	RequiredSkills        []string `json:"required_skills"`
	PreferredSkills       []string `json:"preferred_skills"`
	ExperienceMin         int      `json:"experience_min"`
	ExperienceMax         int      `json:"experience_max"`
	EducationRequirements []string `json:"education_requirements"`
	Responsibilities      []string `json:"responsibilities"`
}

type criteriaTargetKeyInput struct {
	Skills        []string `json:"skills"`
	SearchTerm    string   `json:"search_term"`
	Location      string   `json:"location"`
	MinExperience int      `json:"min_experience"`
	JobTitle      string   `json:"job_title"`
	Industry      string   `json:"industry"`
}

func normalizeKeyValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}

func normalizeKeySet(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = normalizeKeyValue(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// TargetFingerprint returns the stable hash of a target's normalized
// fields.
func TargetFingerprint(t scoring.Target) string {
	var in any

	switch target := t.(type) {
	case scoring.JobTarget:
		in = jobKeyInput(target)
	case *scoring.JobTarget:
		in = jobKeyInput(*target)
	case scoring.CriteriaTarget:
		in = criteriaKeyInput(target)
	case *scoring.CriteriaTarget:
		in = criteriaKeyInput(*target)
	default:
		in = nil
	}

	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func jobKeyInput(t scoring.JobTarget) jobTargetKeyInput {
	required := make([]string, 0, len(t.RequiredSkills))
	for _, rs := range t.RequiredSkills {
		name := normalizeKeyValue(rs.Name)
		if name == "" {
			continue
		}
		if rs.IsRequired {
			required = append(required, name+"|required")
		} else {
			required = append(required, name+"|optional")
		}
	}
	sort.Strings(required)

	return jobTargetKeyInput{
		JobID:                 normalizeKeyValue(t.JobID),
		Title:                 normalizeKeyValue(t.Title),
		RequiredSkills:        required,
		PreferredSkills:       normalizeKeySet(t.PreferredSkills),
		ExperienceMin:         t.ExperienceMin,
		ExperienceMax:         t.ExperienceMax,
		EducationRequirements: normalizeKeySet(t.EducationRequirements),
		Responsibilities:      normalizeKeySet(t.Responsibilities),
	}
}

func criteriaKeyInput(t scoring.CriteriaTarget) criteriaTargetKeyInput {
	return criteriaTargetKeyInput{
		Skills:        normalizeKeySet(t.Skills),
		SearchTerm:    normalizeKeyValue(t.SearchTerm),
		Location:      normalizeKeyValue(t.Location),
		MinExperience: t.MinExperience,
		JobTitle:      normalizeKeyValue(t.JobTitle),
		Industry:      normalizeKeyValue(t.Industry),
	}
}

// MatchCacheKey builds the full cache key for one (candidate, target)
// pair.
func MatchCacheKey(candidateID uuid.UUID, t scoring.Target) string {
	return "match:" + string(t.Kind()) + ":" + candidateID.String() + ":" + TargetFingerprint(t)
}
