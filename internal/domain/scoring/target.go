package scoring

import (
	"errors"
	"strings"
	"time"

	"talentmatch/internal/domain/job"
)

var ErrInvalidTarget = errors.New("invalid scoring target")

type TargetKind string

const (
	TargetKindJob      TargetKind = "job"
	TargetKindCriteria TargetKind = "criteria"
)

// Weights is the per-factor weight table for a target kind. The base
// factors sum to 100; SkillBonus is the extra credit available for
// preferred-skill overlap on top of the skills factor.
type Weights struct {
	Skills     float64
	Experience float64
	Education  float64
	Relevance  float64
	Location   float64
	SkillBonus float64
}

var (
	jobWeights      = Weights{Skills: 40, Experience: 30, Education: 20, Relevance: 10, Location: 0, SkillBonus: 4}
	criteriaWeights = Weights{Skills: 40, Experience: 20, Education: 10, Relevance: 20, Location: 10, SkillBonus: 0}
)

const (
	jobResultTTL      = 60 * time.Minute
	criteriaResultTTL = 30 * time.Minute
)

// Target is what a candidate is scored against: either a stored job
// posting or an ad-hoc criteria set. The two variants share the scorer
// but carry their own weight table, fusion ratio and cache TTL.
type Target interface {
	Kind() TargetKind
	Weights() Weights
	Validate() error
	// CacheTTL bounds how long a fused result for this target may be
	// served from cache.
	CacheTTL() time.Duration
}

type JobTarget struct {
	JobID                 string
	Title                 string
	RequiredSkills        []job.RequiredSkill
	PreferredSkills       []string
	ExperienceMin         int
	ExperienceMax         int
	EducationRequirements []string
	Responsibilities      []string
}

// NewJobTarget maps a stored posting onto the scoring target shape.
func NewJobTarget(p job.Posting) JobTarget {
	return JobTarget{
		JobID:                 p.ID.String(),
		Title:                 p.Title,
		RequiredSkills:        p.RequiredSkills,
		PreferredSkills:       p.PreferredSkills,
		ExperienceMin:         p.ExperienceMin,
		ExperienceMax:         p.ExperienceMax,
		EducationRequirements: p.EducationRequirements,
		Responsibilities:      p.Responsibilities,
	}
}

func (t JobTarget) Kind() TargetKind { return TargetKindJob }

func (t JobTarget) Weights() Weights { return jobWeights }

func (t JobTarget) CacheTTL() time.Duration { return jobResultTTL }

func (t JobTarget) Validate() error {
	if t.ExperienceMin < 0 || t.ExperienceMax < 0 {
		return ErrInvalidTarget
	}
	if t.ExperienceMax > 0 && t.ExperienceMin > t.ExperienceMax {
		return ErrInvalidTarget
	}
	return nil
}

type CriteriaTarget struct {
	Skills        []string
	SearchTerm    string
	Location      string
	MinExperience int
	JobTitle      string
	Industry      string
}

func (t CriteriaTarget) Kind() TargetKind { return TargetKindCriteria }

func (t CriteriaTarget) Weights() Weights { return criteriaWeights }

func (t CriteriaTarget) CacheTTL() time.Duration { return criteriaResultTTL }

// Validate rejects criteria that constrain nothing: scoring against an
// empty filter set is a caller bug, not a zero-score request.
func (t CriteriaTarget) Validate() error {
	if t.MinExperience < 0 {
		return ErrInvalidTarget
	}
	if t.MinExperience > 0 {
		return nil
	}
	for _, s := range t.Skills {
		if strings.TrimSpace(s) != "" {
			return nil
		}
	}
	if strings.TrimSpace(t.SearchTerm) != "" ||
		strings.TrimSpace(t.Location) != "" ||
		strings.TrimSpace(t.JobTitle) != "" ||
		strings.TrimSpace(t.Industry) != "" {
		return nil
	}
	return ErrInvalidTarget
}
