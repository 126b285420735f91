package job

import (
	"time"

	"github.com/google/uuid"
)

// Posting is a job posting as loaded from storage. Only the fields the
// scoring engine reads are modeled here; the wider posting document
// (application settings, notification preferences, tenant metadata) is
// owned elsewhere.
type Posting struct {
	ID                    uuid.UUID
	TenantID              uuid.UUID
	Title                 string
	Company               string
	Location              string
	Description           string
	RequiredSkills        []RequiredSkill
	PreferredSkills       []string
	ExperienceMin         int
	ExperienceMax         int
	EducationRequirements []string
	Responsibilities      []string
	Status                string
	PostedAt              *time.Time
	CreatedAt             time.Time
}

type RequiredSkill struct {
	Name       string
	IsRequired bool
}
