package candidate

import (
	"time"

	"github.com/google/uuid"
)

// Record is the full candidate document as loaded from storage. The same
// information (skills, work history, education) may live in up to three
// places: the structured candidate row, the user-maintained profile, and
// the resume-derived parse. The scoring engine merges them; nothing here
// is guaranteed to be populated.
type Record struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Location  string
	RemoteOK  bool
	Bio       string
	Skills    []Skill
	Profile   *Profile
	Resume    *ResumeParse
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Skill struct {
	Name        string
	Proficiency int
}

// Profile is the user-maintained profile attached to the candidate account.
type Profile struct {
	Headline   string
	Location   string
	Skills     []Skill
	Titles     []string
	Experience []WorkEntry
	Education  []EducationEntry
}

// ResumeParse holds structured data extracted from the uploaded resume.
type ResumeParse struct {
	Skills     []Skill
	Experience []WorkEntry
	Education  []EducationEntry
	RawText    string
}

type WorkEntry struct {
	Company     string
	Title       string
	Description string
	StartDate   *time.Time
	// EndDate nil means the position is current.
	EndDate *time.Time
}

type EducationEntry struct {
	Degree      string
	Institution string
	Year        int
}
