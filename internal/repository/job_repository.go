package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"talentmatch/internal/database"
	"talentmatch/internal/domain/job"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrJobNotFound = errors.New("job not found")
)

type JobRepository interface {
	FindByID(ctx context.Context, jobID uuid.UUID) (job.Posting, error)
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

func (r *PostgresJobRepository) FindByID(ctx context.Context, jobID uuid.UUID) (job.Posting, error) {
	var (
		p          job.Posting
		reqSkillsB []byte
		prefB      []byte
		eduB       []byte
		respB      []byte
		postedAt   sql.NullTime
	)

	row := r.db.QueryRow(ctx,
		`SELECT id, tenant_id, COALESCE(title, ''), COALESCE(company, ''), COALESCE(location, ''),
		        COALESCE(description, ''),
		        COALESCE(required_skills, '[]'::jsonb),
		        COALESCE(preferred_skills, '[]'::jsonb),
		        COALESCE(experience_min, 0), COALESCE(experience_max, 0),
		        COALESCE(education_requirements, '[]'::jsonb),
		        COALESCE(responsibilities, '[]'::jsonb),
		        COALESCE(status, ''), posted_at, created_at
		 FROM jobs
		 WHERE id = $1`,
		jobID,
	)
	err := row.Scan(&p.ID, &p.TenantID, &p.Title, &p.Company, &p.Location,
		&p.Description, &reqSkillsB, &prefB, &p.ExperienceMin, &p.ExperienceMax,
		&eduB, &respB, &p.Status, &postedAt, &p.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return job.Posting{}, ErrJobNotFound
		}
		return job.Posting{}, err
	}

	if postedAt.Valid {
		t := postedAt.Time
		p.PostedAt = &t
	}

	// required_skills rows look like {"name": "React", "is_required": true}.
	var reqSkills []struct {
		Name       string `json:"name"`
		IsRequired bool   `json:"is_required"`
	}
	if err := json.Unmarshal(reqSkillsB, &reqSkills); err != nil {
		return job.Posting{}, err
	}
	p.RequiredSkills = make([]job.RequiredSkill, 0, len(reqSkills))
	for _, s := range reqSkills {
		if s.Name == "" {
			continue
		}
		p.RequiredSkills = append(p.RequiredSkills, job.RequiredSkill{Name: s.Name, IsRequired: s.IsRequired})
	}

	if err := json.Unmarshal(prefB, &p.PreferredSkills); err != nil {
		return job.Posting{}, err
	}
	if err := json.Unmarshal(eduB, &p.EducationRequirements); err != nil {
		return job.Posting{}, err
	}
	if err := json.Unmarshal(respB, &p.Responsibilities); err != nil {
		return job.Posting{}, err
	}

	return p, nil
}
