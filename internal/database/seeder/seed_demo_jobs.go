package seeder

import (
	"context"
	"fmt"

	"talentmatch/internal/database"
)

// DemoJobsSeeder inserts a couple of postings for local development.
// Fixed ids keep reruns idempotent.
type DemoJobsSeeder struct{}

func (DemoJobsSeeder) Name() string { return "demo_jobs" }

func (DemoJobsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "jobs",
		"id", "tenant_id", "title", "company", "location", "description",
		"required_skills", "preferred_skills", "experience_min", "experience_max",
		"education_requirements", "responsibilities", "status", "created_at"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	items := []struct {
		ID              string
		Title           string
		Company         string
		Location        string
		Description     string
		RequiredSkills  string
		PreferredSkills string
		ExpMin          int
		ExpMax          int
		Education       string
		Resp            string
	}{
		{
			ID:              "6f1f1a60-0001-4e9a-9a30-3e6b6a2f0001",
			Title:           "Full Stack Developer",
			Company:         "Acme Labs",
			Location:        "Jakarta",
			Description:     "Build and operate web products end to end.",
			RequiredSkills:  `[{"name":"React","is_required":true},{"name":"Node.js","is_required":true}]`,
			PreferredSkills: `["TypeScript","PostgreSQL"]`,
			ExpMin:          2,
			ExpMax:          5,
			Education:       `["Bachelor's degree in Computer Science"]`,
			Resp:            `["Design and ship web features","Operate production services"]`,
		},
		{
			ID:              "6f1f1a60-0002-4e9a-9a30-3e6b6a2f0002",
			Title:           "Backend Engineer",
			Company:         "Acme Labs",
			Location:        "Remote",
			Description:     "Own backend services and data pipelines.",
			RequiredSkills:  `[{"name":"Go","is_required":true},{"name":"PostgreSQL","is_required":false}]`,
			PreferredSkills: `["Redis","Docker"]`,
			ExpMin:          3,
			ExpMax:          8,
			Education:       `[]`,
			Resp:            `["Design APIs","Tune database performance"]`,
		},
	}

	for _, it := range items {
		_, err := tx.Exec(
			ctx,
			`INSERT INTO jobs (id, tenant_id, title, company, location, description,
			                   required_skills, preferred_skills, experience_min, experience_max,
			                   education_requirements, responsibilities, status)
			 VALUES ($1, '00000000-0000-0000-0000-000000000001', $2, $3, $4, $5,
			         $6::jsonb, $7::jsonb, $8, $9, $10::jsonb, $11::jsonb, 'open')
			 ON CONFLICT (id) DO NOTHING`,
			it.ID, it.Title, it.Company, it.Location, it.Description,
			it.RequiredSkills, it.PreferredSkills, it.ExpMin, it.ExpMax,
			it.Education, it.Resp,
		)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
