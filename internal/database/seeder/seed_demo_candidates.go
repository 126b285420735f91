package seeder

import (
	"context"
	"fmt"

	"talentmatch/internal/database"
)

type DemoCandidatesSeeder struct{}

func (DemoCandidatesSeeder) Name() string { return "demo_candidates" }

func (DemoCandidatesSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "candidates",
		"id", "name", "email", "location", "remote_ok", "bio", "created_at", "updated_at"); err != nil {
		return err
	}
	if err := EnsureTableColumns(ctx, db, "candidate_skills",
		"id", "candidate_id", "source", "name", "proficiency"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	type skill struct {
		Name        string
		Proficiency int
	}
	items := []struct {
		ID       string
		Name     string
		Email    string
		Location string
		RemoteOK bool
		Bio      string
		Skills   []skill
	}{
		{
			ID:       "9a2b4c10-0001-4d2e-8f00-5c7d9e3a0001",
			Name:     "Ada Prameswari",
			Email:    "ada@example.com",
			Location: "Jakarta",
			Bio:      "Full stack developer focused on React and Node.js products.",
			Skills:   []skill{{"React", 8}, {"Node.js", 7}, {"TypeScript", 6}},
		},
		{
			ID:       "9a2b4c10-0002-4d2e-8f00-5c7d9e3a0002",
			Name:     "Grace Hutapea",
			Email:    "grace@example.com",
			Location: "Bandung",
			RemoteOK: true,
			Bio:      "Backend engineer working with Go and PostgreSQL at scale.",
			Skills:   []skill{{"Go", 9}, {"PostgreSQL", 8}, {"Redis", 6}, {"Docker", 7}},
		},
	}

	for _, it := range items {
		affected, err := tx.Exec(
			ctx,
			`INSERT INTO candidates (id, name, email, location, remote_ok, bio)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (email) DO NOTHING`,
			it.ID, it.Name, it.Email, it.Location, it.RemoteOK, it.Bio,
		)
		if err != nil {
			return err
		}
		if affected == 0 {
			continue
		}
		for _, s := range it.Skills {
			_, err := tx.Exec(
				ctx,
				`INSERT INTO candidate_skills (candidate_id, source, name, proficiency)
				 VALUES ($1, 'candidate', $2, $3)`,
				it.ID, s.Name, s.Proficiency,
			)
			if err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
