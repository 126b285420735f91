package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"talentmatch/internal/database"
	"talentmatch/internal/domain/candidate"

	"github.com/google/uuid"
)

var (
	ErrCandidateNotFound = errors.New("candidate not found")
)

// Skill, work and education rows carry a source column telling which
// document they came from. The scoring engine merges sources itself, so
// the repository only has to route rows to the right slice.
const (
	sourceCandidate = "candidate"
	sourceProfile   = "profile"
	sourceResume    = "resume"
)

type CandidateRepository interface {
	FindByID(ctx context.Context, candidateID uuid.UUID) (candidate.Record, error)
	FindByIDs(ctx context.Context, candidateIDs []uuid.UUID) ([]candidate.Record, error)
}

type PostgresCandidateRepository struct {
	db database.DB
}

func NewPostgresCandidateRepository(db database.DB) *PostgresCandidateRepository {
	return &PostgresCandidateRepository{db: db}
}

func (r *PostgresCandidateRepository) FindByID(ctx context.Context, candidateID uuid.UUID) (candidate.Record, error) {
	records, err := r.FindByIDs(ctx, []uuid.UUID{candidateID})
	if err != nil {
		return candidate.Record{}, err
	}
	if len(records) == 0 {
		return candidate.Record{}, ErrCandidateNotFound
	}
	return records[0], nil
}

// FindByIDs loads the full candidate documents for the given ids.
// Candidates that do not exist are silently absent from the result; the
// caller decides whether that is an error. Result order follows the
// input order.
func (r *PostgresCandidateRepository) FindByIDs(ctx context.Context, candidateIDs []uuid.UUID) ([]candidate.Record, error) {
	if len(candidateIDs) == 0 {
		return []candidate.Record{}, nil
	}

	byID := make(map[uuid.UUID]*candidate.Record, len(candidateIDs))

	rows, err := r.db.Query(ctx,
		`SELECT id, COALESCE(name, ''), COALESCE(email, ''), COALESCE(location, ''),
		        COALESCE(remote_ok, false), COALESCE(bio, ''), created_at, updated_at
		 FROM candidates
		 WHERE id = ANY($1)`,
		candidateIDs,
	)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var rec candidate.Record
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Email, &rec.Location,
			&rec.RemoteOK, &rec.Bio, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		byID[rec.ID] = &rec
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if len(byID) == 0 {
		return []candidate.Record{}, nil
	}

	if err := r.loadProfiles(ctx, candidateIDs, byID); err != nil {
		return nil, err
	}
	if err := r.loadResumes(ctx, candidateIDs, byID); err != nil {
		return nil, err
	}
	if err := r.loadSkills(ctx, candidateIDs, byID); err != nil {
		return nil, err
	}
	if err := r.loadWorkEntries(ctx, candidateIDs, byID); err != nil {
		return nil, err
	}
	if err := r.loadEducation(ctx, candidateIDs, byID); err != nil {
		return nil, err
	}

	out := make([]candidate.Record, 0, len(byID))
	for _, id := range candidateIDs {
		if rec, ok := byID[id]; ok {
			out = append(out, *rec)
			delete(byID, id)
		}
	}
	return out, nil
}

func (r *PostgresCandidateRepository) loadProfiles(ctx context.Context, ids []uuid.UUID, byID map[uuid.UUID]*candidate.Record) error {
	rows, err := r.db.Query(ctx,
		`SELECT candidate_id, COALESCE(headline, ''), COALESCE(location, ''), COALESCE(titles, '[]'::jsonb)
		 FROM candidate_profiles
		 WHERE candidate_id = ANY($1)`,
		ids,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id       uuid.UUID
			headline string
			location string
			titlesB  []byte
		)
		if err := rows.Scan(&id, &headline, &location, &titlesB); err != nil {
			return err
		}
		rec, ok := byID[id]
		if !ok {
			continue
		}
		var titles []string
		if len(titlesB) > 0 {
			if err := json.Unmarshal(titlesB, &titles); err != nil {
				return err
			}
		}
		rec.Profile = &candidate.Profile{
			Headline: headline,
			Location: location,
			Titles:   titles,
		}
	}
	return rows.Err()
}

func (r *PostgresCandidateRepository) loadResumes(ctx context.Context, ids []uuid.UUID, byID map[uuid.UUID]*candidate.Record) error {
	rows, err := r.db.Query(ctx,
		`SELECT candidate_id, COALESCE(raw_text, '')
		 FROM candidate_resumes
		 WHERE candidate_id = ANY($1)`,
		ids,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id      uuid.UUID
			rawText string
		)
		if err := rows.Scan(&id, &rawText); err != nil {
			return err
		}
		if rec, ok := byID[id]; ok {
			rec.Resume = &candidate.ResumeParse{RawText: rawText}
		}
	}
	return rows.Err()
}

func (r *PostgresCandidateRepository) loadSkills(ctx context.Context, ids []uuid.UUID, byID map[uuid.UUID]*candidate.Record) error {
	rows, err := r.db.Query(ctx,
		`SELECT candidate_id, COALESCE(source, 'candidate'), COALESCE(name, ''), COALESCE(proficiency, 0)
		 FROM candidate_skills
		 WHERE candidate_id = ANY($1)
		 ORDER BY id`,
		ids,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id     uuid.UUID
			source string
			s      candidate.Skill
		)
		if err := rows.Scan(&id, &source, &s.Name, &s.Proficiency); err != nil {
			return err
		}
		rec, ok := byID[id]
		if !ok || s.Name == "" {
			continue
		}
		switch source {
		case sourceProfile:
			p := ensureProfile(rec)
			p.Skills = append(p.Skills, s)
		case sourceResume:
			rp := ensureResume(rec)
			rp.Skills = append(rp.Skills, s)
		default:
			rec.Skills = append(rec.Skills, s)
		}
	}
	return rows.Err()
}

func (r *PostgresCandidateRepository) loadWorkEntries(ctx context.Context, ids []uuid.UUID, byID map[uuid.UUID]*candidate.Record) error {
	rows, err := r.db.Query(ctx,
		`SELECT candidate_id, COALESCE(source, 'profile'), COALESCE(company, ''), COALESCE(title, ''),
		        COALESCE(description, ''), start_date, end_date
		 FROM work_experiences
		 WHERE candidate_id = ANY($1)
		 ORDER BY id`,
		ids,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id     uuid.UUID
			source string
			w      candidate.WorkEntry
			start  sql.NullTime
			end    sql.NullTime
		)
		if err := rows.Scan(&id, &source, &w.Company, &w.Title, &w.Description, &start, &end); err != nil {
			return err
		}
		rec, ok := byID[id]
		if !ok {
			continue
		}
		if start.Valid {
			t := start.Time
			w.StartDate = &t
		}
		if end.Valid {
			t := end.Time
			w.EndDate = &t
		}
		switch source {
		case sourceResume:
			rp := ensureResume(rec)
			rp.Experience = append(rp.Experience, w)
		default:
			p := ensureProfile(rec)
			p.Experience = append(p.Experience, w)
		}
	}
	return rows.Err()
}

func (r *PostgresCandidateRepository) loadEducation(ctx context.Context, ids []uuid.UUID, byID map[uuid.UUID]*candidate.Record) error {
	rows, err := r.db.Query(ctx,
		`SELECT candidate_id, COALESCE(source, 'profile'), COALESCE(degree, ''), COALESCE(institution, ''), COALESCE(year, 0)
		 FROM educations
		 WHERE candidate_id = ANY($1)
		 ORDER BY id`,
		ids,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id     uuid.UUID
			source string
			e      candidate.EducationEntry
		)
		if err := rows.Scan(&id, &source, &e.Degree, &e.Institution, &e.Year); err != nil {
			return err
		}
		rec, ok := byID[id]
		if !ok {
			continue
		}
		switch source {
		case sourceResume:
			rp := ensureResume(rec)
			rp.Education = append(rp.Education, e)
		default:
			p := ensureProfile(rec)
			p.Education = append(p.Education, e)
		}
	}
	return rows.Err()
}

func ensureProfile(rec *candidate.Record) *candidate.Profile {
	if rec.Profile == nil {
		rec.Profile = &candidate.Profile{}
	}
	return rec.Profile
}

func ensureResume(rec *candidate.Record) *candidate.ResumeParse {
	if rec.Resume == nil {
		rec.Resume = &candidate.ResumeParse{}
	}
	return rec.Resume
}
