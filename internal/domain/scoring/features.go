package scoring

import (
	"sort"
	"strings"
	"time"

	"talentmatch/internal/domain/candidate"

	"github.com/google/uuid"
)

const (
	minProficiency = 1
	maxProficiency = 10
)

type SkillFeature struct {
	Name        string
	Proficiency int
}

type ExperienceEntry struct {
	Company        string
	Title          string
	Description    string
	DurationMonths int
}

type ExperienceSummary struct {
	TotalYears  int
	TotalMonths int
	Entries     []ExperienceEntry
}

type EducationFeature struct {
	Degree      string
	Institution string
	Year        int
}

// Features is the canonical view of a candidate that the scorer reads.
// It is derived, never persisted.
type Features struct {
	CandidateID     uuid.UUID
	Name            string
	Bio             string
	Skills          []SkillFeature
	Experience      ExperienceSummary
	Education       []EducationFeature
	Titles          []string
	Location        string
	RemotePreferred bool
}

// ExtractFeatures flattens a candidate record into Features. It never
// fails: absent or malformed fields degrade to empty collections and zero
// values. The same record always yields the same Features.
func ExtractFeatures(rec candidate.Record) Features {
	f := Features{
		CandidateID:     rec.ID,
		Name:            strings.TrimSpace(rec.Name),
		Bio:             strings.TrimSpace(rec.Bio),
		Location:        strings.TrimSpace(rec.Location),
		RemotePreferred: rec.RemoteOK,
	}

	sources := skillSources(rec)
	f.Skills = mergeSkills(sources...)

	entries := collectWorkEntries(rec)
	f.Experience = summarizeExperience(entries)
	f.Titles = collectTitles(entries)
	f.Education = collectEducation(rec)

	if f.Location == "" && rec.Profile != nil {
		f.Location = strings.TrimSpace(rec.Profile.Location)
	}

	return f
}

func skillSources(rec candidate.Record) [][]candidate.Skill {
	sources := [][]candidate.Skill{rec.Skills}
	if rec.Profile != nil {
		sources = append(sources, rec.Profile.Skills)
	}
	if rec.Resume != nil {
		sources = append(sources, rec.Resume.Skills)
	}
	return sources
}

// mergeSkills deduplicates skills across sources by case-insensitive name,
// keeping the highest proficiency observed. First-seen order is preserved
// so repeated extraction is stable.
func mergeSkills(sources ...[]candidate.Skill) []SkillFeature {
	merged := make([]SkillFeature, 0)
	index := make(map[string]int)

	for _, src := range sources {
		for _, s := range src {
			name := strings.TrimSpace(s.Name)
			if name == "" {
				continue
			}
			prof := clampInt(s.Proficiency, minProficiency, maxProficiency)
			key := strings.ToLower(name)
			if i, ok := index[key]; ok {
				if prof > merged[i].Proficiency {
					merged[i].Proficiency = prof
				}
				continue
			}
			index[key] = len(merged)
			merged = append(merged, SkillFeature{Name: name, Proficiency: prof})
		}
	}

	return merged
}

// collectWorkEntries gathers work history from the profile and the resume
// parse, deduplicated by (company, title), ordered most recent first.
// Entries without a start date sort last and contribute zero months.
func collectWorkEntries(rec candidate.Record) []candidate.WorkEntry {
	raw := make([]candidate.WorkEntry, 0)
	if rec.Profile != nil {
		raw = append(raw, rec.Profile.Experience...)
	}
	if rec.Resume != nil {
		raw = append(raw, rec.Resume.Experience...)
	}

	seen := make(map[string]bool, len(raw))
	entries := make([]candidate.WorkEntry, 0, len(raw))
	for _, e := range raw {
		key := strings.ToLower(strings.TrimSpace(e.Company)) + "|" + strings.ToLower(strings.TrimSpace(e.Title))
		if key == "|" || seen[key] {
			continue
		}
		seen[key] = true
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		si, sj := entries[i].StartDate, entries[j].StartDate
		if si == nil {
			return false
		}
		if sj == nil {
			return true
		}
		return si.After(*sj)
	})

	return entries
}

func summarizeExperience(entries []candidate.WorkEntry) ExperienceSummary {
	sum := ExperienceSummary{Entries: make([]ExperienceEntry, 0, len(entries))}

	totalMonths := 0
	for _, e := range entries {
		months := entryMonths(e)
		totalMonths += months
		sum.Entries = append(sum.Entries, ExperienceEntry{
			Company:        strings.TrimSpace(e.Company),
			Title:          strings.TrimSpace(e.Title),
			Description:    strings.TrimSpace(e.Description),
			DurationMonths: months,
		})
	}

	sum.TotalYears = totalMonths / 12
	sum.TotalMonths = totalMonths % 12
	return sum
}

// entryMonths returns max(0, monthsBetween(start, end-or-now)). Entries
// with no start date contribute zero months but still appear in the
// entries listing.
func entryMonths(e candidate.WorkEntry) int {
	if e.StartDate == nil {
		return 0
	}
	end := time.Now()
	if e.EndDate != nil {
		end = *e.EndDate
	}
	return monthsBetween(*e.StartDate, end)
}

func monthsBetween(start, end time.Time) int {
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if end.Day() < start.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// collectTitles lists job titles most-recent-first, deduplicated
// case-insensitively. The casing of the most recent occurrence wins.
func collectTitles(entries []candidate.WorkEntry) []string {
	titles := make([]string, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		title := strings.TrimSpace(e.Title)
		if title == "" {
			continue
		}
		key := strings.ToLower(title)
		if seen[key] {
			continue
		}
		seen[key] = true
		titles = append(titles, title)
	}
	return titles
}

func collectEducation(rec candidate.Record) []EducationFeature {
	raw := make([]candidate.EducationEntry, 0)
	if rec.Profile != nil {
		raw = append(raw, rec.Profile.Education...)
	}
	if rec.Resume != nil {
		raw = append(raw, rec.Resume.Education...)
	}

	seen := make(map[string]bool, len(raw))
	edu := make([]EducationFeature, 0, len(raw))
	for _, e := range raw {
		degree := strings.TrimSpace(e.Degree)
		institution := strings.TrimSpace(e.Institution)
		if degree == "" && institution == "" {
			continue
		}
		key := strings.ToLower(degree) + "|" + strings.ToLower(institution)
		if seen[key] {
			continue
		}
		seen[key] = true
		edu = append(edu, EducationFeature{Degree: degree, Institution: institution, Year: e.Year})
	}
	return edu
}

// TotalYearsFloat is the candidate's total experience in fractional years,
// used for the linear below-minimum experience scaling.
func (s ExperienceSummary) TotalYearsFloat() float64 {
	return float64(s.TotalYears) + float64(s.TotalMonths)/12.0
}

// TextBlob flattens the candidate into one lowercase string for free-text
// relevance matching: name, titles, skills, bio and experience
// descriptions.
func (f Features) TextBlob() string {
	var b strings.Builder
	write := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		b.WriteString(strings.ToLower(s))
		b.WriteByte(' ')
	}

	write(f.Name)
	for _, t := range f.Titles {
		write(t)
	}
	for _, s := range f.Skills {
		write(s.Name)
	}
	write(f.Bio)
	for _, e := range f.Experience.Entries {
		write(e.Company)
		write(e.Title)
		write(e.Description)
	}
	for _, e := range f.Education {
		write(e.Degree)
		write(e.Institution)
	}
	return b.String()
}

func clampInt(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
