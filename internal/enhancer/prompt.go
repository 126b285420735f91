package enhancer

import (
	"fmt"
	"strings"

	"talentmatch/internal/domain/scoring"
)

// Prompt size bounds. Candidate records can be arbitrarily large; the
// textual description sent out stays compact regardless.
const (
	maxListItems  = 10
	maxTextLength = 300
	maxEntryCount = 6
)

func buildSystemInstruction(kind scoring.TargetKind) string {
	var b strings.Builder
	b.WriteString("You are a recruiting analyst. Assess how well a candidate matches the given ")
	if kind == scoring.TargetKindJob {
		b.WriteString("job posting")
	} else {
		b.WriteString("search criteria")
	}
	b.WriteString(". Respond with a single JSON object: ")
	if kind == scoring.TargetKindJob {
		b.WriteString(`{"overallScore": <0-100>, "insights": [..], "strengths": [..], "weaknesses": [..], "suggestions": [..]}`)
	} else {
		b.WriteString(`{"overallScore": <0-100>, "insights": [..], "strengths": [..], "suggestions": [..]}`)
	}
	b.WriteString(". All arrays contain short plain-text strings. Return only JSON.")
	return b.String()
}

func buildPrompt(f scoring.Features, t scoring.Target, deterministicScore int) string {
	var b strings.Builder

	b.WriteString("Candidate:\n")
	if f.Name != "" {
		fmt.Fprintf(&b, "- Name: %s\n", truncate(f.Name, maxTextLength))
	}
	if len(f.Titles) > 0 {
		fmt.Fprintf(&b, "- Titles: %s\n", strings.Join(capList(f.Titles, maxListItems), ", "))
	}
	if len(f.Skills) > 0 {
		skills := make([]string, 0, len(f.Skills))
		for _, s := range capSkills(f.Skills, maxListItems) {
			skills = append(skills, fmt.Sprintf("%s (%d/10)", truncate(s.Name, maxTextLength), s.Proficiency))
		}
		fmt.Fprintf(&b, "- Skills: %s\n", strings.Join(skills, ", "))
	}
	fmt.Fprintf(&b, "- Experience: %d years %d months\n", f.Experience.TotalYears, f.Experience.TotalMonths)
	for i, e := range f.Experience.Entries {
		if i >= maxEntryCount {
			break
		}
		fmt.Fprintf(&b, "  - %s at %s: %s\n", e.Title, e.Company, truncate(e.Description, maxTextLength))
	}
	for _, e := range capEducation(f.Education, maxListItems) {
		fmt.Fprintf(&b, "- Education: %s, %s\n", e.Degree, e.Institution)
	}
	if f.Bio != "" {
		fmt.Fprintf(&b, "- Bio: %s\n", truncate(f.Bio, maxTextLength))
	}

	b.WriteString("\nTarget:\n")
	switch target := t.(type) {
	case scoring.JobTarget:
		writeJobTarget(&b, target)
	case *scoring.JobTarget:
		writeJobTarget(&b, *target)
	case scoring.CriteriaTarget:
		writeCriteriaTarget(&b, target)
	case *scoring.CriteriaTarget:
		writeCriteriaTarget(&b, *target)
	}

	fmt.Fprintf(&b, "\nRule-based match score: %d/100.\n", deterministicScore)
	b.WriteString("Assess the qualitative fit beyond the rule-based score.")

	return b.String()
}

func writeJobTarget(b *strings.Builder, t scoring.JobTarget) {
	if t.Title != "" {
		fmt.Fprintf(b, "- Job title: %s\n", truncate(t.Title, maxTextLength))
	}
	if len(t.RequiredSkills) > 0 {
		names := make([]string, 0, len(t.RequiredSkills))
		for i, rs := range t.RequiredSkills {
			if i >= maxListItems {
				break
			}
			names = append(names, rs.Name)
		}
		fmt.Fprintf(b, "- Required skills: %s\n", strings.Join(names, ", "))
	}
	if len(t.PreferredSkills) > 0 {
		fmt.Fprintf(b, "- Preferred skills: %s\n", strings.Join(capList(t.PreferredSkills, maxListItems), ", "))
	}
	if t.ExperienceMin > 0 {
		fmt.Fprintf(b, "- Minimum experience: %d years\n", t.ExperienceMin)
	}
	if len(t.EducationRequirements) > 0 {
		fmt.Fprintf(b, "- Education: %s\n", strings.Join(capList(t.EducationRequirements, maxListItems), ", "))
	}
	for i, r := range t.Responsibilities {
		if i >= maxListItems {
			break
		}
		fmt.Fprintf(b, "- Responsibility: %s\n", truncate(r, maxTextLength))
	}
}

func writeCriteriaTarget(b *strings.Builder, t scoring.CriteriaTarget) {
	if len(t.Skills) > 0 {
		fmt.Fprintf(b, "- Skills: %s\n", strings.Join(capList(t.Skills, maxListItems), ", "))
	}
	if t.SearchTerm != "" {
		fmt.Fprintf(b, "- Search term: %s\n", truncate(t.SearchTerm, maxTextLength))
	}
	if t.JobTitle != "" {
		fmt.Fprintf(b, "- Job title: %s\n", truncate(t.JobTitle, maxTextLength))
	}
	if t.Industry != "" {
		fmt.Fprintf(b, "- Industry: %s\n", truncate(t.Industry, maxTextLength))
	}
	if t.Location != "" {
		fmt.Fprintf(b, "- Location: %s\n", truncate(t.Location, maxTextLength))
	}
	if t.MinExperience > 0 {
		fmt.Fprintf(b, "- Minimum experience: %d years\n", t.MinExperience)
	}
}

func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

func capList(xs []string, limit int) []string {
	if len(xs) <= limit {
		return xs
	}
	return xs[:limit]
}

func capSkills(xs []scoring.SkillFeature, limit int) []scoring.SkillFeature {
	if len(xs) <= limit {
		return xs
	}
	return xs[:limit]
}

func capEducation(xs []scoring.EducationFeature, limit int) []scoring.EducationFeature {
	if len(xs) <= limit {
		return xs
	}
	return xs[:limit]
}

