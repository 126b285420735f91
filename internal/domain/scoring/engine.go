package scoring

import (
	"fmt"
	"math"
	"strings"
)

// Breakdown holds the per-factor sub-scores, each already scaled by its
// weight. Overall is the rounded deterministic subtotal before any
// qualitative blending; AIEnhancement is filled in by fusion.
type Breakdown struct {
	Skills        float64 `json:"skills"`
	Experience    float64 `json:"experience"`
	Education     float64 `json:"education"`
	Relevance     float64 `json:"relevance"`
	Location      float64 `json:"location"`
	AIEnhancement float64 `json:"ai_enhancement"`
	Overall       int     `json:"overall"`
}

// DeterministicResult is the output of the rule-based pass. MatchedCriteria
// is computed here, independently of the qualitative path, so the
// "why this candidate matched" list survives full degradation.
type DeterministicResult struct {
	Breakdown       Breakdown
	MatchedCriteria []string
}

// ScoreDeterministic computes the weighted rule-based sub-scores of a
// candidate against a target. It is pure: same features and target always
// produce the same result.
func ScoreDeterministic(f Features, t Target) DeterministicResult {
	switch target := t.(type) {
	case JobTarget:
		return scoreAgainstJob(f, target)
	case *JobTarget:
		return scoreAgainstJob(f, *target)
	case CriteriaTarget:
		return scoreAgainstCriteria(f, target)
	case *CriteriaTarget:
		return scoreAgainstCriteria(f, *target)
	default:
		return DeterministicResult{MatchedCriteria: []string{}}
	}
}

func scoreAgainstJob(f Features, t JobTarget) DeterministicResult {
	w := t.Weights()
	matched := make([]string, 0)

	required := make([]string, 0, len(t.RequiredSkills))
	for _, rs := range t.RequiredSkills {
		if strings.TrimSpace(rs.Name) != "" {
			required = append(required, rs.Name)
		}
	}

	skillScore, matchedSkills := skillFactor(f.Skills, required, w.Skills)
	for _, name := range matchedSkills {
		matched = append(matched, "Skill: "+name)
	}

	if len(t.PreferredSkills) > 0 {
		bonus, matchedPreferred := skillFactor(f.Skills, t.PreferredSkills, w.SkillBonus)
		skillScore += bonus
		if skillScore > w.Skills+w.SkillBonus {
			skillScore = w.Skills + w.SkillBonus
		}
		for _, name := range matchedPreferred {
			matched = append(matched, "Preferred skill: "+name)
		}
	}

	expScore := experienceFactor(f.Experience.TotalYearsFloat(), t.ExperienceMin, w.Experience)
	if t.ExperienceMin > 0 && f.Experience.TotalYearsFloat() >= float64(t.ExperienceMin) {
		matched = append(matched, fmt.Sprintf("Experience: %d+ years", t.ExperienceMin))
	}

	eduScore, matchedEdu := educationFactor(f.Education, t.EducationRequirements, w.Education)
	for _, req := range matchedEdu {
		matched = append(matched, "Education: "+req)
	}

	relScore := relevanceFactor(f.TextBlob(), strings.Join(t.Responsibilities, " "), w.Relevance)

	b := Breakdown{
		Skills:     skillScore,
		Experience: expScore,
		Education:  eduScore,
		Relevance:  relScore,
		Location:   0,
	}
	b.Overall = clampScore(int(math.Round(b.Skills + b.Experience + b.Education + b.Relevance + b.Location)))

	return DeterministicResult{Breakdown: b, MatchedCriteria: matched}
}

func scoreAgainstCriteria(f Features, t CriteriaTarget) DeterministicResult {
	w := t.Weights()
	matched := make([]string, 0)

	skillScore, matchedSkills := skillFactor(f.Skills, t.Skills, w.Skills)
	for _, name := range matchedSkills {
		matched = append(matched, "Skill: "+name)
	}

	expScore := experienceFactor(f.Experience.TotalYearsFloat(), t.MinExperience, w.Experience)
	if t.MinExperience > 0 && f.Experience.TotalYearsFloat() >= float64(t.MinExperience) {
		matched = append(matched, fmt.Sprintf("Experience: %d+ years", t.MinExperience))
	}

	eduScore := 0.0
	if title := strings.TrimSpace(t.JobTitle); title != "" {
		for _, held := range f.Titles {
			if looseMatch(held, title) {
				eduScore = w.Education
				matched = append(matched, "Title: "+title)
				break
			}
		}
	}

	blob := f.TextBlob()

	relScore := relevanceFactor(blob, t.SearchTerm, w.Relevance)

	locScore := 0.0
	if loc := strings.TrimSpace(t.Location); loc != "" {
		if locationMatches(f, loc) {
			locScore = w.Location
			matched = append(matched, "Location: "+loc)
		}
	}

	if industry := strings.TrimSpace(t.Industry); industry != "" {
		if strings.Contains(blob, strings.ToLower(industry)) {
			matched = append(matched, "Industry: "+industry)
		}
	}

	b := Breakdown{
		Skills:     skillScore,
		Experience: expScore,
		Education:  eduScore,
		Relevance:  relScore,
		Location:   locScore,
	}
	b.Overall = clampScore(int(math.Round(b.Skills + b.Experience + b.Education + b.Relevance + b.Location)))

	return DeterministicResult{Breakdown: b, MatchedCriteria: matched}
}

// skillFactor scores (matched/required)*weight. An empty requirement list
// contributes zero, never the full weight. Returns the matched requirement
// names for the matched-criteria listing.
func skillFactor(skills []SkillFeature, required []string, weight float64) (float64, []string) {
	wanted := make([]string, 0, len(required))
	for _, r := range required {
		if strings.TrimSpace(r) != "" {
			wanted = append(wanted, r)
		}
	}
	if len(wanted) == 0 {
		return 0, nil
	}

	matched := make([]string, 0, len(wanted))
	for _, req := range wanted {
		for _, s := range skills {
			if looseMatch(s.Name, req) {
				matched = append(matched, strings.TrimSpace(req))
				break
			}
		}
	}

	return float64(len(matched)) / float64(len(wanted)) * weight, matched
}

// looseMatch reports whether either string contains the other,
// case-insensitively. Deliberately tolerant of naming variants; it also
// over-matches related names ("Java" vs "JavaScript"), which mirrors the
// production matching behavior.
func looseMatch(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// experienceFactor grants the full weight at or above the minimum and
// scales linearly below it. A zero minimum always grants the full weight.
func experienceFactor(candidateYears float64, minYears int, weight float64) float64 {
	if minYears <= 0 {
		return weight
	}
	if candidateYears >= float64(minYears) {
		return weight
	}
	if candidateYears <= 0 {
		return 0
	}
	return candidateYears / float64(minYears) * weight
}

func educationFactor(edu []EducationFeature, requirements []string, weight float64) (float64, []string) {
	wanted := make([]string, 0, len(requirements))
	for _, r := range requirements {
		if strings.TrimSpace(r) != "" {
			wanted = append(wanted, r)
		}
	}
	if len(wanted) == 0 {
		return 0, nil
	}

	matched := make([]string, 0, len(wanted))
	for _, req := range wanted {
		for _, e := range edu {
			if looseMatch(e.Degree, req) || looseMatch(e.Institution, req) {
				matched = append(matched, strings.TrimSpace(req))
				break
			}
		}
	}

	return float64(len(matched)) / float64(len(wanted)) * weight, matched
}

// relevanceFactor tokenizes the term on whitespace, discards tokens of
// length <= 2, and scores the fraction of tokens present as substrings of
// the flattened candidate blob.
func relevanceFactor(blob, term string, weight float64) float64 {
	tokens := relevanceTokens(term)
	if len(tokens) == 0 {
		return 0
	}

	found := 0
	for _, tok := range tokens {
		if strings.Contains(blob, tok) {
			found++
		}
	}

	return float64(found) / float64(len(tokens)) * weight
}

func relevanceTokens(term string) []string {
	fields := strings.Fields(strings.ToLower(term))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) <= 2 {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// locationMatches applies substring matching between target and candidate
// locations, with a special case: a target of "remote" matches any
// candidate flagged as remote-preferring.
func locationMatches(f Features, target string) bool {
	targetLower := strings.ToLower(strings.TrimSpace(target))
	if targetLower == "" {
		return false
	}
	if f.RemotePreferred && strings.Contains(targetLower, "remote") {
		return true
	}
	return looseMatch(f.Location, target)
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
