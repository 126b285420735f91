package scoring

import (
	"math"
	"strings"
	"testing"

	"talentmatch/internal/domain/job"

	"github.com/google/uuid"
)

func featuresWith(skills []SkillFeature, years int) Features {
	return Features{
		CandidateID: uuid.New(),
		Skills:      skills,
		Experience:  ExperienceSummary{TotalYears: years},
	}
}

func TestScoreDeterministic_JobScenario(t *testing.T) {
	// Candidate: React 8, JavaScript 9, 3 years. Job: React + Node
	// required, 2 years minimum, nothing else supplied.
	f := featuresWith([]SkillFeature{{Name: "React", Proficiency: 8}, {Name: "JavaScript", Proficiency: 9}}, 3)
	target := JobTarget{
		RequiredSkills: []job.RequiredSkill{
			{Name: "React", IsRequired: true},
			{Name: "Node", IsRequired: true},
		},
		ExperienceMin: 2,
	}

	res := ScoreDeterministic(f, target)

	if res.Breakdown.Skills != 20 {
		t.Fatalf("expected skills factor 20, got %v", res.Breakdown.Skills)
	}
	if res.Breakdown.Experience != 30 {
		t.Fatalf("expected experience factor 30, got %v", res.Breakdown.Experience)
	}
	if res.Breakdown.Education != 0 || res.Breakdown.Relevance != 0 {
		t.Fatalf("expected zero education and relevance, got %+v", res.Breakdown)
	}
	if res.Breakdown.Overall != 50 {
		t.Fatalf("expected deterministic overall 50, got %d", res.Breakdown.Overall)
	}
}

func TestScoreDeterministic_EmptyCandidateScoresZeroFactors(t *testing.T) {
	f := featuresWith(nil, 0)
	target := JobTarget{
		RequiredSkills: []job.RequiredSkill{{Name: "Go", IsRequired: true}},
		ExperienceMin:  5,
	}

	res := ScoreDeterministic(f, target)

	if res.Breakdown.Skills != 0 {
		t.Fatalf("expected zero skills factor, got %v", res.Breakdown.Skills)
	}
	if res.Breakdown.Experience != 0 {
		t.Fatalf("expected zero experience factor, got %v", res.Breakdown.Experience)
	}
	if res.Breakdown.Overall != 0 {
		t.Fatalf("expected overall 0, got %d", res.Breakdown.Overall)
	}
}

func TestScoreDeterministic_NoRequiredSkillsContributesZero(t *testing.T) {
	f := featuresWith([]SkillFeature{{Name: "Go", Proficiency: 9}}, 10)
	target := JobTarget{RequiredSkills: nil}

	res := ScoreDeterministic(f, target)
	if res.Breakdown.Skills != 0 {
		t.Fatalf("unconstrained skills must contribute 0, not the full weight; got %v", res.Breakdown.Skills)
	}
}

func TestScoreDeterministic_ZeroMinimumExperienceGrantsFullWeight(t *testing.T) {
	f := featuresWith(nil, 0)
	target := JobTarget{ExperienceMin: 0}

	res := ScoreDeterministic(f, target)
	if res.Breakdown.Experience != 30 {
		t.Fatalf("zero minimum must grant full experience weight, got %v", res.Breakdown.Experience)
	}
}

func TestScoreDeterministic_ExperienceScalesLinearlyBelowMinimum(t *testing.T) {
	f := featuresWith(nil, 2)
	target := JobTarget{ExperienceMin: 4}

	res := ScoreDeterministic(f, target)
	if math.Abs(res.Breakdown.Experience-15) > 1e-9 {
		t.Fatalf("expected 2/4 of weight 30 = 15, got %v", res.Breakdown.Experience)
	}
}

func TestScoreDeterministic_PreferredSkillBonusIsCapped(t *testing.T) {
	f := featuresWith([]SkillFeature{{Name: "Go", Proficiency: 9}, {Name: "Docker", Proficiency: 7}, {Name: "AWS", Proficiency: 6}}, 0)
	target := JobTarget{
		RequiredSkills:  []job.RequiredSkill{{Name: "Go", IsRequired: true}},
		PreferredSkills: []string{"Docker", "AWS"},
	}

	res := ScoreDeterministic(f, target)
	// All required and all preferred matched: 40 + 4, never more.
	if res.Breakdown.Skills != 44 {
		t.Fatalf("expected capped skills factor 44, got %v", res.Breakdown.Skills)
	}
}

func TestScoreDeterministic_SubstringMatchBothDirections(t *testing.T) {
	f := featuresWith([]SkillFeature{{Name: "PostgreSQL", Proficiency: 7}, {Name: "TS", Proficiency: 6}}, 0)
	target := JobTarget{
		RequiredSkills: []job.RequiredSkill{
			{Name: "postgres", IsRequired: true},  // required contained in candidate skill
			{Name: "TypeScript", IsRequired: true}, // candidate skill contained in required
		},
	}

	res := ScoreDeterministic(f, target)
	if res.Breakdown.Skills != 40 {
		t.Fatalf("expected both substring directions to match, got %v", res.Breakdown.Skills)
	}
}

func TestScoreDeterministic_CriteriaRelevanceTokens(t *testing.T) {
	f := Features{
		CandidateID: uuid.New(),
		Name:        "Ada",
		Bio:         "Backend engineer working with Kubernetes and payments infrastructure",
		Experience:  ExperienceSummary{TotalYears: 1},
	}
	target := CriteriaTarget{
		// Tokens of length <= 2 ("a", "in") are discarded; of the rest,
		// "kubernetes" and "payments" match, "terraform" does not.
		SearchTerm: "a kubernetes payments terraform in",
	}

	res := ScoreDeterministic(f, target)
	want := 2.0 / 3.0 * 20.0
	if math.Abs(res.Breakdown.Relevance-want) > 1e-9 {
		t.Fatalf("expected relevance %v, got %v", want, res.Breakdown.Relevance)
	}
}

func TestScoreDeterministic_CriteriaLocationRemoteSpecialCase(t *testing.T) {
	f := Features{CandidateID: uuid.New(), RemotePreferred: true}
	target := CriteriaTarget{Location: "Remote"}

	res := ScoreDeterministic(f, target)
	if res.Breakdown.Location != 10 {
		t.Fatalf("remote target must match remote-preferring candidate, got %v", res.Breakdown.Location)
	}
	if !containsString(res.MatchedCriteria, "Location: Remote") {
		t.Fatalf("expected matched location criterion, got %v", res.MatchedCriteria)
	}
}

func TestScoreDeterministic_CriteriaWeightsSumToHundred(t *testing.T) {
	f := Features{
		CandidateID:     uuid.New(),
		Skills:          []SkillFeature{{Name: "Go", Proficiency: 9}},
		Experience:      ExperienceSummary{TotalYears: 5},
		Titles:          []string{"Backend Engineer"},
		Location:        "Berlin",
		RemotePreferred: false,
		Bio:             "golang services",
	}
	target := CriteriaTarget{
		Skills:        []string{"Go"},
		MinExperience: 3,
		JobTitle:      "Backend Engineer",
		SearchTerm:    "golang services",
		Location:      "Berlin",
	}

	res := ScoreDeterministic(f, target)
	if res.Breakdown.Overall != 100 {
		t.Fatalf("full match against every criteria factor must score 100, got %d (%+v)", res.Breakdown.Overall, res.Breakdown)
	}
}

func TestScoreDeterministic_MatchedCriteriaIsPureAndOrdered(t *testing.T) {
	f := featuresWith([]SkillFeature{{Name: "React", Proficiency: 8}}, 3)
	target := JobTarget{
		RequiredSkills: []job.RequiredSkill{{Name: "React", IsRequired: true}},
		ExperienceMin:  2,
	}

	first := ScoreDeterministic(f, target)
	second := ScoreDeterministic(f, target)

	if len(first.MatchedCriteria) != 2 {
		t.Fatalf("expected skill + experience criteria, got %v", first.MatchedCriteria)
	}
	if strings.Join(first.MatchedCriteria, "|") != strings.Join(second.MatchedCriteria, "|") {
		t.Fatalf("matched criteria must be deterministic: %v vs %v", first.MatchedCriteria, second.MatchedCriteria)
	}
}

func containsString(xs []string, want string) bool {
	for _, x := range xs {
		if x == want {
			return true
		}
	}
	return false
}
