package usecase

import (
	"testing"

	"talentmatch/internal/domain/job"
	"talentmatch/internal/domain/scoring"

	"github.com/google/uuid"
)

func TestTargetFingerprint_CriteriaOrderIndependent(t *testing.T) {
	a := scoring.CriteriaTarget{Skills: []string{"Go", "SQL"}, SearchTerm: "backend"}
	b := scoring.CriteriaTarget{Skills: []string{"SQL", "Go"}, SearchTerm: "backend"}

	if TargetFingerprint(a) != TargetFingerprint(b) {
		t.Fatal("differently-ordered skill lists must share a fingerprint")
	}
}

func TestTargetFingerprint_NormalizesCaseAndWhitespace(t *testing.T) {
	a := scoring.CriteriaTarget{Skills: []string{" Go "}, SearchTerm: "Backend  Engineer"}
	b := scoring.CriteriaTarget{Skills: []string{"go"}, SearchTerm: "backend engineer"}

	if TargetFingerprint(a) != TargetFingerprint(b) {
		t.Fatal("case and whitespace variants must share a fingerprint")
	}
}

func TestTargetFingerprint_DistinguishesDifferentCriteria(t *testing.T) {
	a := scoring.CriteriaTarget{Skills: []string{"Go"}}
	b := scoring.CriteriaTarget{Skills: []string{"Rust"}}

	if TargetFingerprint(a) == TargetFingerprint(b) {
		t.Fatal("different criteria must not collide")
	}
}

func TestTargetFingerprint_JobRequiredFlagMatters(t *testing.T) {
	a := scoring.JobTarget{RequiredSkills: []job.RequiredSkill{{Name: "Go", IsRequired: true}}}
	b := scoring.JobTarget{RequiredSkills: []job.RequiredSkill{{Name: "Go", IsRequired: false}}}

	if TargetFingerprint(a) == TargetFingerprint(b) {
		t.Fatal("required flag must be part of the fingerprint")
	}
}

func TestTargetFingerprint_JobSkillOrderIndependent(t *testing.T) {
	a := scoring.JobTarget{RequiredSkills: []job.RequiredSkill{
		{Name: "Go", IsRequired: true},
		{Name: "SQL", IsRequired: false},
	}}
	b := scoring.JobTarget{RequiredSkills: []job.RequiredSkill{
		{Name: "SQL", IsRequired: false},
		{Name: "Go", IsRequired: true},
	}}

	if TargetFingerprint(a) != TargetFingerprint(b) {
		t.Fatal("required-skill ordering must not change the fingerprint")
	}
}

func TestMatchCacheKey_IncludesKindAndCandidate(t *testing.T) {
	candA := uuid.New()
	candB := uuid.New()
	criteria := scoring.CriteriaTarget{Skills: []string{"Go"}}

	if MatchCacheKey(candA, criteria) == MatchCacheKey(candB, criteria) {
		t.Fatal("different candidates must not share a key")
	}

	keyJob := MatchCacheKey(candA, scoring.JobTarget{Title: "x"})
	keyCriteria := MatchCacheKey(candA, criteria)
	if keyJob == keyCriteria {
		t.Fatal("job and criteria keys must be distinct")
	}
}
