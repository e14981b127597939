// Package matching считает совместимость фрилансеров и проектов.
// Все функции чистые: на вход данные, на выход баллы 0..100.
package matching

import (
	"github.com/google/uuid"

	"github.com/ignatzorin/fairlance-backend/internal/domain/valueobject"
)

const (
	TopFreelancers = 10
	TopProjects    = 10
	TopSimilar     = 5
)

// Weights веса компонент итогового балла. Сумма не обязана быть равна 1.
type Weights struct {
	SkillMatch        float64 `json:"skill_match"`
	Experience        float64 `json:"experience"`
	CompletedProjects float64 `json:"completed_projects"`
	NewcomerBoost     float64 `json:"newcomer_boost"`
}

var (
	BaseWeights        = Weights{SkillMatch: 0.6, Experience: 0.2, CompletedProjects: 0.1, NewcomerBoost: 0.1}
	SkillsFirstWeights = Weights{SkillMatch: 0.8, Experience: 0.1, CompletedProjects: 0.05, NewcomerBoost: 0.05}
)

// Fairness флаги проекта, влияющие на веса.
type Fairness struct {
	SkillsFirstMatching bool
	NewcomerBoost       bool
}

// WeightsFor выбирает таблицу весов. Буст новичка применяется поверх выбранной ветки.
func WeightsFor(f Fairness, isNewcomer bool) Weights {
	w := BaseWeights
	if f.SkillsFirstMatching {
		w = SkillsFirstWeights
	}
	if f.NewcomerBoost && isNewcomer {
		w.NewcomerBoost = 0.2
		w.Experience = 0.1
	}
	return w
}

// Candidate данные профиля, нужные для подсчёта.
type Candidate struct {
	ID                uuid.UUID
	Skills            []uuid.UUID
	Experience        valueobject.ExperienceLevel
	CompletedProjects int
	IsNewcomer        bool
}

type Breakdown struct {
	SkillMatch           float64  `json:"skill_match_percentage"`
	MatchedSkills        int      `json:"skill_match_count"`
	RequiredSkills       int      `json:"total_required_skills"`
	Experience           float64  `json:"experience_score"`
	CompletedProjects    float64  `json:"completed_projects_score"`
	Newcomer             float64  `json:"newcomer_score"`
	Weights              *Weights `json:"weights,omitempty"`
	NewcomerBoostApplied bool     `json:"newcomer_boost_applied"`
}

// Result балл одного кандидата. ID это фрилансер или проект, смотря по направлению.
type Result struct {
	ID        uuid.UUID `json:"id"`
	Score     float64   `json:"score"`
	Breakdown Breakdown `json:"breakdown"`
}

// ScoreFreelancer оценивает фрилансера для проекта.
func ScoreFreelancer(required []uuid.UUID, c Candidate, f Fairness) Result {
	skill, matched, total := SkillMatch(required, c.Skills)
	w := WeightsFor(f, c.IsNewcomer)

	exp := ExperienceScore(c.Experience)
	completed := CompletedProjectsScore(c.CompletedProjects)
	newcomer := 0.0
	if c.IsNewcomer {
		newcomer = 100
	}

	score := skill*w.SkillMatch +
		exp*w.Experience +
		completed*w.CompletedProjects +
		newcomer*w.NewcomerBoost

	return Result{
		ID:    c.ID,
		Score: score,
		Breakdown: Breakdown{
			SkillMatch:           skill,
			MatchedSkills:        matched,
			RequiredSkills:       total,
			Experience:           exp,
			CompletedProjects:    completed,
			Newcomer:             newcomer,
			Weights:              &w,
			NewcomerBoostApplied: c.IsNewcomer && f.NewcomerBoost,
		},
	}
}

// ScoreProject оценивает проект для фрилансера только по навыкам.
func ScoreProject(projectID uuid.UUID, required, skills []uuid.UUID, f Fairness, isNewcomer bool) Result {
	skill, matched, total := SkillMatch(required, skills)
	return Result{
		ID:    projectID,
		Score: skill,
		Breakdown: Breakdown{
			SkillMatch:           skill,
			MatchedSkills:        matched,
			RequiredSkills:       total,
			NewcomerBoostApplied: isNewcomer && f.NewcomerBoost,
		},
	}
}

// SkillMatch доля требуемых навыков, которые есть у кандидата, в процентах.
// Требования рассматриваются как множество.
func SkillMatch(required, skills []uuid.UUID) (score float64, matched, total int) {
	req := toSet(required)
	total = len(req)
	if total == 0 || len(skills) == 0 {
		return 0, 0, total
	}
	have := toSet(skills)
	for id := range req {
		if _, ok := have[id]; ok {
			matched++
		}
	}
	return float64(matched) / float64(total) * 100, matched, total
}

func ExperienceScore(level valueobject.ExperienceLevel) float64 {
	switch level {
	case valueobject.ExperienceBeginner:
		return 33
	case valueobject.ExperienceIntermediate:
		return 66
	case valueobject.ExperienceExpert:
		return 100
	}
	return 0
}

func CompletedProjectsScore(n int) float64 {
	if n <= 0 {
		return 0
	}
	if n*5 > 100 {
		return 100
	}
	return float64(n * 5)
}

func toSet(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
