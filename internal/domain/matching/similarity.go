package matching

import (
	"github.com/google/uuid"

	"github.com/ignatzorin/fairlance-backend/internal/domain/valueobject"
)

// Similarity = jaccard(навыки)*0.7 + близость уровня*0.3.
func Similarity(target, other Candidate) Result {
	shared, jaccard := skillJaccard(target.Skills, other.Skills)
	exp := ExperienceBand(target.Experience, other.Experience)

	return Result{
		ID:    other.ID,
		Score: jaccard*0.7 + exp*0.3,
		Breakdown: Breakdown{
			SkillMatch:    jaccard,
			MatchedSkills: shared,
			Experience:    exp,
		},
	}
}

// ExperienceBand 100 за одинаковый уровень, 50 за соседний, иначе 0.
func ExperienceBand(a, b valueobject.ExperienceLevel) float64 {
	if a == b {
		return 100
	}
	ra, rb := a.Rank(), b.Rank()
	if ra == 0 || rb == 0 {
		return 0
	}
	if ra-rb == 1 || rb-ra == 1 {
		return 50
	}
	return 0
}

func skillJaccard(a, b []uuid.UUID) (shared int, score float64) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0
	}
	setA, setB := toSet(a), toSet(b)
	union := len(setA)
	for id := range setB {
		if _, ok := setA[id]; ok {
			shared++
		} else {
			union++
		}
	}
	return shared, float64(shared) / float64(union) * 100
}
