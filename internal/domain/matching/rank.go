package matching

import "sort"

// Rank сортирует по убыванию балла и обрезает до limit.
// Сортировка стабильная: при равных баллах сохраняется входной порядок.
func Rank(results []Result, limit int) []Result {
	ranked := make([]Result, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
