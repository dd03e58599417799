package anchor

import (
	"sort"

	"github.com/YanFonsecaz/SiteAI/internal/model"
)

const (
	// Blend weights: the model's relevance judgment dominates, snippet
	// readability nudges.
	scoreWeight   = 0.8
	qualityWeight = 0.2

	// Ideal excerpt length band in characters.
	idealMinLength = 40
	idealMaxLength = 160

	// decayRange is how many characters past the band it takes for
	// quality to reach zero.
	decayRange = 200
)

// Rank blends each opportunity's model score with a snippet-quality
// measure and sorts descending. The sort is stable: equal blended
// scores keep their prior relative order, so ranking is deterministic.
func Rank(opps []model.AnchorOpportunity) []model.AnchorOpportunity {
	ranked := make([]model.AnchorOpportunity, len(opps))
	copy(ranked, opps)

	for i := range ranked {
		ranked[i].Score = scoreWeight*ranked[i].Score + qualityWeight*snippetQuality(ranked[i].Excerpt)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// snippetQuality scores excerpt readability by length: 1.0 inside the
// ideal band, linear partial credit below it, bounded decay above it,
// floored at zero.
func snippetQuality(excerpt string) float64 {
	n := len(excerpt)
	switch {
	case n == 0:
		return 0
	case n >= idealMinLength && n <= idealMaxLength:
		return 1
	case n < idealMinLength:
		return float64(n) / idealMinLength
	default:
		q := 1 - float64(n-idealMaxLength)/decayRange
		if q < 0 {
			return 0
		}
		return q
	}
}
