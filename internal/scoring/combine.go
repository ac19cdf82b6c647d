package scoring

// MatchResult is the compatibility score with its per-category sub-scores.
type MatchResult struct {
	Score      int              `json:"compatibility_score"`
	Categories map[Category]int `json:"categories"`
}

// Combine weights the sub-scores into a single 0-100 score. Missing categories
// count as zero.
func Combine(scores map[Category]int, w Weights) int {
	total := 0.0
	for _, c := range Categories {
		total += float64(clamp(scores[c])) * float64(w.Of(c)) / 100
	}
	return clamp(int(total))
}

// MaxRecommendations caps the advice list whatever the tables ask for.
const MaxRecommendations = 5

// Recommend returns the advice whose threshold the matching sub-score falls
// under, in table order, capped at limit entries (and never above
// MaxRecommendations).
func Recommend(scores map[Category]int, advice []Advice, limit int) []string {
	if limit <= 0 || limit > MaxRecommendations {
		limit = MaxRecommendations
	}

	out := make([]string, 0, len(advice))
	for _, a := range advice {
		if len(out) >= limit {
			break
		}
		score, ok := scores[a.Category]
		if !ok {
			continue
		}
		if score < a.Below {
			out = append(out, a.Message)
		}
	}
	return out
}
