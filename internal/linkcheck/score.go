package linkcheck

// PublishThreshold is the minimum score for a link to be shown publicly.
const PublishThreshold = 70

// Signals are the independent page-level inputs to scoring.
type Signals struct {
	HasTitle     bool
	HasCanonical bool
	TagOverlap   bool
	Expired      bool
}

// Weights holds the scoring constants. The exact values are tuning knobs, not
// load-bearing; the publishable threshold behavior is what matters.
type Weights struct {
	BaseOK         int
	BaseRedirect   int
	TitleBonus     int
	CanonicalBonus int
	OverlapBonus   int
	ExpiredPenalty int
}

func DefaultWeights() Weights {
	return Weights{
		BaseOK:         60,
		BaseRedirect:   50,
		TitleBonus:     10,
		CanonicalBonus: 10,
		OverlapBonus:   15,
		ExpiredPenalty: 40,
	}
}

// Score computes the health score for a classified status. Error classes are
// pinned at 0 and never raised by page signals. The result is clamped to
// [0,100].
func (w Weights) Score(status Status, sig Signals) int {
	var score int
	switch status {
	case StatusOK:
		score = w.BaseOK
	case StatusRedirect:
		score = w.BaseRedirect
	default:
		return 0
	}

	if sig.HasTitle {
		score += w.TitleBonus
	}
	if sig.HasCanonical {
		score += w.CanonicalBonus
	}
	if sig.TagOverlap {
		score += w.OverlapBonus
	}
	if sig.Expired {
		score -= w.ExpiredPenalty
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Publishable is the derived gate: healthy enough to list, independent of
// editorial review.
func Publishable(score int, status Status) bool {
	return score >= PublishThreshold && (status == StatusOK || status == StatusRedirect)
}
