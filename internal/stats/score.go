package stats

// PointStrategy turns attempt metrics into points.
type PointStrategy interface {
	Points(correctChars int, wpm, accuracy float64) int
}

// DefaultPointStrategy rewards correct characters, scaled up by speed and down by accuracy.
type DefaultPointStrategy struct {
	BasePointsPerChar float64
	MinWPM            float64
	AccuracyThreshold float64
}

// NewDefaultStrategy returns the standard scoring parameters.
func NewDefaultStrategy() DefaultPointStrategy {
	return DefaultPointStrategy{
		BasePointsPerChar: 1.0,
		MinWPM:            10.0,
		AccuracyThreshold: 80.0,
	}
}

// Points returns 0 for attempts below the accuracy threshold. Attempts slower than MinWPM
// also score 0.
func (s DefaultPointStrategy) Points(correctChars int, wpm, accuracy float64) int {
	if accuracy < s.AccuracyThreshold || wpm < s.MinWPM {
		return 0
	}
	base := float64(correctChars) * s.BasePointsPerChar
	speed := 1.0 + wpm/100.0
	acc := (accuracy / 100.0) * (accuracy / 100.0)
	return int(base * speed * acc)
}

// Tier is a rank earned by accumulating points.
type Tier string

const (
	TierNovice     Tier = "Novice"
	TierApprentice Tier = "Apprentice"
	TierCoder      Tier = "Coder"
	TierHacker     Tier = "Hacker"
	TierGuru       Tier = "Guru"
)

// TierFor returns the tier reached with the given total points.
func TierFor(totalPoints int) Tier {
	switch {
	case totalPoints >= 100000:
		return TierGuru
	case totalPoints >= 50000:
		return TierHacker
	case totalPoints >= 10000:
		return TierCoder
	case totalPoints >= 1000:
		return TierApprentice
	default:
		return TierNovice
	}
}

// NextTier returns the following tier and the points needed to reach it. The top tier
// returns itself and 0.
func NextTier(totalPoints int) (Tier, int) {
	thresholds := []struct {
		tier Tier
		min  int
	}{
		{TierApprentice, 1000},
		{TierCoder, 10000},
		{TierHacker, 50000},
		{TierGuru, 100000},
	}
	for _, th := range thresholds {
		if totalPoints < th.min {
			return th.tier, th.min - totalPoints
		}
	}
	return TierGuru, 0
}
