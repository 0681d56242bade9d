package ranking

// NeutralScore replaces every score of a set that has no variance.
const NeutralScore = 0.5

// MinMax rescales scores linearly onto [0,1]. When all scores are equal the
// set carries no ranking information and every element becomes NeutralScore.
// The input is not modified.
func MinMax(scores []float64) []float64 {
	out := make([]float64, len(scores))
	if len(scores) == 0 {
		return out
	}

	lo, hi := scores[0], scores[0]
	for _, s := range scores[1:] {
		lo = min(lo, s)
		hi = max(hi, s)
	}

	if hi <= lo {
		for i := range out {
			out[i] = NeutralScore
		}
		return out
	}

	span := hi - lo
	for i, s := range scores {
		out[i] = (s - lo) / span
	}
	return out
}
