package interview

import "math"

// jitter returns a uniform integer in [lo, hi].
func jitter(rng Random, lo, hi int) int {
	return lo + rng.Intn(hi-lo+1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ComputeScore produces the simulated overall score and sub-scores.
// The base score is the completion ratio bounded to [60,95]; the overall score
// adds -5..+10 jitter and is capped at 98. Sub-scores jitter -5..+5 around it.
func ComputeScore(answered, total int, rng Random) Score {
	ratio := 0.0
	if total > 0 {
		ratio = float64(answered) / float64(total)
	}
	base := clamp(ratio*100, 60, 95)
	overall := int(clamp(math.Round(base+float64(jitter(rng, -5, 10))), 0, 98))

	sub := func() int {
		return clampInt(overall+jitter(rng, -5, 5), 0, 100)
	}
	return Score{
		Overall:        overall,
		Technical:      sub(),
		Communication:  sub(),
		ProblemSolving: sub(),
		CultureFit:     sub(),
	}
}
