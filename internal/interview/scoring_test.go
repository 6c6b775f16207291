package interview

import (
	"math/rand"
	"testing"
)

type fixedRandom int

func (f fixedRandom) Intn(n int) int {
	if int(f) >= n {
		return n - 1
	}
	return int(f)
}

func TestComputeScoreBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for total := 1; total <= 6; total++ {
		for answered := 0; answered <= total; answered++ {
			for i := 0; i < 50; i++ {
				s := ComputeScore(answered, total, rng)
				if s.Overall < 0 || s.Overall > 98 {
					t.Fatalf("overall %d out of range for %d/%d", s.Overall, answered, total)
				}
				for _, sub := range []int{s.Technical, s.Communication, s.ProblemSolving, s.CultureFit} {
					if sub < 0 || sub > 100 {
						t.Fatalf("sub-score %d out of range", sub)
					}
					if sub < s.Overall-5 || sub > s.Overall+5 {
						t.Fatalf("sub-score %d too far from overall %d", sub, s.Overall)
					}
				}
			}
		}
	}
}

func TestComputeScoreBaseIsClamped(t *testing.T) {
	// Intn(16) -> 0 yields the lowest jitter of -5.
	low := ComputeScore(0, 5, fixedRandom(0))
	if low.Overall != 55 {
		t.Fatalf("expected floor of 60-5, got %d", low.Overall)
	}

	// Intn(16) -> 15 yields +10 on a base capped at 95, then the 98 cap applies.
	high := ComputeScore(5, 5, fixedRandom(15))
	if high.Overall != 98 {
		t.Fatalf("expected cap of 98, got %d", high.Overall)
	}
	if high.Technical != 100 {
		t.Fatalf("expected sub-score clamp at 100, got %d", high.Technical)
	}
}

func TestComputeScoreZeroTotal(t *testing.T) {
	s := ComputeScore(0, 0, fixedRandom(5))
	if s.Overall != 60 {
		t.Fatalf("expected base 60 with zero jitter, got %d", s.Overall)
	}
}
