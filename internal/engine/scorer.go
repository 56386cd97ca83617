package engine

import (
	"sort"

	"github.com/verdant/sommelier/pkg/types"
)

// ScoredStrain pairs a candidate strain with its match score in [0, 100].
type ScoredStrain struct {
	Strain types.Strain
	Score  float64
}

// Scoring constants. The avoid, type-match, and flavor-match adjustments are
// flat single applications regardless of how many tags overlap; stacking them
// per tag is a tunable policy, not current behavior.
const (
	baseScore          = 50.0
	effectWeightStep   = 5.0  // per effect tag, times (weight - 3)
	avoidPenalty       = 30.0 // once, if any effect is in the avoid-set
	typeMatchBonus     = 10.0
	lowTolThreshold    = 20.0 // mean THC above this penalizes low tolerance
	lowTolPenalty      = 15.0
	highTolThreshold   = 18.0 // mean THC below this penalizes high tolerance
	highTolPenalty     = 10.0
	flavorMatchBonus   = 10.0
	ratingBonusPerStar = 10.0 // times (rating - 4)
)

// Score computes a match score for every candidate against the profile and
// returns them sorted descending. The sort is stable, so equal scores keep
// their input (catalog) order. The function is pure: no I/O, no randomness.
func Score(candidates []types.Strain, profile *types.Profile) []ScoredStrain {
	scored := make([]ScoredStrain, len(candidates))
	for i, strain := range candidates {
		scored[i] = ScoredStrain{Strain: strain, Score: scoreOne(&strain, profile)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

func scoreOne(s *types.Strain, p *types.Profile) float64 {
	score := baseScore

	// Effect preference weights: neutral weight 3 contributes nothing.
	for _, e := range s.Effects {
		score += float64(p.EffectWeight(e)-types.DefaultEffectWeight) * effectWeightStep
	}

	// Avoid-set penalty, applied once however many tags overlap.
	for _, e := range s.Effects {
		if p.Avoids(e) {
			score -= avoidPenalty
			break
		}
	}

	if p.PreferredType != types.TypeAny && p.PreferredType != "" && s.Type == p.PreferredType {
		score += typeMatchBonus
	}

	avgTHC := s.AvgTHC()
	if p.THCTolerance == types.ToleranceLow && avgTHC > lowTolThreshold {
		score -= lowTolPenalty
	}
	if p.THCTolerance == types.ToleranceHigh && avgTHC < highTolThreshold {
		score -= highTolPenalty
	}

	// Flavor bonus, applied once however many flavors overlap.
	for _, f := range s.Flavors {
		if containsString(p.PreferredFlavors, f) {
			score += flavorMatchBonus
			break
		}
	}

	// Quality prior from community rating.
	score += (s.Rating - 4) * ratingBonusPerStar

	return clamp(score, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
