package types

import (
	"strings"
	"time"
)

// Tolerance is a coarse THC tolerance bucket.
type Tolerance string

// Tolerance constants
const (
	ToleranceLow    Tolerance = "low"
	ToleranceMedium Tolerance = "medium"
	ToleranceHigh   Tolerance = "high"
)

// DefaultEffectWeight is the neutral preference weight; it contributes
// nothing to a match score.
const DefaultEffectWeight = 3

// Profile holds per-user preference state driving the scoring function.
// A profile is owned by exactly one session; the recommendation core only
// reads it. Mutation is the surrounding application's responsibility.
type Profile struct {
	UserID           string            `json:"userId"`
	PreferredEffects map[Effect]int    `json:"preferredEffects"` // weight 1-5, default 3
	AvoidEffects     []Effect          `json:"avoidEffects"`
	PreferredType    StrainType        `json:"preferredType"` // indica, sativa, hybrid, or any
	THCTolerance     Tolerance         `json:"thcTolerance"`
	PreferredFlavors []string          `json:"preferredFlavors"`
	TotalSessions    int               `json:"totalSessions"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// NewDefaultProfile creates a profile with neutral weights for every effect,
// no avoid-set, no type preference, and medium tolerance.
func NewDefaultProfile(userID string) *Profile {
	weights := make(map[Effect]int, len(AllEffects))
	for _, e := range AllEffects {
		weights[e] = DefaultEffectWeight
	}
	return &Profile{
		UserID:           userID,
		PreferredEffects: weights,
		AvoidEffects:     []Effect{},
		PreferredType:    TypeAny,
		THCTolerance:     ToleranceMedium,
		PreferredFlavors: []string{},
		UpdatedAt:        time.Now(),
	}
}

// EffectWeight returns the preference weight for an effect, defaulting to
// the neutral weight when unset.
func (p *Profile) EffectWeight(e Effect) int {
	if w, ok := p.PreferredEffects[e]; ok {
		return w
	}
	return DefaultEffectWeight
}

// Avoids reports whether the effect is in the profile's avoid-set.
func (p *Profile) Avoids(e Effect) bool {
	for _, a := range p.AvoidEffects {
		if a == e {
			return true
		}
	}
	return false
}

// Describe renders the profile's strong preferences as a short human-readable
// phrase for use in recommendation headlines.
func (p *Profile) Describe() string {
	var prefs []string

	liked := func(e Effect) bool { return p.EffectWeight(e) >= 4 }
	if liked(EffectRelaxed) {
		prefs = append(prefs, "enjoy relaxing strains")
	}
	if liked(EffectEnergetic) {
		prefs = append(prefs, "like energizing effects")
	}
	if liked(EffectCreative) {
		prefs = append(prefs, "appreciate creative strains")
	}
	if liked(EffectSleepy) {
		prefs = append(prefs, "use cannabis for sleep")
	}
	if p.PreferredType != TypeAny && p.PreferredType != "" {
		prefs = append(prefs, "prefer "+string(p.PreferredType)+"s")
	}

	if len(prefs) == 0 {
		return "have a balanced palate"
	}
	return strings.Join(prefs, ", ")
}
