// Package types defines the core data structures for the Sommelier
// recommendation system: catalog strains, user preference profiles,
// classified intents, and reply payloads shared across packages.
package types

import "fmt"

// StrainType classifies a strain into the three-way indica/sativa/hybrid split.
type StrainType string

// Strain type constants
const (
	TypeIndica StrainType = "indica"
	TypeSativa StrainType = "sativa"
	TypeHybrid StrainType = "hybrid"

	// TypeAny is only valid as a profile preference, never on a catalog entry.
	TypeAny StrainType = "any"
)

// Effect is a reported strain effect tag.
type Effect string

// Effect constants form the closed set used by both the catalog and profiles.
const (
	EffectRelaxed   Effect = "relaxed"
	EffectHappy     Effect = "happy"
	EffectEuphoric  Effect = "euphoric"
	EffectUplifted  Effect = "uplifted"
	EffectCreative  Effect = "creative"
	EffectEnergetic Effect = "energetic"
	EffectFocused   Effect = "focused"
	EffectGiggly    Effect = "giggly"
	EffectHungry    Effect = "hungry"
	EffectSleepy    Effect = "sleepy"
	EffectTalkative Effect = "talkative"
	EffectTingly    Effect = "tingly"
	EffectAroused   Effect = "aroused"
)

// AllEffects lists every valid effect tag in a fixed order.
var AllEffects = []Effect{
	EffectRelaxed, EffectHappy, EffectEuphoric, EffectUplifted, EffectCreative,
	EffectEnergetic, EffectFocused, EffectGiggly, EffectHungry, EffectSleepy,
	EffectTalkative, EffectTingly, EffectAroused,
}

// IsValidEffect reports whether s is a recognized effect tag.
func IsValidEffect(s string) bool {
	for _, e := range AllEffects {
		if string(e) == s {
			return true
		}
	}
	return false
}

// IsValidStrainType reports whether s is a valid catalog strain type.
// "any" is rejected here; it is a profile-only value.
func IsValidStrainType(s string) bool {
	switch StrainType(s) {
	case TypeIndica, TypeSativa, TypeHybrid:
		return true
	}
	return false
}

// Difficulty indicates how forgiving a strain is for inexperienced users.
type Difficulty string

// Difficulty constants
const (
	DifficultyBeginner    Difficulty = "beginner"
	DifficultyModerate    Difficulty = "moderate"
	DifficultyExperienced Difficulty = "experienced"
)

// Range is a bounded numeric range (percent). Min and Max are inclusive.
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// Mean returns the midpoint of the range.
func (r Range) Mean() float64 {
	return (r.Min + r.Max) / 2
}

// String formats the range as "17-24%".
func (r Range) String() string {
	return fmt.Sprintf("%g-%g%%", r.Min, r.Max)
}

// Validate checks the range invariant: non-negative bounds with min <= max.
func (r Range) Validate() error {
	if r.Min < 0 || r.Max < 0 {
		return fmt.Errorf("range bounds must be non-negative, got %g-%g", r.Min, r.Max)
	}
	if r.Min > r.Max {
		return fmt.Errorf("range min %g exceeds max %g", r.Min, r.Max)
	}
	return nil
}

// Terpene describes an aromatic compound present in a strain.
type Terpene struct {
	Name       string   `yaml:"name" json:"name"`
	Percentage float64  `yaml:"percentage,omitempty" json:"percentage,omitempty"`
	Effects    []string `yaml:"effects,omitempty" json:"effects,omitempty"`
	Aroma      string   `yaml:"aroma,omitempty" json:"aroma,omitempty"`
}

// Strain is an immutable catalog entry. Strains are loaded once at process
// start and never mutated; they may be shared freely across goroutines.
type Strain struct {
	ID          string     `yaml:"id" json:"id"`
	Name        string     `yaml:"name" json:"name"`
	Type        StrainType `yaml:"type" json:"type"`
	THCRange    Range      `yaml:"thc_range" json:"thcRange"`
	CBDRange    Range      `yaml:"cbd_range" json:"cbdRange"`
	Effects     []Effect   `yaml:"effects" json:"effects"`
	Negatives   []string   `yaml:"negatives,omitempty" json:"negatives,omitempty"`
	Flavors     []string   `yaml:"flavors" json:"flavors"`
	Terpenes    []Terpene  `yaml:"terpenes,omitempty" json:"terpenes,omitempty"`
	MedicalUses []string   `yaml:"medical_uses,omitempty" json:"medicalUses,omitempty"`
	Description string     `yaml:"description" json:"description"`
	Lineage     []string   `yaml:"lineage,omitempty" json:"lineage,omitempty"`
	Rating      float64    `yaml:"rating" json:"rating"`
	RatingCount int        `yaml:"rating_count" json:"ratingCount"`
	Difficulty  Difficulty `yaml:"difficulty" json:"difficulty"`
}

// AvgTHC returns the midpoint of the strain's THC range.
func (s *Strain) AvgTHC() float64 {
	return s.THCRange.Mean()
}

// HasEffect reports whether the strain carries the given effect tag.
func (s *Strain) HasEffect(e Effect) bool {
	for _, se := range s.Effects {
		if se == e {
			return true
		}
	}
	return false
}

// Validate checks catalog invariants for a single strain entry.
func (s *Strain) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("strain %q has empty id", s.Name)
	}
	if !IsValidStrainType(string(s.Type)) {
		return fmt.Errorf("strain %s has invalid type %q", s.ID, s.Type)
	}
	if err := s.THCRange.Validate(); err != nil {
		return fmt.Errorf("strain %s thc range: %w", s.ID, err)
	}
	if err := s.CBDRange.Validate(); err != nil {
		return fmt.Errorf("strain %s cbd range: %w", s.ID, err)
	}
	for _, e := range s.Effects {
		if !IsValidEffect(string(e)) {
			return fmt.Errorf("strain %s has unknown effect %q", s.ID, e)
		}
	}
	if s.Rating < 0 || s.Rating > 5 {
		return fmt.Errorf("strain %s rating %g out of range 0-5", s.ID, s.Rating)
	}
	if s.RatingCount < 0 {
		return fmt.Errorf("strain %s has negative rating count", s.ID)
	}
	return nil
}
