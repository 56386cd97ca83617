// Package catalog provides the static strain catalog. The catalog is parsed
// from an embedded YAML document once at load time, validated, and treated as
// immutable afterwards, so it can be shared across requests without locking.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/verdant/sommelier/pkg/types"
)

//go:embed strains.yaml
var strainsYAML []byte

// catalogDoc is the on-disk shape of the embedded catalog.
type catalogDoc struct {
	Strains []types.Strain `yaml:"strains"`
}

// Catalog is a read-only collection of strains in a fixed order.
// The order is the catalog order used for deterministic tie-breaking.
type Catalog struct {
	strains []types.Strain
	byID    map[string]*types.Strain
}

// Load parses and validates the embedded catalog.
func Load() (*Catalog, error) {
	return load(strainsYAML)
}

func load(data []byte) (*Catalog, error) {
	var doc catalogDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog: failed to parse strain data: %w", err)
	}
	if len(doc.Strains) == 0 {
		return nil, fmt.Errorf("catalog: no strains defined")
	}

	c := &Catalog{
		strains: doc.Strains,
		byID:    make(map[string]*types.Strain, len(doc.Strains)),
	}
	for i := range c.strains {
		s := &c.strains[i]
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		if _, dup := c.byID[s.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate strain id %q", s.ID)
		}
		c.byID[s.ID] = s
	}
	return c, nil
}

// Len returns the number of strains in the catalog.
func (c *Catalog) Len() int {
	return len(c.strains)
}

// All returns every strain in catalog order. Callers must not modify the
// returned slice elements.
func (c *Catalog) All() []types.Strain {
	return c.strains
}

// Get returns the strain with the given ID, or nil if absent.
func (c *Catalog) Get(id string) *types.Strain {
	return c.byID[id]
}

// maxSearchResults caps Search output.
const maxSearchResults = 20

// Search returns strains whose name, effects, flavors, or type contain the
// query (case-insensitive substring), capped at 20 results in catalog order.
func (c *Catalog) Search(query string) []types.Strain {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var out []types.Strain
	for _, s := range c.strains {
		if matchesQuery(&s, q) {
			out = append(out, s)
			if len(out) == maxSearchResults {
				break
			}
		}
	}
	return out
}

func matchesQuery(s *types.Strain, q string) bool {
	if strings.Contains(strings.ToLower(s.Name), q) {
		return true
	}
	if strings.Contains(string(s.Type), q) {
		return true
	}
	for _, e := range s.Effects {
		if strings.Contains(string(e), q) {
			return true
		}
	}
	for _, f := range s.Flavors {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// ByType returns all strains of the given type, in catalog order.
func (c *Catalog) ByType(t types.StrainType) []types.Strain {
	var out []types.Strain
	for _, s := range c.strains {
		if s.Type == t {
			out = append(out, s)
		}
	}
	return out
}

// ByEffect returns all strains carrying the given effect tag.
func (c *Catalog) ByEffect(e types.Effect) []types.Strain {
	var out []types.Strain
	for _, s := range c.strains {
		if s.HasEffect(e) {
			out = append(out, s)
		}
	}
	return out
}

// ByAnyEffect returns strains carrying at least one of the given effect tags.
func (c *Catalog) ByAnyEffect(effects []types.Effect) []types.Strain {
	var out []types.Strain
	for _, s := range c.strains {
		for _, e := range effects {
			if s.HasEffect(e) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// ByMedicalUse returns strains whose medical-use list mentions the condition
// (case-insensitive substring).
func (c *Catalog) ByMedicalUse(condition string) []types.Strain {
	cond := strings.ToLower(condition)
	var out []types.Strain
	for _, s := range c.strains {
		for _, use := range s.MedicalUses {
			if strings.Contains(strings.ToLower(use), cond) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// moodEffects maps a mood keyword to the effect set that serves it.
var moodEffects = map[string][]types.Effect{
	"relax":    {types.EffectRelaxed, types.EffectSleepy, types.EffectHappy},
	"energy":   {types.EffectEnergetic, types.EffectUplifted, types.EffectFocused},
	"creative": {types.EffectCreative, types.EffectEuphoric, types.EffectUplifted},
	"social":   {types.EffectTalkative, types.EffectGiggly, types.EffectHappy},
	"sleep":    {types.EffectSleepy, types.EffectRelaxed},
	"pain":     {types.EffectRelaxed, types.EffectHappy, types.EffectEuphoric},
	"focus":    {types.EffectFocused, types.EffectEnergetic, types.EffectCreative},
	"happy":    {types.EffectHappy, types.EffectUplifted, types.EffectEuphoric},
}

// ForMood returns up to 10 strains whose effects serve the given mood.
// Unknown moods yield an empty slice.
func (c *Catalog) ForMood(mood string) []types.Strain {
	effects, ok := moodEffects[strings.ToLower(mood)]
	if !ok {
		return nil
	}
	out := c.ByAnyEffect(effects)
	if len(out) > 10 {
		out = out[:10]
	}
	return out
}

// TopRated returns the limit highest community-rated strains.
func (c *Catalog) TopRated(limit int) []types.Strain {
	out := make([]types.Strain, len(c.strains))
	copy(out, c.strains)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Rating > out[j].Rating
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
