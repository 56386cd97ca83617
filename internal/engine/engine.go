package engine

import (
	"github.com/verdant/sommelier/internal/catalog"
	"github.com/verdant/sommelier/pkg/types"
)

// Engine is the deterministic responder. It classifies the message, selects
// candidates from the catalog, scores them against the profile, and composes
// a reply. Every step is pure, so identical inputs always produce identical
// replies.
type Engine struct {
	catalog *catalog.Catalog
}

// New returns an Engine backed by the given catalog.
func New(c *catalog.Catalog) *Engine {
	return &Engine{catalog: c}
}

// Catalog exposes the engine's strain catalog.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// activityConfig maps an activity to the effect tags that suit it. The
// headline lives here too so selection and wording stay in sync.
type activityConfig struct {
	effects  []types.Effect
	headline string
}

var activityConfigs = map[string]activityConfig{
	"movies": {
		effects:  []types.Effect{types.EffectRelaxed, types.EffectHappy, types.EffectEuphoric, types.EffectGiggly},
		headline: "Movie night! These strains make everything more entertaining:",
	},
	"outdoor": {
		effects:  []types.Effect{types.EffectEnergetic, types.EffectUplifted, types.EffectHappy, types.EffectCreative},
		headline: "Adventure time! These strains pair great with nature:",
	},
	"gaming": {
		effects:  []types.Effect{types.EffectFocused, types.EffectEnergetic, types.EffectHappy, types.EffectCreative},
		headline: "Game on! These strains enhance focus without couch-locking you:",
	},
	"food": {
		effects:  []types.Effect{types.EffectHungry, types.EffectHappy, types.EffectRelaxed, types.EffectEuphoric},
		headline: "Munchie mode activated! These strains make food taste amazing:",
	},
	"intimate": {
		effects:  []types.Effect{types.EffectAroused, types.EffectRelaxed, types.EffectEuphoric, types.EffectHappy},
		headline: "Setting the mood! These strains enhance intimacy:",
	},
	"meditation": {
		effects:  []types.Effect{types.EffectRelaxed, types.EffectFocused, types.EffectEuphoric, types.EffectUplifted},
		headline: "Finding your center! These strains deepen your practice:",
	},
	"music": {
		effects:  []types.Effect{types.EffectEuphoric, types.EffectHappy, types.EffectCreative, types.EffectUplifted},
		headline: "Feel the music! These strains make every beat hit different:",
	},
}

var defaultActivityConfig = activityConfig{
	effects:  []types.Effect{types.EffectHappy, types.EffectRelaxed},
	headline: "Here's what I'd recommend:",
}

func activityHeadline(activity string) string {
	if cfg, ok := activityConfigs[activity]; ok {
		return cfg.headline
	}
	return defaultActivityConfig.headline
}

// timeConfig narrows candidates by both strain type and effects for a
// time-of-day request.
type timeConfig struct {
	strainTypes []types.StrainType
	effects     []types.Effect
	headline    string
}

var timeConfigs = map[string]timeConfig{
	"morning": {
		strainTypes: []types.StrainType{types.TypeSativa, types.TypeHybrid},
		effects:     []types.Effect{types.EffectEnergetic, types.EffectUplifted, types.EffectFocused, types.EffectCreative},
		headline:    "Rise and shine! Wake and bake with these energizing strains:",
	},
	"afternoon": {
		strainTypes: []types.StrainType{types.TypeHybrid, types.TypeSativa},
		effects:     []types.Effect{types.EffectHappy, types.EffectUplifted, types.EffectCreative, types.EffectFocused},
		headline:    "Afternoon pick-me-up! These keep you going without the crash:",
	},
	"evening": {
		strainTypes: []types.StrainType{types.TypeIndica, types.TypeHybrid},
		effects:     []types.Effect{types.EffectRelaxed, types.EffectSleepy, types.EffectHappy, types.EffectEuphoric},
		headline:    "Winding down! These strains are perfect for evening relaxation:",
	},
}

func timeHeadline(t string) string {
	if cfg, ok := timeConfigs[t]; ok {
		return cfg.headline
	}
	return defaultActivityConfig.headline
}

// Respond classifies the message and produces a deterministic reply for the
// given profile. A nil profile is treated as the default profile.
func (e *Engine) Respond(message string, profile *types.Profile) types.Reply {
	if profile == nil {
		profile = types.NewDefaultProfile("")
	}
	intent := Classify(message)
	candidates := e.candidates(intent)
	ranked := Score(candidates, profile)
	return Compose(intent, ranked, profile, DefaultReplyLimit)
}

// ClassifyAndScore runs the deterministic pipeline without composing a reply,
// returning the intent and the full ranked candidate list.
func (e *Engine) ClassifyAndScore(message string, profile *types.Profile) (types.Intent, []ScoredStrain) {
	if profile == nil {
		profile = types.NewDefaultProfile("")
	}
	intent := Classify(message)
	return intent, Score(e.candidates(intent), profile)
}

// candidates selects the catalog subset an intent should draw from.
func (e *Engine) candidates(intent types.Intent) []types.Strain {
	switch intent.Category {
	case types.IntentMood:
		return e.catalog.ForMood(intent.Entity("mood"))

	case types.IntentActivity:
		cfg, ok := activityConfigs[intent.Entity("activity")]
		if !ok {
			cfg = defaultActivityConfig
		}
		return e.catalog.ByAnyEffect(cfg.effects)

	case types.IntentMedical:
		return e.catalog.ByMedicalUse(intent.Entity("condition"))

	case types.IntentTime:
		cfg, ok := timeConfigs[intent.Entity("time")]
		if !ok {
			return nil
		}
		return filterByTypes(e.catalog.ByAnyEffect(cfg.effects), cfg.strainTypes)

	case types.IntentType:
		return e.catalog.ByType(types.StrainType(intent.Entity("strainType")))

	case types.IntentSearch:
		return e.catalog.Search(intent.Entity("query"))

	case types.IntentRecommendation:
		return e.catalog.All()

	default:
		// Education and unknown intents compose without candidates.
		return nil
	}
}

func filterByTypes(strains []types.Strain, allowed []types.StrainType) []types.Strain {
	var out []types.Strain
	for _, s := range strains {
		for _, t := range allowed {
			if s.Type == t {
				out = append(out, s)
				break
			}
		}
	}
	return out
}
