package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/verdant/sommelier/internal/catalog"
	"github.com/verdant/sommelier/pkg/types"
)

// DefaultReplyLimit is how many recommendations a composed reply carries.
const DefaultReplyLimit = 3

const (
	maxReplyEffects = 4
	maxReplyFlavors = 3
)

var moodHeadlines = map[string]string{
	"relax":    "Time to unwind! Here are some strains that'll melt your stress away:",
	"energy":   "Let's get you energized! These strains will give you that boost:",
	"creative": "Ready to create? These strains unlock that artistic flow:",
	"social":   "Party time! These strains will have you chatting and laughing:",
	"sleep":    "Need those Z's? These will send you to dreamland:",
	"focus":    "Locked in mode! These strains help you concentrate:",
	"happy":    "Mood boost incoming! These strains are known for lifting spirits:",
}

var medicalHeadlines = map[string]string{
	"pain":     "For pain relief, these strains have helped many people:",
	"headache": "Headache? These strains may help take the edge off:",
	"nausea":   "For nausea, these are commonly recommended:",
	"appetite": "Need to stimulate appetite? These strains are known for the munchies:",
}

var typeHeadlines = map[string]string{
	"indica": "Indica lover! Here are some heavy hitters for that body high:",
	"sativa": "Sativa fan! These cerebral strains will lift you up:",
	"hybrid": "Best of both worlds! These hybrids offer balanced effects:",
}

var moodFollowUps = []string{
	"Want something stronger or milder?",
	"Prefer indica, sativa, or hybrid?",
	"Any flavors you love or hate?",
}

var medicalFollowUps = []string{
	"Always consult a doctor for medical advice",
	"Start low and go slow with new strains",
}

var recommendationFollowUps = []string{
	"What are you in the mood for?",
	"Any specific activity planned?",
	"Indica, sativa, or hybrid?",
}

var unknownFollowUps = []string{
	"What effects are you looking for?",
	"Planning any activities?",
	"Morning, afternoon, or evening smoke?",
}

const welcomeMessage = "Hey! I'm your AI sommelier.\n\n" +
	"Tell me what you're looking for and I'll find the perfect strain. Try:\n\n" +
	"- 'I want to relax'\n" +
	"- 'Something for movie night'\n" +
	"- 'Need help sleeping'\n" +
	"- 'Best sativa for energy'\n" +
	"- 'What is a terpene?'\n\n" +
	"Or just tell me how you want to feel!"

// Compose turns a classified intent and a ranked candidate list into a
// structured reply: a category-specific headline, up to limit items, and
// optional follow-up prompts. An empty candidate list for a search intent
// yields a "not found" reply rather than an empty list.
func Compose(intent types.Intent, ranked []ScoredStrain, profile *types.Profile, limit int) types.Reply {
	if limit <= 0 {
		limit = DefaultReplyLimit
	}

	switch intent.Category {
	case types.IntentMood:
		mood := intent.Entity("mood")
		headline, ok := moodHeadlines[mood]
		if !ok {
			headline = fmt.Sprintf("Looking for %s vibes? Here's what I recommend:", mood)
		}
		return types.Reply{
			Message:         headline,
			Recommendations: formatRecommendations(ranked, limit),
			FollowUp:        moodFollowUps,
		}

	case types.IntentActivity:
		return types.Reply{
			Message:         activityHeadline(intent.Entity("activity")),
			Recommendations: formatRecommendations(ranked, limit),
		}

	case types.IntentMedical:
		condition := intent.Entity("condition")
		headline, ok := medicalHeadlines[condition]
		if !ok {
			headline = fmt.Sprintf("For %s, here's what may help:", condition)
		}
		return types.Reply{
			Message:         headline,
			Recommendations: formatRecommendations(ranked, limit),
			FollowUp:        medicalFollowUps,
		}

	case types.IntentTime:
		return types.Reply{
			Message:         timeHeadline(intent.Entity("time")),
			Recommendations: formatRecommendations(ranked, limit),
		}

	case types.IntentType:
		return types.Reply{
			Message:         typeHeadlines[intent.Entity("strainType")],
			Recommendations: formatRecommendations(ranked, limit),
		}

	case types.IntentSearch:
		query := intent.Entity("query")
		if len(ranked) == 0 {
			return notFoundReply(query)
		}
		return types.Reply{
			Message: fmt.Sprintf("Found %d strains matching %q! Here are the best matches for you:",
				len(ranked), query),
			Recommendations: formatRecommendations(ranked, limit),
		}

	case types.IntentEducation:
		return educationReply(intent.Entity("topic"))

	case types.IntentRecommendation:
		return types.Reply{
			Message: fmt.Sprintf("Based on your profile, I know you %s.\n\nHere's what I think you'd love right now:",
				profile.Describe()),
			Recommendations: formatRecommendations(ranked, limit),
			FollowUp:        recommendationFollowUps,
		}

	default:
		return types.Reply{
			Message:  welcomeMessage,
			FollowUp: unknownFollowUps,
		}
	}
}

func notFoundReply(query string) types.Reply {
	return types.Reply{
		Message: fmt.Sprintf("I couldn't find anything matching %q in my catalog. Try searching for a strain name, effect, or flavor!", query),
		FollowUp: []string{
			"What effects are you looking for?",
			"Want me to recommend something similar?",
		},
	}
}

// formatRecommendations maps the top limit ranked strains to reply items with
// truncated effect and flavor lists and integer-rounded scores.
func formatRecommendations(ranked []ScoredStrain, limit int) []types.Recommendation {
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]types.Recommendation, 0, len(ranked))
	for _, sc := range ranked {
		s := sc.Strain
		effects := make([]string, 0, maxReplyEffects)
		for _, e := range s.Effects {
			effects = append(effects, string(e))
			if len(effects) == maxReplyEffects {
				break
			}
		}
		flavors := s.Flavors
		if len(flavors) > maxReplyFlavors {
			flavors = flavors[:maxReplyFlavors]
		}
		out = append(out, types.Recommendation{
			ID:         s.ID,
			Name:       s.Name,
			Type:       string(s.Type),
			THC:        s.THCRange.String(),
			MatchScore: int(math.Round(sc.Score)),
			Reason:     s.Description,
			Effects:    effects,
			Flavors:    flavors,
		})
	}
	return out
}

// educationReply answers a fixed set of education topics. The terpene answer
// is rendered from the catalog's terpene reference table.
func educationReply(topic string) types.Reply {
	switch {
	case strings.Contains(topic, "terpene"):
		return types.Reply{Message: terpeneEducation()}
	case strings.Contains(topic, "thc"):
		return types.Reply{Message: thcEducation}
	case strings.Contains(topic, "cbd"):
		return types.Reply{Message: cbdEducation}
	case strings.Contains(topic, "indica") && strings.Contains(topic, "sativa"),
		strings.Contains(topic, "difference between"):
		return types.Reply{Message: indicaSativaEducation}
	}
	return types.Reply{
		Message: "Great question! Try asking about terpenes, THC, CBD, or the difference between indica and sativa.",
	}
}

func terpeneEducation() string {
	names := make([]string, 0, len(catalog.TerpeneInfo))
	for name := range catalog.TerpeneInfo {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("Terpenes are aromatic compounds in cannabis that shape smell, taste, and effects.\n\nCommon terpenes:\n")
	for _, name := range names {
		info := catalog.TerpeneInfo[name]
		fmt.Fprintf(&b, "- %s: %s (%s)\n", name, strings.Join(info.Effects, ", "), info.Aroma)
	}
	b.WriteString("\nTerpenes work with THC/CBD (the 'entourage effect') to create each strain's unique experience!")
	return b.String()
}

const thcEducation = "THC (tetrahydrocannabinol) is the main psychoactive compound in cannabis.\n\n" +
	"THC levels:\n" +
	"- Low (10-15%): mild, good for beginners\n" +
	"- Medium (15-20%): balanced, most common\n" +
	"- High (20-25%): strong, experienced users\n" +
	"- Very high (25%+): intense, proceed with caution\n\n" +
	"Higher THC is not better. It's about finding what works for you."

const cbdEducation = "CBD (cannabidiol) is non-psychoactive but has many benefits:\n" +
	"anti-anxiety, pain relief, anti-inflammatory, reduces THC anxiety, helps sleep.\n\n" +
	"CBD:THC ratios:\n" +
	"- 1:1 balanced, mild high\n" +
	"- 2:1 CBD dominant, subtle high\n" +
	"- High CBD: no high, therapeutic only"

const indicaSativaEducation = "Indica vs Sativa:\n\n" +
	"Indica: body high, relaxing, sedating. Best for night, sleep, pain.\n" +
	"Sativa: head high, cerebral, energizing. Best for day, creativity, social settings.\n" +
	"Hybrid: a mix of both; effects depend on genetics.\n\n" +
	"Reality check: modern science says terpenes matter more than indica/sativa for effects, " +
	"but the categories are still useful shortcuts."
