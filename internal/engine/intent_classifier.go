// Package engine implements the deterministic recommendation path: a
// rule-based intent classifier, a weighted catalog scorer, and a response
// composer. It performs no I/O and needs no network, which makes it the
// always-available fallback when generation providers are down.
package engine

import (
	"strings"

	"github.com/verdant/sommelier/pkg/types"
)

// intentRule pairs an intent category with its matcher. Rules are evaluated
// in order and the first match wins, so priority is explicit in the table
// below rather than encoded in branching.
type intentRule struct {
	category types.IntentCategory
	match    func(lower string) (map[string]string, bool)
}

// intentRules is the fixed-priority rule table:
// mood > activity > medical > time > type > search > education > recommendation.
var intentRules = []intentRule{
	{types.IntentMood, matchMood},
	{types.IntentActivity, matchActivity},
	{types.IntentMedical, matchMedical},
	{types.IntentTime, matchTime},
	{types.IntentType, matchStrainType},
	{types.IntentSearch, matchSearch},
	{types.IntentEducation, matchEducation},
	{types.IntentRecommendation, matchRecommendation},
}

// Classify maps free text to an intent. It never fails: input matching no
// rule yields IntentUnknown with empty entities.
func Classify(text string) types.Intent {
	lower := strings.ToLower(text)
	for _, rule := range intentRules {
		if entities, ok := rule.match(lower); ok {
			return types.Intent{Category: rule.category, Entities: entities}
		}
	}
	return types.Intent{Category: types.IntentUnknown, Entities: map[string]string{}}
}

// keywordGroup binds a set of trigger substrings to the entity value they
// resolve to. Group order within a table is part of the contract.
type keywordGroup struct {
	keywords []string
	value    string
}

func (g keywordGroup) matches(lower string) bool {
	for _, k := range g.keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

var moodGroups = []keywordGroup{
	{[]string{"relax", "chill", "calm", "unwind", "destress"}, "relax"},
	{[]string{"energy", "energetic", "active", "wake", "productive"}, "energy"},
	{[]string{"creative", "art", "music", "write", "create"}, "creative"},
	{[]string{"social", "party", "friends", "hangout", "talk"}, "social"},
	{[]string{"sleep", "insomnia", "tired", "bedtime", "night"}, "sleep"},
	{[]string{"focus", "concentrate", "work", "study"}, "focus"},
	{[]string{"happy", "mood", "depressed", "sad", "anxious", "anxiety"}, "happy"},
}

func matchMood(lower string) (map[string]string, bool) {
	for _, g := range moodGroups {
		if g.matches(lower) {
			return map[string]string{"mood": g.value}, true
		}
	}
	return nil, false
}

var activityGroups = []keywordGroup{
	{[]string{"movie", "movies", "netflix", "watch", "tv"}, "movies"},
	{[]string{"hike", "hiking", "outdoor", "nature", "walk"}, "outdoor"},
	{[]string{"game", "gaming", "video game", "play"}, "gaming"},
	{[]string{"eat", "food", "munchies", "dinner", "cook"}, "food"},
	{[]string{"sex", "intimate", "romance", "partner"}, "intimate"},
	{[]string{"yoga", "meditat", "mindful"}, "meditation"},
	{[]string{"concert", "music", "festival", "show"}, "music"},
}

func matchActivity(lower string) (map[string]string, bool) {
	for _, g := range activityGroups {
		if g.matches(lower) {
			return map[string]string{"activity": g.value}, true
		}
	}
	return nil, false
}

var medicalConditions = []string{
	"pain", "headache", "migraine", "nausea", "appetite", "inflammation", "cramp", "spasm",
}

func matchMedical(lower string) (map[string]string, bool) {
	for _, condition := range medicalConditions {
		if strings.Contains(lower, condition) {
			return map[string]string{"condition": condition}, true
		}
	}
	return nil, false
}

var timeGroups = []keywordGroup{
	{[]string{"morning", "wake and bake"}, "morning"},
	{[]string{"afternoon", "daytime"}, "afternoon"},
	{[]string{"evening", "night", "before bed"}, "evening"},
}

func matchTime(lower string) (map[string]string, bool) {
	for _, g := range timeGroups {
		if g.matches(lower) {
			return map[string]string{"time": g.value}, true
		}
	}
	return nil, false
}

func matchStrainType(lower string) (map[string]string, bool) {
	for _, t := range []string{"indica", "sativa", "hybrid"} {
		if strings.Contains(lower, t) {
			return map[string]string{"strainType": t}, true
		}
	}
	return nil, false
}

// searchLeadIns trigger the search rule; searchStripPhrases are removed from
// the query before it is handed to the catalog.
var (
	searchLeadIns      = []string{"what is", "tell me about", "heard of"}
	searchStripPhrases = []string{"what is", "tell me about", "have you heard of", "do you know"}
)

// matchSearch extracts a search query by stripping lead-in phrases. A stripped
// query of length <= 2 is degenerate; the rule declines the match so
// classification falls through to the next category.
func matchSearch(lower string) (map[string]string, bool) {
	triggered := false
	for _, lead := range searchLeadIns {
		if strings.Contains(lower, lead) {
			triggered = true
			break
		}
	}
	if !triggered {
		return nil, false
	}

	query := lower
	for _, phrase := range searchStripPhrases {
		query = strings.ReplaceAll(query, phrase, "")
	}
	query = strings.TrimSpace(query)
	if len(query) <= 2 {
		return nil, false
	}
	return map[string]string{"query": query}, true
}

var educationKeywords = []string{"terpene", "thc", "cbd", "difference between"}

func matchEducation(lower string) (map[string]string, bool) {
	for _, k := range educationKeywords {
		if strings.Contains(lower, k) {
			return map[string]string{"topic": lower}, true
		}
	}
	return nil, false
}

var recommendationKeywords = []string{"recommend", "suggest", "what should", "good strain"}

func matchRecommendation(lower string) (map[string]string, bool) {
	for _, k := range recommendationKeywords {
		if strings.Contains(lower, k) {
			return map[string]string{}, true
		}
	}
	return nil, false
}
