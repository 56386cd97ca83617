package sommelier

import (
	"strings"

	"github.com/verdant/sommelier/pkg/types"
)

// Canned results returned when generation is unavailable or unparseable.
// They mirror the structured schemas exactly, so callers cannot tell which
// path served them. All data is static; identical inputs give identical
// outputs.

var sleepRecommendations = []types.RemoteRecommendation{
	{
		Name: "Granddaddy Purple", Type: "Indica", THCRange: "17-24%",
		Effects:  []string{"Relaxed", "Sleepy", "Happy"},
		Terpenes: []string{"Myrcene", "Caryophyllene"},
		Reason:   "Heavy indica with grape terpenes that melt you into bed", MatchScore: 95,
	},
	{
		Name: "Northern Lights", Type: "Indica", THCRange: "16-21%",
		Effects:  []string{"Sleepy", "Relaxed", "Euphoric"},
		Terpenes: []string{"Myrcene", "Pinene"},
		Reason:   "Classic sleep strain, dreamy and peaceful", MatchScore: 92,
	},
	{
		Name: "Bubba Kush", Type: "Indica", THCRange: "15-22%",
		Effects:  []string{"Relaxed", "Sleepy", "Happy"},
		Terpenes: []string{"Caryophyllene", "Limonene"},
		Reason:   "Heavy tranquil body high, lights out", MatchScore: 88,
	},
}

var balancedRecommendations = []types.RemoteRecommendation{
	{
		Name: "Blue Dream", Type: "Hybrid", THCRange: "17-24%",
		Effects:  []string{"Happy", "Relaxed", "Creative"},
		Terpenes: []string{"Myrcene", "Pinene"},
		Reason:   "America's favorite strain - balanced, versatile, crowd-pleaser", MatchScore: 90,
	},
	{
		Name: "Girl Scout Cookies", Type: "Hybrid", THCRange: "19-28%",
		Effects:  []string{"Euphoric", "Relaxed", "Happy"},
		Terpenes: []string{"Caryophyllene", "Limonene"},
		Reason:   "Sweet and powerful, great for any occasion", MatchScore: 88,
	},
	{
		Name: "OG Kush", Type: "Hybrid", THCRange: "18-26%",
		Effects:  []string{"Relaxed", "Happy", "Euphoric"},
		Terpenes: []string{"Myrcene", "Limonene"},
		Reason:   "West Coast legend, earthy and potent", MatchScore: 85,
	},
}

// fallbackRecommendations picks the canned triple matching the request:
// sleep-leaning when the mood or activity mentions sleep, balanced otherwise.
func fallbackRecommendations(params types.RecommendationParams) *types.RecommendationResult {
	wantsSleep := strings.Contains(strings.ToLower(params.Mood), "sleep") ||
		strings.Contains(strings.ToLower(params.Activity), "sleep")
	for _, e := range params.DesiredEffects {
		if strings.EqualFold(e, "sleepy") {
			wantsSleep = true
		}
	}

	items := balancedRecommendations
	if wantsSleep {
		items = sleepRecommendations
	}
	return &types.RecommendationResult{
		Recommendations: append([]types.RemoteRecommendation(nil), items...),
	}
}

// fallbackAnalysis returns a per-type analysis skeleton.
func fallbackAnalysis(strainType types.StrainType) *types.Analysis {
	analysis := &types.Analysis{
		Effects: types.AnalysisEffects{
			Physical:  []string{"Relaxed", "Body high"},
			Mental:    []string{"Calm", "Peaceful"},
			Emotional: []string{"Happy", "Content"},
		},
		BestFor:         []string{"Evening use", "Relaxation"},
		MedicalBenefits: []string{"Stress relief", "Pain management"},
		SideEffects:     []string{"Dry mouth", "Dry eyes", "Possible drowsiness"},
		ConsumptionTips: "Start with a small amount and wait 15-30 minutes before consuming more.",
		SimilarStrains:  []string{"Similar strains in this category"},
		ExperienceLevel: "intermediate",
		Duration:        "2-4 hours",
		Onset:           "5-15 minutes for flower, 30-90 minutes for edibles",
	}

	if strainType == types.TypeSativa {
		analysis.Effects = types.AnalysisEffects{
			Physical:  []string{"Energized", "Light"},
			Mental:    []string{"Creative", "Focused", "Uplifted"},
			Emotional: []string{"Happy", "Euphoric"},
		}
		analysis.BestFor = []string{"Daytime use", "Creative activities", "Social situations"}
	}
	return analysis
}

// fallbackPairing returns a canned pairing: a tailored one for movies, a
// generic all-rounder set for everything else.
func fallbackPairing(activity string) *types.PairingResult {
	lower := strings.ToLower(activity)
	if strings.Contains(lower, "movie") || strings.Contains(lower, "netflix") {
		return &types.PairingResult{
			Intro: "Movies and cannabis are a classic combo. You want something that enhances visuals and sound without knocking you out.",
			Pairings: []types.ActivityPairing{
				{Strain: "Blue Dream", Type: "Hybrid", Why: "Perfect balance of relaxation and engagement", Confidence: "perfect"},
				{Strain: "Pineapple Express", Type: "Hybrid", Why: "Fun, giggly, enhances comedy", Confidence: "great"},
				{Strain: "Granddaddy Purple", Type: "Indica", Why: "For late-night movie marathons when you want to sink into the couch", Confidence: "good"},
			},
			Tips: "Have snacks ready before you start - you don't want to miss the good parts!",
		}
	}

	return &types.PairingResult{
		Intro: "Great choice! Let me suggest some strains that would enhance " + activity + ".",
		Pairings: []types.ActivityPairing{
			{Strain: "Blue Dream", Type: "Hybrid", Why: "Versatile strain that works for almost any activity", Confidence: "great"},
			{Strain: "Sour Diesel", Type: "Sativa", Why: "Energizing and creative for active experiences", Confidence: "good"},
			{Strain: "OG Kush", Type: "Hybrid", Why: "Relaxing but not too sedating", Confidence: "good"},
		},
		Tips: "Start low, especially if you're trying a new activity while high. You can always consume more!",
	}
}
