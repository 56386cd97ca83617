package sommelier

import (
	"fmt"
	"strings"

	"github.com/verdant/sommelier/pkg/types"
)

// budtenderSystemPrompt is the persona instruction for free-text chat and
// structured recommendations.
const budtenderSystemPrompt = `You are an expert AI Cannabis Sommelier (Budtender) — knowledgeable, friendly, and never preachy.

## Your Expertise
- Cannabis strains: Indica, Sativa, Hybrids — effects, lineages, and what makes each unique
- Terpene profiles: Myrcene (couch-lock), Limonene (uplifting), Pinene (focused), Caryophyllene (anti-inflammatory), Linalool (calming)
- Cannabinoids: THC, CBD, CBG, CBN, and how ratios affect experience
- Consumption methods: Flower, edibles, vapes, concentrates — pros/cons of each
- Medical applications: Pain, anxiety, sleep, appetite, creativity
- Harm reduction: Responsible use, tolerance, avoiding overconsumption

## Personality
- Friendly and chill, like a knowledgeable friend at a dispensary
- Non-judgmental about experience level or reasons for use
- Explains science simply without being condescending
- Honest about effects including potential downsides

## Key Knowledge
- THC levels: 10-15% mild, 15-22% moderate, 22%+ potent, 30%+ very strong
- Indica: Body high, relaxing, "in-da-couch" — evening/night
- Sativa: Head high, energizing, creative — daytime
- Hybrid: Best of both, balanced or leaning one way
- CBD can reduce THC-induced anxiety
- Start low, go slow — especially with edibles (wait 2 hours!)

## Rules
1. Give specific strain recommendations with reasoning
2. Consider user's experience level, desired effects, and concerns
3. Mention onset time and duration for different methods
4. Include harm reduction tips naturally
5. Never recommend for minors or illegal activity`

const analysisSystemPrompt = `You are a cannabis strain analyst. Provide detailed, accurate information about strains based on their genetics, terpene profile, and reported effects. Always respond in valid JSON format.`

const pairingSystemPrompt = `You are a cannabis experience designer. Match strains to activities, moods, and occasions based on their effects profile. Be specific about why certain strains enhance certain experiences.`

// buildContextBlock renders the optional profile context appended to the chat
// system instruction. Only populated fields are included, in a fixed order:
// favorites, desired effects, experience, medical needs, tolerance, avoid-list.
func buildContextBlock(ctx *types.ChatContext) string {
	if ctx == nil {
		return ""
	}

	var parts []string
	if len(ctx.FavoriteStrains) > 0 {
		parts = append(parts, "Favorite strains: "+strings.Join(ctx.FavoriteStrains, ", "))
	}
	if len(ctx.PreferredEffects) > 0 {
		parts = append(parts, "Looking for: "+strings.Join(ctx.PreferredEffects, ", "))
	}
	if ctx.ExperienceLevel != "" {
		parts = append(parts, "Experience: "+ctx.ExperienceLevel)
	}
	if len(ctx.MedicalNeeds) > 0 {
		parts = append(parts, "Medical needs: "+strings.Join(ctx.MedicalNeeds, ", "))
	}
	if ctx.Tolerance != "" {
		parts = append(parts, "Tolerance: "+ctx.Tolerance)
	}
	if len(ctx.AvoidEffects) > 0 {
		parts = append(parts, "Wants to avoid: "+strings.Join(ctx.AvoidEffects, ", "))
	}
	if len(parts) == 0 {
		return ""
	}
	return "\n\n## User Profile\n" + strings.Join(parts, "\n")
}

// buildRecommendationPrompt embeds the structured parameters and the reply
// schema the remote side must follow.
func buildRecommendationPrompt(params types.RecommendationParams) string {
	var conditions []string
	if params.Mood != "" {
		conditions = append(conditions, "Mood: "+params.Mood)
	}
	if params.Activity != "" {
		conditions = append(conditions, "Activity: "+params.Activity)
	}
	if params.TimeOfDay != "" {
		conditions = append(conditions, "Time: "+params.TimeOfDay)
	}
	if len(params.DesiredEffects) > 0 {
		conditions = append(conditions, "Looking for: "+strings.Join(params.DesiredEffects, ", "))
	}
	if len(params.AvoidEffects) > 0 {
		conditions = append(conditions, "Avoid: "+strings.Join(params.AvoidEffects, ", "))
	}
	if params.ExperienceLevel != "" {
		conditions = append(conditions, "Experience: "+params.ExperienceLevel)
	}
	if len(params.MedicalNeeds) > 0 {
		conditions = append(conditions, "Medical needs: "+strings.Join(params.MedicalNeeds, ", "))
	}
	if params.Method != "" && params.Method != "any" {
		conditions = append(conditions, "Method: "+params.Method)
	}

	return fmt.Sprintf(`Recommend 3 cannabis strains for:
%s

Respond in JSON:
{
  "intro": "Brief friendly intro (1-2 sentences)",
  "recommendations": [
    {
      "name": "Strain Name",
      "type": "Indica|Sativa|Hybrid",
      "thcRange": "15-20%%",
      "effects": ["effect1", "effect2", "effect3"],
      "terpenes": ["terpene1", "terpene2"],
      "reason": "Why this fits (2 sentences)",
      "matchScore": 92
    }
  ],
  "tips": "One harm reduction or consumption tip"
}`, strings.Join(conditions, "\n"))
}

// buildAnalysisPrompt embeds the strain facts and the analysis reply schema.
func buildAnalysisPrompt(name string, strainType types.StrainType, thc, cbd float64, terpenes []string) string {
	thcStr := "Unknown"
	if thc > 0 {
		thcStr = fmt.Sprintf("%g%%", thc)
	}
	cbdStr := "Unknown"
	if cbd > 0 {
		cbdStr = fmt.Sprintf("%g%%", cbd)
	}
	terpStr := "Unknown"
	if len(terpenes) > 0 {
		terpStr = strings.Join(terpenes, ", ")
	}

	return fmt.Sprintf(`Analyze this cannabis strain:
- Name: %s
- Type: %s
- THC: %s
- CBD: %s
- Terpenes: %s

Respond in JSON:
{
  "effects": {
    "physical": ["effect1", "effect2"],
    "mental": ["effect1", "effect2"],
    "emotional": ["effect1", "effect2"]
  },
  "bestFor": ["activity1", "activity2"],
  "medicalBenefits": ["benefit1", "benefit2"],
  "sideEffects": ["dry mouth", "etc"],
  "consumptionTips": "Best way to consume this strain",
  "similarStrains": ["Strain1", "Strain2"],
  "experienceLevel": "beginner|intermediate|experienced",
  "duration": "2-4 hours",
  "onset": "5-15 minutes for flower"
}`, name, strainType, thcStr, cbdStr, terpStr)
}

// buildPairingPrompt embeds the activity and the pairing reply schema.
func buildPairingPrompt(activity string) string {
	return fmt.Sprintf(`What cannabis strains pair best with: %s

Consider:
- How the activity benefits from certain effects
- Timing and duration of the high
- Safety considerations

Respond in JSON:
{
  "intro": "Brief explanation of what effects enhance this activity",
  "pairings": [
    {"strain": "Strain Name", "type": "Indica|Sativa|Hybrid", "why": "Why it works", "confidence": "perfect|great|good"}
  ],
  "tips": "One tip for this activity + cannabis combo"
}`, activity)
}
