package gateway

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/verdant/sommelier/pkg/types"
)

// ExtractJSON extracts the first balanced JSON object from text that may
// contain surrounding prose. Generators add explanations before and after
// the JSON despite instructions, so the scan is bracket-matching and string
// aware rather than a greedy regex. Returns the input unchanged when no
// complete object is found; the caller's json.Unmarshal reports the failure.
func ExtractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	if start == -1 {
		return text
	}

	braceCount := 0
	inString := false
	escape := false

	for i := start; i < len(text); i++ {
		char := text[i]

		if escape {
			escape = false
			continue
		}
		if char == '\\' {
			escape = true
			continue
		}
		if char == '"' {
			inString = !inString
			continue
		}

		if !inString {
			switch char {
			case '{':
				braceCount++
			case '}':
				braceCount--
				if braceCount == 0 {
					return text[start : i+1]
				}
			}
		}
	}

	return text
}

// recommendationEnvelope tolerates both field names providers have been seen
// to use for the item list.
type recommendationEnvelope struct {
	Intro           string                       `json:"intro"`
	Recommendations []types.RemoteRecommendation `json:"recommendations"`
	Strains         []types.RemoteRecommendation `json:"strains"`
	Tips            string                       `json:"tips"`
}

// ParseRecommendation extracts and parses a structured recommendation result
// from generated text. Errors wrap ErrMalformedOutput.
func ParseRecommendation(text string) (*types.RecommendationResult, error) {
	var env recommendationEnvelope
	if err := json.Unmarshal([]byte(ExtractJSON(text)), &env); err != nil {
		return nil, fmt.Errorf("%w: recommendation: %v", ErrMalformedOutput, err)
	}

	items := env.Recommendations
	if len(items) == 0 {
		items = env.Strains
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: recommendation: no items", ErrMalformedOutput)
	}

	return &types.RecommendationResult{
		Intro:           env.Intro,
		Recommendations: items,
		Tips:            env.Tips,
	}, nil
}

// ParseAnalysis extracts and parses a structured strain analysis from
// generated text. Errors wrap ErrMalformedOutput.
func ParseAnalysis(text string) (*types.Analysis, error) {
	var analysis types.Analysis
	if err := json.Unmarshal([]byte(ExtractJSON(text)), &analysis); err != nil {
		return nil, fmt.Errorf("%w: analysis: %v", ErrMalformedOutput, err)
	}
	if len(analysis.Effects.Physical) == 0 && len(analysis.Effects.Mental) == 0 &&
		len(analysis.Effects.Emotional) == 0 && len(analysis.BestFor) == 0 {
		return nil, fmt.Errorf("%w: analysis: empty result", ErrMalformedOutput)
	}
	return &analysis, nil
}

// ParsePairing extracts and parses a structured activity pairing result from
// generated text. Errors wrap ErrMalformedOutput.
func ParsePairing(text string) (*types.PairingResult, error) {
	var pairing types.PairingResult
	if err := json.Unmarshal([]byte(ExtractJSON(text)), &pairing); err != nil {
		return nil, fmt.Errorf("%w: pairing: %v", ErrMalformedOutput, err)
	}
	if len(pairing.Pairings) == 0 {
		return nil, fmt.Errorf("%w: pairing: no pairings", ErrMalformedOutput)
	}
	return &pairing, nil
}
