package gateway

import (
	"errors"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bare object",
			input: `{"a": 1}`,
			want:  `{"a": 1}`,
		},
		{
			name:  "prose around object",
			input: `Sure! Here you go: {"a": 1} Hope that helps.`,
			want:  `{"a": 1}`,
		},
		{
			name:  "markdown fences",
			input: "```json\n{\"a\": 1}\n```",
			want:  `{"a": 1}`,
		},
		{
			name:  "nested braces",
			input: `{"outer": {"inner": {"deep": 2}}} trailing`,
			want:  `{"outer": {"inner": {"deep": 2}}}`,
		},
		{
			name:  "braces inside strings",
			input: `{"text": "a } inside {"} extra`,
			want:  `{"text": "a } inside {"}`,
		},
		{
			name:  "escaped quotes",
			input: `{"text": "she said \"hi\" {"} extra`,
			want:  `{"text": "she said \"hi\" {"}`,
		},
		{
			name:  "no object",
			input: "no json here",
			want:  "no json here",
		},
		{
			name:  "unterminated object",
			input: `{"a": 1`,
			want:  `{"a": 1`,
		},
	}
	for _, tc := range cases {
		if got := ExtractJSON(tc.input); got != tc.want {
			t.Errorf("%s: ExtractJSON = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestParseRecommendation(t *testing.T) {
	text := `Here are my picks:
{
  "intro": "Great choices for tonight",
  "recommendations": [
    {"name": "Northern Lights", "type": "Indica", "thcRange": "16-21%",
     "effects": ["sleepy", "relaxed"], "terpenes": ["myrcene"],
     "reason": "Classic sleeper", "matchScore": 92}
  ],
  "tips": "Start low"
}`
	result, err := ParseRecommendation(text)
	if err != nil {
		t.Fatalf("ParseRecommendation: %v", err)
	}
	if result.Intro != "Great choices for tonight" {
		t.Errorf("intro = %q", result.Intro)
	}
	if len(result.Recommendations) != 1 || result.Recommendations[0].Name != "Northern Lights" {
		t.Errorf("recommendations = %+v", result.Recommendations)
	}
	if result.Recommendations[0].MatchScore != 92 {
		t.Errorf("matchScore = %d", result.Recommendations[0].MatchScore)
	}
}

func TestParseRecommendationStrainsKey(t *testing.T) {
	text := `{"strains": [{"name": "Blue Dream", "type": "Hybrid", "reason": "versatile", "matchScore": 90}]}`
	result, err := ParseRecommendation(text)
	if err != nil {
		t.Fatalf("ParseRecommendation: %v", err)
	}
	if len(result.Recommendations) != 1 || result.Recommendations[0].Name != "Blue Dream" {
		t.Errorf("recommendations = %+v", result.Recommendations)
	}
}

func TestParseRecommendationMalformed(t *testing.T) {
	for _, input := range []string{
		"no json at all",
		`{"intro": "only prose"}`,
		`{"recommendations": "not a list"}`,
	} {
		if _, err := ParseRecommendation(input); !errors.Is(err, ErrMalformedOutput) {
			t.Errorf("input %q: err = %v, want ErrMalformedOutput", input, err)
		}
	}
}

func TestParseAnalysis(t *testing.T) {
	text := `{
  "effects": {"physical": ["relaxed"], "mental": ["calm"], "emotional": ["happy"]},
  "bestFor": ["evening"],
  "medicalBenefits": ["stress relief"],
  "sideEffects": ["dry mouth"],
  "consumptionTips": "go slow",
  "similarStrains": ["Northern Lights"],
  "experienceLevel": "beginner",
  "duration": "2-4 hours",
  "onset": "5-15 minutes"
}`
	analysis, err := ParseAnalysis(text)
	if err != nil {
		t.Fatalf("ParseAnalysis: %v", err)
	}
	if analysis.Duration != "2-4 hours" || len(analysis.Effects.Physical) != 1 {
		t.Errorf("analysis = %+v", analysis)
	}
}

func TestParseAnalysisEmpty(t *testing.T) {
	if _, err := ParseAnalysis(`{"effects": {}}`); !errors.Is(err, ErrMalformedOutput) {
		t.Fatalf("err = %v, want ErrMalformedOutput", err)
	}
}

func TestParsePairing(t *testing.T) {
	text := "```json\n" + `{
  "intro": "Movies love hybrids",
  "pairings": [
    {"strain": "Blue Dream", "type": "Hybrid", "why": "engaged but relaxed", "confidence": "perfect"}
  ],
  "tips": "snacks first"
}` + "\n```"
	pairing, err := ParsePairing(text)
	if err != nil {
		t.Fatalf("ParsePairing: %v", err)
	}
	if len(pairing.Pairings) != 1 || pairing.Pairings[0].Confidence != "perfect" {
		t.Errorf("pairing = %+v", pairing)
	}
}

func TestParsePairingMalformed(t *testing.T) {
	if _, err := ParsePairing(`{"intro": "x", "pairings": []}`); !errors.Is(err, ErrMalformedOutput) {
		t.Fatalf("err = %v, want ErrMalformedOutput", err)
	}
}
