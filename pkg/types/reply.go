package types

// Recommendation is one item in a composed reply: a catalog strain with its
// match score and display-ready fields.
type Recommendation struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	THC        string   `json:"thc"` // formatted range, e.g. "17-24%"
	MatchScore int      `json:"matchScore"`
	Reason     string   `json:"reason"`
	Effects    []string `json:"effects"` // truncated to 4
	Flavors    []string `json:"flavors"` // truncated to 3
}

// Reply is a structured response from the deterministic recommendation path:
// a headline message, an optional ranked list, and optional follow-up prompts.
type Reply struct {
	Message         string           `json:"message"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
	FollowUp        []string         `json:"followUp,omitempty"`
}

// RemoteRecommendation is one recommendation item in the structured schema
// requested from generation providers. The same shape is produced by the
// canned fallbacks so callers never see which path served them.
type RemoteRecommendation struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	THCRange   string   `json:"thcRange"`
	Effects    []string `json:"effects"`
	Terpenes   []string `json:"terpenes,omitempty"`
	Reason     string   `json:"reason"`
	MatchScore int      `json:"matchScore"`
}

// RecommendationResult is the reply to a structured recommendation request.
type RecommendationResult struct {
	Intro           string                 `json:"intro,omitempty"`
	Recommendations []RemoteRecommendation `json:"recommendations"`
	Tips            string                 `json:"tips,omitempty"`
}

// AnalysisEffects splits analyzed effects into physical/mental/emotional.
type AnalysisEffects struct {
	Physical  []string `json:"physical"`
	Mental    []string `json:"mental"`
	Emotional []string `json:"emotional"`
}

// Analysis is a structured strain analysis, either generated or canned.
type Analysis struct {
	Effects         AnalysisEffects `json:"effects"`
	BestFor         []string        `json:"bestFor"`
	MedicalBenefits []string        `json:"medicalBenefits"`
	SideEffects     []string        `json:"sideEffects"`
	ConsumptionTips string          `json:"consumptionTips"`
	SimilarStrains  []string        `json:"similarStrains"`
	ExperienceLevel string          `json:"experienceLevel"`
	Duration        string          `json:"duration"`
	Onset           string          `json:"onset"`
}

// ActivityPairing matches one strain to an activity with a confidence label.
type ActivityPairing struct {
	Strain     string `json:"strain"`
	Type       string `json:"type"`
	Why        string `json:"why"`
	Confidence string `json:"confidence"` // perfect, great, good
}

// PairingResult is the reply to an activity pairing request.
type PairingResult struct {
	Intro    string            `json:"intro"`
	Pairings []ActivityPairing `json:"pairings"`
	Tips     string            `json:"tips,omitempty"`
}

// ChatContext carries optional profile facts the caller wants folded into
// the generation system instruction. Only populated fields are included,
// in a fixed order.
type ChatContext struct {
	FavoriteStrains  []string
	PreferredEffects []string
	ExperienceLevel  string
	MedicalNeeds     []string
	Tolerance        string
	AvoidEffects     []string
}

// RecommendationParams are the structured inputs to a recommendation request.
type RecommendationParams struct {
	Mood            string
	Activity        string
	TimeOfDay       string
	DesiredEffects  []string
	AvoidEffects    []string
	ExperienceLevel string
	MedicalNeeds    []string
	Method          string
}
