package handlers

import (
	"github.com/verdant/sommelier/internal/config"
	"github.com/verdant/sommelier/internal/gateway"
)

// ErrorResponse is the standard error response format for the API.
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ChatRequest is the request format for POST /api/chat.
type ChatRequest struct {
	Message string            `json:"message"`
	History []gateway.Message `json:"history,omitempty"`
	UserID  string            `json:"user_id,omitempty"` // folds the stored profile into the reply
}

// RecommendRequest is the request format for POST /api/recommend.
type RecommendRequest struct {
	Mood            string   `json:"mood,omitempty"`
	Activity        string   `json:"activity,omitempty"`
	TimeOfDay       string   `json:"time_of_day,omitempty"`
	DesiredEffects  []string `json:"desired_effects,omitempty"`
	AvoidEffects    []string `json:"avoid_effects,omitempty"`
	ExperienceLevel string   `json:"experience_level,omitempty"`
	MedicalNeeds    []string `json:"medical_needs,omitempty"`
	Method          string   `json:"method,omitempty"`
}

// AnalyzeRequest is the request format for POST /api/analyze, used for
// strains outside the built-in catalog.
type AnalyzeRequest struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	THC      float64  `json:"thc"`
	CBD      float64  `json:"cbd"`
	Terpenes []string `json:"terpenes,omitempty"`
}

// PairRequest is the request format for POST /api/pairings.
type PairRequest struct {
	Activity string `json:"activity"`
}

// CredentialRequest is the request format for POST /api/config/credentials.
// Rotates a provider key at runtime without a restart.
type CredentialRequest struct {
	Provider string `json:"provider"`
	Key      string `json:"key"`
}

// ConfigResponse is the response format for GET /api/config.
// API keys are masked for security.
type ConfigResponse struct {
	Providers []string          `json:"providers"` // providers with a usable key
	LLM       LLMConfigResponse `json:"llm"`
	Storage   string            `json:"storage_engine"`
}

// LLMConfigResponse contains generation configuration with masked API keys.
type LLMConfigResponse struct {
	OpenAIAPIKey    string `json:"openai_api_key"`    // Masked
	AnthropicAPIKey string `json:"anthropic_api_key"` // Masked
	RequestTimeout  int    `json:"request_timeout"`
}

// StrainListResponse is the response format for GET /api/strains.
type StrainListResponse struct {
	Strains interface{} `json:"strains"`
	Total   int         `json:"total"`
}

// MaskAPIKey masks an API key for safe display.
// Shows first 7 chars and last 4 chars, hides the middle.
func MaskAPIKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) < 8 {
		return "***"
	}
	return key[:7] + "..." + key[len(key)-4:]
}

// ToConfigResponse converts a config.Config to ConfigResponse with masked
// keys. available lists the providers the gateway can currently reach.
func ToConfigResponse(cfg *config.Config, available []string) ConfigResponse {
	return ConfigResponse{
		Providers: available,
		LLM: LLMConfigResponse{
			OpenAIAPIKey:    MaskAPIKey(cfg.LLM.OpenAIAPIKey),
			AnthropicAPIKey: MaskAPIKey(cfg.LLM.AnthropicAPIKey),
			RequestTimeout:  cfg.LLM.RequestTimeout,
		},
		Storage: cfg.Storage.StorageEngine,
	}
}
