// Package sommelier is the recommendation orchestrator: it tries the
// generation gateway first and silently falls back to the deterministic
// engine on any failure. Every operation returns a usable result; gateway
// errors never reach callers.
package sommelier

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/verdant/sommelier/internal/engine"
	"github.com/verdant/sommelier/internal/gateway"
	"github.com/verdant/sommelier/pkg/types"
)

// analysisCacheSize bounds the strain-analysis LRU cache.
const analysisCacheSize = 128

// Generator is the slice of the gateway the orchestrator needs.
type Generator interface {
	Generate(ctx context.Context, req gateway.Request) (*gateway.Result, error)
}

// ChatReply is the result of a chat turn. Provider is empty when the
// deterministic fallback served the reply.
type ChatReply struct {
	Message         string                 `json:"message"`
	Recommendations []types.Recommendation `json:"recommendations,omitempty"`
	FollowUp        []string               `json:"followUp,omitempty"`
	Provider        string                 `json:"provider,omitempty"`
}

// Sommelier orchestrates the gateway and the deterministic engine.
type Sommelier struct {
	gen           Generator
	engine        *engine.Engine
	analysisCache *lru.Cache[string, *types.Analysis]
}

// New creates an orchestrator. gen may come from gateway.New; engine must
// hold a loaded catalog.
func New(gen Generator, eng *engine.Engine) (*Sommelier, error) {
	cache, err := lru.New[string, *types.Analysis](analysisCacheSize)
	if err != nil {
		return nil, fmt.Errorf("sommelier: analysis cache: %w", err)
	}
	return &Sommelier{gen: gen, engine: eng, analysisCache: cache}, nil
}

// Chat answers one free-text turn. On gateway success the generated text is
// returned verbatim; on any gateway failure the deterministic pipeline runs
// against a default profile and the failure stays invisible to the caller.
func (s *Sommelier) Chat(ctx context.Context, text string, history []gateway.Message, chatCtx *types.ChatContext) ChatReply {
	requestID := shortID()

	result, err := s.gen.Generate(ctx, gateway.Request{
		System:      budtenderSystemPrompt + buildContextBlock(chatCtx),
		History:     history,
		UserMessage: text,
		Tier:        gateway.TierStandard,
		MaxTokens:   800,
		Temperature: 0.8,
	})
	if err != nil {
		log.Printf("sommelier: [%s] chat generation unavailable, using engine: %v", requestID, err)
		reply := s.engine.Respond(text, nil)
		return ChatReply{
			Message:         reply.Message,
			Recommendations: reply.Recommendations,
			FollowUp:        reply.FollowUp,
		}
	}

	return ChatReply{Message: result.Content, Provider: result.Provider}
}

// Recommend answers a structured recommendation request. Malformed or failed
// generation yields the canned result for the parameter combination.
func (s *Sommelier) Recommend(ctx context.Context, params types.RecommendationParams) *types.RecommendationResult {
	requestID := shortID()

	result, err := s.gen.Generate(ctx, gateway.Request{
		System:      budtenderSystemPrompt,
		UserMessage: buildRecommendationPrompt(params),
		Tier:        gateway.TierStandard,
		MaxTokens:   800,
		Temperature: 0.7,
	})
	if err != nil {
		log.Printf("sommelier: [%s] recommend generation unavailable: %v", requestID, err)
		return fallbackRecommendations(params)
	}

	parsed, err := gateway.ParseRecommendation(result.Content)
	if err != nil {
		log.Printf("sommelier: [%s] recommend output unparseable: %v", requestID, err)
		return fallbackRecommendations(params)
	}
	return parsed
}

// Analyze produces a structured analysis for a strain. Results are cached by
// strain identity; cache hits skip the gateway entirely.
func (s *Sommelier) Analyze(ctx context.Context, name string, strainType types.StrainType, thc, cbd float64, terpenes []string) *types.Analysis {
	cacheKey := name + "|" + string(strainType)
	if cached, ok := s.analysisCache.Get(cacheKey); ok {
		return cached
	}

	requestID := shortID()
	analysis := s.analyze(ctx, requestID, name, strainType, thc, cbd, terpenes)
	s.analysisCache.Add(cacheKey, analysis)
	return analysis
}

func (s *Sommelier) analyze(ctx context.Context, requestID, name string, strainType types.StrainType, thc, cbd float64, terpenes []string) *types.Analysis {
	result, err := s.gen.Generate(ctx, gateway.Request{
		System:      analysisSystemPrompt,
		UserMessage: buildAnalysisPrompt(name, strainType, thc, cbd, terpenes),
		Tier:        gateway.TierFast,
		MaxTokens:   500,
		Temperature: 0.5,
	})
	if err != nil {
		log.Printf("sommelier: [%s] analyze generation unavailable: %v", requestID, err)
		return fallbackAnalysis(strainType)
	}

	parsed, err := gateway.ParseAnalysis(result.Content)
	if err != nil {
		log.Printf("sommelier: [%s] analyze output unparseable: %v", requestID, err)
		return fallbackAnalysis(strainType)
	}
	return parsed
}

// PairActivity suggests strains for an activity.
func (s *Sommelier) PairActivity(ctx context.Context, activity string) *types.PairingResult {
	requestID := shortID()

	result, err := s.gen.Generate(ctx, gateway.Request{
		System:      pairingSystemPrompt,
		UserMessage: buildPairingPrompt(activity),
		Tier:        gateway.TierFast,
		MaxTokens:   500,
		Temperature: 0.6,
	})
	if err != nil {
		log.Printf("sommelier: [%s] pairing generation unavailable: %v", requestID, err)
		return fallbackPairing(activity)
	}

	parsed, err := gateway.ParsePairing(result.Content)
	if err != nil {
		log.Printf("sommelier: [%s] pairing output unparseable: %v", requestID, err)
		return fallbackPairing(activity)
	}
	return parsed
}

// ClassifyAndScore exposes the deterministic pipeline directly, for offline
// mode and testing. It never touches the gateway.
func (s *Sommelier) ClassifyAndScore(text string, profile *types.Profile) types.Reply {
	return s.engine.Respond(text, profile)
}

// Engine exposes the underlying deterministic engine.
func (s *Sommelier) Engine() *engine.Engine {
	return s.engine
}

func shortID() string {
	return uuid.NewString()[:8]
}
