package sommelier

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/verdant/sommelier/internal/catalog"
	"github.com/verdant/sommelier/internal/engine"
	"github.com/verdant/sommelier/internal/gateway"
	"github.com/verdant/sommelier/pkg/types"
)

// fakeGenerator scripts gateway behavior without a network.
type fakeGenerator struct {
	content string
	err     error
	calls   int
	lastReq gateway.Request
}

func (f *fakeGenerator) Generate(_ context.Context, req gateway.Request) (*gateway.Result, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &gateway.Result{Content: f.content, Provider: "anthropic", Model: "test-model"}, nil
}

func newSommelier(t *testing.T, gen Generator) *Sommelier {
	t.Helper()
	c, err := catalog.Load()
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}
	s, err := New(gen, engine.New(c))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestChatReturnsGeneratedTextVerbatim(t *testing.T) {
	gen := &fakeGenerator{content: "Here's my take on that."}
	s := newSommelier(t, gen)

	reply := s.Chat(context.Background(), "I want to relax", nil, nil)
	if reply.Message != "Here's my take on that." {
		t.Errorf("message = %q", reply.Message)
	}
	if reply.Provider != "anthropic" {
		t.Errorf("provider = %q", reply.Provider)
	}
	if len(reply.Recommendations) != 0 {
		t.Error("generated chat reply should carry no engine recommendations")
	}
}

func TestChatFallsBackSilently(t *testing.T) {
	gen := &fakeGenerator{err: gateway.ErrNoCredentials}
	s := newSommelier(t, gen)

	reply := s.Chat(context.Background(), "I want to relax", nil, nil)
	if reply.Message == "" {
		t.Fatal("fallback reply is empty")
	}
	if reply.Provider != "" {
		t.Errorf("fallback reply claims provider %q", reply.Provider)
	}
	if len(reply.Recommendations) != 3 {
		t.Errorf("got %d recommendations, want 3 from the engine", len(reply.Recommendations))
	}
}

func TestChatContextBlockOrder(t *testing.T) {
	gen := &fakeGenerator{content: "ok"}
	s := newSommelier(t, gen)

	s.Chat(context.Background(), "hi", nil, &types.ChatContext{
		FavoriteStrains:  []string{"Blue Dream"},
		PreferredEffects: []string{"relaxed"},
		ExperienceLevel:  "beginner",
		MedicalNeeds:     []string{"insomnia"},
		Tolerance:        "low",
		AvoidEffects:     []string{"anxious"},
	})

	system := gen.lastReq.System
	fields := []string{
		"Favorite strains: Blue Dream",
		"Looking for: relaxed",
		"Experience: beginner",
		"Medical needs: insomnia",
		"Tolerance: low",
		"Wants to avoid: anxious",
	}
	pos := -1
	for _, f := range fields {
		idx := strings.Index(system, f)
		if idx == -1 {
			t.Fatalf("system prompt missing %q", f)
		}
		if idx < pos {
			t.Fatalf("field %q out of order", f)
		}
		pos = idx
	}
}

func TestChatOmitsEmptyContext(t *testing.T) {
	gen := &fakeGenerator{content: "ok"}
	s := newSommelier(t, gen)

	s.Chat(context.Background(), "hi", nil, &types.ChatContext{})
	if strings.Contains(gen.lastReq.System, "## User Profile") {
		t.Error("empty context still produced a profile block")
	}
}

func TestChatCallParameters(t *testing.T) {
	gen := &fakeGenerator{content: "ok"}
	s := newSommelier(t, gen)

	s.Chat(context.Background(), "hi", nil, nil)
	req := gen.lastReq
	if req.Tier != gateway.TierStandard || req.MaxTokens != 800 || req.Temperature != 0.8 {
		t.Errorf("chat call params = %s/%d/%g, want standard/800/0.8", req.Tier, req.MaxTokens, req.Temperature)
	}
}

func TestRecommendParsesGeneratedJSON(t *testing.T) {
	gen := &fakeGenerator{content: `Here you go:
{"intro": "Tonight's picks", "recommendations": [
  {"name": "Gelato", "type": "Hybrid", "thcRange": "20-25%", "effects": ["happy"], "reason": "sweet", "matchScore": 91}
], "tips": "hydrate"}`}
	s := newSommelier(t, gen)

	result := s.Recommend(context.Background(), types.RecommendationParams{Mood: "happy"})
	if result.Intro != "Tonight's picks" || len(result.Recommendations) != 1 {
		t.Fatalf("result = %+v", result)
	}
	if gen.lastReq.Tier != gateway.TierStandard || gen.lastReq.MaxTokens != 800 || gen.lastReq.Temperature != 0.7 {
		t.Errorf("recommend call params = %s/%d/%g, want standard/800/0.7",
			gen.lastReq.Tier, gen.lastReq.MaxTokens, gen.lastReq.Temperature)
	}
}

func TestRecommendMalformedOutputFallsBack(t *testing.T) {
	gen := &fakeGenerator{content: "I'd recommend whatever you like best!"}
	s := newSommelier(t, gen)

	result := s.Recommend(context.Background(), types.RecommendationParams{Mood: "sleep"})
	if len(result.Recommendations) != 3 {
		t.Fatalf("got %d canned recommendations, want 3", len(result.Recommendations))
	}
	if result.Recommendations[0].Name != "Granddaddy Purple" {
		t.Errorf("sleep fallback top pick = %q", result.Recommendations[0].Name)
	}
}

func TestRecommendCannedResultIsIdempotent(t *testing.T) {
	gen := &fakeGenerator{err: gateway.ErrNoCredentials}
	s := newSommelier(t, gen)

	params := types.RecommendationParams{Activity: "hiking"}
	first := s.Recommend(context.Background(), params)
	for i := 0; i < 3; i++ {
		if again := s.Recommend(context.Background(), params); !reflect.DeepEqual(first, again) {
			t.Fatalf("canned result differs on call %d", i)
		}
	}
}

func TestAnalyzeCachesResults(t *testing.T) {
	gen := &fakeGenerator{err: gateway.ErrAllProvidersFailed}
	s := newSommelier(t, gen)

	first := s.Analyze(context.Background(), "OG Kush", types.TypeHybrid, 22, 0.3, nil)
	second := s.Analyze(context.Background(), "OG Kush", types.TypeHybrid, 22, 0.3, nil)

	if first != second {
		t.Error("cache miss on identical analysis request")
	}
	if gen.calls != 1 {
		t.Errorf("gateway called %d times, want 1", gen.calls)
	}
}

func TestAnalyzeFallbackPerType(t *testing.T) {
	gen := &fakeGenerator{err: gateway.ErrNoCredentials}
	s := newSommelier(t, gen)

	sativa := s.Analyze(context.Background(), "Durban Poison", types.TypeSativa, 0, 0, nil)
	if sativa.Effects.Mental[0] != "Creative" {
		t.Errorf("sativa fallback effects = %+v", sativa.Effects)
	}

	indica := s.Analyze(context.Background(), "Bubba Kush", types.TypeIndica, 0, 0, nil)
	if indica.Effects.Physical[0] != "Relaxed" {
		t.Errorf("indica fallback effects = %+v", indica.Effects)
	}
}

func TestPairActivityMovieFallback(t *testing.T) {
	gen := &fakeGenerator{err: gateway.ErrNoCredentials}
	s := newSommelier(t, gen)

	result := s.PairActivity(context.Background(), "movie night")
	if len(result.Pairings) != 3 || result.Pairings[0].Strain != "Blue Dream" {
		t.Fatalf("movie pairing = %+v", result.Pairings)
	}
	if gen.lastReq.Tier != gateway.TierFast || gen.lastReq.MaxTokens != 500 || gen.lastReq.Temperature != 0.6 {
		t.Errorf("pairing call params = %s/%d/%g, want fast/500/0.6",
			gen.lastReq.Tier, gen.lastReq.MaxTokens, gen.lastReq.Temperature)
	}
}

func TestPairActivityGenericFallbackEchoesActivity(t *testing.T) {
	gen := &fakeGenerator{err: gateway.ErrNoCredentials}
	s := newSommelier(t, gen)

	result := s.PairActivity(context.Background(), "rock climbing")
	if !strings.Contains(result.Intro, "rock climbing") {
		t.Errorf("intro = %q", result.Intro)
	}
}

func TestOrchestratorNeverSurfacesGatewayErrors(t *testing.T) {
	gen := &fakeGenerator{err: gateway.ErrAllProvidersFailed}
	s := newSommelier(t, gen)
	ctx := context.Background()

	if reply := s.Chat(ctx, "anything at all", nil, nil); reply.Message == "" {
		t.Error("chat surfaced an empty reply")
	}
	if result := s.Recommend(ctx, types.RecommendationParams{}); len(result.Recommendations) == 0 {
		t.Error("recommend surfaced an empty result")
	}
	if analysis := s.Analyze(ctx, "X", types.TypeHybrid, 0, 0, nil); analysis == nil {
		t.Error("analyze surfaced nil")
	}
	if pairing := s.PairActivity(ctx, "reading"); len(pairing.Pairings) == 0 {
		t.Error("pairing surfaced an empty result")
	}
}

func TestClassifyAndScoreBypassesGateway(t *testing.T) {
	gen := &fakeGenerator{content: "should not be used"}
	s := newSommelier(t, gen)

	reply := s.ClassifyAndScore("I want to relax", types.NewDefaultProfile("u1"))
	if gen.calls != 0 {
		t.Errorf("gateway called %d times, want 0", gen.calls)
	}
	if len(reply.Recommendations) != 3 {
		t.Errorf("got %d recommendations, want 3", len(reply.Recommendations))
	}
}
