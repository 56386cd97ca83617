// Package gateway sends prompts to remote text-generation providers with
// tier-based model selection and ordered sequential failover. Providers sit
// behind a uniform capability interface; adding one means implementing the
// interface and registering it, not branching in callers.
package gateway

import (
	"context"
	"fmt"
	"log"
)

// Tier is a coarse task-complexity bucket used to pick a model per provider.
type Tier string

// Tier constants
const (
	TierFast     Tier = "fast"
	TierStandard Tier = "standard"
	TierPowerful Tier = "powerful"
)

// IsValidTier reports whether t is a recognized tier.
func IsValidTier(t Tier) bool {
	switch t {
	case TierFast, TierStandard, TierPowerful:
		return true
	}
	return false
}

// Message is one conversation turn.
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Message role constants
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Result is a successful generation: the text payload plus which provider
// and model served it.
type Result struct {
	Content  string
	Provider string
	Model    string
}

// Provider is the uniform capability interface over a remote backend.
type Provider interface {
	// Name identifies the provider in results and errors.
	Name() string

	// Available reports whether the provider has a configured credential.
	Available() bool

	// Model resolves a tier to this provider's model identifier.
	Model(tier Tier) string

	// Generate performs one atomic call. No retries.
	Generate(ctx context.Context, system string, messages []Message, model string, maxTokens int, temperature float64) (string, error)
}

// Request is one generation attempt.
type Request struct {
	System      string
	History     []Message // prior turns, oldest first
	UserMessage string
	Tier        Tier
	MaxTokens   int
	Temperature float64
}

// historyWindow bounds how many prior turns are forwarded with a call.
const historyWindow = 10

// Gateway fans a request over an ordered provider list. The order is fixed
// at construction; the first available provider is the primary.
type Gateway struct {
	providers []Provider
}

// New creates a gateway over the given providers, attempted in argument
// order.
func New(providers ...Provider) *Gateway {
	return &Gateway{providers: providers}
}

// Generate attempts providers in order and returns the first success.
//
// With no available provider it returns ErrNoCredentials without touching
// the network. A failing provider is logged and the next one is tried; if
// all fail the returned error wraps ErrAllProvidersFailed and the last
// provider's failure. An unrecognized tier is a contract violation and fails
// immediately without any provider attempt.
func (g *Gateway) Generate(ctx context.Context, req Request) (*Result, error) {
	if !IsValidTier(req.Tier) {
		return nil, fmt.Errorf("gateway: unrecognized tier %q", req.Tier)
	}

	available := g.available()
	if len(available) == 0 {
		return nil, ErrNoCredentials
	}

	messages := make([]Message, 0, historyWindow+1)
	messages = append(messages, lastTurns(req.History, historyWindow)...)
	messages = append(messages, Message{Role: RoleUser, Content: req.UserMessage})

	var lastErr *ProviderError
	for _, p := range available {
		model := p.Model(req.Tier)
		content, err := p.Generate(ctx, req.System, messages, model, req.MaxTokens, req.Temperature)
		if err != nil {
			lastErr = &ProviderError{Provider: p.Name(), Err: err}
			log.Printf("gateway: %s failed, trying next: %v", p.Name(), err)
			continue
		}
		return &Result{Content: content, Provider: p.Name(), Model: model}, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrAllProvidersFailed, lastErr)
}

// Available reports whether at least one provider has a credential.
func (g *Gateway) Available() bool {
	return len(g.available()) > 0
}

// AvailableProviders lists the names of providers holding a credential, in
// failover order.
func (g *Gateway) AvailableProviders() []string {
	names := make([]string, 0, len(g.providers))
	for _, p := range g.available() {
		names = append(names, p.Name())
	}
	return names
}

func (g *Gateway) available() []Provider {
	var out []Provider
	for _, p := range g.providers {
		if p.Available() {
			out = append(out, p)
		}
	}
	return out
}

func lastTurns(history []Message, n int) []Message {
	if len(history) > n {
		return history[len(history)-n:]
	}
	return history
}
