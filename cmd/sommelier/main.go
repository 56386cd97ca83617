// cmd/sommelier is an interactive terminal session with the recommendation
// engine. With provider keys configured it talks to the generation gateway;
// without them every turn is served by the deterministic pipeline.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/verdant/sommelier/internal/catalog"
	"github.com/verdant/sommelier/internal/config"
	"github.com/verdant/sommelier/internal/credentials"
	"github.com/verdant/sommelier/internal/engine"
	"github.com/verdant/sommelier/internal/gateway"
	"github.com/verdant/sommelier/internal/sommelier"
)

func main() {
	offline := flag.Bool("offline", false, "skip generation providers, deterministic replies only")
	flag.Parse()

	// Keep incidental logging off the conversation transcript.
	log.SetOutput(os.Stderr)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	cat, err := catalog.Load()
	if err != nil {
		log.Fatalf("failed to load strain catalog: %v", err)
	}
	eng := engine.New(cat)

	som, err := sommelier.New(buildGenerator(cfg, *offline), eng)
	if err != nil {
		log.Fatalf("failed to create orchestrator: %v", err)
	}

	fmt.Printf("Sommelier ready, %d strains loaded. Ask away, or type \"quit\" to leave.\n\n", cat.Len())
	repl(som)
}

// buildGenerator wires the provider gateway, or an empty one in offline mode.
// An empty gateway reports no credentials on every call, which the
// orchestrator absorbs by answering deterministically.
func buildGenerator(cfg *config.Config, offline bool) sommelier.Generator {
	if offline {
		return gateway.New()
	}

	creds := credentials.NewStore(map[string]string{
		credentials.ProviderOpenAI:    cfg.LLM.OpenAIAPIKey,
		credentials.ProviderAnthropic: cfg.LLM.AnthropicAPIKey,
	})
	if cfg.LLM.CredentialsFile != "" {
		if err := creds.WatchFile(cfg.LLM.CredentialsFile); err != nil {
			log.Printf("credentials file unavailable: %v", err)
		}
	}

	timeout := time.Duration(cfg.LLM.RequestTimeout) * time.Second
	gw := gateway.New(
		gateway.NewAnthropicClient(gateway.AnthropicConfig{
			Key:     creds.KeyFunc(credentials.ProviderAnthropic),
			Timeout: timeout,
		}),
		gateway.NewOpenAIClient(gateway.OpenAIConfig{
			Key:     creds.KeyFunc(credentials.ProviderOpenAI),
			Timeout: timeout,
		}),
	)
	if !gw.Available() {
		log.Println("no provider keys configured, running deterministically")
	}
	return gw
}

func repl(som *sommelier.Sommelier) {
	var history []gateway.Message
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "quit" || text == "exit" {
			fmt.Println("Enjoy responsibly.")
			return
		}

		reply := som.Chat(context.Background(), text, history, nil)
		printReply(reply)

		history = append(history,
			gateway.Message{Role: gateway.RoleUser, Content: text},
			gateway.Message{Role: gateway.RoleAssistant, Content: reply.Message},
		)
	}
}

func printReply(reply sommelier.ChatReply) {
	fmt.Printf("\n%s\n", reply.Message)

	for i, rec := range reply.Recommendations {
		fmt.Printf("\n%d. %s (%s, THC %s) %d%% match\n", i+1, rec.Name, rec.Type, rec.THC, rec.MatchScore)
		fmt.Printf("   %s\n", rec.Reason)
		if len(rec.Effects) > 0 {
			fmt.Printf("   effects: %s\n", strings.Join(rec.Effects, ", "))
		}
	}

	if len(reply.FollowUp) > 0 {
		fmt.Printf("\nYou could also ask:\n")
		for _, q := range reply.FollowUp {
			fmt.Printf("  - %s\n", q)
		}
	}
	fmt.Println()
}
