package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"nhooyr.io/websocket" //nolint:staticcheck // TODO: migrate to github.com/coder/websocket

	"github.com/verdant/sommelier/internal/gateway"
	"github.com/verdant/sommelier/internal/sommelier"
)

// wsWriteTimeout bounds a single frame write.
const wsWriteTimeout = 10 * time.Second

// wsHistoryLimit bounds the per-connection conversation history kept for
// generation context. Matches the window the gateway forwards.
const wsHistoryLimit = 10

// ChatSocket serves a conversational session over a WebSocket. Each
// connection holds its own history; a turn is one JSON frame in, one JSON
// frame out.
type ChatSocket struct {
	som            *sommelier.Sommelier
	allowedOrigins []string
}

// wsTurn is one client frame.
type wsTurn struct {
	Message string `json:"message"`
	UserID  string `json:"user_id,omitempty"`
}

// NewChatSocket creates a WebSocket chat handler. allowedOrigins lists the
// host[:port] patterns accepted during the upgrade handshake.
func NewChatSocket(som *sommelier.Sommelier, allowedOrigins []string) *ChatSocket {
	return &ChatSocket{som: som, allowedOrigins: allowedOrigins}
}

// ServeHTTP handles WebSocket upgrade requests.
func (cs *ChatSocket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{ //nolint:staticcheck // TODO: migrate to github.com/coder/websocket
		OriginPatterns: cs.allowedOrigins,
	})
	if err != nil {
		log.Printf("ERROR: WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "") //nolint:staticcheck // TODO: migrate to github.com/coder/websocket

	log.Printf("WebSocket chat session started from %s", r.RemoteAddr)
	// The request context dies with the hijacked HTTP request; the session
	// outlives it.
	cs.serve(context.Background(), conn)
}

func (cs *ChatSocket) serve(ctx context.Context, conn *websocket.Conn) { //nolint:staticcheck // TODO: migrate to github.com/coder/websocket
	var history []gateway.Message

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			// Connection closed
			return
		}

		var turn wsTurn
		if err := json.Unmarshal(data, &turn); err != nil || turn.Message == "" {
			if writeErr := cs.write(ctx, conn, ErrorResponse{
				Error: "expected {\"message\": \"...\"}",
				Code:  http.StatusText(http.StatusBadRequest),
			}); writeErr != nil {
				return
			}
			continue
		}

		reply := cs.som.Chat(ctx, turn.Message, history, nil)

		history = append(history,
			gateway.Message{Role: gateway.RoleUser, Content: turn.Message},
			gateway.Message{Role: gateway.RoleAssistant, Content: reply.Message},
		)
		if len(history) > wsHistoryLimit {
			history = history[len(history)-wsHistoryLimit:]
		}

		if err := cs.write(ctx, conn, reply); err != nil {
			log.Printf("ERROR: WebSocket write failed: %v", err)
			return
		}
	}
}

func (cs *ChatSocket) write(ctx context.Context, conn *websocket.Conn, payload interface{}) error { //nolint:staticcheck // TODO: migrate to github.com/coder/websocket
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal frame: %w", err)
	}

	wctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	return conn.Write(wctx, websocket.MessageText, data) //nolint:staticcheck // TODO: migrate to github.com/coder/websocket
}
