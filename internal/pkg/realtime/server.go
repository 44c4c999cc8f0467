package realtime

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/LwandleM/SafeSuburb/internal/pkg/security"
)

// Server exposes the websocket changefeed on its own HTTP listener, apart
// from the main Fiber app. Clients authenticate with a short-lived signed
// ticket issued by the API, since the session cookie is not available here.
type Server struct {
	hub    *Hub
	addr   string
	secret string
}

func NewServer(hub *Hub, addr, secret string) *Server {
	return &Server{hub: hub, addr: addr, secret: secret}
}

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)

	srv := &http.Server{Addr: s.addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warnf("[Realtime] ws server shutdown: %v", err)
		}
	}()

	log.Infof("[Realtime] websocket server listening on %s", s.addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ticket := r.URL.Query().Get("ticket")
	claims, err := security.ValidateWSTicket(ticket, s.secret)
	if err != nil {
		http.Error(w, "invalid ticket", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Warnf("[Realtime] websocket accept failed: %v", err)
		return
	}

	client := NewClient(uuid.NewString(), claims.UserID, conn, s.hub)
	client.Start()
}
