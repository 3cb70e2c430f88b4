package handler

import (
	"errors"
	"net/http"

	"github.com/dafibh/tally/tally-backend/internal/websocket"
	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler streams ledger events to dashboards
type WebSocketHandler struct {
	hub      *websocket.Hub
	origins  map[string]bool
	upgrader ws.Upgrader
}

// NewWebSocketHandler creates a WebSocketHandler accepting browser
// connections from allowedOrigins
func NewWebSocketHandler(hub *websocket.Hub, allowedOrigins []string) *WebSocketHandler {
	h := &WebSocketHandler{
		hub:     hub,
		origins: make(map[string]bool, len(allowedOrigins)),
	}
	for _, origin := range allowedOrigins {
		h.origins[origin] = true
	}
	h.upgrader = ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// checkOrigin admits non-browser clients, which send no Origin, and the
// configured dashboard origins
func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || h.origins[origin] {
		return true
	}
	log.Warn().Str("origin", origin).Msg("Dashboard connection refused: origin not allowed")
	return false
}

// HandleWS upgrades GET /ws. The optional entity query parameter
// (e.g. entity=journal_entry) limits which events the dashboard receives.
func (h *WebSocketHandler) HandleWS(c echo.Context) error {
	entities, err := websocket.ParseEntityTypes(c.QueryParam("entity"))
	if errors.Is(err, websocket.ErrUnknownEntity) {
		return NewValidationError(c, "Invalid subscription", []ValidationError{
			{Field: "entity", Message: "Entity must be account or journal_entry"},
		})
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return err
	}

	client := websocket.NewClient(conn, h.hub, entities...)
	h.hub.Register(client)

	log.Info().
		Str("client_id", client.ID()).
		Str("remote_addr", c.RealIP()).
		Interface("entities", entities).
		Msg("Dashboard subscribed to ledger events")

	client.Serve()
	return nil
}
