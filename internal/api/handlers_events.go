// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package api

import (
	"net/http"
	"time"

	gorillaws "github.com/gorilla/websocket"

	"github.com/tomtom215/buyonix-recommender/internal/logging"
	"github.com/tomtom215/buyonix-recommender/internal/websocket"
)

// WithEventHub enables the /api/v1/events websocket feed.
func WithEventHub(hub *websocket.Hub) HandlerOption {
	return func(h *Handler) { h.eventHub = hub }
}

// upgrader builds the websocket upgrader. Origins follow the CORS allow list.
func (h *Handler) upgrader() *gorillaws.Upgrader {
	return &gorillaws.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		HandshakeTimeout: 10 * time.Second,
		CheckOrigin:      h.checkOrigin,
	}
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	if h.config == nil {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return false
	}
	for _, allowed := range h.config.Security.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// Events handles GET /api/v1/events.
//
// Upgrades to a websocket that receives model_trained, training_failed and
// model_drift messages.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	if h.eventHub == nil {
		NewResponseWriter(w, r).ServiceUnavailable(ErrCodeServiceUnavailable, "Event feed is not enabled")
		return
	}

	conn, err := h.upgrader().Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logging.Warn().Err(err).Str("remote_addr", sanitizeLogValue(r.RemoteAddr)).Msg("websocket upgrade failed")
		return
	}

	client := websocket.NewClient(h.eventHub, conn)
	h.eventHub.Register <- client
	client.Start()

	logging.Debug().Uint64("client_id", client.ID()).Msg("event feed client connected")
}
