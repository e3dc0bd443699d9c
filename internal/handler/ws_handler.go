package handler

import (
	"net/http"

	"go-task-manager/internal/websocket"
)

type WSHandler struct {
	upgrader *websocket.Upgrader
}

func NewWSHandler(upgrader *websocket.Upgrader) *WSHandler {
	return &WSHandler{upgrader: upgrader}
}

// Feed upgrades to a websocket streaming task events.
func (h *WSHandler) Feed(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	h.upgrader.Serve(w, r, id.UserID)
}
