package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"turfbooking/internal/notify"
)

// SlotUpdatesHandler streams availability refreshes for one turf over a
// websocket. Clients reconnect and refetch on drop; delivery is best effort.
type SlotUpdatesHandler struct {
	hub      *notify.Hub
	upgrader websocket.Upgrader
}

func NewSlotUpdatesHandler(hub *notify.Hub, allowedOrigins []string) *SlotUpdatesHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	allowAll := false
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}
	return &SlotUpdatesHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return allowAll || allowed[r.Header.Get("Origin")]
			},
		},
	}
}

func (h *SlotUpdatesHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	turfID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid turf id", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sub := h.hub.Subscribe(turfID)
	defer h.hub.Unsubscribe(sub)

	// Drain reads so close frames from the client are noticed.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event, ok := <-sub.C:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}
