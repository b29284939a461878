package web

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	eventWriteTimeout = 5 * time.Second
	eventPingInterval = 30 * time.Second
	eventPongWait     = 2 * eventPingInterval
)

// Event types pushed over /api/v1/events.
const (
	EventState      = "state"
	EventFullscreen = "fullscreen"
)

// event is one message on the events socket. Every message carries the full
// preview so clients never have to merge.
type event struct {
	Type    string          `json:"type"`
	Preview previewResponse `json:"preview"`
}

type eventsHandler struct {
	deps     APIV1Deps
	upgrader websocket.Upgrader
}

func newEventsHandler(deps APIV1Deps) *eventsHandler {
	return &eventsHandler{
		deps: deps,
		upgrader: websocket.Upgrader{
			// The UI may be served from a dev server on another origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades to a websocket, sends the current preview and then one
// message per state or fullscreen change until the client goes away.
func (h *eventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.deps.Logger.Errorf("web", "events upgrade: %v", err)
		return
	}
	defer conn.Close()

	states, cancelStates := h.deps.Store.Subscribe()
	defer cancelStates()
	screens, cancelScreens := h.deps.Fullscreen.Subscribe()
	defer cancelScreens()

	closed := make(chan struct{})
	go readUntilClosed(conn, closed)

	ping := time.NewTicker(eventPingInterval)
	defer ping.Stop()

	if err := h.send(conn, EventState, snapshotPreview(h.deps)); err != nil {
		return
	}
	for {
		var err error
		select {
		case <-r.Context().Done():
			return
		case <-closed:
			return
		case snap, ok := <-states:
			if !ok {
				return
			}
			err = h.send(conn, EventState, previewFromState(h.deps, snap, h.deps.Fullscreen.IsFullscreen()))
		case on, ok := <-screens:
			if !ok {
				return
			}
			err = h.send(conn, EventFullscreen, previewFromState(h.deps, h.deps.Store.Snapshot(), on))
		case <-ping.C:
			err = conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(eventWriteTimeout))
		}
		if err != nil {
			h.deps.Logger.Infof("web", "events client gone: %v", err)
			return
		}
	}
}

func (h *eventsHandler) send(conn *websocket.Conn, kind string, preview previewResponse) error {
	_ = conn.SetWriteDeadline(time.Now().Add(eventWriteTimeout))
	return conn.WriteJSON(event{Type: kind, Preview: preview})
}

// readUntilClosed drains client frames so control messages are processed,
// and closes done when the connection fails.
func readUntilClosed(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	_ = conn.SetReadDeadline(time.Now().Add(eventPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(eventPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
