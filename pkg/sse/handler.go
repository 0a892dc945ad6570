package sse

import (
	"fmt"
	"net/http"
	"time"
)

// KeepAlive is how often an idle stream gets a comment line so proxies keep
// the connection open.
var KeepAlive = 20 * time.Second

// Serve streams topic to w until the client goes away. initial, when set, is
// called once the stream is subscribed and its result is sent first, so no
// message published after it was built is missed.
func Serve(w http.ResponseWriter, r *http.Request, h *Hub, topic string, initial func() []byte) {
	if h == nil {
		http.Error(w, "sse hub not initialized", http.StatusInternalServerError)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	// Streams outlive the server write timeout.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	msgCh := make(chan []byte, 16)
	h.Subscribe(msgCh, topic)
	defer h.Unsubscribe(msgCh, topic)

	fmt.Fprint(w, ": connected\n\n")
	if initial != nil {
		if data := initial(); data != nil {
			fmt.Fprintf(w, "data: %s\n\n", data)
		}
	}
	flusher.Flush()

	ticker := time.NewTicker(KeepAlive)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case msg := <-msgCh:
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
