package sse

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	h := NewHub()
	go h.Run(ctx)
	return h
}

// waitFannedOut returns once Run has handled every earlier publication; it
// publishes in order, so a marker on a private topic arrives last.
func waitFannedOut(t *testing.T, h *Hub) {
	t.Helper()
	marker := make(chan []byte, 1)
	h.Subscribe(marker, "marker")
	defer h.Unsubscribe(marker, "marker")
	h.PublishTopic("marker", []byte("x"))
	select {
	case <-marker:
	case <-time.After(time.Second):
		t.Fatalf("hub did not drain publications")
	}
}

func TestHubDeliversToTopicSubscribers(t *testing.T) {
	h := startHub(t)
	a := make(chan []byte, 1)
	b := make(chan []byte, 1)
	h.Subscribe(a, "one")
	h.Subscribe(b, "two")

	h.PublishTopic("one", []byte("hello"))
	select {
	case msg := <-a:
		if string(msg) != "hello" {
			t.Fatalf("got %q", msg)
		}
	case <-time.After(time.Second):
		t.Fatalf("subscriber of topic one got nothing")
	}
	select {
	case msg := <-b:
		t.Fatalf("subscriber of topic two got %q", msg)
	case <-time.After(50 * time.Millisecond):
	}

	h.Unsubscribe(a, "one")
	h.Unsubscribe(b, "two")
	if n := h.Subscribers("one"); n != 0 {
		t.Fatalf("topic one still has %d subscribers", n)
	}
	h.PublishTopic("one", []byte("again"))
	h.PublishTopic("two", []byte("again"))
	waitFannedOut(t, h)
	if len(a) != 0 || len(b) != 0 {
		t.Fatalf("unsubscribed channels received messages")
	}
}

func TestHubStopsWithoutBlockingPublishers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub()
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			h.PublishTopic("t", []byte("x"))
		}
		h.Subscribe(make(chan []byte, 1), "t")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("publish blocked after hub stopped")
	}
}

func TestHubKeepsLatestForSlowSubscriber(t *testing.T) {
	h := startHub(t)
	ch := make(chan []byte, 2)
	h.Subscribe(ch, "slow")
	for _, msg := range []string{"generating 1", "generating 2", "generating 3", "done"} {
		h.PublishTopic("slow", []byte(msg))
	}
	waitFannedOut(t, h)

	var got []string
	for len(ch) > 0 {
		got = append(got, string(<-ch))
	}
	if len(got) != 2 || got[1] != "done" {
		t.Fatalf("slow subscriber kept %q, want the last two messages ending in done", got)
	}
}

func TestServeStreamsMessages(t *testing.T) {
	h := startHub(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Serve(w, r, h, "session", func() []byte {
			if h.Subscribers("session") == 0 {
				return []byte(`{"state":"unsubscribed"}`)
			}
			return []byte(`{"state":"idle"}`)
		})
	}))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}

	reader := bufio.NewReader(resp.Body)
	readData := func() string {
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if data, ok := strings.CutPrefix(line, "data: "); ok {
				return strings.TrimSpace(data)
			}
		}
	}
	if got := readData(); got != `{"state":"idle"}` {
		t.Fatalf("initial event = %q", got)
	}

	h.PublishTopic("session", []byte(`{"state":"done"}`))
	if got := readData(); got != `{"state":"done"}` {
		t.Fatalf("published event = %q", got)
	}
}
