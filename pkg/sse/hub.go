// Package sse fans out messages to Server-Sent Events subscribers by topic.
package sse

import (
	"context"
	"sync"
)

// Hub manages topic based subscribers. Subscriptions take effect before
// Subscribe returns; publications are fanned out in order on the Run
// goroutine. Subscribers own their channels and must close them themselves
// after unsubscribing.
type Hub struct {
	mu     sync.Mutex
	topics map[string]map[chan []byte]bool

	publish  chan topicMessage
	done     chan struct{}
	stopOnce sync.Once
}

type topicMessage struct {
	topic string
	msg   []byte
}

// NewHub returns a hub. Publishing is buffered so short bursts do not block
// publishers.
func NewHub() *Hub {
	return &Hub{
		topics:  make(map[string]map[chan []byte]bool),
		publish: make(chan topicMessage, 100),
		done:    make(chan struct{}),
	}
}

// Run fans out publications until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer h.stopOnce.Do(func() { close(h.done) })
	for {
		select {
		case <-ctx.Done():
			return
		case tm := <-h.publish:
			h.mu.Lock()
			for ch := range h.topics[tm.topic] {
				deliver(ch, tm.msg)
			}
			h.mu.Unlock()
		}
	}
}

// deliver never blocks. A full subscriber loses its oldest queued message so
// the latest one always gets through.
func deliver(ch chan []byte, msg []byte) {
	select {
	case ch <- msg:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- msg:
	default:
	}
}

// PublishTopic queues msg for every subscriber of topic. It is a no-op once
// the hub has stopped.
func (h *Hub) PublishTopic(topic string, msg []byte) {
	select {
	case h.publish <- topicMessage{topic: topic, msg: msg}:
	case <-h.done:
	}
}

// Subscribe registers ch for topic. Pass a buffered channel.
func (h *Hub) Subscribe(ch chan []byte, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.topics[topic]
	if !ok {
		subs = make(map[chan []byte]bool)
		h.topics[topic] = subs
	}
	subs[ch] = true
}

// Unsubscribe removes ch from topic.
func (h *Hub) Unsubscribe(ch chan []byte, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.topics[topic]; ok {
		delete(subs, ch)
		if len(subs) == 0 {
			delete(h.topics, topic)
		}
	}
}

// Subscribers reports how many channels listen on topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.topics[topic])
}
