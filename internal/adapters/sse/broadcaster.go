// Package sse streams render operations to browser render clients over
// Server-Sent Events.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	// WriteTimeout bounds a single write to a client.
	WriteTimeout = 2 * time.Second
	// KeepAliveInterval is how often an idle stream gets a comment line.
	KeepAliveInterval = 15 * time.Second

	eventRender   = "render"
	eventSnapshot = "snapshot"
)

type client struct {
	id      string
	w       http.ResponseWriter
	flusher http.Flusher
	// writeMu serializes writes from Broadcast and the keep-alive loop.
	writeMu sync.Mutex
	done    chan struct{}
	once    sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.done) })
}

func (c *client) write(frame []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if _, err := c.w.Write(frame); err != nil {
		return err
	}
	c.flusher.Flush()
	return nil
}

// Broadcaster fans render operations out to every connected client.
type Broadcaster struct {
	mu       sync.RWMutex
	clients  map[string]*client
	snapshot func() any
}

// NewBroadcaster creates a broadcaster. snapshot, when non-nil, is sent to
// each client as its first event so late joiners see the current scene.
func NewBroadcaster(snapshot func() any) *Broadcaster {
	return &Broadcaster{
		clients:  make(map[string]*client),
		snapshot: snapshot,
	}
}

func frame(event string, data any) ([]byte, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", event, payload)), nil
}

// Broadcast sends data as a render event to all clients. Clients that fail
// or time out are dropped.
func (b *Broadcaster) Broadcast(data any) {
	msg, err := frame(eventRender, data)
	if err != nil {
		log.Error().Err(err).Msg("sse: marshal render op")
		return
	}

	b.mu.RLock()
	targets := make([]*client, 0, len(b.clients))
	for _, c := range b.clients {
		targets = append(targets, c)
	}
	b.mu.RUnlock()

	var wg sync.WaitGroup
	for _, c := range targets {
		wg.Add(1)
		go func(c *client) {
			defer wg.Done()
			if !b.writeWithTimeout(c, msg) {
				b.drop(c)
			}
		}(c)
	}
	wg.Wait()
}

func (b *Broadcaster) writeWithTimeout(c *client, msg []byte) bool {
	result := make(chan error, 1)
	go func() { result <- c.write(msg) }()

	select {
	case err := <-result:
		if err != nil {
			log.Debug().Str("clientId", c.id).Err(err).Msg("sse: write failed")
			return false
		}
		return true
	case <-time.After(WriteTimeout):
		log.Warn().Str("clientId", c.id).Dur("timeout", WriteTimeout).Msg("sse: write timed out")
		return false
	case <-c.done:
		return true
	}
}

func (b *Broadcaster) add(w http.ResponseWriter) (*client, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("sse: streaming not supported")
	}
	c := &client{id: uuid.NewString(), w: w, flusher: flusher, done: make(chan struct{})}

	b.mu.Lock()
	b.clients[c.id] = c
	n := len(b.clients)
	b.mu.Unlock()

	log.Debug().Str("clientId", c.id).Int("totalClients", n).Msg("sse: client connected")
	return c, nil
}

func (b *Broadcaster) drop(c *client) {
	b.mu.Lock()
	delete(b.clients, c.id)
	n := len(b.clients)
	b.mu.Unlock()
	c.close()

	log.Debug().Str("clientId", c.id).Int("totalClients", n).Msg("sse: client removed")
}

// ClientCount returns the number of connected clients.
func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// ServeHTTP holds the connection open and streams events until the client
// goes away.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	c, err := b.add(w)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer b.drop(c)

	if b.snapshot != nil {
		msg, err := frame(eventSnapshot, b.snapshot())
		if err != nil {
			log.Error().Err(err).Msg("sse: marshal snapshot")
			return
		}
		if err := c.write(msg); err != nil {
			return
		}
	}

	ticker := time.NewTicker(KeepAliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-c.done:
			return
		case <-ticker.C:
			if err := c.write([]byte(": keep-alive\n\n")); err != nil {
				return
			}
		}
	}
}
