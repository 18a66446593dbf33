// Package uplink exposes the transmission log over HTTP: a read-only REST view
// of recent entries plus a websocket stream of new ones. It only ever sees
// entry copies handed to it through Feed.Publish and never touches the session.
package uplink

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/Garsondee/Neon-Grid/internal/city"
)

const inboxSize = 64

// Feed buffers published entries for HTTP readers and forwards them to the hub.
// It implements city.TransmissionSink.
type Feed struct {
	in  chan city.TransmissionEntry
	hub *Hub
	log *slog.Logger

	mu      sync.RWMutex
	entries []city.TransmissionEntry // oldest first, at most city.MaxTransmissions

	dropped atomic.Uint64
}

// NewFeed creates a feed that broadcasts through hub.
func NewFeed(hub *Hub, log *slog.Logger) *Feed {
	if log == nil {
		log = slog.Default()
	}
	return &Feed{
		in:  make(chan city.TransmissionEntry, inboxSize),
		hub: hub,
		log: log,
	}
}

// Publish hands an entry to the feed without blocking the caller. When the
// inbox is full the entry is counted as dropped.
func (f *Feed) Publish(e city.TransmissionEntry) {
	select {
	case f.in <- e:
	default:
		f.dropped.Add(1)
	}
}

// Dropped reports how many entries Publish discarded.
func (f *Feed) Dropped() uint64 {
	return f.dropped.Load()
}

// Run drains the inbox until ctx is cancelled.
func (f *Feed) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-f.in:
			f.store(e)
			msg, err := json.Marshal(e)
			if err != nil {
				f.log.Error("encode transmission", "seq", e.Seq, "err", err)
				continue
			}
			if f.hub != nil && !f.hub.Broadcast(msg) {
				f.log.Warn("stream backlog full, transmission not broadcast", "seq", e.Seq)
			}
		}
	}
}

func (f *Feed) store(e city.TransmissionEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, e)
	if over := len(f.entries) - city.MaxTransmissions; over > 0 {
		f.entries = append(f.entries[:0:0], f.entries[over:]...)
	}
}

// Entries returns up to limit of the newest entries, oldest first. limit <= 0
// returns everything buffered.
func (f *Feed) Entries(limit int) []city.TransmissionEntry {
	f.mu.RLock()
	defer f.mu.RUnlock()
	src := f.entries
	if limit > 0 && limit < len(src) {
		src = src[len(src)-limit:]
	}
	out := make([]city.TransmissionEntry, len(src))
	for i, e := range src {
		out[i] = e.Clone()
	}
	return out
}

// Latest returns the newest entry, or false if nothing has been published.
func (f *Feed) Latest() (city.TransmissionEntry, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if len(f.entries) == 0 {
		return city.TransmissionEntry{}, false
	}
	return f.entries[len(f.entries)-1].Clone(), true
}
