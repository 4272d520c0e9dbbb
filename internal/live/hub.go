// Package live delivers query results to observers whenever the data they
// depend on changes.
package live

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// Topic names a family of records whose changes observers can follow.
type Topic string

const (
	TopicCategories Topic = "categories"
	TopicItems      Topic = "items"
	TopicFriends    Topic = "friends"
	TopicGiftIdeas  Topic = "gift_ideas"
)

// refresher is the untyped side of a subscription.
type refresher interface {
	refresh(ctx context.Context)
}

type entry struct {
	topics map[Topic]struct{}
	sub    refresher
}

// Hub tracks active subscriptions and fans change notifications out to them.
type Hub struct {
	mu      sync.Mutex
	nextID  uint64
	entries map[uint64]entry
	order   []uint64
	logger  *logrus.Logger
	gauge   func(n int)
}

// NewHub creates an empty Hub.
func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		entries: make(map[uint64]entry),
		logger:  logger,
	}
}

// OnCountChange registers fn to be told the number of active subscriptions
// after every subscribe and cancel.
func (h *Hub) OnCountChange(fn func(n int)) {
	h.mu.Lock()
	h.gauge = fn
	h.mu.Unlock()
}

// Len returns the number of active subscriptions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

func (h *Hub) add(topics []Topic, sub refresher) uint64 {
	set := make(map[Topic]struct{}, len(topics))
	for _, t := range topics {
		set[t] = struct{}{}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	h.entries[id] = entry{topics: set, sub: sub}
	h.order = append(h.order, id)
	h.reportLocked()
	return id
}

func (h *Hub) remove(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.entries[id]; !ok {
		return
	}
	delete(h.entries, id)
	for i, v := range h.order {
		if v == id {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
	h.reportLocked()
}

func (h *Hub) reportLocked() {
	if h.gauge != nil {
		h.gauge(len(h.entries))
	}
}

// Publish tells every subscription following one of topics to re-run its
// query. Subscriptions are refreshed one after another, in subscription
// order, on the calling goroutine.
func (h *Hub) Publish(ctx context.Context, topics ...Topic) {
	h.mu.Lock()
	var targets []refresher
	for _, id := range h.order {
		e := h.entries[id]
		for _, t := range topics {
			if _, ok := e.topics[t]; ok {
				targets = append(targets, e.sub)
				break
			}
		}
	}
	h.mu.Unlock()

	if h.logger != nil {
		h.logger.WithFields(logrus.Fields{
			"topics":      topics,
			"subscribers": len(targets),
		}).Debug("Publishing change")
	}

	for _, sub := range targets {
		sub.refresh(ctx)
	}
}
