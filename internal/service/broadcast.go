package service

import (
	"sync"

	"itemtrack/internal/models"
)

// Item event types delivered over the live feed.
const (
	EventItemCreated = "created"
	EventItemUpdated = "updated"
	EventItemDeleted = "deleted"
)

// ItemEvent is one change notification on the live feed.
type ItemEvent struct {
	Type string      `json:"type"`
	Item models.Item `json:"item"`
}

// subscriberBuffer bounds each subscriber channel; slow consumers drop
// events instead of blocking request handling.
const subscriberBuffer = 16

type subscriber struct {
	ident models.Identity
	ch    chan ItemEvent
}

// Broadcaster fans item change events out to live-feed subscribers,
// filtered by the same access policy the item endpoints use.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[int]*subscriber
	next int
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]*subscriber)}
}

var _ Feed = (*Broadcaster)(nil)

// Subscribe registers an identity for item events it is allowed to see.
// The returned func removes the subscription and closes the channel.
func (b *Broadcaster) Subscribe(ident models.Identity) (<-chan ItemEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	sub := &subscriber{ident: ident, ch: make(chan ItemEvent, subscriberBuffer)}
	b.subs[id] = sub

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if s, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(s.ch)
		}
	}
	return sub.ch, cancel
}

// Publish delivers an event to every subscriber allowed to see the item.
// Delivery is best-effort: a full subscriber buffer drops the event.
func (b *Broadcaster) Publish(ev ItemEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sub := range b.subs {
		if !CanAccess(sub.ident, ev.Item) {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
		}
	}
}
