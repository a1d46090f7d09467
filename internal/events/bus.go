// Package events is a thin topic layer over asaskevich/EventBus used to fan
// wallet lifecycle and sync-status changes out to loggers and other observers.
package events

import (
	evbus "github.com/asaskevich/EventBus"
)

// Topic names an event stream.
type Topic string

const (
	// TopicWalletConnected carries (name string).
	TopicWalletConnected Topic = "wallet:connected"
	// TopicWalletDisconnected carries (previous string).
	TopicWalletDisconnected Topic = "wallet:disconnected"
	// TopicSyncStatus carries (slice string, syncing bool).
	TopicSyncStatus Topic = "sync:status"
)

// Bus wraps an evbus.Bus. A nil *Bus is valid and drops everything.
type Bus struct {
	bus evbus.Bus
}

// New returns a ready bus.
func New() *Bus {
	return &Bus{bus: evbus.New()}
}

// Subscribe registers a synchronous handler. handler must be a func whose
// parameters match what the topic carries.
func (b *Bus) Subscribe(topic Topic, handler any) error {
	if b == nil {
		return nil
	}
	return b.bus.Subscribe(string(topic), handler)
}

// SubscribeAsync registers a handler that runs on its own goroutine per event.
// Transactional handlers see events one at a time, in publish order.
func (b *Bus) SubscribeAsync(topic Topic, handler any, transactional bool) error {
	if b == nil {
		return nil
	}
	return b.bus.SubscribeAsync(string(topic), handler, transactional)
}

// Unsubscribe removes handler from topic.
func (b *Bus) Unsubscribe(topic Topic, handler any) error {
	if b == nil {
		return nil
	}
	return b.bus.Unsubscribe(string(topic), handler)
}

// Publish sends args to every handler on topic.
func (b *Bus) Publish(topic Topic, args ...any) {
	if b == nil {
		return
	}
	b.bus.Publish(string(topic), args...)
}

// HasSubscribers reports whether anything listens on topic.
func (b *Bus) HasSubscribers(topic Topic) bool {
	if b == nil {
		return false
	}
	return b.bus.HasCallback(string(topic))
}

// WaitAsync blocks until every async handler has returned.
func (b *Bus) WaitAsync() {
	if b == nil {
		return
	}
	b.bus.WaitAsync()
}
