// Package events is the page-level notification bus. Components register
// handlers explicitly when they are constructed instead of listening on a
// global target.
package events

import (
	"sync"

	"github.com/me/eduportal/pkg/model"
)

// Type names a notification.
type Type string

const (
	// UserLoggedIn is published by the login modal after a successful login.
	UserLoggedIn Type = "user-logged-in"
	// UserLoggedOut is published by the session manager on logout.
	UserLoggedOut Type = "user-logged-out"
)

// Event is a notification and its payload.
type Event struct {
	Type Type
	User *model.User
}

// Handler receives events.
type Handler func(Event)

type subscription struct {
	id int
	fn Handler
}

// Bus delivers events synchronously to handlers in subscription order.
// The zero value is ready to use.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[Type][]subscription
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn for events of type t and returns a function that
// removes the registration.
func (b *Bus) Subscribe(t Type, fn Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs == nil {
		b.subs = make(map[Type][]subscription)
	}
	b.nextID++
	id := b.nextID
	b.subs[t] = append(b.subs[t], subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			subs := b.subs[t]
			for i, s := range subs {
				if s.id == id {
					b.subs[t] = append(subs[:i:i], subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Publish delivers e to every handler subscribed to e.Type. Handlers may
// subscribe or unsubscribe while being called.
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}
	b.mu.Lock()
	subs := append([]subscription(nil), b.subs[e.Type]...)
	b.mu.Unlock()

	for _, s := range subs {
		s.fn(e)
	}
}
