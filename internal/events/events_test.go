package events

import (
	"testing"

	"github.com/me/eduportal/pkg/model"
)

func TestBus_PublishOrder(t *testing.T) {
	bus := NewBus()
	var got []string
	bus.Subscribe(UserLoggedIn, func(e Event) { got = append(got, "first:"+e.User.Name) })
	bus.Subscribe(UserLoggedIn, func(e Event) { got = append(got, "second:"+e.User.Name) })
	bus.Subscribe(UserLoggedOut, func(Event) { got = append(got, "logout") })

	bus.Publish(Event{Type: UserLoggedIn, User: &model.User{Name: "Ana"}})

	want := []string{"first:Ana", "second:Ana"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	var bus Bus
	calls := 0
	unsub := bus.Subscribe(UserLoggedOut, func(Event) { calls++ })

	bus.Publish(Event{Type: UserLoggedOut})
	unsub()
	unsub()
	bus.Publish(Event{Type: UserLoggedOut})

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestBus_UnsubscribeDuringPublish(t *testing.T) {
	bus := NewBus()
	calls := 0
	var unsub func()
	unsub = bus.Subscribe(UserLoggedIn, func(Event) {
		calls++
		unsub()
	})

	bus.Publish(Event{Type: UserLoggedIn})
	bus.Publish(Event{Type: UserLoggedIn})

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestBus_NilPublish(t *testing.T) {
	var bus *Bus
	bus.Publish(Event{Type: UserLoggedIn})
}
