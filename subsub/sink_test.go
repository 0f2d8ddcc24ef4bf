package subsub

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/spatialgrid/broker/spatial"
)

type fakeEntity struct{ id uuid.UUID }

func (e fakeEntity) EntityID() uuid.UUID { return e.id }

func TestSinkDeliversSentEvents(t *testing.T) {
	sink := New[fakeEntity](uuid.New())
	event := &spatial.SpatialEvent[fakeEntity]{
		From: spatial.NewPoint(0, 0), ActingEntity: fakeEntity{id: uuid.New()}, IsMove: false,
	}

	keep, err := sink.Send(event)
	if err != nil || !keep {
		t.Fatalf("Send() = (%v, %v), want (true, nil)", keep, err)
	}

	select {
	case got := <-sink.Events():
		if got != event {
			t.Fatalf("Events() yielded %v, want %v", got, event)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for queued event")
	}
}

func TestSinkRejectsSendAfterClose(t *testing.T) {
	sink := New[fakeEntity](uuid.New())
	sink.Close()

	keep, err := sink.Send(&spatial.SpatialEvent[fakeEntity]{})
	if keep || err != spatial.ErrSubscriberGone {
		t.Fatalf("Send() after Close = (%v, %v), want (false, ErrSubscriberGone)", keep, err)
	}
}

func TestSinkCloseIsIdempotent(t *testing.T) {
	sink := New[fakeEntity](uuid.New())
	sink.Close()
	sink.Close() // must not panic
}
