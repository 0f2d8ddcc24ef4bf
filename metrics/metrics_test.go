package metrics

import "testing"

func TestSubscribeReceivesDiagnosticEvents(t *testing.T) {
	var got []Kind
	Subscribe("test-listener", func(e DiagnosticEvent) {
		got = append(got, e.Kind)
	})
	defer Unsubscribe("test-listener")

	RecordPublish()
	RecordSubscribe()

	if len(got) != 2 || got[0] != KindPublish || got[1] != KindSubscribe {
		t.Fatalf("got %v, want [publish subscribe]", got)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	var count int
	Subscribe("test-listener-2", func(DiagnosticEvent) { count++ })

	RecordPublish()
	Unsubscribe("test-listener-2")
	RecordPublish()

	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
}
