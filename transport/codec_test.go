package transport

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/google/uuid"

	"github.com/spatialgrid/broker/spatial"
)

type wireEntity struct {
	ID uuid.UUID
}

func (e wireEntity) EntityID() uuid.UUID { return e.ID }

func TestRoundTripConnectionAck(t *testing.T) {
	entity := wireEntity{ID: uuid.New()}
	var buf bytes.Buffer

	if err := WriteMessage(&buf, NewConnectionAck(entity)); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}

	got, err := ReadMessage[wireEntity](&buf)
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if got.Kind != KindConnectionAck {
		t.Fatalf("Kind = %q, want %q", got.Kind, KindConnectionAck)
	}
	if got.ConnectionAck == nil || got.ConnectionAck.EntityID() != entity.ID {
		t.Fatalf("ConnectionAck = %v, want entity %v", got.ConnectionAck, entity)
	}
}

func TestRoundTripEvent(t *testing.T) {
	entity := wireEntity{ID: uuid.New()}
	to := spatial.NewPoint(1, 0)
	event := &spatial.SpatialEvent[wireEntity]{
		From: spatial.NewPoint(0, 0), To: &to, ActingEntity: entity, IsMove: true,
	}
	var buf bytes.Buffer

	if err := WriteMessage(&buf, NewEvent(event)); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}

	got, err := ReadMessage[wireEntity](&buf)
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if got.Kind != KindEvent {
		t.Fatalf("Kind = %q, want %q", got.Kind, KindEvent)
	}
	if got.Event == nil || got.Event.From != event.From || *got.Event.To != *event.To {
		t.Fatalf("Event = %+v, want %+v", got.Event, event)
	}
}

func TestReadMessageRejectsOversizedFrame(t *testing.T) {
	var buf bytes.Buffer
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], maxFrameSize+1)
	buf.Write(lenBuf[:])

	if _, err := ReadMessage[wireEntity](&buf); err == nil {
		t.Fatal("ReadMessage: want error for oversized frame, got nil")
	}
}

func TestReadMessageErrorsOnTruncatedFrame(t *testing.T) {
	entity := wireEntity{ID: uuid.New()}
	var buf bytes.Buffer
	if err := WriteMessage(&buf, NewConnectionAck(entity)); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}

	truncated := bytes.NewReader(buf.Bytes()[:buf.Len()-1])
	if _, err := ReadMessage[wireEntity](truncated); err == nil {
		t.Fatal("ReadMessage: want error for truncated frame, got nil")
	}
}
