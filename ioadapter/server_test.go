package ioadapter

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/spatialgrid/broker/spatial"
	"github.com/spatialgrid/broker/transport"
)

type testEntity struct{ id uuid.UUID }

func (e testEntity) EntityID() uuid.UUID { return e.id }

func startTestServer(t *testing.T) (net.Addr, func()) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())

	mapDef := spatial.NewMapDefinition(16, 16)
	engine := NewEngine[testEntity](mapDef)
	go engine.Run(ctx)

	server := NewServer[testEntity](engine, func() testEntity {
		return testEntity{id: uuid.New()}
	}, 1)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go server.Serve(ctx, listener)

	return listener.Addr(), func() {
		cancel()
		_ = listener.Close()
	}
}

func TestServerSendsConnectionAckOnAccept(t *testing.T) {
	addr, stop := startTestServer(t)
	defer stop()

	conn, err := net.Dial("tcp", addr.String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	msg, err := transport.ReadMessage[testEntity](conn)
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if msg.Kind != transport.KindConnectionAck || msg.ConnectionAck == nil {
		t.Fatalf("got %+v, want a connection_ack", msg)
	}
}

func TestServerRejectsEventForAnotherEntity(t *testing.T) {
	addr, stop := startTestServer(t)
	defer stop()

	conn, err := net.Dial("tcp", addr.String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, err := transport.ReadMessage[testEntity](conn); err != nil {
		t.Fatalf("ReadMessage(ack): %v", err)
	}
	// The server publishes the entity's starting position on accept,
	// so that event follows the ack on the wire.
	if _, err := transport.ReadMessage[testEntity](conn); err != nil {
		t.Fatalf("ReadMessage(initial position): %v", err)
	}

	impostor := testEntity{id: uuid.New()}
	event := &spatial.SpatialEvent[testEntity]{
		From: spatial.NewPoint(0, 0), To: ptr(spatial.NewPoint(1, 0)),
		ActingEntity: impostor, IsMove: true,
	}
	if err := transport.WriteMessage(conn, transport.NewEvent(event)); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, err := transport.ReadMessage[testEntity](conn); err == nil {
		t.Fatal("ReadMessage after impostor event: want error (connection closed), got nil")
	}
}

func TestServerRejectsClientSentConnectionAck(t *testing.T) {
	addr, stop := startTestServer(t)
	defer stop()

	conn, err := net.Dial("tcp", addr.String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, err := transport.ReadMessage[testEntity](conn); err != nil {
		t.Fatalf("ReadMessage(ack): %v", err)
	}
	if _, err := transport.ReadMessage[testEntity](conn); err != nil {
		t.Fatalf("ReadMessage(initial position): %v", err)
	}

	if err := transport.WriteMessage(conn, transport.NewConnectionAck(testEntity{id: uuid.New()})); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, err := transport.ReadMessage[testEntity](conn); err == nil {
		t.Fatal("ReadMessage after client connection_ack: want error (connection closed), got nil")
	}
}

func ptr(p spatial.Point) *spatial.Point { return &p }
