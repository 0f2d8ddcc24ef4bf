// Package ioadapter is the TCP front door: it accepts connections,
// assigns each one an entity and a starting position, and pumps
// transport.Message frames to and from the Engine driving a shared
// spatial.SpatialChannel. Grounded on original_source's
// demo_server/src/server.rs.
package ioadapter

import (
	"context"
	"math/rand"
	"net"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/spatialgrid/broker/cmn/cos"
	"github.com/spatialgrid/broker/cmn/nlog"
	"github.com/spatialgrid/broker/metrics"
	"github.com/spatialgrid/broker/spatial"
	"github.com/spatialgrid/broker/subsub"
	"github.com/spatialgrid/broker/transport"
)

// EntityFactory builds a fresh entity for a newly accepted
// connection.
type EntityFactory[E spatial.Entity] func() E

// Server accepts TCP connections, admits each into a shared Engine,
// and relays spatial events between the engine and the wire.
type Server[E spatial.Entity] struct {
	engine    *Engine[E]
	newEntity EntityFactory[E]

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewServer builds a Server over engine, using newEntity to name each
// connection's entity and seed to derive the starting-position RNG.
func NewServer[E spatial.Entity](engine *Engine[E], newEntity EntityFactory[E], seed int64) *Server[E] {
	return &Server[E]{
		engine:    engine,
		newEntity: newEntity,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// Serve accepts connections from listener until ctx is done or Accept
// fails. Each connection is handled on its own goroutine and never
// blocks another.
func (s *Server[E]) Serve(ctx context.Context, listener net.Listener) error {
	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, "ioadapter: accept")
		}
		go s.handleConn(ctx, conn)
	}
}

func (s *Server[E]) randomPoint() spatial.Point {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.engine.MapDefinition().RandomPoint(s.rng)
}

func (s *Server[E]) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	if tcp, ok := conn.(*net.TCPConn); ok {
		_ = tcp.SetNoDelay(true)
	}

	corrID := cos.NewCorrelationID()
	entity := s.newEntity()
	sink := subsub.New[E](entity.EntityID())
	defer sink.Close()

	position := s.randomPoint()
	nlog.Infof("[%s] accepted connection for entity %s at %+v", corrID, entity.EntityID(), position)
	s.engine.Subscribe(sink, position)
	defer metrics.RecordUnsubscribe()
	s.engine.Publish(&spatial.SpatialEvent[E]{
		From: position, To: &position, ActingEntity: entity, IsMove: true,
	})

	last := position
	var lastMu sync.Mutex

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error { return s.writePump(gctx, conn, entity, sink) })
	group.Go(func() error { return s.readPump(gctx, conn, entity, &last, &lastMu) })

	if err := group.Wait(); err != nil {
		nlog.Warningf("[%s] connection for entity %s closed: %v", corrID, entity.EntityID(), err)
	}

	lastMu.Lock()
	pos := last
	lastMu.Unlock()
	s.engine.Publish(&spatial.SpatialEvent[E]{From: pos, To: nil, ActingEntity: entity, IsMove: true})
}

func (s *Server[E]) writePump(ctx context.Context, conn net.Conn, entity E, sink *subsub.Sink[E]) error {
	if err := transport.WriteMessage(conn, transport.NewConnectionAck(entity)); err != nil {
		return errors.Wrap(err, "ioadapter: sending connection ack")
	}

	for {
		select {
		case event, ok := <-sink.Events():
			if !ok {
				return nil
			}
			if err := transport.WriteMessage(conn, transport.NewEvent(event)); err != nil {
				return errors.Wrap(err, "ioadapter: writing event")
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// readPump reads client-originated messages and publishes the moves
// it authorizes, tracking the entity's last published position in
// *last so the caller can synthesize a disappearance event once the
// connection ends.
func (s *Server[E]) readPump(ctx context.Context, conn net.Conn, entity E, last *spatial.Point, lastMu *sync.Mutex) error {
	for {
		msg, err := transport.ReadMessage[E](conn)
		if err != nil {
			return errors.Wrap(err, "ioadapter: reading message")
		}

		switch msg.Kind {
		case transport.KindEvent:
			if msg.Event == nil {
				return errors.New("ioadapter: event message with no payload")
			}
			// Same-entity authorization: a connection may only ever
			// move the entity it was assigned on connect.
			if msg.Event.ActingEntity.EntityID() != entity.EntityID() {
				return errors.Errorf("ioadapter: entity %s attempted to act as %s",
					entity.EntityID(), msg.Event.ActingEntity.EntityID())
			}
			s.engine.Publish(msg.Event)
			if msg.Event.To != nil {
				lastMu.Lock()
				*last = *msg.Event.To
				lastMu.Unlock()
			}
		case transport.KindConnectionAck:
			return errors.New("ioadapter: connection_ack is server-to-client only")
		default:
			return errors.Errorf("ioadapter: unknown message kind %q", msg.Kind)
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}
