// Command spatialwalker is the load-generating demo client: it opens
// a number of connections to spatiald, each driving a simulated
// entity on a random walk and logging the round-trip latency of its
// own echoed moves, grounded on original_source's
// demo_client/src/client.rs and main.rs.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"net"
	"os"
	"sync"
	"time"

	"github.com/spatialgrid/broker/cmn/nlog"
	"github.com/spatialgrid/broker/demo"
	"github.com/spatialgrid/broker/spatial"
	"github.com/spatialgrid/broker/transport"
)

var (
	address         string
	numberOfClients int
	ratePerSec      uint64
	logPath         string
	zoneWidth       uint64
	mapWidthInZones uint64
)

func init() {
	flag.StringVar(&address, "addr", "127.0.0.1:6142", "address of the spatiald daemon to connect to")
	flag.IntVar(&numberOfClients, "number-of-clients", 1000, "number of simulated entities to run")
	flag.Uint64Var(&ratePerSec, "rate", 1, "approximate move rate per client, in moves per second")
	flag.StringVar(&logPath, "log", "client_log.csv", "path to write the per-event latency CSV to")
	flag.Uint64Var(&zoneWidth, "zone-width", 16, "cells per zone edge; must match the daemon's configuration")
	flag.Uint64Var(&mapWidthInZones, "map-width-in-zones", 1024, "zones per map edge; must match the daemon's configuration")
}

func main() {
	flag.Parse()
	nlog.Infof("spatialwalker: %d clients against %s at ~%d moves/sec", numberOfClients, address, ratePerSec)

	logger, err := demo.NewEventLogger(logPath)
	if err != nil {
		fatalf("opening log file: %v", err)
	}
	defer logger.Close()

	mapDef := spatial.NewMapDefinition(zoneWidth, mapWidthInZones)

	var wg sync.WaitGroup
	var logMu sync.Mutex
	seedRng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for i := 0; i < numberOfClients; i++ {
		wg.Add(1)
		startDelay := time.Duration(int64(i)*(15+seedRng.Int63n(15))) * time.Millisecond
		seed := seedRng.Int63()
		go func(startDelay time.Duration, seed int64) {
			defer wg.Done()
			time.Sleep(startDelay)
			if err := runClient(mapDef, seed, logger, &logMu); err != nil {
				nlog.Warningf("client stopped: %v", err)
			}
		}(startDelay, seed)
	}

	wg.Wait()
	nlog.Infof("all clients stopped")
}

// runClient connects once, waits for its ConnectionAck, then drives
// its own random walk forever, relaying every echoed event of its own
// entity to logger.
func runClient(mapDef spatial.MapDefinition, seed int64, logger *demo.EventLogger, logMu *sync.Mutex) error {
	conn, err := net.Dial("tcp", address)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", address, err)
	}
	defer conn.Close()
	if tcp, ok := conn.(*net.TCPConn); ok {
		_ = tcp.SetNoDelay(true)
	}

	ack, err := transport.ReadMessage[demo.Entity](conn)
	if err != nil {
		return fmt.Errorf("reading connection ack: %w", err)
	}
	if ack.Kind != transport.KindConnectionAck || ack.ConnectionAck == nil {
		return fmt.Errorf("expected a connection ack, got %q", ack.Kind)
	}
	entityID := ack.ConnectionAck.EntityID()

	walker := demo.NewWalker(mapDef, seed, ratePerSec)

	for {
		msg, err := transport.ReadMessage[demo.Entity](conn)
		if err != nil {
			return fmt.Errorf("reading event: %w", err)
		}
		if msg.Kind != transport.KindEvent || msg.Event == nil {
			continue
		}
		if msg.Event.ActingEntity.EntityID() != entityID {
			continue // an advisory event about some other resident
		}

		latency := msg.Event.ActingEntity.LastStateUpdate.Elapsed()
		logMu.Lock()
		_ = logger.Log(msg.Event, latency)
		logMu.Unlock()

		if msg.Event.To == nil {
			return nil // our own entity disappeared
		}

		entity, event, delay := walker.NextMove(msg.Event.ActingEntity, *msg.Event.To)
		_ = entity
		time.Sleep(delay)

		if err := transport.WriteMessage(conn, transport.NewEvent(event)); err != nil {
			return fmt.Errorf("writing move: %w", err)
		}
	}
}

func fatalf(format string, args ...any) {
	nlog.Errorf(format, args...)
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
