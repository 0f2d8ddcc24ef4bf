// Command spatiald is the spatial publish/subscribe broker daemon: it
// binds a TCP listener for demo.Entity connections and an HTTP
// listener for Prometheus scraping, grounded on original_source's
// demo_server/src/server.rs and main.rs and on the teacher's
// cmd/authn flag/signal idiom.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spatialgrid/broker/cmn"
	"github.com/spatialgrid/broker/cmn/nlog"
	"github.com/spatialgrid/broker/demo"
	"github.com/spatialgrid/broker/ioadapter"
	"github.com/spatialgrid/broker/metrics"
	"github.com/spatialgrid/broker/spatial"
	"github.com/spatialgrid/broker/worldview"
)

var (
	build     string
	buildtime string

	configPath      string
	bindAddress     string
	metricsAddress  string
	zoneWidth       uint64
	mapWidthInZones uint64
)

func init() {
	flag.StringVar(&configPath, "config", "", "path to a JSON configuration file (optional; flags below override it)")
	flag.StringVar(&bindAddress, "listen", "127.0.0.1:6142", "address to accept entity connections on")
	flag.StringVar(&metricsAddress, "metrics-listen", "127.0.0.1:9142", "address to serve Prometheus metrics on")
	flag.Uint64Var(&zoneWidth, "zone-width", 16, "cells per zone edge")
	flag.Uint64Var(&mapWidthInZones, "map-width-in-zones", 1024, "zones per map edge")
	nlog.InitFlags(flag.CommandLine)
}

func logFlush() {
	for {
		time.Sleep(time.Minute)
		nlog.Flush()
	}
}

func main() {
	flag.Parse()

	config := cmn.GCO.BeginUpdate()
	if configPath != "" {
		loaded, err := cmn.LoadConfig(configPath)
		if err != nil {
			fatalf("failed to load configuration from %q: %v", configPath, err)
		}
		config = loaded
	}
	applyFlagOverrides(config)
	cmn.GCO.CommitUpdate(config)

	go logFlush()
	installSignalHandler()

	mapDef := spatial.NewMapDefinition(config.ZoneWidth, config.MapWidthInZones)
	engine := ioadapter.NewEngine[demo.Entity](mapDef)
	server := ioadapter.NewServer[demo.Entity](engine, demo.NewEntity, time.Now().UnixNano())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go engine.Run(ctx)

	view, err := worldview.New[demo.Entity](engine)
	if err != nil {
		fatalf("failed to build world view: %v", err)
	}
	defer view.Close()
	go view.Run(ctx, 2*time.Second)

	go serveMetrics(config.MetricsAddress)

	listener, err := net.Listen("tcp", config.BindAddress)
	if err != nil {
		fatalf("failed to listen on %q: %v", config.BindAddress, err)
	}
	nlog.Infof("spatiald %s (build %s) listening on %s, metrics on %s",
		build, buildtime, config.BindAddress, config.MetricsAddress)

	if err := server.Serve(ctx, listener); err != nil {
		nlog.Errorf("server stopped: %v", err)
	}

	nlog.Flush()
}

func applyFlagOverrides(config *cmn.Config) {
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if config.ZoneWidth == 0 || set["zone-width"] {
		config.ZoneWidth = zoneWidth
	}
	if config.MapWidthInZones == 0 || set["map-width-in-zones"] {
		config.MapWidthInZones = mapWidthInZones
	}
	if config.BindAddress == "" || set["listen"] {
		config.BindAddress = bindAddress
	}
	if config.MetricsAddress == "" || set["metrics-listen"] {
		config.MetricsAddress = metricsAddress
	}
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		nlog.Errorf("metrics server stopped: %v", err)
	}
}

func installSignalHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-c
		nlog.Flush()
		os.Exit(0)
	}()
}

func fatalf(format string, args ...any) {
	nlog.Errorf(format, args...)
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
