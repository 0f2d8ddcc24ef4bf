// Package metrics exposes the broker's operational counters to
// Prometheus and, separately, fans out a lightweight diagnostic event
// per publish/subscribe so in-process observers (package worldview)
// can react without polling. Grounded loosely on the shape of the
// teacher's stats tracker (named counters and gauges over broker
// activity) but built directly on prometheus/client_golang rather than
// the teacher's cluster-snode-coupled statsd tracker, which has no
// referent here.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spatialgrid/broker/pubsub"
)

var (
	PublishesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "spatialgrid",
		Name:      "publishes_total",
		Help:      "Total number of events published to the spatial channel.",
	})
	CatchUpEventsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "spatialgrid",
		Name:      "catch_up_events_total",
		Help:      "Total number of advisory catch-up events synthesized on subscribe or re-home.",
	})
	SubscribersGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "spatialgrid",
		Name:      "subscribers",
		Help:      "Current number of live subscriptions across the map.",
	})
	ResidentsPerZone = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "spatialgrid",
		Name:      "zone_residents",
		Help:      "Current number of resident entities per zone.",
	}, []string{"zone"})
)

func init() {
	prometheus.MustRegister(PublishesTotal, CatchUpEventsTotal, SubscribersGauge, ResidentsPerZone)
}

// Handler returns the HTTP handler serving the Prometheus exposition
// format.
func Handler() http.Handler { return promhttp.Handler() }

// Kind tags the cause of a DiagnosticEvent.
type Kind string

const (
	KindPublish     Kind = "publish"
	KindSubscribe   Kind = "subscribe"
	KindCatchUp     Kind = "catch_up"
	KindUnsubscribe Kind = "unsubscribe"
)

// DiagnosticEvent is a notification that some broker activity
// occurred, carrying no payload beyond its Kind: listeners that need
// the detail re-derive it from their own view of the system (e.g.
// worldview re-reads the SpatialChannel it already holds a reference
// to).
type DiagnosticEvent struct {
	Kind Kind
}

var diagnostics = pubsub.New[DiagnosticEvent, string]()

type diagnosticListener struct {
	id string
	fn func(DiagnosticEvent)
}

func (l diagnosticListener) EntityID() string { return l.id }
func (l diagnosticListener) Send(event DiagnosticEvent) (bool, error) {
	l.fn(event)
	return true, nil
}

// Subscribe registers fn to be called, synchronously and in-process,
// for every DiagnosticEvent recorded from here on. id must be unique
// among current subscribers.
func Subscribe(id string, fn func(DiagnosticEvent)) {
	diagnostics.Subscribe(diagnosticListener{id: id, fn: fn})
}

// Unsubscribe removes a listener registered with Subscribe.
func Unsubscribe(id string) { diagnostics.Unsubscribe(id) }

// RecordPublish increments the publish counter and notifies listeners.
func RecordPublish() {
	PublishesTotal.Inc()
	diagnostics.Publish(DiagnosticEvent{Kind: KindPublish})
}

// RecordCatchUp increments the catch-up counter and notifies
// listeners.
func RecordCatchUp() {
	CatchUpEventsTotal.Inc()
	diagnostics.Publish(DiagnosticEvent{Kind: KindCatchUp})
}

// RecordSubscribe increments the subscriber gauge and notifies
// listeners.
func RecordSubscribe() {
	SubscribersGauge.Inc()
	diagnostics.Publish(DiagnosticEvent{Kind: KindSubscribe})
}

// RecordUnsubscribe decrements the subscriber gauge and notifies
// listeners.
func RecordUnsubscribe() {
	SubscribersGauge.Dec()
	diagnostics.Publish(DiagnosticEvent{Kind: KindUnsubscribe})
}

// SetZoneResidents sets the resident gauge for zoneLabel.
func SetZoneResidents(zoneLabel string, n int) {
	ResidentsPerZone.WithLabelValues(zoneLabel).Set(float64(n))
}
