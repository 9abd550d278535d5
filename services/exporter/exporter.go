// Package exporter publishes node telemetry as Prometheus metrics. It follows
// the node through the bus and never touches shared state directly.
package exporter

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"envnode-go/bus"
	"envnode-go/services/node"
	"envnode-go/types"
	"envnode-go/x/logx"
)

// Packet outcome labels for envnode_radio_packets_total.
const (
	ResultSent    = "sent"
	ResultFailed  = "failed"
	ResultSkipped = "skipped"
)

// Metrics holds the collectors for one node.
type Metrics struct {
	name string

	temperature *prometheus.GaugeVec
	humidity    *prometheus.GaugeVec
	co2         *prometheus.GaugeVec
	numPoints   *prometheus.GaugeVec
	chanErr     *prometheus.GaugeVec
	packets     *prometheus.CounterVec

	log logx.Logger
}

func newGauge(name, help string, labels ...string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "envnode",
			Name:      name,
			Help:      help,
		},
		append([]string{"node"}, labels...),
	)
}

// New creates the collectors for node name and registers them with reg.
func New(reg prometheus.Registerer, name string) (*Metrics, error) {
	m := &Metrics{
		name:        name,
		temperature: newGauge("temperature_celsius", "Rolling average temperature (units: degrees Celsius)"),
		humidity:    newGauge("humidity_percent", "Rolling average humidity (units: % of relative humidity)"),
		co2:         newGauge("co2_ppm", "Rolling average carbon dioxide level (units: ppm)"),
		numPoints:   newGauge("history_points", "Samples in the rolling average window"),
		chanErr:     newGauge("channel_error", "1 if the most recent read of the channel failed", "channel"),
		packets: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "envnode",
				Name:      "radio_packets_total",
				Help:      "Radio packets by outcome",
			},
			[]string{"node", "result"},
		),
		log: logx.Named("exporter"),
	}
	for _, c := range []prometheus.Collector{m.temperature, m.humidity, m.co2, m.numPoints, m.chanErr, m.packets} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Observe updates the gauges from a snapshot. Averages are only exported
// once at least one read cycle has completed.
func (m *Metrics) Observe(s types.Snapshot) {
	m.numPoints.WithLabelValues(m.name).Set(float64(s.NumPoints))
	for _, c := range types.Channels {
		v := 0.0
		if s.Errors.Of(c) {
			v = 1
		}
		m.chanErr.WithLabelValues(m.name, c.String()).Set(v)
	}
	a := s.Averages
	if !a.Valid {
		return
	}
	m.temperature.WithLabelValues(m.name).Set(float64(a.Temperature.CentiC) / 100)
	m.humidity.WithLabelValues(m.name).Set(float64(a.Humidity.Percent))
	m.co2.WithLabelValues(m.name).Set(float64(a.CO2.PPM))
}

// ObserveTx counts the packets of one transmit cycle.
func (m *Metrics) ObserveTx(r types.TxReport) {
	if r.Skipped {
		m.packets.WithLabelValues(m.name, ResultSkipped).Add(float64(len(types.Channels)))
		return
	}
	m.packets.WithLabelValues(m.name, ResultSent).Add(float64(r.Sent))
	m.packets.WithLabelValues(m.name, ResultFailed).Add(float64(r.Failed))
}

// Run feeds the metrics from the node topics until ctx is done.
func (m *Metrics) Run(ctx context.Context, conn *bus.Connection) {
	snaps := conn.Subscribe(node.TopicSnapshot)
	txs := conn.Subscribe(node.TopicTx)
	defer conn.Unsubscribe(snaps)
	defer conn.Unsubscribe(txs)

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-snaps.Channel():
			if s, ok := msg.Payload.(types.Snapshot); ok {
				m.Observe(s)
			}
		case msg := <-txs.Channel():
			if r, ok := msg.Payload.(types.TxReport); ok {
				m.ObserveTx(r)
				if r.Failed > 0 {
					m.log.Warn("radio packets failed: " + r.Err)
				}
			}
		}
	}
}

// Handler serves the metrics registered with g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{
		// Opt into OpenMetrics to support exemplars.
		EnableOpenMetrics: true,
	})
}
