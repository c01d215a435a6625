/**
 * Copyright (c) 2022, Xerra Earth Observation Institute.
 * Copyright (c) 2025, Simeon Miteff.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

// Package exporter exposes the live topology graph as Prometheus metrics.
// It snapshots the analytics manager on every scrape; unlike
// analytics.Manager.Snapshot, a scrape never drains the removed-node/edge
// queues or advances the sequence counter, so exporting metrics has no
// effect on the wire-protocol snapshot contract.
package exporter

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/simeonmiteff/netsim/pkg/topology"
)

// Source is the read-only view TopologyCollector scrapes. *analytics.Manager
// satisfies it; tests can supply a fake.
type Source interface {
	ReadOnlyStatsAt(nowUs int64) (globalStats GlobalStats, edges []EdgeStats)
}

// GlobalStats mirrors wire.GlobalStats without importing pkg/wire, keeping
// pkg/exporter's dependency surface to topology + prometheus.
type GlobalStats struct {
	TotalNodes, TotalEdges     uint64
	TotalPackets, TotalBytes   uint64
	AggregatePps, AggregateBps float64
}

// EdgeStats is the subset of wire.EdgeSnapshot the collector turns into
// per-edge gauges. The metric tag on each exported field drives
// cmd/netsim-metricsgen, which regenerates generated_edge_metrics.go from
// this struct: renaming a field or tweaking its help text only requires
// editing the tag here and rerunning the generator.
type EdgeStats struct {
	Id topology.EdgeId

	Pps           float64 `metric:"name=netsim_edge_packets_per_second,prom_type=gauge,prom_help='Edge packet rate over the sliding window.'"`
	Bps           float64 `metric:"name=netsim_edge_bytes_per_second,prom_type=gauge,prom_help='Edge byte rate over the sliding window.'"`
	EwmaLatencyUs float64 `metric:"name=netsim_edge_latency_ewma_us,prom_type=gauge,prom_help='EWMA latency for the edge, in microseconds.'"`
	EwmaJitterUs  float64 `metric:"name=netsim_edge_jitter_ewma_us,prom_type=gauge,prom_help='EWMA jitter for the edge, in microseconds.'"`
	LossRate      float64 `metric:"name=netsim_edge_loss_rate,prom_type=gauge,prom_help='Fraction of expected packets lost on the edge.'"`
}

// TopologyCollector is a prometheus.Collector backed by a live
// *analytics.Manager, registered once at server startup.
type TopologyCollector struct {
	source Source
	nowUs  func() int64

	mu sync.Mutex

	totalNodes   *prometheus.Desc
	totalEdges   *prometheus.Desc
	totalPackets *prometheus.Desc
	totalBytes   *prometheus.Desc
	aggregatePps *prometheus.Desc
	aggregateBps *prometheus.Desc

	edgeMetrics []edgeMetric
}

// NewTopologyCollector constructs a collector over source. nowUs supplies
// the current simulated time for rate calculations on each scrape; pass
// func() int64 { return time.Now().UnixMicro() } for a wall-clock server.
func NewTopologyCollector(source Source, nowUs func() int64, constLabels prometheus.Labels) *TopologyCollector {
	return &TopologyCollector{
		source: source,
		nowUs:  nowUs,

		totalNodes:   prometheus.NewDesc("netsim_nodes_total", "Number of live nodes in the topology graph.", nil, constLabels),
		totalEdges:   prometheus.NewDesc("netsim_edges_total", "Number of live edges in the topology graph.", nil, constLabels),
		totalPackets: prometheus.NewDesc("netsim_packets_total", "Total packets observed across all live edges.", nil, constLabels),
		totalBytes:   prometheus.NewDesc("netsim_bytes_total", "Total bytes observed across all live edges.", nil, constLabels),
		aggregatePps: prometheus.NewDesc("netsim_aggregate_packets_per_second", "Sum of all edges' packet rate over the sliding window.", nil, constLabels),
		aggregateBps: prometheus.NewDesc("netsim_aggregate_bytes_per_second", "Sum of all edges' byte rate over the sliding window.", nil, constLabels),

		edgeMetrics: newEdgeMetrics(constLabels),
	}
}

func (c *TopologyCollector) Describe(descs chan<- *prometheus.Desc) {
	descs <- c.totalNodes
	descs <- c.totalEdges
	descs <- c.totalPackets
	descs <- c.totalBytes
	descs <- c.aggregatePps
	descs <- c.aggregateBps
	for _, m := range c.edgeMetrics {
		descs <- m.desc
	}
}

func (c *TopologyCollector) Collect(metrics chan<- prometheus.Metric) {
	c.mu.Lock()
	defer c.mu.Unlock()

	global, edges := c.source.ReadOnlyStatsAt(c.nowUs())

	metrics <- prometheus.MustNewConstMetric(c.totalNodes, prometheus.GaugeValue, float64(global.TotalNodes))
	metrics <- prometheus.MustNewConstMetric(c.totalEdges, prometheus.GaugeValue, float64(global.TotalEdges))
	metrics <- prometheus.MustNewConstMetric(c.totalPackets, prometheus.CounterValue, float64(global.TotalPackets))
	metrics <- prometheus.MustNewConstMetric(c.totalBytes, prometheus.CounterValue, float64(global.TotalBytes))
	metrics <- prometheus.MustNewConstMetric(c.aggregatePps, prometheus.GaugeValue, global.AggregatePps)
	metrics <- prometheus.MustNewConstMetric(c.aggregateBps, prometheus.GaugeValue, global.AggregateBps)

	for _, e := range edges {
		labels := []string{e.Id.Src.String(), e.Id.Dst.String(), e.Id.Class.String()}
		for _, m := range c.edgeMetrics {
			metrics <- prometheus.MustNewConstMetric(m.desc, m.valueType, m.value(e), labels...)
		}
	}
}

// WallClockNow is the default nowUs supplier for a live server.
func WallClockNow() int64 {
	return time.Now().UnixMicro()
}
