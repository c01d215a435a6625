package analytics

import (
	"github.com/simeonmiteff/netsim/pkg/wire"
)

// Snapshot assembles a TopologySnapshot of the live graph as of nowUs,
// drains the pending removal queues into it, and increments the sequence
// counter (spec.md §4.6, invariant I6).
func (m *Manager) Snapshot(nowUs int64) wire.TopologySnapshot {
	nodes := make([]wire.NodeSnapshot, 0, len(m.nodes))
	for _, n := range m.nodes {
		nodes = append(nodes, wire.NodeSnapshot{
			Id:          n.Id,
			Description: n.Description,
			Domain:      n.Domain,
			Active:      n.Active(nowUs, m.cfg.WindowSecs),
			Classes:     n.Classes,
			FirstSeenUs: uint64(n.FirstSeenUs),
			LastSeenUs:  uint64(n.LastSeenUs),
		})
	}

	edges := make([]wire.EdgeSnapshot, 0, len(m.edges))
	var totalPackets, totalBytes uint64
	var aggPps, aggBps float64
	for _, e := range m.edges {
		pps, bps := e.Rate.Rate(nowUs)
		edges = append(edges, wire.EdgeSnapshot{
			Id:             e.Id,
			EndpointDomain: e.EndpointDomain,
			Packets:        e.Packets,
			Bytes:          e.Bytes,
			Pps:            pps,
			Bps:            bps,
			EwmaLatencyUs:  e.EwmaLatencyUs,
			EwmaJitterUs:   e.EwmaJitterUs,
			LatencyDeltaUs: e.LatencyDelta(),
			LossRate:       e.Seq.LossRate(),
			FirstSeenUs:    uint64(e.FirstSeenUs),
			LastSeenUs:     uint64(e.LastSeenUs),
		})
		totalPackets += e.Packets
		totalBytes += e.Bytes
		aggPps += pps
		aggBps += bps
	}

	removedNodes := m.pendingRemovedNodes
	removedEdges := m.pendingRemovedEdges
	m.pendingRemovedNodes = nil
	m.pendingRemovedEdges = nil

	m.seq++

	return wire.TopologySnapshot{
		Seq:          m.seq,
		TimestampUs:  uint64(nowUs),
		Nodes:        nodes,
		Edges:        edges,
		RemovedNodes: removedNodes,
		RemovedEdges: removedEdges,
		GlobalStats: wire.GlobalStats{
			TotalNodes:   uint64(len(m.nodes)),
			TotalEdges:   uint64(len(m.edges)),
			TotalPackets: totalPackets,
			TotalBytes:   totalBytes,
			AggregatePps: aggPps,
			AggregateBps: aggBps,
		},
	}
}

// AnalyticsSnapshot assembles the legacy flat export: the same node/edge
// tables, with no removed-delta channel and no sequence counter (spec.md
// §6). It does not drain the pending removal queues — it is not an
// emission point for the removed_* contract.
func (m *Manager) AnalyticsSnapshot(nowUs int64) wire.AnalyticsSnapshot {
	nodes := make([]wire.NodeAggregate, 0, len(m.nodes))
	for _, n := range m.nodes {
		nodes = append(nodes, wire.NodeAggregate{
			Id:          n.Id,
			Description: n.Description,
			Domain:      n.Domain,
			Classes:     n.Classes,
		})
	}

	edges := make([]wire.EdgeAggregate, 0, len(m.edges))
	for _, e := range m.edges {
		pps, bps := e.Rate.Rate(nowUs)
		edges = append(edges, wire.EdgeAggregate{
			Id:      e.Id,
			Packets: e.Packets,
			Bytes:   e.Bytes,
			Pps:     pps,
			Bps:     bps,
		})
	}

	return wire.AnalyticsSnapshot{Nodes: nodes, Edges: edges}
}

// Stats is a lightweight read-only view used by pkg/exporter, avoiding a
// full Snapshot allocation (and its seq/removed-queue side effects) on
// every Prometheus scrape.
type Stats struct {
	TotalNodes, TotalEdges     int
	TotalPackets, TotalBytes   uint64
	AggregatePps, AggregateBps float64
	Edges                      []wire.EdgeSnapshot
}

// ReadOnlyStats computes the same aggregate figures as Snapshot, without
// mutating sequence or removal state.
func (m *Manager) ReadOnlyStats(nowUs int64) Stats {
	var s Stats
	s.TotalNodes = len(m.nodes)
	s.TotalEdges = len(m.edges)
	s.Edges = make([]wire.EdgeSnapshot, 0, len(m.edges))

	for _, e := range m.edges {
		pps, bps := e.Rate.Rate(nowUs)
		s.TotalPackets += e.Packets
		s.TotalBytes += e.Bytes
		s.AggregatePps += pps
		s.AggregateBps += bps
		s.Edges = append(s.Edges, wire.EdgeSnapshot{
			Id:             e.Id,
			EndpointDomain: e.EndpointDomain,
			Packets:        e.Packets,
			Bytes:          e.Bytes,
			Pps:            pps,
			Bps:            bps,
			EwmaLatencyUs:  e.EwmaLatencyUs,
			EwmaJitterUs:   e.EwmaJitterUs,
			LatencyDeltaUs: e.LatencyDelta(),
			LossRate:       e.Seq.LossRate(),
		})
	}
	return s
}
