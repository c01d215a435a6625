package wire

import "github.com/simeonmiteff/netsim/pkg/topology"

// TopologySnapshot is the primary export: live nodes and edges plus the
// delta of ids removed since the previous snapshot. See spec.md §6.
type TopologySnapshot struct {
	Seq          uint64
	TimestampUs  uint64
	Nodes        []NodeSnapshot
	Edges        []EdgeSnapshot
	RemovedNodes []topology.NodeId
	RemovedEdges []topology.EdgeId
	GlobalStats  GlobalStats
}

// NodeSnapshot is one node's exported state.
type NodeSnapshot struct {
	Id          topology.NodeId
	Description string
	Domain      topology.NodeDomain
	Active      bool
	Classes     [topology.NumTrafficClasses]topology.Counter
	FirstSeenUs uint64
	LastSeenUs  uint64
}

// EdgeSnapshot is one edge's exported state.
type EdgeSnapshot struct {
	Id             topology.EdgeId
	EndpointDomain topology.EndpointDomain
	Packets        uint64
	Bytes          uint64
	Pps            float64
	Bps            float64
	EwmaLatencyUs  float64
	EwmaJitterUs   float64
	LatencyDeltaUs float64
	LossRate       float64
	FirstSeenUs    uint64
	LastSeenUs     uint64
}

// GlobalStats summarizes the whole live topology as of one snapshot.
type GlobalStats struct {
	TotalNodes   uint64
	TotalEdges   uint64
	TotalPackets uint64
	TotalBytes   uint64
	AggregatePps float64
	AggregateBps float64
}

// AnalyticsSnapshot is the legacy flat export: per-node and per-edge
// aggregates with no removed-delta channel. Retained for backward
// compatibility; new consumers should use TopologySnapshot.
type AnalyticsSnapshot struct {
	Nodes []NodeAggregate
	Edges []EdgeAggregate
}

// NodeAggregate is one node's aggregate view in the legacy export.
type NodeAggregate struct {
	Id          topology.NodeId
	Description string
	Domain      topology.NodeDomain
	Classes     [topology.NumTrafficClasses]topology.Counter
}

// EdgeAggregate is one edge's aggregate view in the legacy export.
type EdgeAggregate struct {
	Id      topology.EdgeId
	Packets uint64
	Bytes   uint64
	Pps     float64
	Bps     float64
}
