// Package wire defines the protocol messages exchanged between clients and
// the analytics server, the snapshot export schema, and their compact
// binary encoding. Encoding is byte-identical across implementations: a
// fixed variant tag, fields in declaration order, little-endian integers,
// and varint-length-prefixed variable sequences. See spec.md §4.1 and §6.
package wire

import "github.com/simeonmiteff/netsim/pkg/topology"

// Tag identifies a message variant on the wire. Tag values are stable and
// ordered; new variants require a codec-version bump, never renumbering.
type Tag uint8

const (
	TagRegisterNode Tag = iota
	TagUnregisterNode
	TagData
	TagAck
	TagRequestTopology
	TagTopology
	TagRequestAnalytics
	TagAnalytics
)

// Message is implemented by every protocol message variant.
type Message interface {
	Tag() Tag
}

// RegisterNode declares (or re-declares) a node's identity, description,
// and domain.
type RegisterNode struct {
	NodeID      topology.NodeId
	Description string
	Domain      topology.NodeDomain
}

func (RegisterNode) Tag() Tag { return TagRegisterNode }

// UnregisterNode destroys a node and, transitively, every edge referencing
// it.
type UnregisterNode struct {
	NodeID topology.NodeId
}

func (UnregisterNode) Tag() Tag { return TagUnregisterNode }

// Data is one simulated traffic packet on a directed (src, dst, class)
// edge. SentTsUs is nil when the sender supplied no send timestamp.
// PayloadLen stands in for byte-count accounting; no application
// payload is required on the wire beyond what the codec needs.
type Data struct {
	Src, Dst   topology.NodeId
	SrcDomain  topology.NodeDomain
	DstDomain  topology.NodeDomain
	Class      topology.TrafficClass
	Seq        uint64
	SentTsUs   *uint64
	PayloadLen uint32
}

func (Data) Tag() Tag { return TagData }

// Ack is the server's reply to a Data packet, used by the client solely for
// RTT measurement.
type Ack struct {
	Seq        uint64
	ServerTsUs uint64
	ProcUs     uint64
}

func (Ack) Tag() Tag { return TagAck }

// RequestTopology asks the server for a TopologySnapshot.
type RequestTopology struct{}

func (RequestTopology) Tag() Tag { return TagRequestTopology }

// Topology carries a TopologySnapshot in reply to RequestTopology.
type Topology struct {
	Snapshot TopologySnapshot
}

func (Topology) Tag() Tag { return TagTopology }

// RequestAnalytics asks the server for the legacy AnalyticsSnapshot.
type RequestAnalytics struct{}

func (RequestAnalytics) Tag() Tag { return TagRequestAnalytics }

// Analytics carries the legacy AnalyticsSnapshot in reply to
// RequestAnalytics. New consumers should prefer Topology.
type Analytics struct {
	Snapshot AnalyticsSnapshot
}

func (Analytics) Tag() Tag { return TagAnalytics }
