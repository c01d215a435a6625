// Package analytics implements the server-side analytics engine: the
// in-memory node/edge graph, TTL-based cleanup with delta emission, and the
// snapshot export contract described in spec.md §4.6. A Manager is owned
// exclusively by the dispatcher loop that calls it; no locking is used or
// required (spec.md §5).
package analytics

import (
	"net"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/simeonmiteff/netsim/pkg/topology"
	"github.com/simeonmiteff/netsim/pkg/wire"
)

// Default TTLs and multipliers, spec.md §6.
const (
	DefaultNodeTTLUs    = 60 * 1_000_000
	DefaultEdgeTTLUs    = 30 * 1_000_000
	DefaultWindowSecs   = 5
	ActiveMultiplier    = 3
	CleanupIntervalSecs = 1
)

// Config overrides the default TTLs. The zero value is not valid; use
// DefaultConfig and override as needed.
type Config struct {
	NodeTTLUs  int64
	EdgeTTLUs  int64
	WindowSecs int64
}

// DefaultConfig returns the spec.md §6 defaults.
func DefaultConfig() Config {
	return Config{
		NodeTTLUs:  DefaultNodeTTLUs,
		EdgeTTLUs:  DefaultEdgeTTLUs,
		WindowSecs: DefaultWindowSecs,
	}
}

// Manager owns the node table, the edge table, the pending removal queues,
// and the snapshot sequence counter. It has no goroutines and no locks:
// every method is called from the single dispatcher loop that owns it.
type Manager struct {
	cfg Config
	log *logrus.Logger

	nodes map[topology.NodeId]*topology.NodeState
	edges map[topology.EdgeId]*topology.EdgeState

	// nodeEdges indexes edges referencing a node, in either direction, so
	// cascading removal doesn't require a full scan of the edge table.
	nodeEdges map[topology.NodeId]map[topology.EdgeId]struct{}

	pendingRemovedNodes []topology.NodeId
	pendingRemovedEdges []topology.EdgeId

	seq uint64
}

// NewManager constructs an empty Manager. log must not be nil; pass
// logrus.StandardLogger() if no dedicated logger is wanted.
func NewManager(cfg Config, log *logrus.Logger) *Manager {
	return &Manager{
		cfg:       cfg,
		log:       log,
		nodes:     make(map[topology.NodeId]*topology.NodeState),
		edges:     make(map[topology.EdgeId]*topology.EdgeState),
		nodeEdges: make(map[topology.NodeId]map[topology.EdgeId]struct{}),
	}
}

// Apply is the single pure state-update entry point: it applies msg's
// effect to the graph and returns a reply message, or nil if msg calls for
// none (spec.md §4.6). addr is the packet's UDP source address, used only
// for log correlation.
func (m *Manager) Apply(msg wire.Message, addr net.Addr, nowUs int64) wire.Message {
	start := time.Now()

	switch v := msg.(type) {
	case wire.RegisterNode:
		m.registerNode(v, nowUs)
		return nil

	case wire.UnregisterNode:
		m.removeNode(v.NodeID)
		return nil

	case wire.Data:
		m.applyData(v, nowUs)
		return wire.Ack{
			Seq:        v.Seq,
			ServerTsUs: uint64(nowUs),
			ProcUs:     uint64(time.Since(start).Microseconds()),
		}

	case wire.RequestTopology:
		return wire.Topology{Snapshot: m.Snapshot(nowUs)}

	case wire.RequestAnalytics:
		return wire.Analytics{Snapshot: m.AnalyticsSnapshot(nowUs)}

	default:
		m.log.WithFields(logrus.Fields{"addr": addrString(addr), "type": v}).
			Warn("analytics: ignoring unexpected message kind from client")
		return nil
	}
}

func addrString(addr net.Addr) string {
	if addr == nil {
		return "-"
	}
	return addr.String()
}

func (m *Manager) registerNode(msg wire.RegisterNode, nowUs int64) {
	n, ok := m.nodes[msg.NodeID]
	if !ok {
		n = topology.NewNode(msg.NodeID, msg.Description, msg.Domain, nowUs)
		m.nodes[msg.NodeID] = n
		return
	}
	n.Register(msg.Description, msg.Domain, nowUs)
}

// ensureNode returns the node for id, implicitly creating it as an External
// node with an empty description if it doesn't exist yet (spec.md §4.5,
// preserving invariant I1). Existing nodes are returned unmodified; traffic
// updates their counters separately via RecordTraffic.
func (m *Manager) ensureNode(id topology.NodeId, nowUs int64) *topology.NodeState {
	n, ok := m.nodes[id]
	if ok {
		return n
	}
	n = topology.NewNode(id, "", topology.DomainExternal, nowUs)
	m.nodes[id] = n
	return n
}

func (m *Manager) applyData(msg wire.Data, nowUs int64) {
	src := m.ensureNode(msg.Src, nowUs)
	dst := m.ensureNode(msg.Dst, nowUs)

	bytes := uint64(msg.PayloadLen)
	src.RecordTraffic(msg.Class, bytes, nowUs)
	dst.RecordTraffic(msg.Class, bytes, nowUs)

	edgeID := topology.EdgeId{Src: msg.Src, Dst: msg.Dst, Class: msg.Class}
	edge, ok := m.edges[edgeID]
	if !ok {
		edge = topology.NewEdge(edgeID, topology.EndpointDomain{}, nowUs)
		m.edges[edgeID] = edge
		m.indexEdge(edgeID)
	}

	endpointDomain := topology.EndpointDomain{Src: msg.SrcDomain, Dst: msg.DstDomain}
	edge.ApplyData(nowUs, bytes, msg.Seq, msg.SentTsUs, endpointDomain)
}

func (m *Manager) indexEdge(id topology.EdgeId) {
	for _, node := range []topology.NodeId{id.Src, id.Dst} {
		set, ok := m.nodeEdges[node]
		if !ok {
			set = make(map[topology.EdgeId]struct{})
			m.nodeEdges[node] = set
		}
		set[id] = struct{}{}
	}
}

func (m *Manager) unindexEdge(id topology.EdgeId) {
	for _, node := range []topology.NodeId{id.Src, id.Dst} {
		if set, ok := m.nodeEdges[node]; ok {
			delete(set, id)
			if len(set) == 0 {
				delete(m.nodeEdges, node)
			}
		}
	}
}

// removeNode destroys a node and, atomically relative to external
// observers, every edge referencing it (invariant I1). It is the shared
// implementation behind UnregisterNode and TTL eviction.
func (m *Manager) removeNode(id topology.NodeId) {
	if _, ok := m.nodes[id]; !ok {
		return
	}
	delete(m.nodes, id)
	m.pendingRemovedNodes = append(m.pendingRemovedNodes, id)

	for edgeID := range m.nodeEdges[id] {
		m.removeEdgeLocked(edgeID)
		m.unindexEdge(edgeID)
	}
	delete(m.nodeEdges, id)
}

// removeEdgeLocked removes an edge and enqueues it for the next snapshot's
// removed_edges, without touching nodeEdges[other endpoint] (the caller is
// expected to clean that up, or be in the middle of removing both
// endpoints).
func (m *Manager) removeEdgeLocked(id topology.EdgeId) {
	if _, ok := m.edges[id]; !ok {
		return
	}
	delete(m.edges, id)
	m.pendingRemovedEdges = append(m.pendingRemovedEdges, id)
}

// removeEdge fully removes an edge: the edge table, both endpoints'
// nodeEdges index, and enqueues the removal.
func (m *Manager) removeEdge(id topology.EdgeId) {
	if _, ok := m.edges[id]; !ok {
		return
	}
	m.removeEdgeLocked(id)
	m.unindexEdge(id)
}

// Tick runs the TTL sweep: nodes whose last_seen_us exceeds node_ttl are
// removed (cascading their edges), then any remaining edge whose
// last_seen_us exceeds edge_ttl is removed directly. Every removal appends
// to the pending removal queues drained by the next Snapshot call.
func (m *Manager) Tick(nowUs int64) {
	var expiredNodes []topology.NodeId
	for id, n := range m.nodes {
		if nowUs-n.LastSeenUs > m.cfg.NodeTTLUs {
			expiredNodes = append(expiredNodes, id)
		}
	}
	for _, id := range expiredNodes {
		m.removeNode(id)
	}

	var expiredEdges []topology.EdgeId
	for id, e := range m.edges {
		if nowUs-e.LastSeenUs > m.cfg.EdgeTTLUs {
			expiredEdges = append(expiredEdges, id)
		}
	}
	for _, id := range expiredEdges {
		m.removeEdge(id)
	}

	if len(expiredNodes) > 0 || len(expiredEdges) > 0 {
		m.log.WithFields(logrus.Fields{
			"expired_nodes": len(expiredNodes),
			"expired_edges": len(expiredEdges),
		}).Info("analytics: ttl sweep removed entries")
	}
}
