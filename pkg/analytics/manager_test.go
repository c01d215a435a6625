package analytics

import (
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/simeonmiteff/netsim/pkg/topology"
	"github.com/simeonmiteff/netsim/pkg/wire"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

func nid(b byte) topology.NodeId {
	var id topology.NodeId
	for i := range id {
		id[i] = b
	}
	return id
}

func newManager() *Manager {
	return NewManager(DefaultConfig(), testLogger())
}

func ts(v uint64) *uint64 { return &v }

func TestManager_RegisterDataSnapshot(t *testing.T) {
	m := newManager()
	a, b := nid(0x01), nid(0x02)
	var now int64 = 1_000_000

	m.Apply(wire.RegisterNode{NodeID: a, Description: "a", Domain: topology.DomainInternal}, nil, now)
	m.Apply(wire.RegisterNode{NodeID: b, Description: "b", Domain: topology.DomainInternal}, nil, now)
	m.Apply(wire.Data{
		Src: a, Dst: b, Class: topology.ClassAPI, Seq: 0,
		SentTsUs: ts(uint64(now)), PayloadLen: 100,
	}, nil, now)

	snap := m.Snapshot(now)
	if len(snap.Nodes) != 2 {
		t.Fatalf("nodes = %d, want 2", len(snap.Nodes))
	}
	if len(snap.Edges) != 1 {
		t.Fatalf("edges = %d, want 1", len(snap.Edges))
	}
	e := snap.Edges[0]
	if e.Packets != 1 || e.Bytes != 100 {
		t.Fatalf("edge packets/bytes = %d/%d, want 1/100", e.Packets, e.Bytes)
	}
	if len(snap.RemovedNodes) != 0 || len(snap.RemovedEdges) != 0 {
		t.Fatalf("expected no removals, got %v / %v", snap.RemovedNodes, snap.RemovedEdges)
	}
	if snap.Seq != 1 {
		t.Fatalf("seq = %d, want 1", snap.Seq)
	}
}

func TestManager_UnregisterClearsEdges(t *testing.T) {
	m := newManager()
	a, b := nid(0x01), nid(0x02)
	var now int64 = 1_000_000

	m.Apply(wire.RegisterNode{NodeID: a, Domain: topology.DomainInternal}, nil, now)
	m.Apply(wire.RegisterNode{NodeID: b, Domain: topology.DomainInternal}, nil, now)
	m.Apply(wire.Data{Src: a, Dst: b, Class: topology.ClassAPI, Seq: 0, PayloadLen: 10}, nil, now)
	m.Snapshot(now) // seq=1, drains (empty) removal queues

	m.Apply(wire.UnregisterNode{NodeID: a}, nil, now)
	snap := m.Snapshot(now)

	if len(snap.Nodes) != 1 || snap.Nodes[0].Id != b {
		t.Fatalf("nodes after unregister = %+v, want only b", snap.Nodes)
	}
	if len(snap.Edges) != 0 {
		t.Fatalf("edges after unregister = %d, want 0", len(snap.Edges))
	}
	if len(snap.RemovedNodes) != 1 || snap.RemovedNodes[0] != a {
		t.Fatalf("removed_nodes = %v, want [a]", snap.RemovedNodes)
	}
	wantEdge := topology.EdgeId{Src: a, Dst: b, Class: topology.ClassAPI}
	if len(snap.RemovedEdges) != 1 || snap.RemovedEdges[0] != wantEdge {
		t.Fatalf("removed_edges = %v, want [%v]", snap.RemovedEdges, wantEdge)
	}
	if snap.Seq != 2 {
		t.Fatalf("seq = %d, want 2", snap.Seq)
	}

	// Next snapshot must not repeat the removals (invariant I4/I5).
	snap2 := m.Snapshot(now)
	if len(snap2.RemovedNodes) != 0 || len(snap2.RemovedEdges) != 0 {
		t.Fatalf("expected empty removed lists on repeat snapshot, got %v / %v",
			snap2.RemovedNodes, snap2.RemovedEdges)
	}
	if snap2.Seq != 3 {
		t.Fatalf("seq = %d, want 3", snap2.Seq)
	}
}

func TestManager_TTLCleanup(t *testing.T) {
	m := newManager()
	a, b := nid(0x01), nid(0x02)
	var now int64 = 0

	m.Apply(wire.RegisterNode{NodeID: a, Domain: topology.DomainInternal}, nil, now)
	m.Apply(wire.RegisterNode{NodeID: b, Domain: topology.DomainInternal}, nil, now)
	m.Apply(wire.Data{Src: a, Dst: b, Class: topology.ClassAPI, Seq: 0, PayloadLen: 10}, nil, now)

	// Advance 31s: edge TTL (30s) exceeded, node TTL (60s) not.
	now += 31 * 1_000_000
	m.Tick(now)
	snap := m.Snapshot(now)
	if len(snap.Nodes) != 2 {
		t.Fatalf("nodes after 31s = %d, want 2", len(snap.Nodes))
	}
	if len(snap.Edges) != 0 {
		t.Fatalf("edges after 31s = %d, want 0", len(snap.Edges))
	}
	wantEdge := topology.EdgeId{Src: a, Dst: b, Class: topology.ClassAPI}
	if len(snap.RemovedEdges) != 1 || snap.RemovedEdges[0] != wantEdge {
		t.Fatalf("removed_edges after 31s = %v, want [%v]", snap.RemovedEdges, wantEdge)
	}

	// Advance to 61s total: node TTL (60s) now exceeded too.
	now = 61 * 1_000_000
	m.Tick(now)
	snap = m.Snapshot(now)
	if len(snap.Nodes) != 0 {
		t.Fatalf("nodes after 61s = %d, want 0", len(snap.Nodes))
	}
	if len(snap.RemovedNodes) != 2 {
		t.Fatalf("removed_nodes after 61s = %v, want 2 entries", snap.RemovedNodes)
	}
}

func TestManager_ImplicitNodeCreation(t *testing.T) {
	m := newManager()
	a, b := nid(0x01), nid(0x02)
	var now int64 = 1_000_000

	// No RegisterNode at all: Data must implicitly create both endpoints.
	m.Apply(wire.Data{
		Src: a, Dst: b, SrcDomain: topology.DomainInternal, DstDomain: topology.DomainExternal,
		Class: topology.ClassHealthCheck, Seq: 0, PayloadLen: 5,
	}, nil, now)

	snap := m.Snapshot(now)
	if len(snap.Nodes) != 2 {
		t.Fatalf("nodes = %d, want 2", len(snap.Nodes))
	}
	for _, n := range snap.Nodes {
		if n.Domain != topology.DomainExternal {
			t.Fatalf("implicitly created node %v has domain %v, want External", n.Id, n.Domain)
		}
		if n.Description != "" {
			t.Fatalf("implicitly created node %v has description %q, want empty", n.Id, n.Description)
		}
	}
}

func TestManager_AckReply(t *testing.T) {
	m := newManager()
	a, b := nid(0x01), nid(0x02)

	reply := m.Apply(wire.Data{Src: a, Dst: b, Class: topology.ClassAPI, Seq: 42, PayloadLen: 1}, nil, 5_000_000)
	ack, ok := reply.(wire.Ack)
	if !ok {
		t.Fatalf("reply type = %T, want wire.Ack", reply)
	}
	if ack.Seq != 42 {
		t.Fatalf("ack.Seq = %d, want 42", ack.Seq)
	}
	if ack.ServerTsUs != 5_000_000 {
		t.Fatalf("ack.ServerTsUs = %d, want 5000000", ack.ServerTsUs)
	}
}

func TestManager_EWMAConvergence(t *testing.T) {
	m := newManager()
	a, b := nid(0x01), nid(0x02)
	const sampleUs = 10_000
	var now int64 = 1_000_000_000

	for i := 0; i < 100; i++ {
		sentTs := uint64(now) - sampleUs
		m.Apply(wire.Data{
			Src: a, Dst: b, Class: topology.ClassAPI, Seq: uint64(i),
			SentTsUs: &sentTs, PayloadLen: 10,
		}, nil, now)
		now += 1000
	}

	snap := m.Snapshot(now)
	e := snap.Edges[0]
	diff := e.EwmaLatencyUs - sampleUs
	if diff < 0 {
		diff = -diff
	}
	if diff > sampleUs*0.01 {
		t.Fatalf("ewma latency = %v, want within 1%% of %v", e.EwmaLatencyUs, float64(sampleUs))
	}
	if e.EwmaJitterUs > sampleUs*0.01 {
		t.Fatalf("ewma jitter = %v, want near 0", e.EwmaJitterUs)
	}
}

func TestManager_MonotonicCountersAcrossReplay(t *testing.T) {
	run := func() wire.TopologySnapshot {
		m := newManager()
		a, b := nid(0x01), nid(0x02)
		var now int64
		for i := 0; i < 10; i++ {
			m.Apply(wire.Data{Src: a, Dst: b, Class: topology.ClassAPI, Seq: uint64(i), PayloadLen: 10}, nil, now)
			now += 1_000
		}
		return m.Snapshot(now)
	}

	first := run()
	second := run()
	if first.Edges[0].Packets != second.Edges[0].Packets {
		t.Fatalf("replaying the same log produced different counters: %d vs %d",
			first.Edges[0].Packets, second.Edges[0].Packets)
	}
	if first.Edges[0].Packets != 10 {
		t.Fatalf("packets = %d, want 10", first.Edges[0].Packets)
	}
}
