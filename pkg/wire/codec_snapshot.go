package wire

import "github.com/simeonmiteff/netsim/pkg/topology"

func (w *writer) counters(c [topology.NumTrafficClasses]topology.Counter) {
	for i := range c {
		w.u64(c[i].Packets)
		w.u64(c[i].Bytes)
	}
}

func (r *reader) counters() ([topology.NumTrafficClasses]topology.Counter, error) {
	var c [topology.NumTrafficClasses]topology.Counter
	for i := range c {
		p, err := r.u64()
		if err != nil {
			return c, err
		}
		b, err := r.u64()
		if err != nil {
			return c, err
		}
		c[i] = topology.Counter{Packets: p, Bytes: b}
	}
	return c, nil
}

func (w *writer) edgeID(id topology.EdgeId) {
	w.nodeID(id.Src)
	w.nodeID(id.Dst)
	w.u8(uint8(id.Class))
}

func (r *reader) edgeID() (topology.EdgeId, error) {
	var id topology.EdgeId
	var err error
	if id.Src, err = r.nodeID(); err != nil {
		return id, err
	}
	if id.Dst, err = r.nodeID(); err != nil {
		return id, err
	}
	class, err := r.u8()
	if err != nil {
		return id, err
	}
	id.Class = topology.TrafficClass(class)
	return id, nil
}

func (w *writer) nodeSnapshot(n NodeSnapshot) {
	w.nodeID(n.Id)
	w.str(n.Description)
	w.u8(uint8(n.Domain))
	if n.Active {
		w.u8(1)
	} else {
		w.u8(0)
	}
	w.counters(n.Classes)
	w.u64(n.FirstSeenUs)
	w.u64(n.LastSeenUs)
}

func (r *reader) nodeSnapshot() (NodeSnapshot, error) {
	var n NodeSnapshot
	var err error
	if n.Id, err = r.nodeID(); err != nil {
		return n, err
	}
	if n.Description, err = r.str(); err != nil {
		return n, err
	}
	domain, err := r.u8()
	if err != nil {
		return n, err
	}
	n.Domain = topology.NodeDomain(domain)
	active, err := r.u8()
	if err != nil {
		return n, err
	}
	n.Active = active != 0
	if n.Classes, err = r.counters(); err != nil {
		return n, err
	}
	if n.FirstSeenUs, err = r.u64(); err != nil {
		return n, err
	}
	if n.LastSeenUs, err = r.u64(); err != nil {
		return n, err
	}
	return n, nil
}

func (w *writer) edgeSnapshot(e EdgeSnapshot) {
	w.edgeID(e.Id)
	w.u8(uint8(e.EndpointDomain.Src))
	w.u8(uint8(e.EndpointDomain.Dst))
	w.u64(e.Packets)
	w.u64(e.Bytes)
	w.f64(e.Pps)
	w.f64(e.Bps)
	w.f64(e.EwmaLatencyUs)
	w.f64(e.EwmaJitterUs)
	w.f64(e.LatencyDeltaUs)
	w.f64(e.LossRate)
	w.u64(e.FirstSeenUs)
	w.u64(e.LastSeenUs)
}

func (r *reader) edgeSnapshot() (EdgeSnapshot, error) {
	var e EdgeSnapshot
	var err error
	if e.Id, err = r.edgeID(); err != nil {
		return e, err
	}
	srcDomain, err := r.u8()
	if err != nil {
		return e, err
	}
	dstDomain, err := r.u8()
	if err != nil {
		return e, err
	}
	e.EndpointDomain = topology.EndpointDomain{
		Src: topology.NodeDomain(srcDomain),
		Dst: topology.NodeDomain(dstDomain),
	}
	if e.Packets, err = r.u64(); err != nil {
		return e, err
	}
	if e.Bytes, err = r.u64(); err != nil {
		return e, err
	}
	if e.Pps, err = r.f64(); err != nil {
		return e, err
	}
	if e.Bps, err = r.f64(); err != nil {
		return e, err
	}
	if e.EwmaLatencyUs, err = r.f64(); err != nil {
		return e, err
	}
	if e.EwmaJitterUs, err = r.f64(); err != nil {
		return e, err
	}
	if e.LatencyDeltaUs, err = r.f64(); err != nil {
		return e, err
	}
	if e.LossRate, err = r.f64(); err != nil {
		return e, err
	}
	if e.FirstSeenUs, err = r.u64(); err != nil {
		return e, err
	}
	if e.LastSeenUs, err = r.u64(); err != nil {
		return e, err
	}
	return e, nil
}

func (w *writer) globalStats(g GlobalStats) {
	w.u64(g.TotalNodes)
	w.u64(g.TotalEdges)
	w.u64(g.TotalPackets)
	w.u64(g.TotalBytes)
	w.f64(g.AggregatePps)
	w.f64(g.AggregateBps)
}

func (r *reader) globalStats() (GlobalStats, error) {
	var g GlobalStats
	var err error
	if g.TotalNodes, err = r.u64(); err != nil {
		return g, err
	}
	if g.TotalEdges, err = r.u64(); err != nil {
		return g, err
	}
	if g.TotalPackets, err = r.u64(); err != nil {
		return g, err
	}
	if g.TotalBytes, err = r.u64(); err != nil {
		return g, err
	}
	if g.AggregatePps, err = r.f64(); err != nil {
		return g, err
	}
	if g.AggregateBps, err = r.f64(); err != nil {
		return g, err
	}
	return g, nil
}

func (w *writer) topologySnapshot(s TopologySnapshot) {
	w.u64(s.Seq)
	w.u64(s.TimestampUs)

	w.varint(uint64(len(s.Nodes)))
	for _, n := range s.Nodes {
		w.nodeSnapshot(n)
	}

	w.varint(uint64(len(s.Edges)))
	for _, e := range s.Edges {
		w.edgeSnapshot(e)
	}

	w.varint(uint64(len(s.RemovedNodes)))
	for _, id := range s.RemovedNodes {
		w.nodeID(id)
	}

	w.varint(uint64(len(s.RemovedEdges)))
	for _, id := range s.RemovedEdges {
		w.edgeID(id)
	}

	w.globalStats(s.GlobalStats)
}

func (r *reader) topologySnapshot() (TopologySnapshot, error) {
	var s TopologySnapshot
	var err error

	if s.Seq, err = r.u64(); err != nil {
		return s, err
	}
	if s.TimestampUs, err = r.u64(); err != nil {
		return s, err
	}

	nNodes, err := r.varint()
	if err != nil {
		return s, err
	}
	s.Nodes = make([]NodeSnapshot, nNodes)
	for i := range s.Nodes {
		if s.Nodes[i], err = r.nodeSnapshot(); err != nil {
			return s, err
		}
	}

	nEdges, err := r.varint()
	if err != nil {
		return s, err
	}
	s.Edges = make([]EdgeSnapshot, nEdges)
	for i := range s.Edges {
		if s.Edges[i], err = r.edgeSnapshot(); err != nil {
			return s, err
		}
	}

	nRemovedNodes, err := r.varint()
	if err != nil {
		return s, err
	}
	s.RemovedNodes = make([]topology.NodeId, nRemovedNodes)
	for i := range s.RemovedNodes {
		if s.RemovedNodes[i], err = r.nodeID(); err != nil {
			return s, err
		}
	}

	nRemovedEdges, err := r.varint()
	if err != nil {
		return s, err
	}
	s.RemovedEdges = make([]topology.EdgeId, nRemovedEdges)
	for i := range s.RemovedEdges {
		if s.RemovedEdges[i], err = r.edgeID(); err != nil {
			return s, err
		}
	}

	if s.GlobalStats, err = r.globalStats(); err != nil {
		return s, err
	}
	return s, nil
}

func (w *writer) nodeAggregate(n NodeAggregate) {
	w.nodeID(n.Id)
	w.str(n.Description)
	w.u8(uint8(n.Domain))
	w.counters(n.Classes)
}

func (r *reader) nodeAggregate() (NodeAggregate, error) {
	var n NodeAggregate
	var err error
	if n.Id, err = r.nodeID(); err != nil {
		return n, err
	}
	if n.Description, err = r.str(); err != nil {
		return n, err
	}
	domain, err := r.u8()
	if err != nil {
		return n, err
	}
	n.Domain = topology.NodeDomain(domain)
	if n.Classes, err = r.counters(); err != nil {
		return n, err
	}
	return n, nil
}

func (w *writer) edgeAggregate(e EdgeAggregate) {
	w.edgeID(e.Id)
	w.u64(e.Packets)
	w.u64(e.Bytes)
	w.f64(e.Pps)
	w.f64(e.Bps)
}

func (r *reader) edgeAggregate() (EdgeAggregate, error) {
	var e EdgeAggregate
	var err error
	if e.Id, err = r.edgeID(); err != nil {
		return e, err
	}
	if e.Packets, err = r.u64(); err != nil {
		return e, err
	}
	if e.Bytes, err = r.u64(); err != nil {
		return e, err
	}
	if e.Pps, err = r.f64(); err != nil {
		return e, err
	}
	if e.Bps, err = r.f64(); err != nil {
		return e, err
	}
	return e, nil
}

func (w *writer) analyticsSnapshot(s AnalyticsSnapshot) {
	w.varint(uint64(len(s.Nodes)))
	for _, n := range s.Nodes {
		w.nodeAggregate(n)
	}
	w.varint(uint64(len(s.Edges)))
	for _, e := range s.Edges {
		w.edgeAggregate(e)
	}
}

func (r *reader) analyticsSnapshot() (AnalyticsSnapshot, error) {
	var s AnalyticsSnapshot
	nNodes, err := r.varint()
	if err != nil {
		return s, err
	}
	s.Nodes = make([]NodeAggregate, nNodes)
	for i := range s.Nodes {
		if s.Nodes[i], err = r.nodeAggregate(); err != nil {
			return s, err
		}
	}
	nEdges, err := r.varint()
	if err != nil {
		return s, err
	}
	s.Edges = make([]EdgeAggregate, nEdges)
	for i := range s.Edges {
		if s.Edges[i], err = r.edgeAggregate(); err != nil {
			return s, err
		}
	}
	return s, nil
}
