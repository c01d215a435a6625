package wire

import (
	"reflect"
	"testing"

	"github.com/simeonmiteff/netsim/pkg/topology"
)

func nid(b byte) topology.NodeId {
	var id topology.NodeId
	for i := range id {
		id[i] = b
	}
	return id
}

func roundTrip(t *testing.T, m Message) Message {
	t.Helper()
	enc, err := Encode(m)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	dec, err := Decode(enc)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return dec
}

func TestCodec_RegisterNode(t *testing.T) {
	m := RegisterNode{NodeID: nid(0x01), Description: "client-a", Domain: topology.DomainInternal}
	if got := roundTrip(t, m); !reflect.DeepEqual(got, m) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, m)
	}
}

func TestCodec_UnregisterNode(t *testing.T) {
	m := UnregisterNode{NodeID: nid(0x02)}
	if got := roundTrip(t, m); !reflect.DeepEqual(got, m) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, m)
	}
}

func TestCodec_DataWithTimestamp(t *testing.T) {
	ts := uint64(123456)
	m := Data{
		Src: nid(0x01), Dst: nid(0x02),
		SrcDomain: topology.DomainInternal, DstDomain: topology.DomainExternal,
		Class: topology.ClassAPI, Seq: 42, SentTsUs: &ts, PayloadLen: 100,
	}
	got, ok := roundTrip(t, m).(Data)
	if !ok {
		t.Fatalf("decoded type = %T, want Data", got)
	}
	if got.Seq != m.Seq || got.PayloadLen != m.PayloadLen || got.Class != m.Class {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, m)
	}
	if got.SentTsUs == nil || *got.SentTsUs != ts {
		t.Fatalf("SentTsUs round trip mismatch: got %+v, want %v", got.SentTsUs, ts)
	}
}

func TestCodec_DataWithoutTimestamp(t *testing.T) {
	m := Data{Src: nid(0x01), Dst: nid(0x02), Class: topology.ClassBackground, Seq: 7, PayloadLen: 0}
	got, ok := roundTrip(t, m).(Data)
	if !ok {
		t.Fatalf("decoded type = %T, want Data", got)
	}
	if got.SentTsUs != nil {
		t.Fatalf("SentTsUs = %v, want nil", got.SentTsUs)
	}
}

func TestCodec_Ack(t *testing.T) {
	m := Ack{Seq: 42, ServerTsUs: 999, ProcUs: 12}
	if got := roundTrip(t, m); !reflect.DeepEqual(got, m) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, m)
	}
}

func TestCodec_RequestTopology(t *testing.T) {
	m := RequestTopology{}
	if got := roundTrip(t, m); !reflect.DeepEqual(got, m) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, m)
	}
}

func TestCodec_RequestAnalytics(t *testing.T) {
	m := RequestAnalytics{}
	if got := roundTrip(t, m); !reflect.DeepEqual(got, m) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, m)
	}
}

func TestCodec_Topology(t *testing.T) {
	m := Topology{Snapshot: TopologySnapshot{
		Seq:         3,
		TimestampUs: 1000,
		Nodes: []NodeSnapshot{{
			Id: nid(0x01), Description: "a", Domain: topology.DomainInternal, Active: true,
			FirstSeenUs: 1, LastSeenUs: 2,
		}},
		Edges: []EdgeSnapshot{{
			Id:             topology.EdgeId{Src: nid(0x01), Dst: nid(0x02), Class: topology.ClassAPI},
			EndpointDomain: topology.EndpointDomain{Src: topology.DomainInternal, Dst: topology.DomainExternal},
			Packets:        5, Bytes: 500, Pps: 1.5, Bps: 150.25,
			EwmaLatencyUs: 1234.5, EwmaJitterUs: 12.3, LatencyDeltaUs: -4.2, LossRate: 0.1,
			FirstSeenUs: 1, LastSeenUs: 9,
		}},
		RemovedNodes: []topology.NodeId{nid(0x03)},
		RemovedEdges: []topology.EdgeId{{Src: nid(0x03), Dst: nid(0x04), Class: topology.ClassHealthCheck}},
		GlobalStats: GlobalStats{
			TotalNodes: 2, TotalEdges: 1, TotalPackets: 5, TotalBytes: 500,
			AggregatePps: 1.5, AggregateBps: 150.25,
		},
	}}
	got := roundTrip(t, m)
	if !reflect.DeepEqual(got, m) {
		t.Fatalf("round trip mismatch:\ngot  %+v\nwant %+v", got, m)
	}
}

func TestCodec_Analytics(t *testing.T) {
	m := Analytics{Snapshot: AnalyticsSnapshot{
		Nodes: []NodeAggregate{{Id: nid(0x01), Description: "a", Domain: topology.DomainInternal}},
		Edges: []EdgeAggregate{{
			Id:      topology.EdgeId{Src: nid(0x01), Dst: nid(0x02), Class: topology.ClassAPI},
			Packets: 5, Bytes: 500, Pps: 1.5, Bps: 150.25,
		}},
	}}
	if got := roundTrip(t, m); !reflect.DeepEqual(got, m) {
		t.Fatalf("round trip mismatch:\ngot  %+v\nwant %+v", got, m)
	}
}

func TestCodec_DecodeMalformed(t *testing.T) {
	cases := [][]byte{
		{},                        // no tag
		{byte(TagRegisterNode)},   // missing node id
		{0xff},                    // unknown tag
		{byte(TagData), 0x01},     // truncated
	}
	for i, c := range cases {
		if _, err := Decode(c); err == nil {
			t.Fatalf("case %d: expected error decoding %v, got nil", i, c)
		}
	}
}

func TestCodec_TagOrdering(t *testing.T) {
	// Tag values are part of the wire contract; pin them explicitly so an
	// accidental reordering is caught here rather than at interop time.
	want := map[Tag]uint8{
		TagRegisterNode:     0,
		TagUnregisterNode:   1,
		TagData:             2,
		TagAck:              3,
		TagRequestTopology:  4,
		TagTopology:         5,
		TagRequestAnalytics: 6,
		TagAnalytics:        7,
	}
	for tag, wantVal := range want {
		if uint8(tag) != wantVal {
			t.Fatalf("tag %v = %d, want %d", tag, uint8(tag), wantVal)
		}
	}
}
