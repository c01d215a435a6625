package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/simeonmiteff/netsim/pkg/topology"
)

// ErrMalformed wraps every decode failure: a malformed datagram is dropped
// and counted by the dispatcher, never surfaced to the sender.
var ErrMalformed = errors.New("wire: malformed frame")

// Encode renders m as a single binary frame: a tag byte followed by its
// fields in declaration order, integers little-endian, variable-length
// sequences varint-length-prefixed. Encode never fails for a well-formed
// Message value.
func Encode(m Message) ([]byte, error) {
	w := newWriter()
	w.u8(uint8(m.Tag()))

	switch v := m.(type) {
	case RegisterNode:
		w.nodeID(v.NodeID)
		w.str(v.Description)
		w.u8(uint8(v.Domain))
	case UnregisterNode:
		w.nodeID(v.NodeID)
	case Data:
		w.nodeID(v.Src)
		w.nodeID(v.Dst)
		w.u8(uint8(v.SrcDomain))
		w.u8(uint8(v.DstDomain))
		w.u8(uint8(v.Class))
		w.u64(v.Seq)
		if v.SentTsUs == nil {
			w.u8(0)
		} else {
			w.u8(1)
			w.u64(*v.SentTsUs)
		}
		w.u32(v.PayloadLen)
	case Ack:
		w.u64(v.Seq)
		w.u64(v.ServerTsUs)
		w.u64(v.ProcUs)
	case RequestTopology:
	case Topology:
		w.topologySnapshot(v.Snapshot)
	case RequestAnalytics:
	case Analytics:
		w.analyticsSnapshot(v.Snapshot)
	default:
		return nil, fmt.Errorf("wire: encode: unknown message type %T", m)
	}

	return w.bytes(), nil
}

// Decode parses a single frame into its Message. A malformed or truncated
// frame, or an unknown tag, returns ErrMalformed (wrapped with context).
func Decode(data []byte) (Message, error) {
	r := newReader(data)
	tag, err := r.u8()
	if err != nil {
		return nil, fmt.Errorf("%w: missing tag: %v", ErrMalformed, err)
	}

	var msg Message
	switch Tag(tag) {
	case TagRegisterNode:
		var v RegisterNode
		if v.NodeID, err = r.nodeID(); err != nil {
			return nil, decodeErr("RegisterNode.NodeID", err)
		}
		if v.Description, err = r.str(); err != nil {
			return nil, decodeErr("RegisterNode.Description", err)
		}
		domain, err := r.u8()
		if err != nil {
			return nil, decodeErr("RegisterNode.Domain", err)
		}
		v.Domain = topology.NodeDomain(domain)
		msg = v
	case TagUnregisterNode:
		var v UnregisterNode
		if v.NodeID, err = r.nodeID(); err != nil {
			return nil, decodeErr("UnregisterNode.NodeID", err)
		}
		msg = v
	case TagData:
		var v Data
		if v.Src, err = r.nodeID(); err != nil {
			return nil, decodeErr("Data.Src", err)
		}
		if v.Dst, err = r.nodeID(); err != nil {
			return nil, decodeErr("Data.Dst", err)
		}
		srcDomain, err := r.u8()
		if err != nil {
			return nil, decodeErr("Data.SrcDomain", err)
		}
		v.SrcDomain = topology.NodeDomain(srcDomain)
		dstDomain, err := r.u8()
		if err != nil {
			return nil, decodeErr("Data.DstDomain", err)
		}
		v.DstDomain = topology.NodeDomain(dstDomain)
		class, err := r.u8()
		if err != nil {
			return nil, decodeErr("Data.Class", err)
		}
		v.Class = topology.TrafficClass(class)
		if v.Seq, err = r.u64(); err != nil {
			return nil, decodeErr("Data.Seq", err)
		}
		present, err := r.u8()
		if err != nil {
			return nil, decodeErr("Data.SentTsUs presence", err)
		}
		if present != 0 {
			ts, err := r.u64()
			if err != nil {
				return nil, decodeErr("Data.SentTsUs", err)
			}
			v.SentTsUs = &ts
		}
		if v.PayloadLen, err = r.u32(); err != nil {
			return nil, decodeErr("Data.PayloadLen", err)
		}
		msg = v
	case TagAck:
		var v Ack
		if v.Seq, err = r.u64(); err != nil {
			return nil, decodeErr("Ack.Seq", err)
		}
		if v.ServerTsUs, err = r.u64(); err != nil {
			return nil, decodeErr("Ack.ServerTsUs", err)
		}
		if v.ProcUs, err = r.u64(); err != nil {
			return nil, decodeErr("Ack.ProcUs", err)
		}
		msg = v
	case TagRequestTopology:
		msg = RequestTopology{}
	case TagTopology:
		var v Topology
		if v.Snapshot, err = r.topologySnapshot(); err != nil {
			return nil, decodeErr("Topology.Snapshot", err)
		}
		msg = v
	case TagRequestAnalytics:
		msg = RequestAnalytics{}
	case TagAnalytics:
		var v Analytics
		if v.Snapshot, err = r.analyticsSnapshot(); err != nil {
			return nil, decodeErr("Analytics.Snapshot", err)
		}
		msg = v
	default:
		return nil, fmt.Errorf("%w: unknown tag %d", ErrMalformed, tag)
	}

	return msg, nil
}

func decodeErr(field string, cause error) error {
	return fmt.Errorf("%w: %s: %v", ErrMalformed, field, cause)
}

// --- low-level writer ---

type writer struct {
	buf []byte
}

func newWriter() *writer { return &writer{buf: make([]byte, 0, 64)} }

func (w *writer) bytes() []byte { return w.buf }

func (w *writer) u8(v uint8) { w.buf = append(w.buf, v) }

func (w *writer) u32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *writer) u64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *writer) f64(v float64) { w.u64(math.Float64bits(v)) }

func (w *writer) varint(v uint64) {
	var b [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(b[:], v)
	w.buf = append(w.buf, b[:n]...)
}

func (w *writer) nodeID(id topology.NodeId) { w.buf = append(w.buf, id[:]...) }

func (w *writer) rawBytes(b []byte) {
	w.varint(uint64(len(b)))
	w.buf = append(w.buf, b...)
}

func (w *writer) str(s string) { w.rawBytes([]byte(s)) }

// --- low-level reader ---

type reader struct {
	data []byte
	pos  int
}

func newReader(data []byte) *reader { return &reader{data: data} }

func (r *reader) u8() (uint8, error) {
	if r.pos+1 > len(r.data) {
		return 0, errShortFrame
	}
	v := r.data[r.pos]
	r.pos++
	return v, nil
}

func (r *reader) u32() (uint32, error) {
	if r.pos+4 > len(r.data) {
		return 0, errShortFrame
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos : r.pos+4])
	r.pos += 4
	return v, nil
}

func (r *reader) u64() (uint64, error) {
	if r.pos+8 > len(r.data) {
		return 0, errShortFrame
	}
	v := binary.LittleEndian.Uint64(r.data[r.pos : r.pos+8])
	r.pos += 8
	return v, nil
}

func (r *reader) f64() (float64, error) {
	bits, err := r.u64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

func (r *reader) varint() (uint64, error) {
	v, n := binary.Uvarint(r.data[r.pos:])
	if n <= 0 {
		return 0, errShortFrame
	}
	r.pos += n
	return v, nil
}

func (r *reader) nodeID() (topology.NodeId, error) {
	var id topology.NodeId
	if r.pos+len(id) > len(r.data) {
		return id, errShortFrame
	}
	copy(id[:], r.data[r.pos:r.pos+len(id)])
	r.pos += len(id)
	return id, nil
}

func (r *reader) rawBytes() ([]byte, error) {
	n, err := r.varint()
	if err != nil {
		return nil, err
	}
	if r.pos+int(n) > len(r.data) || n > (1<<32) {
		return nil, errShortFrame
	}
	b := r.data[r.pos : r.pos+int(n)]
	r.pos += int(n)
	return b, nil
}

func (r *reader) str() (string, error) {
	b, err := r.rawBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

var errShortFrame = errors.New("unexpected end of frame")
