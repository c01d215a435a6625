// Package topology holds the core graph data model: node and edge identity,
// their live state, and the counters/timestamps each carries. It has no
// dependency on the wire protocol or the analytics manager — both of those
// build on top of it.
package topology

import "fmt"

// NodeId is an opaque 16-byte stable identity, typically a UUID. Equality
// and hashing are byte-wise; it is never derived from a UDP source address.
type NodeId [16]byte

func (id NodeId) String() string {
	return fmt.Sprintf("%x", [16]byte(id))
}

// IsZero reports whether id is the all-zero identity, used as a sentinel
// for "no id" in places that can't use a pointer (e.g. map keys).
func (id NodeId) IsZero() bool {
	return id == NodeId{}
}

// TrafficClass is one of a closed set of four traffic classes. New classes
// require a codec-version bump, not an open extension point.
type TrafficClass uint8

const (
	ClassAPI TrafficClass = iota
	ClassHeavyCompute
	ClassBackground
	ClassHealthCheck

	numTrafficClasses = 4
)

func (c TrafficClass) String() string {
	switch c {
	case ClassAPI:
		return "api"
	case ClassHeavyCompute:
		return "heavy_compute"
	case ClassBackground:
		return "background"
	case ClassHealthCheck:
		return "health_check"
	default:
		return fmt.Sprintf("class(%d)", uint8(c))
	}
}

// Valid reports whether c is one of the four defined traffic classes.
func (c TrafficClass) Valid() bool {
	return c < numTrafficClasses
}

// NodeDomain is one of a closed set of two node domains.
type NodeDomain uint8

const (
	DomainInternal NodeDomain = iota
	DomainExternal
)

func (d NodeDomain) String() string {
	switch d {
	case DomainInternal:
		return "internal"
	case DomainExternal:
		return "external"
	default:
		return fmt.Sprintf("domain(%d)", uint8(d))
	}
}

func (d NodeDomain) Valid() bool {
	return d == DomainInternal || d == DomainExternal
}

// EndpointDomain is the (src-domain, dst-domain) pair declared on a data
// packet, used to classify the edge's route style.
type EndpointDomain struct {
	Src NodeDomain
	Dst NodeDomain
}

// EdgeId is the ordered triple (src, dst, class) identifying a directed
// per-class traffic relation. It is comparable and usable as a map key; the
// reverse triple (dst, src, class) is a distinct edge.
type EdgeId struct {
	Src   NodeId
	Dst   NodeId
	Class TrafficClass
}

func (e EdgeId) String() string {
	return fmt.Sprintf("%s->%s/%s", e.Src, e.Dst, e.Class)
}

// Counter is a monotonic packet/byte pair. It resets only when the owning
// entity is recreated after removal.
type Counter struct {
	Packets uint64
	Bytes   uint64
}

// NumTrafficClasses is the size of any [N]Counter array indexed by
// TrafficClass.
const NumTrafficClasses = numTrafficClasses
