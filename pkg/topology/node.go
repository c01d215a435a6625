package topology

// NodeState is the live state of a single registered (or implicitly
// created) node.
type NodeState struct {
	Id          NodeId
	Description string
	Domain      NodeDomain

	// Classes holds per-traffic-class packet/byte totals, monotonic for the
	// life of this node.
	Classes [NumTrafficClasses]Counter

	FirstSeenUs int64
	LastSeenUs  int64
}

// NewNode creates a fresh NodeState, recording first/last seen at nowUs.
func NewNode(id NodeId, description string, domain NodeDomain, nowUs int64) *NodeState {
	return &NodeState{
		Id:          id,
		Description: description,
		Domain:      domain,
		FirstSeenUs: nowUs,
		LastSeenUs:  nowUs,
	}
}

// Register applies a (re-)registration: description and domain are
// last-declared-wins, last_seen_us advances. first_seen_us is untouched —
// it was set at creation.
func (n *NodeState) Register(description string, domain NodeDomain, nowUs int64) {
	n.Description = description
	n.Domain = domain
	n.LastSeenUs = nowUs
}

// RecordTraffic increments the class counter for bytes seen at nowUs and
// advances last_seen_us. It does not touch Description or Domain.
func (n *NodeState) RecordTraffic(class TrafficClass, bytes uint64, nowUs int64) {
	n.Classes[class].Packets++
	n.Classes[class].Bytes += bytes
	n.LastSeenUs = nowUs
}

// Active reports whether the node is considered active at nowUs: traffic
// within 3x the rate-calculator window.
func (n *NodeState) Active(nowUs int64, windowSecs int64) bool {
	return nowUs-n.LastSeenUs <= 3*windowSecs*1_000_000
}
