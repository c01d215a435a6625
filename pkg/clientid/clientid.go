// Package clientid manages a client's persistent 16-byte NodeId. A fresh id
// is generated with xid on first run and cached on disk so that restarting
// the traffic generator doesn't churn the server's node graph with a new
// identity every time.
package clientid

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/rs/xid"

	"github.com/simeonmiteff/netsim/pkg/topology"
)

// Load reads a NodeId from path, or generates and persists a new one if
// path doesn't exist.
func Load(path string) (topology.NodeId, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return parse(strings.TrimSpace(string(data)))
	}
	if !os.IsNotExist(err) {
		return topology.NodeId{}, fmt.Errorf("clientid: read %s: %w", path, err)
	}

	id := generate()
	if err := os.WriteFile(path, []byte(id.String()+"\n"), 0o644); err != nil {
		return topology.NodeId{}, fmt.Errorf("clientid: write %s: %w", path, err)
	}
	return id, nil
}

// generate derives a NodeId from a freshly minted xid: xid's 12 bytes are
// placed in the low bytes of the 16-byte NodeId, leaving the top 4 zero.
func generate() topology.NodeId {
	var id topology.NodeId
	guid := xid.New()
	copy(id[4:], guid.Bytes())
	return id
}

func parse(s string) (topology.NodeId, error) {
	var id topology.NodeId
	decoded, err := hex.DecodeString(s)
	if err != nil || len(decoded) != len(id) {
		return id, fmt.Errorf("clientid: malformed id %q: want 32 hex characters", s)
	}
	copy(id[:], decoded)
	return id, nil
}

// ParseNodeID parses a NodeId from its 32-character hex string form, the
// same format Load persists and NodeId.String produces.
func ParseNodeID(s string) (topology.NodeId, error) {
	return parse(strings.TrimSpace(s))
}
