// Package netio wraps the dispatcher's UDP socket to track raw rx/tx byte
// counts and timestamps at the transport level, separate from the
// per-edge/per-node counters pkg/topology maintains from decoded payloads.
// This lets the server report wire-level socket health (including bytes
// spent on malformed frames that never reach the analytics manager)
// independently of application-level traffic accounting.
package netio

import (
	"net"
	"time"
)

const (
	Opened = 0
	Closed = 1
)

// ReportStatsFn is invoked on open and close with a snapshot of the
// connection's counters.
type ReportStatsFn func(c *Conn, state int)

// Conn wraps a net.PacketConn (a *net.UDPConn in practice), tracking byte
// counts and first/last activity timestamps across ReadFrom/WriteTo calls.
type Conn struct {
	net.PacketConn

	reportStats ReportStatsFn

	OpenedAtUs  int64
	ClosedAtUs  int64
	FirstRxAtUs int64
	FirstTxAtUs int64
	LastRxAtUs  int64
	LastTxAtUs  int64
	RxBytes     uint64
	TxBytes     uint64
	RxPackets   uint64
	TxPackets   uint64
	RxErr       error
	TxErr       error
}

// Wrap wraps pc, reporting an Opened event immediately via reportStats (if
// non-nil). The caller must call Close to trigger the Closed report.
func Wrap(pc net.PacketConn, reportStats ReportStatsFn) *Conn {
	c := &Conn{
		PacketConn:  pc,
		reportStats: reportStats,
		OpenedAtUs:  time.Now().UnixMicro(),
	}
	if c.reportStats != nil {
		c.reportStats(c, Opened)
	}
	return c
}

// ReadFrom wraps the underlying ReadFrom, tracking received bytes and
// timestamps. A read timeout is not treated as an error for RxErr purposes.
func (c *Conn) ReadFrom(b []byte) (int, net.Addr, error) {
	n, addr, err := c.PacketConn.ReadFrom(b)
	if n > 0 {
		ts := time.Now().UnixMicro()
		if c.FirstRxAtUs == 0 {
			c.FirstRxAtUs = ts
		}
		c.LastRxAtUs = ts
		c.RxBytes += uint64(n)
		c.RxPackets++
	}
	if nerr, ok := err.(net.Error); !ok || !nerr.Timeout() {
		if err != nil {
			c.RxErr = err
		}
	}
	return n, addr, err
}

// WriteTo wraps the underlying WriteTo, tracking sent bytes and timestamps.
func (c *Conn) WriteTo(b []byte, addr net.Addr) (int, error) {
	n, err := c.PacketConn.WriteTo(b, addr)
	if n > 0 {
		ts := time.Now().UnixMicro()
		if c.FirstTxAtUs == 0 {
			c.FirstTxAtUs = ts
		}
		c.LastTxAtUs = ts
		c.TxBytes += uint64(n)
		c.TxPackets++
	}
	if err != nil {
		c.TxErr = err
	}
	return n, err
}

// Close reports a Closed event before closing the underlying connection.
func (c *Conn) Close() error {
	c.ClosedAtUs = time.Now().UnixMicro()
	if c.reportStats != nil {
		c.reportStats(c, Closed)
	}
	return c.PacketConn.Close()
}
