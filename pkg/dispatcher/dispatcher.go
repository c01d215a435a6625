// Package dispatcher runs the single-threaded cooperative UDP loop: it owns
// the socket and the analytics manager, decodes each datagram, dispatches
// it, sends back any reply, and paces the manager's periodic TTL sweep. No
// goroutines or locks are used; the loop itself serializes every state
// mutation.
package dispatcher

import (
	"errors"
	"net"
	"time"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/simeonmiteff/netsim/pkg/analytics"
	"github.com/simeonmiteff/netsim/pkg/wire"
)

const (
	PollTimeout     = 250 * time.Millisecond
	TickInterval    = 1 * time.Second
	MaxDatagramSize = 2048
)

// Dispatcher owns a bound UDP socket and an *analytics.Manager, running the
// receive/dispatch/tick loop described in spec §4.7 until Stop is called.
type Dispatcher struct {
	conn    net.PacketConn
	manager *analytics.Manager
	log     *logrus.Entry
	now     func() int64

	stop chan struct{}

	BadFrames   uint64
	SendErrors  uint64
	PacketsRecv uint64
}

// New constructs a Dispatcher over conn and manager. now supplies the
// simulated microsecond clock; pass a wall-clock function in production.
func New(conn net.PacketConn, manager *analytics.Manager, log *logrus.Logger, now func() int64) *Dispatcher {
	instanceID := xid.New().String()
	return &Dispatcher{
		conn:    conn,
		manager: manager,
		log:     log.WithField("dispatcher", instanceID),
		now:     now,
		stop:    make(chan struct{}),
	}
}

// Stop signals Run to exit after its current iteration.
func (d *Dispatcher) Stop() {
	close(d.stop)
}

// Run executes the receive/dispatch/tick loop until Stop is called. It
// returns only when the loop exits, either via Stop or an unrecoverable
// socket error.
func (d *Dispatcher) Run() error {
	buf := make([]byte, MaxDatagramSize)
	lastTick := time.Now()

	for {
		select {
		case <-d.stop:
			d.log.Info("dispatcher: stop requested, exiting loop")
			return nil
		default:
		}

		if err := d.conn.SetReadDeadline(time.Now().Add(PollTimeout)); err != nil {
			return err
		}

		n, addr, err := d.conn.ReadFrom(buf)
		switch {
		case isTimeout(err):
			// Expected: lets the loop re-check the stop channel and tick cadence.
		case err != nil:
			return err
		default:
			d.PacketsRecv++
			d.handleDatagram(buf[:n], addr)
		}

		if time.Since(lastTick) >= TickInterval {
			d.manager.Tick(d.now())
			lastTick = time.Now()
		}
	}
}

func (d *Dispatcher) handleDatagram(frame []byte, addr net.Addr) {
	msg, err := wire.Decode(frame)
	if err != nil {
		d.BadFrames++
		d.log.WithFields(logrus.Fields{"addr": addr, "err": err}).Debug("dispatcher: dropping malformed frame")
		return
	}

	reply := d.manager.Apply(msg, addr, d.now())
	if reply == nil {
		return
	}

	encoded, err := wire.Encode(reply)
	if err != nil {
		d.log.WithFields(logrus.Fields{"addr": addr, "err": err}).Error("dispatcher: failed to encode reply")
		return
	}

	if _, err := d.conn.WriteTo(encoded, addr); err != nil {
		d.SendErrors++
		d.log.WithFields(logrus.Fields{"addr": addr, "err": err}).Warn("dispatcher: failed to send reply")
	}
}

func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
