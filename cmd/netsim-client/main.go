package main

import (
	"flag"
	"net"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/simeonmiteff/netsim/pkg/clientid"
	"github.com/simeonmiteff/netsim/pkg/topology"
	"github.com/simeonmiteff/netsim/pkg/wire"
)

func main() {
	serverAddr := flag.String("server", "127.0.0.1:8080", "netsim server UDP address")
	idFile := flag.String("id-file", "client_id.txt", "path to the persistent client identity file")
	description := flag.String("description", "", "description to register this node under")
	peerHex := flag.String("peer", "", "peer node id as 32 hex characters (required)")
	class := flag.String("class", "api", "traffic class: api, heavy_compute, background, health_check")
	domain := flag.String("domain", "internal", "this node's domain: internal or external")
	peerDomain := flag.String("peer-domain", "internal", "peer node's domain: internal or external")
	interval := flag.Duration("interval", time.Second, "interval between Data packets")
	count := flag.Int("count", 10, "number of Data packets to send (0 = run until interrupted)")
	payloadLen := flag.Uint("payload-len", 64, "declared payload length in bytes")
	flag.Parse()

	log := logrus.StandardLogger()

	if *peerHex == "" {
		log.Fatal("netsim-client: -peer is required")
	}
	peer, err := parseNodeID(*peerHex)
	if err != nil {
		log.WithError(err).Fatal("netsim-client: invalid -peer")
	}

	self, err := clientid.Load(*idFile)
	if err != nil {
		log.WithError(err).Fatal("netsim-client: failed to load client identity")
	}

	trafficClass, err := parseClass(*class)
	if err != nil {
		log.WithError(err).Fatal("netsim-client: invalid -class")
	}
	selfDomain, err := parseDomain(*domain)
	if err != nil {
		log.WithError(err).Fatal("netsim-client: invalid -domain")
	}
	remoteDomain, err := parseDomain(*peerDomain)
	if err != nil {
		log.WithError(err).Fatal("netsim-client: invalid -peer-domain")
	}

	conn, err := net.Dial("udp", *serverAddr)
	if err != nil {
		log.WithError(err).Fatalf("netsim-client: failed to dial %s", *serverAddr)
	}
	defer conn.Close()

	send := func(msg wire.Message) {
		enc, err := wire.Encode(msg)
		if err != nil {
			log.WithError(err).Fatal("netsim-client: encode failed")
		}
		if _, err := conn.Write(enc); err != nil {
			log.WithError(err).Fatal("netsim-client: write failed")
		}
	}

	send(wire.RegisterNode{NodeID: self, Description: *description, Domain: selfDomain})
	log.WithFields(logrus.Fields{"id": self, "peer": peer}).Info("netsim-client: registered")

	var sent, acked int
	seq := uint64(0)
	for i := 0; *count == 0 || i < *count; i++ {
		sentTs := uint64(time.Now().UnixMicro())
		send(wire.Data{
			Src: self, Dst: peer,
			SrcDomain: selfDomain, DstDomain: remoteDomain,
			Class: trafficClass, Seq: seq, SentTsUs: &sentTs,
			PayloadLen: uint32(*payloadLen),
		})
		sent++
		seq++

		if ack, ok := readAck(conn); ok {
			acked++
			log.WithFields(logrus.Fields{
				"seq": ack.Seq, "proc_us": ack.ProcUs,
				"rtt_us": uint64(time.Now().UnixMicro()) - sentTs,
			}).Debug("netsim-client: ack received")
		}

		time.Sleep(*interval)
	}

	log.WithFields(logrus.Fields{"sent": sent, "acked": acked}).Info("netsim-client: run complete")
}

func readAck(conn net.Conn) (wire.Ack, bool) {
	if err := conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond)); err != nil {
		return wire.Ack{}, false
	}
	buf := make([]byte, 512)
	n, err := conn.Read(buf)
	if err != nil {
		return wire.Ack{}, false
	}
	msg, err := wire.Decode(buf[:n])
	if err != nil {
		return wire.Ack{}, false
	}
	ack, ok := msg.(wire.Ack)
	return ack, ok
}

func parseNodeID(s string) (topology.NodeId, error) {
	return clientid.ParseNodeID(s)
}

func parseClass(s string) (topology.TrafficClass, error) {
	switch strings.ToLower(s) {
	case "api":
		return topology.ClassAPI, nil
	case "heavy_compute":
		return topology.ClassHeavyCompute, nil
	case "background":
		return topology.ClassBackground, nil
	case "health_check":
		return topology.ClassHealthCheck, nil
	default:
		return 0, errInvalidClass(s)
	}
}

func parseDomain(s string) (topology.NodeDomain, error) {
	switch strings.ToLower(s) {
	case "internal":
		return topology.DomainInternal, nil
	case "external":
		return topology.DomainExternal, nil
	default:
		return 0, errInvalidDomain(s)
	}
}

type errInvalidClass string

func (e errInvalidClass) Error() string { return "unknown traffic class: " + string(e) }

type errInvalidDomain string

func (e errInvalidDomain) Error() string { return "unknown domain: " + string(e) }
