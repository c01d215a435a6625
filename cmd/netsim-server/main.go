package main

import (
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/simeonmiteff/netsim/pkg/analytics"
	"github.com/simeonmiteff/netsim/pkg/dispatcher"
	"github.com/simeonmiteff/netsim/pkg/exporter"
	"github.com/simeonmiteff/netsim/pkg/netio"
	"github.com/simeonmiteff/netsim/pkg/sockopts"
)

func main() {
	bindAddr := flag.String("bind", "127.0.0.1:8080", "UDP address to bind the simulator socket to")
	metricsAddr := flag.String("metrics-addr", "127.0.0.1:9090", "HTTP address to serve /metrics on")
	nodeTTL := flag.Duration("node-ttl", analytics.DefaultNodeTTLUs*time.Microsecond, "node TTL before eviction")
	edgeTTL := flag.Duration("edge-ttl", analytics.DefaultEdgeTTLUs*time.Microsecond, "edge TTL before eviction")
	recvBuf := flag.Int("recv-buffer", 1<<20, "SO_RCVBUF size in bytes (0 leaves the OS default)")
	sendBuf := flag.Int("send-buffer", 1<<20, "SO_SNDBUF size in bytes (0 leaves the OS default)")
	flag.Parse()

	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	pc, err := net.ListenPacket("udp", *bindAddr)
	if err != nil {
		log.WithError(err).Fatalf("netsim-server: failed to bind %s", *bindAddr)
	}

	udpConn, ok := pc.(*net.UDPConn)
	if ok {
		if err := sockopts.Tune(udpConn, sockopts.Sizes{RecvBuf: *recvBuf, SendBuf: *sendBuf}); err != nil {
			log.WithError(err).Warn("netsim-server: failed to tune socket buffers, continuing with OS defaults")
		}
	}

	conn := netio.Wrap(pc, func(c *netio.Conn, state int) {
		if state == netio.Opened {
			log.WithField("addr", *bindAddr).Info("netsim-server: socket opened")
			return
		}
		log.WithFields(logrus.Fields{
			"rx_bytes": c.RxBytes, "tx_bytes": c.TxBytes,
			"rx_packets": c.RxPackets, "tx_packets": c.TxPackets,
		}).Info("netsim-server: socket closed")
	})

	cfg := analytics.Config{
		NodeTTLUs:  nodeTTL.Microseconds(),
		EdgeTTLUs:  edgeTTL.Microseconds(),
		WindowSecs: analytics.DefaultWindowSecs,
	}
	manager := analytics.NewManager(cfg, log)

	collector := exporter.NewTopologyCollector(manager, exporter.WallClockNow, prometheus.Labels{"service": "netsim-server"})
	prometheus.MustRegister(collector)

	go func() {
		http.Handle("/metrics", promhttp.Handler())
		log.WithField("addr", *metricsAddr).Info("netsim-server: serving metrics")
		if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
			log.WithError(err).Error("netsim-server: metrics server exited")
		}
	}()

	d := dispatcher.New(conn, manager, log, exporter.WallClockNow)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info("netsim-server: shutdown signal received")
		d.Stop()
	}()

	log.WithField("addr", *bindAddr).Info("netsim-server: dispatcher starting")
	if err := d.Run(); err != nil {
		log.WithError(err).Fatal("netsim-server: dispatcher exited with error")
	}
	conn.Close()
}
