package sockopts

import (
	"net"
	"testing"
)

func TestTune_ZeroSizesNoop(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenPacket: %v", err)
	}
	defer pc.Close()

	conn, ok := pc.(*net.UDPConn)
	if !ok {
		t.Fatalf("conn type = %T, want *net.UDPConn", pc)
	}
	if err := Tune(conn, Sizes{}); err != nil {
		t.Fatalf("Tune with zero sizes: %v", err)
	}
}

func TestTune_SetsBuffers(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenPacket: %v", err)
	}
	defer pc.Close()

	conn, ok := pc.(*net.UDPConn)
	if !ok {
		t.Fatalf("conn type = %T, want *net.UDPConn", pc)
	}
	if err := Tune(conn, Sizes{RecvBuf: 1 << 20, SendBuf: 1 << 20}); err != nil {
		t.Fatalf("Tune: %v", err)
	}
}
