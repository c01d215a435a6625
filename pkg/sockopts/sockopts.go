// Package sockopts tunes UDP socket buffer sizes directly via the kernel
// socket options, working around the modest defaults net.ListenPacket
// leaves in place. Buffer tuning is platform-specific; see sockopts_linux.go,
// sockopts_darwin.go and sockopts_other.go.
package sockopts

import (
	"fmt"
	"net"

	"github.com/higebu/netfd"
)

// Sizes requests SO_RCVBUF/SO_SNDBUF sizes in bytes. A zero field leaves
// that buffer at its OS default.
type Sizes struct {
	RecvBuf int
	SendBuf int
}

// Tune applies Sizes to conn's underlying file descriptor. It is best
// effort: most kernels silently halve and clamp the requested size, so
// callers should not assume the exact value sticks.
func Tune(conn *net.UDPConn, sizes Sizes) error {
	fd := netfd.GetFdFromConn(conn)
	if sizes.RecvBuf > 0 {
		if err := setRecvBuffer(fd, sizes.RecvBuf); err != nil {
			return fmt.Errorf("sockopts: set recv buffer: %w", err)
		}
	}
	if sizes.SendBuf > 0 {
		if err := setSendBuffer(fd, sizes.SendBuf); err != nil {
			return fmt.Errorf("sockopts: set send buffer: %w", err)
		}
	}
	return nil
}
