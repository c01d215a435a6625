//go:build linux

package sockopts

import "golang.org/x/sys/unix"

func setRecvBuffer(fd int, bytes int) error {
	return unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_RCVBUF, bytes)
}

func setSendBuffer(fd int, bytes int) error {
	return unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_SNDBUF, bytes)
}
