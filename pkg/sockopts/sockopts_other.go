//go:build !(linux || darwin)

package sockopts

func setRecvBuffer(fd int, bytes int) error {
	return nil
}

func setSendBuffer(fd int, bytes int) error {
	return nil
}
