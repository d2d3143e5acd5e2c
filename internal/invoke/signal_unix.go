//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris

package invoke

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

func terminatingSignal(state *os.ProcessState) (int, bool) {
	ws, ok := state.Sys().(syscall.WaitStatus)
	if !ok || !ws.Signaled() {
		return 0, false
	}
	return int(ws.Signal()), true
}

func signalName(sig int) string {
	if name := unix.SignalName(syscall.Signal(sig)); name != "" {
		return name
	}
	return "unknown"
}
