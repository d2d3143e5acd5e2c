//go:build !(aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris)

package invoke

import "os"

func terminatingSignal(*os.ProcessState) (int, bool) {
	return 0, false
}

func signalName(int) string {
	return "unknown"
}
