//go:build !windows

package procexec

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// signalStatus maps a signal-terminated process to the shell convention of
// 128+signal.
func signalStatus(state *os.ProcessState) (int, string, bool) {
	if state == nil {
		return 0, "", false
	}
	ws, ok := state.Sys().(syscall.WaitStatus)
	if !ok || !ws.Signaled() {
		return 0, "", false
	}
	sig := ws.Signal()
	return 128 + int(sig), describeSignal(sig), true
}

func describeSignal(sig syscall.Signal) string {
	name := unix.SignalName(sig)
	if name == "" {
		return fmt.Sprintf("signal %d", sig)
	}
	return fmt.Sprintf("%s (%d)", name, sig)
}
