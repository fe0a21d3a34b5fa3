//go:build windows

package procexec

import "os"

func signalStatus(*os.ProcessState) (int, string, bool) {
	return 0, "", false
}
