package rr

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// PerfParanoidPath is where Linux exposes the perf_event_paranoid sysctl.
const PerfParanoidPath = "/proc/sys/kernel/perf_event_paranoid"

// CheckPerfEvents verifies the kernel lets rr read hardware performance
// counters.
func CheckPerfEvents(path string) error {
	if runtime.GOOS != "linux" {
		return fmt.Errorf("rr requires Linux (running on %s)", runtime.GOOS)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	level, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if level > 1 {
		return fmt.Errorf("kernel.perf_event_paranoid is %d; rr needs 1 or lower (sysctl kernel.perf_event_paranoid=1)", level)
	}
	return nil
}
