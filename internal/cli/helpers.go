package cli

import (
	"os"
	"time"
)

// wantsHelp reports whether a raw argument list asks for help. Commands that
// forward their arguments verbatim check this themselves.
func wantsHelp(args []string) bool {
	for _, arg := range args {
		if arg == "-h" || arg == "--help" {
			return true
		}
	}
	return false
}

// nowEnv pins the clock used for relative ages, in RFC 3339.
const nowEnv = "CARGO_RR_NOW"

func currentTimeOverride() time.Time {
	if override := os.Getenv(nowEnv); override != "" {
		if t, err := time.Parse(time.RFC3339, override); err == nil {
			return t
		}
	}
	return time.Now()
}
