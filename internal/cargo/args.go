package cargo

import (
	"fmt"
	"strings"
)

// Args is a cargo command line partitioned into options for cargo itself and
// positional arguments for the executable cargo builds.
type Args struct {
	Cargo        []string
	Runtime      []string
	ManifestPath string
}

// valueOptions lists cargo options whose value is a separate argument.
var valueOptions = map[string]bool{
	"-p":              true,
	"--package":       true,
	"--exclude":       true,
	"--bin":           true,
	"--example":       true,
	"--test":          true,
	"--bench":         true,
	"-F":              true,
	"--features":      true,
	"-j":              true,
	"--jobs":          true,
	"--target":        true,
	"--target-dir":    true,
	"--artifact-dir":  true,
	"--profile":       true,
	"--manifest-path": true,
	"--lockfile-path": true,
	"--color":         true,
	"--config":        true,
	"-Z":              true,
}

// reservedOptions are appended by cargo-rr and would corrupt the message stream.
var reservedOptions = []string{"--message-format", "--no-run"}

// PartitionArgs splits the pre-delimiter arguments. Anything that is neither
// a cargo option nor an option value is a runtime argument, which for cargo
// test is the test name filter. -h and --help are cargo's only before the
// first runtime argument.
func PartitionArgs(args []string) (Args, error) {
	out := Args{Cargo: []string{}, Runtime: []string{}}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "-" || !strings.HasPrefix(arg, "-") {
			out.Runtime = append(out.Runtime, arg)
			continue
		}
		// Help after a positional argument is the program's, not cargo's.
		if (arg == "-h" || arg == "--help") && len(out.Runtime) > 0 {
			out.Runtime = append(out.Runtime, arg)
			continue
		}

		name, value, hasValue := splitOption(arg)
		for _, reserved := range reservedOptions {
			if name == reserved {
				return Args{}, fmt.Errorf("%s: %w", reserved, ErrReservedOption)
			}
		}

		out.Cargo = append(out.Cargo, arg)
		if !valueOptions[name] || hasValue {
			if name == "--manifest-path" {
				out.ManifestPath = value
			}
			continue
		}
		if i+1 >= len(args) {
			return Args{}, fmt.Errorf("%s: %w", name, ErrMissingValue)
		}
		i++
		out.Cargo = append(out.Cargo, args[i])
		if name == "--manifest-path" {
			out.ManifestPath = args[i]
		}
	}
	return out, nil
}

// splitOption handles --name=value and short options with an attached value
// such as -j4 or -pcore.
func splitOption(arg string) (name, value string, hasValue bool) {
	if strings.HasPrefix(arg, "--") {
		if name, value, ok := strings.Cut(arg, "="); ok {
			return name, value, true
		}
		return arg, "", false
	}
	if len(arg) > 2 {
		short := arg[:2]
		if valueOptions[short] {
			return short, strings.TrimPrefix(arg[2:], "="), true
		}
	}
	return arg, "", false
}
