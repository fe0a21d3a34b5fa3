package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/brandonbloom/cargo-rr/internal/cargo"
	"github.com/brandonbloom/cargo-rr/internal/config"
)

// chooseTargets applies the multi-binary policy to the test binaries cargo
// built.
func (a *app) chooseTargets(policy config.MultiplePolicy, root string, targets []cargo.Target) ([]cargo.Target, error) {
	if len(targets) <= 1 {
		return targets, nil
	}
	ambiguous := &cargo.AmbiguousError{Kind: cargo.KindTest, Targets: targets}

	switch policy {
	case config.MultipleAll:
		a.status("Found", "%d test binaries; recording each in turn", len(targets))
		return targets, nil
	case config.MultiplePrompt:
		if !a.isTerminal() {
			return nil, ambiguous
		}
		idx, err := a.pick(root, targets)
		if err != nil {
			return nil, err
		}
		return targets[idx : idx+1], nil
	default:
		return nil, ambiguous
	}
}

// pick asks the user to choose one target. An empty answer selects the first.
func (a *app) pick(root string, targets []cargo.Target) (int, error) {
	fmt.Fprintf(a.stderr, "%s\n", promptColor.Sprint("Several test binaries were built:"))
	for i, target := range targets {
		fmt.Fprintf(a.stderr, "  %d) %s\n", i+1, target.Label(root))
	}

	in := bufio.NewReader(a.stdin)
	for {
		fmt.Fprintf(a.stderr, "%s ", promptColor.Sprintf("Record which one? [1-%d, default 1]", len(targets)))
		line, err := in.ReadString('\n')
		answer := strings.TrimSpace(line)
		if answer == "" {
			if err != nil && !errors.Is(err, io.EOF) {
				return 0, err
			}
			if err != nil && line == "" {
				return 0, errors.New("no test binary selected")
			}
			return 0, nil
		}
		n, convErr := strconv.Atoi(answer)
		if convErr == nil && n >= 1 && n <= len(targets) {
			return n - 1, nil
		}
		if err != nil {
			return 0, fmt.Errorf("invalid selection %q", answer)
		}
		fmt.Fprintf(a.stderr, "enter a number between 1 and %d\n", len(targets))
	}
}
