package timefmt

import (
	"fmt"
	"time"
)

// Age returns a compact description of how long before reference t
// happened, such as "42s ago" or "3h ago". Older times fall back to a date.
// A zero reference means time.Now().
func Age(t, reference time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	if reference.IsZero() {
		reference = time.Now()
	}
	if !t.Before(reference) {
		return "just now"
	}

	diff := reference.Sub(t)
	switch {
	case diff < time.Minute:
		return fmt.Sprintf("%ds ago", max(1, int(diff.Seconds())))
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
	t = t.In(reference.Location())
	if t.Year() == reference.Year() {
		return t.Format("Jan 2 15:04")
	}
	return t.Format("Jan 2 2006")
}
