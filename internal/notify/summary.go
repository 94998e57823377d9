package notify

import (
	"fmt"
	"strings"

	"github.com/hamed0406/webmonitorsync/internal/domain"
)

// FormatSummary renders a run summary as a notification title and body.
func FormatSummary(s domain.RunSummary) (title, text string) {
	switch {
	case s.Aborted:
		title = "🔴 Monitor sync could not create monitors"
	case len(s.Failed) > 0:
		title = fmt.Sprintf("🟠 Monitor sync: %d created, %d failed", len(s.Created), len(s.Failed))
	default:
		title = fmt.Sprintf("🟢 Monitor sync: %d created", len(s.Created))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Run: %s\n", s.RunID)
	fmt.Fprintf(&b, "Sites: %d  Existing monitors: %d  Missing: %d\n", s.Sources, s.Existing, len(s.Missing))
	if s.Degraded {
		b.WriteString("Warning: a listing step failed and was treated as empty\n")
	}
	for _, u := range s.Created {
		fmt.Fprintf(&b, "+ %s\n", u)
	}
	for _, f := range s.Failed {
		fmt.Fprintf(&b, "✖ %s: %s\n", f.URL, f.Reason)
	}
	return title, strings.TrimRight(b.String(), "\n")
}
