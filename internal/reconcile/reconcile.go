// Package reconcile computes which source sites have no monitor yet.
package reconcile

// Missing returns the elements of source that are not in existing, in
// source order. Duplicates in source are kept: a site listed twice and not
// monitored is returned twice.
func Missing(source, existing []string) []string {
	have := make(map[string]struct{}, len(existing))
	for _, u := range existing {
		have[u] = struct{}{}
	}
	out := make([]string, 0, len(source))
	for _, u := range source {
		if _, ok := have[u]; ok {
			continue
		}
		out = append(out, u)
	}
	return out
}
