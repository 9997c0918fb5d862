package ota

// Diff returns the hashes present in current but absent from previous.
// Order follows current; duplicates in current are reported once.
func Diff(current, previous []string) []string {
	seen := make(map[string]struct{}, len(previous))
	for _, h := range previous {
		seen[h] = struct{}{}
	}

	var changed []string
	for _, h := range current {
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		changed = append(changed, h)
	}
	return changed
}
