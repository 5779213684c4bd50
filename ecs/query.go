package ecs

// intersectIDs returns slot ids present in both stores.
func intersectIDs(a, b store) []int {
	if a == nil || b == nil {
		return nil
	}
	// iterate smaller set
	if len(a.ids()) > len(b.ids()) {
		a, b = b, a
	}
	out := make([]int, 0, len(a.ids()))
	for _, id := range a.ids() {
		if b.has(id) {
			out = append(out, id)
		}
	}
	return out
}
