package discovery

// Dedupe keeps the first posting seen for each apply URL, preserving order.
func Dedupe(postings []Posting) []Posting {
	seen := make(map[string]struct{}, len(postings))
	out := make([]Posting, 0, len(postings))
	for _, p := range postings {
		if _, ok := seen[p.ApplyURL]; ok {
			continue
		}
		seen[p.ApplyURL] = struct{}{}
		out = append(out, p)
	}
	return out
}
