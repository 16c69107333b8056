package anchor

// Verify reports whether the document text under r equals exact. It is the
// staleness check for offset-based selectors: an edit upstream of the range
// shifts the offsets and the sliced text stops matching the recorded quote.
//
// Total over arbitrary ranges; inverted or out-of-bounds ranges are simply
// not a match.
func Verify(doc string, r Range, exact string) bool {
	if r.Start < 0 || r.End < r.Start || r.End > len(doc) {
		return false
	}
	return doc[r.Start:r.End] == exact
}
