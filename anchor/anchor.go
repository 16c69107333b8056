// Package anchor resolves quote selectors against a live document.
//
// Offsets recorded against one version of a document frequently no longer
// match the current text (edits, re-encoding, whitespace drift), and a
// quoted snippet can occur more than once. Resolve turns an exact quote
// plus optional surrounding context into the best-matching byte range,
// preferring a degraded answer over refusing to anchor: a bad annotation
// must never keep the rest of the document from rendering.
//
// All functions are pure and safe for concurrent use.
package anchor

import "strings"

// Range is a half-open byte range [Start, End) into the document,
// Start <= End always.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the range length in bytes.
func (r Range) Len() int { return r.End - r.Start }

// Resolve anchors exact (with optional prefix/suffix context) in doc.
//
// Policy, in order:
//  1. no occurrences → nil (EventNoMatch)
//  2. one occurrence → that range, context ignored even if wrong
//  3. several occurrences → first one whose surrounding text matches the
//     context at the boundary (EventContextResolved)
//  4. failing that, first one whose surrounding text merely contains the
//     trimmed context (EventFuzzyResolved)
//  5. failing that, the first occurrence (EventAmbiguousFallback)
//
// Step 5 can silently anchor to the wrong occurrence; callers are expected
// to surface the diagnostic rather than rely on the range alone.
func Resolve(doc, exact, prefix, suffix string, sink EventSink) *Range {
	if exact == "" {
		return nil
	}

	occs := occurrences(doc, exact)
	if len(occs) == 0 {
		emit(sink, Event{Kind: EventNoMatch, Exact: exact})
		return nil
	}

	if len(occs) == 1 {
		r := Range{Start: occs[0], End: occs[0] + len(exact)}
		return &r
	}

	if prefix != "" || suffix != "" {
		for _, start := range occs {
			if contextAt(doc, start, len(exact), prefix, suffix, false) {
				r := Range{Start: start, End: start + len(exact)}
				emit(sink, Event{Kind: EventContextResolved, Exact: exact, Occurrences: len(occs), Range: &r})
				return &r
			}
		}
		for _, start := range occs {
			if contextAt(doc, start, len(exact), prefix, suffix, true) {
				r := Range{Start: start, End: start + len(exact)}
				emit(sink, Event{Kind: EventFuzzyResolved, Exact: exact, Occurrences: len(occs), Range: &r})
				return &r
			}
		}
	}

	r := Range{Start: occs[0], End: occs[0] + len(exact)}
	emit(sink, Event{Kind: EventAmbiguousFallback, Exact: exact, Occurrences: len(occs), Range: &r})
	return &r
}

// occurrences returns every match start of needle in doc. The scan advances
// one byte past each match start, so overlapping occurrences count.
func occurrences(doc, needle string) []int {
	var starts []int
	for from := 0; ; {
		i := strings.Index(doc[from:], needle)
		if i < 0 {
			return starts
		}
		starts = append(starts, from+i)
		from += i + 1
	}
}

// contextAt checks the text surrounding an occurrence against the recorded
// context. The windows are exactly len(prefix)/len(suffix) bytes, clamped
// to document bounds. Strict mode requires the prefix to end at, and the
// suffix to start at, the occurrence boundary; fuzzy mode only requires the
// window to contain the whitespace-trimmed hint.
func contextAt(doc string, start, matchLen int, prefix, suffix string, fuzzy bool) bool {
	if prefix != "" {
		from := start - len(prefix)
		if from < 0 {
			from = 0
		}
		window := doc[from:start]
		if fuzzy {
			if !strings.Contains(window, strings.TrimSpace(prefix)) {
				return false
			}
		} else if !strings.HasSuffix(window, prefix) {
			return false
		}
	}
	if suffix != "" {
		end := start + matchLen
		to := end + len(suffix)
		if to > len(doc) {
			to = len(doc)
		}
		window := doc[end:to]
		if fuzzy {
			if !strings.Contains(window, strings.TrimSpace(suffix)) {
				return false
			}
		} else if !strings.HasPrefix(window, suffix) {
			return false
		}
	}
	return true
}
