// Package segment partitions document text into renderable segments.
//
// Given the full document and a set of resolved annotation ranges, Split
// produces an ordered, contiguous, non-overlapping cover of the document:
// every byte appears in exactly one segment, and each annotated range
// becomes exactly one segment tagged with its annotation ID.
package segment

import (
	"sort"

	"github.com/hazyhaar/ancrage/anchor"
)

// Annotation is one annotation reduced to its resolved range. A nil Range
// means resolution failed; the annotation is excluded from the output.
type Annotation struct {
	ID    string        `json:"id"`
	Range *anchor.Range `json:"range"`
}

// Segment is one slice of the document. AnnotationID is empty for plain
// text between annotations.
type Segment struct {
	Text         string `json:"text"`
	Start        int    `json:"start"`
	End          int    `json:"end"`
	AnnotationID string `json:"annotation_id,omitempty"`
}

// Split partitions doc into the ordered segment list.
//
// Annotations with a nil, inverted, empty, or out-of-bounds range are
// excluded, not errored: stale annotation data must never block rendering.
// Remaining annotations are sorted by start offset; ties break shorter
// range first, then lexicographic ID, so the output is deterministic for
// any input order. When a sorted annotation overlaps text already covered,
// it is dropped entirely; first placed wins, overlaps are never merged or
// split.
func Split(doc string, anns []Annotation) []Segment {
	if doc == "" {
		return []Segment{{}}
	}

	usable := make([]Annotation, 0, len(anns))
	for _, a := range anns {
		r := a.Range
		if r == nil || r.Start < 0 || r.Start >= r.End || r.End > len(doc) {
			continue
		}
		usable = append(usable, a)
	}

	sort.Slice(usable, func(i, j int) bool {
		ri, rj := usable[i].Range, usable[j].Range
		if ri.Start != rj.Start {
			return ri.Start < rj.Start
		}
		if ri.Len() != rj.Len() {
			return ri.Len() < rj.Len()
		}
		return usable[i].ID < usable[j].ID
	})

	var segs []Segment
	cursor := 0
	for _, a := range usable {
		r := a.Range
		if r.Start < cursor {
			continue // overlaps an already placed annotation
		}
		if r.Start > cursor {
			segs = append(segs, Segment{Text: doc[cursor:r.Start], Start: cursor, End: r.Start})
		}
		segs = append(segs, Segment{Text: doc[r.Start:r.End], Start: r.Start, End: r.End, AnnotationID: a.ID})
		cursor = r.End
	}
	if cursor < len(doc) {
		segs = append(segs, Segment{Text: doc[cursor:], Start: cursor, End: len(doc)})
	}
	return segs
}
