package selector

import (
	"encoding/json"
	"fmt"
)

// Wire shapes for the Web Annotation JSON model. Only the fields this
// module consumes are declared; everything else (body, motivation, creator)
// belongs to the storage collaborator and passes through untouched.

// Annotation is one annotation as exchanged on the wire, reduced to its
// identity and target.
type Annotation struct {
	ID     string `json:"id"`
	Target Target `json:"target"`
}

// Target is the annotated resource plus its selector(s).
type Target struct {
	Source   string `json:"source,omitempty"`
	Selector Set    `json:"selector,omitempty"`
}

type wireSelector struct {
	Type   string `json:"type"`
	Start  *int   `json:"start,omitempty"`
	End    *int   `json:"end,omitempty"`
	Exact  string `json:"exact,omitempty"`
	Prefix string `json:"prefix,omitempty"`
	Suffix string `json:"suffix,omitempty"`
}

func (w wireSelector) toSelector() (Selector, bool) {
	switch Kind(w.Type) {
	case KindPosition:
		var start, end int
		if w.Start != nil {
			start = *w.Start
		}
		if w.End != nil {
			end = *w.End
		}
		return NewPosition(start, end), true
	case KindQuote:
		return NewQuote(w.Exact, w.Prefix, w.Suffix), true
	}
	// Unknown selector types (XPath, CSS, ...) are skipped, not rejected:
	// a target may legitimately carry selectors this engine cannot use.
	return Selector{}, false
}

// UnmarshalJSON accepts a single selector object or an array of them.
func (s *Set) UnmarshalJSON(data []byte) error {
	set, err := DecodeTarget(data)
	if err != nil {
		return err
	}
	*s = set
	return nil
}

// MarshalJSON emits the single-object form for one selector and the array
// form otherwise.
func (s Set) MarshalJSON() ([]byte, error) {
	wires := make([]wireSelector, 0, len(s.sels))
	for _, sel := range s.sels {
		switch sel.Kind {
		case KindPosition:
			start, end := sel.Position.Start, sel.Position.End
			wires = append(wires, wireSelector{Type: string(KindPosition), Start: &start, End: &end})
		case KindQuote:
			wires = append(wires, wireSelector{
				Type:   string(KindQuote),
				Exact:  sel.Quote.Exact,
				Prefix: sel.Quote.Prefix,
				Suffix: sel.Quote.Suffix,
			})
		}
	}
	if len(wires) == 1 {
		return json.Marshal(wires[0])
	}
	return json.Marshal(wires)
}

// DecodeTarget decodes a target's "selector" value, which is either a
// single selector object, an array of selector objects, or null/absent.
func DecodeTarget(raw json.RawMessage) (Set, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return Set{}, nil
	}

	var many []wireSelector
	if err := json.Unmarshal(raw, &many); err == nil {
		sels := make([]Selector, 0, len(many))
		for _, w := range many {
			if sel, ok := w.toSelector(); ok {
				sels = append(sels, sel)
			}
		}
		if len(sels) == 0 {
			return Set{empty: true}, nil
		}
		return Set{sels: sels}, nil
	}

	var one wireSelector
	if err := json.Unmarshal(raw, &one); err != nil {
		return Set{}, fmt.Errorf("selector: decode target selector: %w", err)
	}
	sel, ok := one.toSelector()
	if !ok {
		return Set{empty: true}, nil
	}
	return One(sel), nil
}

// DecodeAnnotations decodes a JSON array of annotations in the wire shape.
func DecodeAnnotations(data []byte) ([]Annotation, error) {
	var anns []Annotation
	if err := json.Unmarshal(data, &anns); err != nil {
		return nil, fmt.Errorf("selector: decode annotations: %w", err)
	}
	return anns, nil
}
