// Package selector models W3C Web Annotation text selectors.
//
// An annotation target describes the same span of text through one or more
// selectors: a TextPositionSelector (character offsets) and/or a
// TextQuoteSelector (exact text plus surrounding context). Upstream data
// conflates "one selector object" and "array of selector objects"; Set wraps
// both so callers never branch on arity.
//
// All offsets are byte offsets into the UTF-8 document string.
package selector

// Kind discriminates selector variants. The values match the wire "type"
// field of the Web Annotation Data Model.
type Kind string

const (
	KindPosition Kind = "TextPositionSelector"
	KindQuote    Kind = "TextQuoteSelector"
)

// Position selects a span by offsets, half-open [Start, End).
type Position struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Quote selects a span by its exact text. Prefix and Suffix are context
// hints recorded around the quote; they are not guaranteed accurate.
type Quote struct {
	Exact  string `json:"exact"`
	Prefix string `json:"prefix,omitempty"`
	Suffix string `json:"suffix,omitempty"`
}

// Selector is the tagged union of the two variants. Exactly one of the
// pointer fields is set, matching Kind.
type Selector struct {
	Kind     Kind
	Position *Position
	Quote    *Quote
}

// NewPosition builds a Position selector.
func NewPosition(start, end int) Selector {
	return Selector{Kind: KindPosition, Position: &Position{Start: start, End: end}}
}

// NewQuote builds a Quote selector.
func NewQuote(exact, prefix, suffix string) Selector {
	return Selector{Kind: KindQuote, Quote: &Quote{Exact: exact, Prefix: prefix, Suffix: suffix}}
}

// Set is the one-or-many wrapper around an annotation's selectors.
//
// The zero value means "no selector": the target is the entire resource,
// which is valid input, not an error. A Set built from an explicitly empty
// list remembers that distinction for Primary.
type Set struct {
	sels  []Selector
	empty bool // true when built from an explicit empty list
}

// One wraps a single selector.
func One(s Selector) Set {
	return Set{sels: []Selector{s}}
}

// Many wraps an ordered selector list. An empty (non-nil) list is recorded
// as explicitly empty.
func Many(sels []Selector) Set {
	if sels != nil && len(sels) == 0 {
		return Set{empty: true}
	}
	return Set{sels: sels}
}

// IsZero reports whether no selector was supplied at all.
func (s Set) IsZero() bool {
	return len(s.sels) == 0 && !s.empty
}

// Primary returns the first selector of the set. It fails with ErrEmptySet
// only for an explicitly empty list; an absent set returns the zero
// Selector with nil error.
func (s Set) Primary() (Selector, error) {
	if s.empty {
		return Selector{}, ErrEmptySet
	}
	if len(s.sels) == 0 {
		return Selector{}, nil
	}
	return s.sels[0], nil
}

// PositionSelector returns the first Position selector, or nil if the set
// has none.
func (s Set) PositionSelector() *Position {
	for _, sel := range s.sels {
		if sel.Kind == KindPosition && sel.Position != nil {
			return sel.Position
		}
	}
	return nil
}

// QuoteSelector returns the first Quote selector, or nil if the set has
// none.
func (s Set) QuoteSelector() *Quote {
	for _, sel := range s.sels {
		if sel.Kind == KindQuote && sel.Quote != nil {
			return sel.Quote
		}
	}
	return nil
}

// ExactText returns the quote selector's exact text, or "" when the set
// carries no quote selector. Never fails.
func (s Set) ExactText() string {
	if q := s.QuoteSelector(); q != nil {
		return q.Exact
	}
	return ""
}
