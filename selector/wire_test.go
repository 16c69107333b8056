package selector

import (
	"encoding/json"
	"testing"
)

func TestDecodeTarget_SingleObject(t *testing.T) {
	raw := []byte(`{"type":"TextQuoteSelector","exact":"the cat","prefix":"sat. ","suffix":" ran"}`)
	set, err := DecodeTarget(raw)
	if err != nil {
		t.Fatalf("DecodeTarget: %v", err)
	}
	q := set.QuoteSelector()
	if q == nil || q.Exact != "the cat" || q.Prefix != "sat. " || q.Suffix != " ran" {
		t.Errorf("quote = %+v", q)
	}
}

func TestDecodeTarget_Array(t *testing.T) {
	raw := []byte(`[
		{"type":"TextPositionSelector","start":13,"end":20},
		{"type":"TextQuoteSelector","exact":"The cat"}
	]`)
	set, err := DecodeTarget(raw)
	if err != nil {
		t.Fatalf("DecodeTarget: %v", err)
	}
	p := set.PositionSelector()
	if p == nil || p.Start != 13 || p.End != 20 {
		t.Errorf("position = %+v, want {13 20}", p)
	}
	if set.ExactText() != "The cat" {
		t.Errorf("ExactText = %q", set.ExactText())
	}
	sel, err := set.Primary()
	if err != nil {
		t.Fatalf("Primary: %v", err)
	}
	if sel.Kind != KindPosition {
		t.Errorf("Primary kind = %q, want position", sel.Kind)
	}
}

func TestDecodeTarget_NullAndAbsent(t *testing.T) {
	for _, raw := range [][]byte{nil, []byte("null")} {
		set, err := DecodeTarget(raw)
		if err != nil {
			t.Fatalf("DecodeTarget(%q): %v", raw, err)
		}
		if !set.IsZero() {
			t.Errorf("DecodeTarget(%q): want zero set", raw)
		}
	}
}

func TestDecodeTarget_UnknownTypeSkipped(t *testing.T) {
	raw := []byte(`[
		{"type":"XPathSelector","value":"//p[2]"},
		{"type":"TextQuoteSelector","exact":"kept"}
	]`)
	set, err := DecodeTarget(raw)
	if err != nil {
		t.Fatalf("DecodeTarget: %v", err)
	}
	if set.ExactText() != "kept" {
		t.Errorf("ExactText = %q, want %q", set.ExactText(), "kept")
	}
	sel, err := set.Primary()
	if err != nil {
		t.Fatalf("Primary: %v", err)
	}
	if sel.Kind != KindQuote {
		t.Errorf("unknown types should not occupy slots: primary = %q", sel.Kind)
	}
}

func TestDecodeTarget_EmptyArray(t *testing.T) {
	set, err := DecodeTarget([]byte(`[]`))
	if err != nil {
		t.Fatalf("DecodeTarget: %v", err)
	}
	if _, err := set.Primary(); err != ErrEmptySet {
		t.Errorf("empty array: Primary err = %v, want ErrEmptySet", err)
	}
}

func TestDecodeTarget_Malformed(t *testing.T) {
	if _, err := DecodeTarget([]byte(`{not json`)); err == nil {
		t.Error("malformed input should error")
	}
}

func TestDecodeAnnotations(t *testing.T) {
	data := []byte(`[
		{
			"id": "ann-1",
			"target": {
				"source": "doc://1",
				"selector": [
					{"type":"TextPositionSelector","start":0,"end":7},
					{"type":"TextQuoteSelector","exact":"The cat","suffix":" sat"}
				]
			}
		},
		{
			"id": "ann-2",
			"target": {
				"source": "doc://1",
				"selector": {"type":"TextQuoteSelector","exact":"ran"}
			}
		},
		{
			"id": "ann-3",
			"target": {"source": "doc://1"}
		}
	]`)

	anns, err := DecodeAnnotations(data)
	if err != nil {
		t.Fatalf("DecodeAnnotations: %v", err)
	}
	if len(anns) != 3 {
		t.Fatalf("got %d annotations, want 3", len(anns))
	}

	if p := anns[0].Target.Selector.PositionSelector(); p == nil || p.End != 7 {
		t.Errorf("ann-1 position = %+v", p)
	}
	if anns[1].Target.Selector.ExactText() != "ran" {
		t.Errorf("ann-2 exact = %q", anns[1].Target.Selector.ExactText())
	}
	if !anns[2].Target.Selector.IsZero() {
		t.Error("ann-3 should have a zero selector set")
	}
}

func TestSet_MarshalRoundTrip(t *testing.T) {
	original := Many([]Selector{
		NewPosition(5, 12),
		NewQuote("exact text", "p", "s"),
	})

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded Set
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if p := decoded.PositionSelector(); p == nil || p.Start != 5 || p.End != 12 {
		t.Errorf("round-trip position = %+v", p)
	}
	if decoded.ExactText() != "exact text" {
		t.Errorf("round-trip exact = %q", decoded.ExactText())
	}
}

func TestSet_MarshalSingleUsesObjectForm(t *testing.T) {
	data, err := json.Marshal(One(NewQuote("q", "", "")))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if data[0] != '{' {
		t.Errorf("single selector should marshal as object, got %s", data)
	}
}
