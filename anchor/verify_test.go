package anchor

import "testing"

func TestVerify(t *testing.T) {
	doc := "The cat sat on the mat."
	tests := []struct {
		name  string
		r     Range
		exact string
		want  bool
	}{
		{"exact match", Range{4, 7}, "cat", true},
		{"wrong text", Range{4, 7}, "dog", false},
		{"shifted by one", Range{5, 8}, "cat", false},
		{"whole document", Range{0, 23}, doc, true},
		{"empty range empty exact", Range{5, 5}, "", true},
		{"empty range nonempty exact", Range{5, 5}, "x", false},
		{"negative start", Range{-1, 3}, "The", false},
		{"end past document", Range{20, 99}, "at.", false},
		{"inverted range", Range{7, 4}, "cat", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Verify(doc, tt.r, tt.exact); got != tt.want {
				t.Errorf("Verify(%+v, %q) = %v, want %v", tt.r, tt.exact, got, tt.want)
			}
		})
	}
}

func TestVerify_MatchesSliceLaw(t *testing.T) {
	// Verify is exactly "slice equals exact" for every in-bounds range.
	doc := "abcdef"
	for start := 0; start <= len(doc); start++ {
		for end := start; end <= len(doc); end++ {
			if !Verify(doc, Range{start, end}, doc[start:end]) {
				t.Errorf("Verify(doc, {%d %d}, doc[%d:%d]) = false", start, end, start, end)
			}
		}
	}
}

func TestVerify_EmptyDocument(t *testing.T) {
	if !Verify("", Range{0, 0}, "") {
		t.Error("empty doc, empty range, empty exact: want true")
	}
	if Verify("", Range{0, 1}, "x") {
		t.Error("empty doc, out-of-bounds range: want false")
	}
}
