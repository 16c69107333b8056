package selector

import "errors"

// ErrEmptySet is returned by Primary when an annotation carried an
// explicitly empty selector list.
var ErrEmptySet = errors.New("selector: empty selector list")
