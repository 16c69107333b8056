package anchor

import "log/slog"

// EventKind classifies resolution diagnostics. Every Resolve outcome other
// than a unique exact match emits one event; none of them is a failure of
// the caller's workflow.
type EventKind string

const (
	// EventNoMatch: the exact text does not occur in the document.
	EventNoMatch EventKind = "no_match"
	// EventContextResolved: multiple occurrences, disambiguated by an
	// exact prefix/suffix boundary match.
	EventContextResolved EventKind = "context_resolved"
	// EventFuzzyResolved: multiple occurrences, disambiguated only by the
	// relaxed containment check (context drifted).
	EventFuzzyResolved EventKind = "fuzzy_resolved"
	// EventAmbiguousFallback: multiple occurrences and no context match;
	// the first occurrence was chosen. The anchor may be wrong.
	EventAmbiguousFallback EventKind = "ambiguous_fallback"
)

// Event is one resolution diagnostic.
type Event struct {
	Kind        EventKind `json:"kind"`
	Exact       string    `json:"exact"`
	Occurrences int       `json:"occurrences"`
	Range       *Range    `json:"range,omitempty"`
}

// EventSink receives resolution diagnostics. A nil sink drops them.
type EventSink func(Event)

func emit(sink EventSink, ev Event) {
	if sink != nil {
		sink(ev)
	}
}

// SlogSink adapts a structured logger into an EventSink. No-match and
// ambiguous-fallback events indicate data quality problems and log at Warn;
// context resolutions log at Debug.
func SlogSink(logger *slog.Logger) EventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ev Event) {
		attrs := []any{
			"kind", string(ev.Kind),
			"exact", ev.Exact,
			"occurrences", ev.Occurrences,
		}
		if ev.Range != nil {
			attrs = append(attrs, "start", ev.Range.Start, "end", ev.Range.End)
		}
		switch ev.Kind {
		case EventNoMatch, EventAmbiguousFallback:
			logger.Warn("anchor: resolution degraded", attrs...)
		default:
			logger.Debug("anchor: resolved by context", attrs...)
		}
	}
}

// MultiSink fans an event out to several sinks, skipping nil entries.
func MultiSink(sinks ...EventSink) EventSink {
	return func(ev Event) {
		for _, s := range sinks {
			if s != nil {
				s(ev)
			}
		}
	}
}
