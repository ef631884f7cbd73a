// Package progress defines the sink that pipeline stages report completion to.
package progress

import "log/slog"

// Sink receives completion-fraction updates. It is purely observational;
// implementations must not block pipeline control flow.
type Sink interface {
	Report(fraction float64, label string)
}

// Func adapts a plain function to a Sink.
type Func func(fraction float64, label string)

func (f Func) Report(fraction float64, label string) {
	f(fraction, label)
}

// Discard drops all updates.
var Discard Sink = Func(func(float64, string) {})

// NewLogSink reports progress as debug log lines.
func NewLogSink(log *slog.Logger) Sink {
	return Func(func(fraction float64, label string) {
		log.Debug("progress", "fraction", fraction, "label", label)
	})
}
