// Package observability defines the hook through which clients report the
// operations they run.
//
// A client calls Observer.ObserveOperation once per finished operation.
// LoggingObserver turns the events into structured log entries and
// *metrics.Metrics into request counters and latency histograms. Multi
// combines several observers:
//
//	obs := observability.Multi(m, observability.LoggingObserver{Logger: log})
package observability
