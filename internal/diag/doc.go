// Package diag provides tap/subscribe instrumentation over the event bus
// for troubleshooting the automation pipeline.
//
// The Monitor manages a single idempotent all-traffic tap and a map of
// per-name subscriptions. Every observed delivery is appended to a
// fixed-capacity ring buffer, oldest evicted first. The buffer is for
// human inspection only: no other component reads it, which keeps
// diagnostics from quietly becoming production state.
package diag
