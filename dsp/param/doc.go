// Package param implements sample-accurate parameter automation.
//
// A Param holds an intrinsic value plus a timeline of scheduled events:
// immediate sets, linear and exponential ramps that end at their event time,
// and exponential approaches toward a target. Evaluation follows the usual
// audio-graph rules: a ramp starts from the value and time of the preceding
// event, a target curve starts from whatever value the timeline has when it
// begins, and the last event's value holds forever.
//
// Envelopes are reusable breakpoint lists that are scheduled onto a Param
// relative to a trigger time.
package param
