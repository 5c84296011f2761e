// Package engine is the controller the UI talks to.
//
// An Engine is created up front and initialized on the first user gesture.
// Initialize opens the output device, builds the graph context and starts
// the persistent drone. Afterwards Trigger schedules one-shot effects and
// ToggleMute fades the master bus. Every trigger is fire-and-forget: before
// initialization, after a device failure or while muted it silently does
// nothing, and a failing recipe is logged rather than returned.
package engine
