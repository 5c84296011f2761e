// Package effects is the catalog of synthesized sounds.
//
// Each Recipe turns an intensity, a trigger time and a random source into a
// self-scheduling graph.Patch: every source inside is started and stopped at
// construction, so a scheduled patch needs no further attention and is
// released by the context once it has played out. The drone is the one
// persistent recipe.
//
// Recipes are registered by name in a Registry; DefaultRegistry returns one
// preloaded with the built-in catalog.
package effects
