// Package core holds processing configuration and numeric helpers shared by
// the synthesis packages.
package core
