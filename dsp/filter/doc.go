// Package filter provides the second-order lowpass and highpass sections
// used by graph filter nodes.
//
// Coefficients follow the RBJ Audio EQ Cookbook and are processed in Direct
// Form II Transposed, normalized so that a0 = 1.
package filter
