// Package framework provides the cooperative polling loop drivers run in,
// and helpers to run background producers alongside it.
package framework
