// Package stack holds the AutoStack, an ordered hierarchy of tasks sharing
// one bounds aggregation, and the builder functions that compose tasks,
// levels and constraints into one.
package stack
