// Package domain contains the value types shared by every layer of the
// stack-of-tasks controller: sentinel and structured errors, constraint
// kinds and identity handles, the single-level QP problem handed to an
// engine, its solution and active set, and the per-cycle snapshot published
// by the control loop.
//
// Task, constraint and engine behaviour lives behind the interfaces in
// package ports; this package holds data only.
package domain
