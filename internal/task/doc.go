// Package task implements ports.Task: the embeddable leaf base, the
// Linear, Postural and MinimumVelocity plugins, the Aggregated composite
// and the SubTask row view.
//
// Tasks are owned by the control goroutine and are not safe for concurrent
// use.
package task
