// Package ports defines interfaces between layers in the hexagonal architecture.
// Core ports (Task, Constraint, QPEngine, Model) are the contracts the
// cascaded solver is written against; plugins and engines implement them.
// Service ports are implemented by the application layer and read by inbound
// adapters. Client ports are implemented by outbound adapters.
package ports
