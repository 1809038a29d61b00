// Package constraint implements ports.Constraint: the generic bound,
// inequality and equality constraints, the joint, velocity and torque limit
// plugins, row-selected views, tasks recast as equalities, and the
// aggregation that merges a set of constraints into solver form.
package constraint
