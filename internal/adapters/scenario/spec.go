// Package scenario loads declarative stack descriptions from YAML and builds
// them into an AutoStack with its initial state and, when needed, a model.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jsamuelsen11/stack-of-tasks/internal/domain"
)

// Task types.
const (
	TaskLinear          = "linear"
	TaskPostural        = "postural"
	TaskMinimumVelocity = "minimum_velocity"
)

// Constraint types.
const (
	ConstraintBound          = "bound"
	ConstraintInequality     = "inequality"
	ConstraintEquality       = "equality"
	ConstraintJointLimits    = "joint_limits"
	ConstraintVelocityLimits = "velocity_limits"
	ConstraintTorqueLimits   = "torque_limits"
	ConstraintTask           = "task"
)

// Spec is a scenario file.
type Spec struct {
	Name           string           `json:"name,omitempty" yaml:"name,omitempty"`
	XSize          int              `json:"x_size" yaml:"x_size"`
	Dt             float64          `json:"dt" yaml:"dt"`
	State          []float64        `json:"state,omitempty" yaml:"state,omitempty"`
	Model          *ModelSpec       `json:"model,omitempty" yaml:"model,omitempty"`
	Bounds         []ConstraintSpec `json:"bounds,omitempty" yaml:"bounds,omitempty"`
	Levels         []LevelSpec      `json:"levels" yaml:"levels"`
	Regularisation *TaskSpec        `json:"regularisation,omitempty" yaml:"regularisation,omitempty"`
}

// ModelSpec describes a static model. Omitted inertia is the identity and
// an omitted nonlinear term is zero.
type ModelSpec struct {
	DoF       int                    `json:"dof" yaml:"dof"`
	Inertia   [][]float64            `json:"inertia,omitempty" yaml:"inertia,omitempty"`
	Nonlinear []float64              `json:"nonlinear,omitempty" yaml:"nonlinear,omitempty"`
	Jacobians map[string][][]float64 `json:"jacobians,omitempty" yaml:"jacobians,omitempty"`
}

// LevelSpec is one priority level. Several tasks are merged into one
// aggregate; Weight, when set, scales the merged weight.
type LevelSpec struct {
	Weight float64    `json:"weight,omitempty" yaml:"weight,omitempty"`
	Tasks  []TaskSpec `json:"tasks" yaml:"tasks"`
}

// TaskSpec describes one task.
type TaskSpec struct {
	ID          string           `json:"id,omitempty" yaml:"id,omitempty"`
	Type        string           `json:"type" yaml:"type"`
	A           [][]float64      `json:"a,omitempty" yaml:"a,omitempty"`
	B           []float64        `json:"b,omitempty" yaml:"b,omitempty"`
	Reference   []float64        `json:"reference,omitempty" yaml:"reference,omitempty"`
	Lambda      *float64         `json:"lambda,omitempty" yaml:"lambda,omitempty"`
	Weight      float64          `json:"weight,omitempty" yaml:"weight,omitempty"`
	Rows        []int            `json:"rows,omitempty" yaml:"rows,omitempty"`
	Constraints []ConstraintSpec `json:"constraints,omitempty" yaml:"constraints,omitempty"`
}

// ConstraintSpec describes one constraint. Which fields apply depends on
// Type.
type ConstraintSpec struct {
	ID           string        `json:"id,omitempty" yaml:"id,omitempty"`
	Type         string        `json:"type" yaml:"type"`
	Lower        []float64     `json:"lower,omitempty" yaml:"lower,omitempty"`
	Upper        []float64     `json:"upper,omitempty" yaml:"upper,omitempty"`
	A            [][]float64   `json:"a,omitempty" yaml:"a,omitempty"`
	LowerA       []float64     `json:"lower_a,omitempty" yaml:"lower_a,omitempty"`
	UpperA       []float64     `json:"upper_a,omitempty" yaml:"upper_a,omitempty"`
	B            []float64     `json:"b,omitempty" yaml:"b,omitempty"`
	QMin         []float64     `json:"q_min,omitempty" yaml:"q_min,omitempty"`
	QMax         []float64     `json:"q_max,omitempty" yaml:"q_max,omitempty"`
	BoundScaling float64       `json:"bound_scaling,omitempty" yaml:"bound_scaling,omitempty"`
	Limit        float64       `json:"limit,omitempty" yaml:"limit,omitempty"`
	Dt           float64       `json:"dt,omitempty" yaml:"dt,omitempty"`
	TauMax       []float64     `json:"tau_max,omitempty" yaml:"tau_max,omitempty"`
	Contacts     []ContactSpec `json:"contacts,omitempty" yaml:"contacts,omitempty"`
	Disabled     []string      `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	Rows         []int         `json:"rows,omitempty" yaml:"rows,omitempty"`
	Task         *TaskSpec     `json:"task,omitempty" yaml:"task,omitempty"`
}

// ContactSpec is a wrench-carrying contact of a torque limit.
type ContactSpec struct {
	Link string `json:"link" yaml:"link"`
	Rows int    `json:"rows" yaml:"rows"`
}

// Load reads and validates the scenario at path.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a scenario. Unknown keys are rejected.
func Parse(data []byte) (*Spec, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var s Spec
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty scenario", domain.ErrValidation)
		}
		return nil, fmt.Errorf("decoding scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Marshal encodes s as YAML.
func (s *Spec) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("encoding scenario: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding scenario: %w", err)
	}
	return buf.Bytes(), nil
}

// Validate checks the structure of s. Dimensional agreement is checked when
// the stack is built.
func (s *Spec) Validate() error {
	fields := make(map[string]string)
	if s.XSize <= 0 {
		fields["x_size"] = "must be positive"
	}
	if !(s.Dt > 0) {
		fields["dt"] = "must be positive"
	}
	if len(s.State) != 0 && len(s.State) != s.XSize {
		fields["state"] = fmt.Sprintf("has %d entries, x_size is %d", len(s.State), s.XSize)
	}
	if s.Model != nil && (s.Model.DoF <= 0 || s.Model.DoF > s.XSize) {
		fields["model.dof"] = fmt.Sprintf("must be in [1, x_size=%d]", s.XSize)
	}
	if len(s.Levels) == 0 {
		fields["levels"] = "at least one level is required"
	}
	for i, c := range s.Bounds {
		validateConstraint(fields, fmt.Sprintf("bounds[%d]", i), c)
	}
	for i, l := range s.Levels {
		key := fmt.Sprintf("levels[%d]", i)
		if len(l.Tasks) == 0 {
			fields[key+".tasks"] = "at least one task is required"
		}
		if l.Weight < 0 {
			fields[key+".weight"] = "must be non-negative"
		}
		for j, t := range l.Tasks {
			validateTask(fields, fmt.Sprintf("%s.tasks[%d]", key, j), t)
		}
	}
	if s.Regularisation != nil {
		validateTask(fields, "regularisation", *s.Regularisation)
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

func validateTask(fields map[string]string, key string, t TaskSpec) {
	switch t.Type {
	case TaskLinear:
		if t.ID == "" {
			fields[key+".id"] = "linear tasks need an id"
		}
		if len(t.A) == 0 {
			fields[key+".a"] = "must not be empty"
		}
	case TaskPostural:
		if len(t.Reference) == 0 {
			fields[key+".reference"] = "must not be empty"
		}
	case TaskMinimumVelocity:
	default:
		fields[key+".type"] = fmt.Sprintf("unknown task type %q", t.Type)
	}
	if t.Weight < 0 {
		fields[key+".weight"] = "must be non-negative"
	}
	for i, c := range t.Constraints {
		validateConstraint(fields, fmt.Sprintf("%s.constraints[%d]", key, i), c)
	}
}

func validateConstraint(fields map[string]string, key string, c ConstraintSpec) {
	switch c.Type {
	case ConstraintBound, ConstraintInequality, ConstraintEquality:
		if c.ID == "" {
			fields[key+".id"] = c.Type + " constraints need an id"
		}
	case ConstraintJointLimits, ConstraintVelocityLimits, ConstraintTorqueLimits:
	case ConstraintTask:
		if c.Task == nil {
			fields[key+".task"] = "must be set"
		} else {
			validateTask(fields, key+".task", *c.Task)
		}
	default:
		fields[key+".type"] = fmt.Sprintf("unknown constraint type %q", c.Type)
	}
}
