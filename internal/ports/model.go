package ports

import "gonum.org/v1/gonum/mat"

// Model is the robot model the control loop advances and the model-based
// plugins read from. Implementations are owned by the control goroutine.
type Model interface {
	DoF() int
	SetState(q, qdot mat.Vector) error
	JointPosition() *mat.VecDense
	JointVelocity() *mat.VecDense

	// Jacobian returns the 6×DoF frame Jacobian of link.
	Jacobian(link string) (*mat.Dense, error)
	InertiaMatrix() *mat.Dense

	// NonlinearTerm returns the Coriolis, centrifugal and gravity torques.
	NonlinearTerm() *mat.VecDense
}
