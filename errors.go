package gaussmix

import (
	"errors"
	"fmt"
)

var (
	ErrShape               = errors.New("gaussmix: dimension mismatch")
	ErrNotPositiveDefinite = errors.New("gaussmix: covariance is not positive definite")
	ErrEmptyComponent      = errors.New("gaussmix: component has no responsibility mass")
	ErrNotFitted           = errors.New("gaussmix: cluster labels not fitted")
	ErrTooFewSamples       = errors.New("gaussmix: fewer samples than components")
)

// ShapeError reports an input whose size does not match the model.
type ShapeError struct {
	Op   string
	What string // "columns" or "labels"
	Want int
	Got  int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("gaussmix: %s: %s mismatch: want %d, got %d", e.Op, e.What, e.Want, e.Got)
}

func (e *ShapeError) Unwrap() error { return ErrShape }

// NumericalError reports a component whose covariance could not be factorized
// when evaluating its density.
type NumericalError struct {
	Component int
}

func (e *NumericalError) Error() string {
	return fmt.Sprintf("gaussmix: component %d: covariance is not positive definite", e.Component)
}

func (e *NumericalError) Unwrap() error { return ErrNotPositiveDefinite }

// EmptyComponentError is returned by the M-step when a component receives no
// responsibility mass. The parameters are left as they were before the step.
type EmptyComponentError struct {
	Component int
	Mass      float64
}

func (e *EmptyComponentError) Error() string {
	return fmt.Sprintf("gaussmix: component %d: responsibility mass is %v", e.Component, e.Mass)
}

func (e *EmptyComponentError) Unwrap() error { return ErrEmptyComponent }
