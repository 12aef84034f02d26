package Elastic2D

import (
	"fmt"

	"github.com/notargets/seisfdtd/types"
)

// DivergenceError reports the first step whose peak velocity tripped the stability guard.
type DivergenceError struct {
	Step        int
	MaxVelocity float64
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("%v at step %d: max velocity %g", types.ErrDiverged, e.Step, e.MaxVelocity)
}

func (e *DivergenceError) Unwrap() error { return types.ErrDiverged }
