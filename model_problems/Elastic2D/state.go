package Elastic2D

import (
	"fmt"

	"github.com/notargets/seisfdtd/types"
	"github.com/notargets/seisfdtd/utils"
)

// WaveState holds the particle velocities and stresses over the padded grid.
type WaveState struct {
	Vx, Vz                    utils.Matrix
	Sigmaxx, Sigmazz, Sigmaxz utils.Matrix
}

func NewWaveState(NX, NZ int) WaveState {
	return WaveState{
		Vx:      utils.NewMatrix(NX, NZ),
		Vz:      utils.NewMatrix(NX, NZ),
		Sigmaxx: utils.NewMatrix(NX, NZ),
		Sigmazz: utils.NewMatrix(NX, NZ),
		Sigmaxz: utils.NewMatrix(NX, NZ),
	}
}

func (w *WaveState) Field(ch types.Channel) utils.Matrix {
	switch ch {
	case types.Vx:
		return w.Vx
	case types.Vz:
		return w.Vz
	case types.Sigmaxx:
		return w.Sigmaxx
	case types.Sigmazz:
		return w.Sigmazz
	case types.Sigmaxz:
		return w.Sigmaxz
	}
	panic(fmt.Errorf("channel %s is not a wave field", ch))
}

/*
MemoryState holds the C-PML convolution memory, one array per damped
derivative. DvzDx and DvxDz are advanced by both stress phases.
*/
type MemoryState struct {
	DvxDx, DvzDz, DvzDx, DvxDz                     utils.Matrix
	DsigmaxxDx, DsigmaxzDz, DsigmaxzDx, DsigmazzDz utils.Matrix
}

func NewMemoryState(NX, NZ int) MemoryState {
	return MemoryState{
		DvxDx:      utils.NewMatrix(NX, NZ),
		DvzDz:      utils.NewMatrix(NX, NZ),
		DvzDx:      utils.NewMatrix(NX, NZ),
		DvxDz:      utils.NewMatrix(NX, NZ),
		DsigmaxxDx: utils.NewMatrix(NX, NZ),
		DsigmaxzDz: utils.NewMatrix(NX, NZ),
		DsigmaxzDx: utils.NewMatrix(NX, NZ),
		DsigmazzDz: utils.NewMatrix(NX, NZ),
	}
}

type SolverState uint8

const (
	Uninitialized SolverState = iota
	FieldsLoaded
	Running
	Completed
	Diverged
	Aborted // cancelled, or a snapshot sink failed
)

func (s SolverState) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case FieldsLoaded:
		return "FieldsLoaded"
	case Running:
		return "Running"
	case Completed:
		return "Completed"
	case Diverged:
		return "Diverged"
	case Aborted:
		return "Aborted"
	}
	return "unknown"
}
