package Elastic2D

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/notargets/seisfdtd/cpml"
	"github.com/notargets/seisfdtd/materials"
	"github.com/notargets/seisfdtd/sources"
	"github.com/notargets/seisfdtd/types"
	"github.com/notargets/seisfdtd/utils"
)

/*
	Velocity-stress staggered grid, with (i,j) the x and z indices of the padded grid:
		- Vx at (i, j)
		- Vz at (i+1/2, j+1/2)
		- Sigmaxx, Sigmazz at (i+1/2, j)
		- Sigmaxz at (i, j+1/2)
	Every step updates the normal stresses, the shear stress, Vx, then Vz, each
	phase complete before the next starts.
*/

type Constants struct {
	StabilityThreshold float64 // peak |v| above which the run is abandoned
}

func DefaultConstants() Constants {
	return Constants{StabilityThreshold: 1.e25}
}

// SnapshotSink receives Vx and Vz after every step. The field is only valid during the call.
type SnapshotSink interface {
	Snapshot(ch types.Channel, step int, field utils.Matrix) error
}

type Result struct {
	Steps       int
	DT          float64
	MaxVelocity []float64 // peak |v| after each completed step
}

type Elastic struct {
	Grid           types.Grid
	NStep          int
	DT             float64
	Constants      Constants
	Fields         *materials.Fields
	Profiles       *cpml.Profiles
	Source         sources.Series
	ParallelDegree int
	Partitions     *utils.PartitionMap // Rows [0,NX-1), offset by one for phases starting at i = 1
	W              WaveState
	Mem            MemoryState
	state          SolverState
	verbose        bool
}

// TimeStep is min(dx,dz) / sqrt(3 max(c11/rho, c33/rho)) over the padded fields.
func TimeStep(f *materials.Fields, g types.Grid) (DT float64, err error) {
	vpmax := f.MaxPVelocity()
	if !(vpmax > 0) || math.IsInf(vpmax, 0) {
		err = fmt.Errorf("%w: cannot size the time step, max P velocity is %g", types.ErrConfiguration, vpmax)
		return
	}
	DT = math.Min(g.Dx, g.Dz) / (math.Sqrt(3) * vpmax)
	return
}

/*
NewElastic checks every input against the grid before any stepping is
possible: field and profile shapes, series lengths, a source strictly inside
the grid with positive density. Fields and profiles are frozen read only.
*/
func NewElastic(g types.Grid, f *materials.Fields, p *cpml.Profiles, src sources.Series,
	nstep, ProcLimit int, verbose bool) (c *Elastic, err error) {
	if err = g.Validate(); err != nil {
		return
	}
	var (
		NX, NZ = g.NX(), g.NZ()
	)
	if NX < 3 || NZ < 3 {
		err = fmt.Errorf("%w: padded grid [%d,%d] is too small for the stencils", types.ErrConfiguration, NX, NZ)
		return
	}
	if f == nil || p == nil {
		err = fmt.Errorf("%w: material fields and damping profiles are required", types.ErrConfiguration)
		return
	}
	for _, ch := range types.MaterialChannels {
		A := f.Field(ch)
		if A.IsEmpty() {
			err = fmt.Errorf("%w: material field %s is not set", types.ErrConfiguration, ch)
			return
		}
		if nr, nc := A.Dims(); nr != NX || nc != NZ {
			err = fmt.Errorf("%w: material field %s is [%d,%d], grid is [%d,%d]",
				types.ErrConfiguration, ch, nr, nc, NX, NZ)
			return
		}
	}
	if err = p.CheckDims(NX, NZ); err != nil {
		return
	}
	if err = src.Validate(g, nstep); err != nil {
		return
	}
	if rho := f.Rho.At(src.I, src.J); !(rho > 0) {
		err = fmt.Errorf("%w: density at the source (%d,%d) must be positive, have %g",
			types.ErrConfiguration, src.I, src.J, rho)
		return
	}
	c = &Elastic{
		Grid:      g,
		NStep:     nstep,
		Constants: DefaultConstants(),
		Fields:    f,
		Profiles:  p,
		Source:    src,
		verbose:   verbose,
	}
	if c.DT, err = TimeStep(f, g); err != nil {
		c = nil
		return
	}
	f.SetReadOnly()
	p.SetReadOnly()
	c.SetParallelDegree(ProcLimit, NX-1)
	c.state = FieldsLoaded
	if verbose {
		fmt.Printf("Anisotropic Elastic Wave Equations in 2 Dimensions\n")
		fmt.Printf("%s\n", g)
		fmt.Printf("Using %d go routines in parallel\n", c.ParallelDegree)
		fmt.Printf("DT = %10.4e s, %d steps, source at (%d,%d)\n\n", c.DT, nstep, src.I, src.J)
	}
	return
}

func (c *Elastic) State() SolverState { return c.state }

/*
Solve runs the time loop once. The sink gets Vx and Vz for every completed
step. A tripped stability guard returns *DivergenceError after the snapshots
of the last good step. Cancellation of ctx is honored between steps.
*/
func (c *Elastic) Solve(ctx context.Context, sink SnapshotSink) (res Result, err error) {
	if c.state != FieldsLoaded {
		err = fmt.Errorf("%w: solver is %s, it can only run once from FieldsLoaded", types.ErrConfiguration, c.state)
		return
	}
	var (
		NX, NZ  = c.Grid.NX(), c.Grid.NZ()
		elapsed time.Duration
		start   time.Time
		vmax    float64
		every   = c.NStep / 10
	)
	if every == 0 {
		every = 1
	}
	c.W = NewWaveState(NX, NZ)
	c.Mem = NewMemoryState(NX, NZ)
	c.state = Running
	res = Result{DT: c.DT, MaxVelocity: make([]float64, 0, c.NStep)}
	if c.verbose {
		c.PrintInitialization()
	}
	for it := 1; it <= c.NStep; it++ {
		if err = ctx.Err(); err != nil {
			c.state = Aborted
			return
		}
		start = time.Now()
		c.UpdateNormalStress()
		c.UpdateShearStress()
		c.UpdateVx()
		c.UpdateVz()
		c.InjectSource(it)
		c.ApplyDirichlet()
		vmax = c.MaxVelocity()
		elapsed += time.Since(start)
		if math.IsNaN(vmax) || vmax > c.Constants.StabilityThreshold {
			c.state = Diverged
			err = &DivergenceError{Step: it, MaxVelocity: vmax}
			return
		}
		res.Steps = it
		res.MaxVelocity = append(res.MaxVelocity, vmax)
		if sink != nil {
			if err = sink.Snapshot(types.Vx, it, c.W.Vx); err == nil {
				err = sink.Snapshot(types.Vz, it, c.W.Vz)
			}
			if err != nil {
				c.state = Aborted
				err = fmt.Errorf("snapshot at step %d: %w", it, err)
				return
			}
		}
		if c.verbose && (it == 1 || it%every == 0 || it == c.NStep) {
			c.PrintUpdate(it, vmax)
		}
	}
	c.state = Completed
	if c.verbose {
		c.PrintFinal(elapsed, res.Steps)
	}
	return
}

func (c *Elastic) PrintInitialization() {
	fmt.Printf("Solving for %d steps, %10.4e s of simulated time\n", c.NStep, float64(c.NStep)*c.DT)
	fmt.Printf("    step        time     max |v|\n")
}

func (c *Elastic) PrintUpdate(step int, vmax float64) {
	fmt.Printf("%8d %11.4e %11.4e\n", step, float64(step)*c.DT, vmax)
}

func (c *Elastic) PrintFinal(elapsed time.Duration, steps int) {
	if steps == 0 {
		return
	}
	rate := float64(elapsed.Microseconds()) / float64(c.Grid.Size()*steps)
	fmt.Printf("\nRate of execution = %8.5f us/(cell*step) over %d steps\n", rate, steps)
	fmt.Println(utils.GetMemUsage())
}
