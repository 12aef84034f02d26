package sources

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/notargets/seisfdtd/readfiles"
	"github.com/notargets/seisfdtd/types"
)

const (
	SrcxFile = "srcx.dat"
	SrczFile = "srcz.dat"
)

/*
Series is the force history applied at padded grid cell (I,J). Element k of
Srcx and Srcz is applied during time step k+1.
*/
type Series struct {
	Srcx, Srcz []float64
	I, J       int
}

func (s Series) Len() int { return len(s.Srcx) }

// Validate checks the lengths against nstep and that the source sits strictly inside the padded grid.
func (s Series) Validate(g types.Grid, nstep int) (err error) {
	switch {
	case nstep <= 0:
		err = fmt.Errorf("%w: step count must be positive, have %d", types.ErrConfiguration, nstep)
	case len(s.Srcx) != nstep || len(s.Srcz) != nstep:
		err = fmt.Errorf("%w: source series lengths srcx = %d, srcz = %d, expected %d",
			types.ErrConfiguration, len(s.Srcx), len(s.Srcz), nstep)
	case s.I <= 0 || s.I >= g.NX()-1 || s.J <= 0 || s.J >= g.NZ()-1:
		err = fmt.Errorf("%w: source at (%d,%d) is not inside the padded grid [%d,%d]",
			types.ErrConfiguration, s.I, s.J, g.NX(), g.NZ())
	}
	return
}

func (s Series) Save(dir string, verbose bool) (err error) {
	if err = os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: %v", types.ErrIO, err)
	}
	if err = readfiles.WriteSeries(filepath.Join(dir, SrcxFile), s.Srcx); err != nil {
		return
	}
	if err = readfiles.WriteSeries(filepath.Join(dir, SrczFile), s.Srcz); err != nil {
		return
	}
	if verbose {
		fmt.Printf("Wrote %d source samples to %s\n", s.Len(), dir)
	}
	return
}

// Load reads srcx.dat and srcz.dat, both must hold exactly nstep samples.
func Load(dir string, nstep, I, J int) (s Series, err error) {
	s = Series{I: I, J: J}
	if s.Srcx, err = readfiles.ReadSeries(filepath.Join(dir, SrcxFile), nstep); err != nil {
		return
	}
	s.Srcz, err = readfiles.ReadSeries(filepath.Join(dir, SrczFile), nstep)
	return
}
