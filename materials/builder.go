package materials

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/notargets/seisfdtd/readfiles"
	"github.com/notargets/seisfdtd/types"
	"github.com/notargets/seisfdtd/utils"
)

// Fields are the seven padded material arrays consumed by the solver.
type Fields struct {
	C11, C13, C15, C33, C35, C55, Rho utils.Matrix
}

func NewFields(NX, NZ int) (f *Fields) {
	f = &Fields{}
	for _, ch := range types.MaterialChannels {
		*f.Field(ch) = utils.NewMatrix(NX, NZ)
	}
	return
}

func (f *Fields) Field(ch types.Channel) *utils.Matrix {
	switch ch {
	case types.C11:
		return &f.C11
	case types.C13:
		return &f.C13
	case types.C15:
		return &f.C15
	case types.C33:
		return &f.C33
	case types.C35:
		return &f.C35
	case types.C55:
		return &f.C55
	case types.Rho:
		return &f.Rho
	}
	panic(fmt.Errorf("channel %s is not a material field", ch))
}

func (f *Fields) Dims() (NX, NZ int) { return f.Rho.Dims() }

// SetReadOnly freezes all seven arrays, any later write panics.
func (f *Fields) SetReadOnly() {
	for _, ch := range types.MaterialChannels {
		f.Field(ch).SetReadOnly(ch.String())
	}
}

/*
BuildPaddedFields expands the nx by nz material id grid into the seven padded
fields over (nx+2*pml) by (nz+2*pml) cells:
  - interior cell (i,j) takes the lookup record of ids[i][j] at (i+pml, j+pml)
  - interior density is multiplied by gradient (nx by nz); an empty gradient
    means unit weights
  - the edge values are replicated outward into the absorbing layer, first the
    top and bottom bands over every x, then the left and right bands over
    every z, so corners carry the nearest interior corner value
*/
func BuildPaddedFields(ids [][]int, lu Lookup, pml int, gradient utils.Matrix) (f *Fields, err error) {
	var (
		nx = len(ids)
		nz int
	)
	if nx > 0 {
		nz = len(ids[0])
	}
	if nx <= 0 || nz <= 0 {
		err = fmt.Errorf("%w: material grid must be non empty, have nx = %d, nz = %d",
			types.ErrConfiguration, nx, nz)
		return
	}
	if pml <= 0 {
		err = fmt.Errorf("%w: PML thickness must be positive, have %d", types.ErrConfiguration, pml)
		return
	}
	for i := range ids {
		if len(ids[i]) != nz {
			err = fmt.Errorf("%w: ragged material grid, column %d has %d cells, expected %d",
				types.ErrConfiguration, i, len(ids[i]), nz)
			return
		}
	}
	if !gradient.IsEmpty() {
		if gr, gc := gradient.Dims(); gr != nx || gc != nz {
			err = fmt.Errorf("%w: gradient is [%d,%d], material grid is [%d,%d]",
				types.ErrConfiguration, gr, gc, nx, nz)
			return
		}
	}
	var (
		NX, NZ = nx + 2*pml, nz + 2*pml
		rec    Record
	)
	f = NewFields(NX, NZ)
	for i := 0; i < nx; i++ {
		for j := 0; j < nz; j++ {
			if rec, err = lu.Get(ids[i][j]); err != nil {
				err = fmt.Errorf("cell (%d,%d): %w", i, j, err)
				f = nil
				return
			}
			ind := (i+pml)*NZ + j + pml
			f.C11.Data()[ind] = rec.C11()
			f.C13.Data()[ind] = rec.C13()
			f.C15.Data()[ind] = rec.C15()
			f.C33.Data()[ind] = rec.C33()
			f.C35.Data()[ind] = rec.C35()
			f.C55.Data()[ind] = rec.C55()
			f.Rho.Data()[ind] = rec.Rho()
		}
	}
	if !gradient.IsEmpty() {
		var (
			rhoD = f.Rho.Data()
			gD   = gradient.Data()
		)
		for i := 0; i < nx; i++ {
			for j := 0; j < nz; j++ {
				rhoD[(i+pml)*NZ+j+pml] *= gD[i*nz+j]
			}
		}
	}
	for _, ch := range types.MaterialChannels {
		extendPadding(f.Field(ch).Data(), nx, nz, pml)
	}
	return
}

func extendPadding(data []float64, nx, nz, pml int) {
	var (
		NX, NZ           = nx + 2*pml, nz + 2*pml
		jTop, jBot       = pml, nz + pml - 1
		iLeft, iRight    = pml, nx + pml - 1
		rowOf            = func(i int) []float64 { return data[i*NZ : (i+1)*NZ] }
		leftRow, rightRo []float64
	)
	// Top and bottom bands, every x
	for i := 0; i < NX; i++ {
		row := rowOf(i)
		for j := 0; j < jTop; j++ {
			row[j] = row[jTop]
		}
		for j := jBot + 1; j < NZ; j++ {
			row[j] = row[jBot]
		}
	}
	// Left and right bands, whole rows including the extended top and bottom
	leftRow, rightRo = rowOf(iLeft), rowOf(iRight)
	for i := 0; i < iLeft; i++ {
		copy(rowOf(i), leftRow)
	}
	for i := iRight + 1; i < NX; i++ {
		copy(rowOf(i), rightRo)
	}
}

func fieldFile(dir string, ch types.Channel) string {
	return filepath.Join(dir, ch.String()+".dat")
}

// Save writes c11.dat ... rho.dat into dir.
func (f *Fields) Save(dir string, verbose bool) (err error) {
	if err = os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: %v", types.ErrIO, err)
	}
	for _, ch := range types.MaterialChannels {
		path := fieldFile(dir, ch)
		if err = readfiles.WriteField(path, *f.Field(ch)); err != nil {
			return
		}
		if verbose {
			fmt.Printf("Wrote %s\n", path)
		}
	}
	return
}

// LoadFields reads all seven padded fields for grid g, any failure aborts the load.
func LoadFields(dir string, g types.Grid) (f *Fields, err error) {
	var (
		A utils.Matrix
	)
	f = &Fields{}
	for _, ch := range types.MaterialChannels {
		if A, err = readfiles.ReadField(fieldFile(dir, ch), g.NX(), g.NZ()); err != nil {
			f = nil
			return
		}
		*f.Field(ch) = A
	}
	return
}

// MaxPVelocity is the largest of sqrt(c11/rho) and sqrt(c33/rho) over the cells with positive density.
func (f *Fields) MaxPVelocity() (vpmax float64) {
	var (
		c11, c33, rho = f.C11.Data(), f.C33.Data(), f.Rho.Data()
	)
	for k, r := range rho {
		if r <= 0 {
			continue
		}
		vpmax = math.Max(vpmax, math.Sqrt(math.Max(c11[k], c33[k])/r))
	}
	return
}
