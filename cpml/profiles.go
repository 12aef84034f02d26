package cpml

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/notargets/seisfdtd/readfiles"
	"github.com/notargets/seisfdtd/types"
	"github.com/notargets/seisfdtd/utils"
)

// Axis holds the four C-PML coefficient arrays for one direction and offset.
type Axis struct {
	K, Alpha, A, B utils.Matrix
}

/*
Profiles are the sixteen damping arrays over the padded grid. X and Z are
sampled at the cell positions, XHalf and ZHalf half a cell further along
their axis. X profiles vary with i only, Z profiles with j only.
*/
type Profiles struct {
	X, XHalf, Z, ZHalf Axis
}

type namedField struct {
	name string
	m    *utils.Matrix
}

func (ax *Axis) fields(label string, half bool) []namedField {
	var (
		upper = map[string]string{"x": "X", "z": "Z"}[label]
		sfx   string
	)
	if half {
		sfx = "Half"
	}
	return []namedField{
		{"K" + label + sfx, &ax.K},
		{"Alpha" + upper + sfx, &ax.Alpha},
		{"A" + label + sfx, &ax.A},
		{"B" + label + sfx, &ax.B},
	}
}

// all lists the sixteen arrays with their file stems, Kx AlphaX Ax Bx KxHalf ...
func (p *Profiles) all() (nf []namedField) {
	nf = append(nf, p.X.fields("x", false)...)
	nf = append(nf, p.XHalf.fields("x", true)...)
	nf = append(nf, p.Z.fields("z", false)...)
	nf = append(nf, p.ZHalf.fields("z", true)...)
	return
}

// Names returns the sixteen file stems in storage order.
func (p *Profiles) Names() (names []string) {
	for _, f := range p.all() {
		names = append(names, f.name)
	}
	return
}

// CheckDims verifies every array is NX by NZ.
func (p *Profiles) CheckDims(NX, NZ int) (err error) {
	for _, f := range p.all() {
		if f.m.IsEmpty() {
			return fmt.Errorf("%w: damping profile %s is not set", types.ErrConfiguration, f.name)
		}
		if nr, nc := f.m.Dims(); nr != NX || nc != NZ {
			return fmt.Errorf("%w: damping profile %s is [%d,%d], grid is [%d,%d]",
				types.ErrConfiguration, f.name, nr, nc, NX, NZ)
		}
	}
	return
}

func (p *Profiles) SetReadOnly() {
	for _, f := range p.all() {
		f.m.SetReadOnly(f.name)
	}
}

func (p *Profiles) Save(dir string, verbose bool) (err error) {
	if err = os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: %v", types.ErrIO, err)
	}
	for _, f := range p.all() {
		path := filepath.Join(dir, f.name+".dat")
		if err = readfiles.WriteField(path, *f.m); err != nil {
			return
		}
		if verbose {
			fmt.Printf("Wrote %s\n", path)
		}
	}
	return
}

// Load reads all sixteen arrays for grid g, failing on the first missing or malformed file.
func Load(dir string, g types.Grid) (p *Profiles, err error) {
	p = &Profiles{}
	for _, f := range p.all() {
		if *f.m, err = readfiles.ReadField(filepath.Join(dir, f.name+".dat"), g.NX(), g.NZ()); err != nil {
			p = nil
			return
		}
	}
	return
}

// NewUndamped returns profiles with K = 1 and alpha = a = b = 0, a grid with no absorbing layer.
func NewUndamped(NX, NZ int) (p *Profiles) {
	p = &Profiles{}
	for _, ax := range []*Axis{&p.X, &p.XHalf, &p.Z, &p.ZHalf} {
		ax.K = utils.NewMatrixConst(NX, NZ, 1)
		ax.Alpha = utils.NewMatrix(NX, NZ)
		ax.A = utils.NewMatrix(NX, NZ)
		ax.B = utils.NewMatrix(NX, NZ)
	}
	return
}
