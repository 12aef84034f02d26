package materials

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/seisfdtd/readfiles"
	"github.com/notargets/seisfdtd/types"
)

// Material describes one entry of the model's material table.
type Material struct {
	ID          int       `json:"ID"`
	Name        string    `json:"Name"`
	RGB         string    `json:"RGB,omitempty"`
	Temperature float64   `json:"Temperature"`
	Density     float64   `json:"Density"`
	Porosity    float64   `json:"Porosity"`
	LWC         float64   `json:"LWC"`
	AngleFile   string    `json:"AngleFile,omitempty"`
	Vp          float64   `json:"Vp,omitempty"`
	Vs          float64   `json:"Vs,omitempty"`
	Stiffness   []float64 `json:"Stiffness,omitempty"`
}

const (
	isotropicPressure = 0.1  // dimensionless arctan argument for the velocity pick
	icePressure       = 0.1  // kbar
	fabricPressure    = 0.01 // kbar, about one atmosphere
)

/*
Record produces the lookup row for m. The stiffness comes from, in order of
precedence: the explicit 21 upper triangular entries, an explicit Vp/Vs pair,
the Gammon ice Ih tensor (fabric averaged when AngleFile is set), or the
built-in isotropic table. Density is corrected for porewater in every case.
*/
func (m Material) Record(verbose bool) (r Record, err error) {
	var (
		C   *mat.SymDense
		rho float64
	)
	if m.Density <= 0 {
		err = fmt.Errorf("%w: material %d (%s) density must be positive, have %g",
			types.ErrConfiguration, m.ID, m.Name, m.Density)
		return
	}
	rho, _, _ = PorewaterCorrection(m.Temperature, m.Density, m.Porosity, m.LWC)
	switch {
	case len(m.Stiffness) != 0:
		if len(m.Stiffness) != RecordWidth-1 {
			err = fmt.Errorf("%w: material %d stiffness needs %d entries, have %d",
				types.ErrConfiguration, m.ID, RecordWidth-1, len(m.Stiffness))
			return
		}
		copy(r[:], m.Stiffness)
		r[OffRho] = rho
		return
	case m.Vp > 0:
		mu := rho * m.Vs * m.Vs
		C = LameStiffness(rho*m.Vp*m.Vp-2*mu, mu)
	case m.Name == "ice1h" && m.AngleFile != "":
		var euler [][3]float64
		if euler, err = readfiles.ReadAngles(m.AngleFile); err != nil {
			return
		}
		if verbose {
			fmt.Printf("Computing the fabric averaged stiffness for ice1h from %d orientations\n", len(euler))
		}
		if C, err = FabricAverage(IceStiffness(m.Temperature, fabricPressure), euler); err != nil {
			return
		}
		if !IsPositiveDefinite(C) {
			fmt.Printf("Material %d: stiffness tensor is not positive definite\n", m.ID)
		}
	case m.Name == "ice1h":
		C = IceStiffness(m.Temperature, icePressure)
	default:
		lim, ok := IsotropicMaterials[m.Name]
		if !ok {
			err = fmt.Errorf("%w: material %d has unknown name %q and no explicit stiffness",
				types.ErrConfiguration, m.ID, m.Name)
			return
		}
		C = IsotropicStiffness(isotropicPressure, rho, lim)
	}
	if cond, ok := HighFrequencyStability(C); !ok && verbose {
		fmt.Printf("Material %d (%s) fails the high frequency stability conditions %v\n", m.ID, m.Name, cond)
	}
	r = NewRecord(roundSym(C), rho)
	return
}

func roundSym(C *mat.SymDense) *mat.SymDense {
	n := C.SymmetricDim()
	R := mat.NewSymDense(n, nil)
	for a := 0; a < n; a++ {
		for b := a; b < n; b++ {
			R.SetSym(a, b, math.Round(C.At(a, b)))
		}
	}
	return R
}

// NewLookup orders the materials by ID, which must run 0..len-1 without gaps.
func NewLookup(mats []Material, verbose bool) (lu Lookup, err error) {
	var (
		sorted = make([]Material, len(mats))
	)
	if len(mats) == 0 {
		err = fmt.Errorf("%w: no materials defined", types.ErrConfiguration)
		return
	}
	copy(sorted, mats)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	lu = make(Lookup, len(sorted))
	for k, m := range sorted {
		if m.ID != k {
			err = fmt.Errorf("%w: material ids must be 0..%d without gaps or repeats, found %d at position %d",
				types.ErrConfiguration, len(sorted)-1, m.ID, k)
			lu = nil
			return
		}
		if lu[k], err = m.Record(verbose); err != nil {
			lu = nil
			return
		}
	}
	return
}
