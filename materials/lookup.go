package materials

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/seisfdtd/types"
)

/*
A lookup record holds the 21 upper triangular entries of the 6x6 Voigt
stiffness tensor, row by row (c11 c12 c13 c14 c15 c16 c22 ... c56 c66),
followed by the density.
*/
const (
	RecordWidth = 22
	OffC11      = 0
	OffC13      = 2
	OffC15      = 4
	OffC33      = 11
	OffC35      = 13
	OffC55      = 18
	OffRho      = 21
)

type Record [RecordWidth]float64

// Lookup maps a material id (the row index) to its record.
type Lookup []Record

func (r Record) C11() float64 { return r[OffC11] }
func (r Record) C13() float64 { return r[OffC13] }
func (r Record) C15() float64 { return r[OffC15] }
func (r Record) C33() float64 { return r[OffC33] }
func (r Record) C35() float64 { return r[OffC35] }
func (r Record) C55() float64 { return r[OffC55] }
func (r Record) Rho() float64 { return r[OffRho] }

// voigtOffset is the record position of the upper triangular entry (a,b).
func voigtOffset(a, b int) int {
	if a > b {
		a, b = b, a
	}
	var off int
	for k := 0; k < a; k++ {
		off += 6 - k
	}
	return off + b - a
}

func NewRecord(C mat.Matrix, rho float64) (r Record) {
	for a := 0; a < 6; a++ {
		for b := a; b < 6; b++ {
			r[voigtOffset(a, b)] = C.At(a, b)
		}
	}
	r[OffRho] = rho
	return
}

// Tensor expands the record back into the symmetric 6x6 stiffness tensor.
func (r Record) Tensor() (C *mat.SymDense) {
	C = mat.NewSymDense(6, nil)
	for a := 0; a < 6; a++ {
		for b := a; b < 6; b++ {
			C.SetSym(a, b, r[voigtOffset(a, b)])
		}
	}
	return
}

func (lu Lookup) Get(id int) (r Record, err error) {
	if id < 0 || id >= len(lu) {
		err = fmt.Errorf("%w: material id %d out of range [0,%d)", types.ErrConfiguration, id, len(lu))
		return
	}
	r = lu[id]
	return
}

func (lu Lookup) Print() {
	fmt.Printf("%4s %14s %14s %14s %14s %14s %14s %10s\n",
		"id", "c11", "c13", "c15", "c33", "c35", "c55", "rho")
	for id, r := range lu {
		fmt.Printf("%4d %14.6g %14.6g %14.6g %14.6g %14.6g %14.6g %10.4g\n",
			id, r.C11(), r.C13(), r.C15(), r.C33(), r.C35(), r.C55(), r.Rho())
	}
}
