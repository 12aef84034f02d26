package cpml

import (
	"fmt"
	"math"

	"github.com/notargets/seisfdtd/types"
	"github.com/notargets/seisfdtd/utils"
)

// Params shape the Komatitsch and Martin (2007) convolutional PML.
type Params struct {
	NPower   float64 // polynomial order of d and K
	KMax     float64
	Rcoef    float64 // target reflection coefficient
	AlphaMax float64 // frequency shift at the inner edge, rad/s
}

func DefaultParams(f0 float64) Params {
	return Params{
		NPower:   2,
		KMax:     1,
		Rcoef:    0.001,
		AlphaMax: math.Pi * f0,
	}
}

func (prm Params) Validate() (err error) {
	switch {
	case !(prm.NPower >= 1):
		err = fmt.Errorf("%w: CPML power must be at least 1, have %g", types.ErrConfiguration, prm.NPower)
	case !(prm.KMax >= 1):
		err = fmt.Errorf("%w: CPML KMax must be at least 1, have %g", types.ErrConfiguration, prm.KMax)
	case !(prm.Rcoef > 0 && prm.Rcoef < 1):
		err = fmt.Errorf("%w: CPML reflection coefficient must be in (0,1), have %g",
			types.ErrConfiguration, prm.Rcoef)
	case !(prm.AlphaMax >= 0):
		err = fmt.Errorf("%w: CPML alpha max must be non negative, have %g", types.ErrConfiguration, prm.AlphaMax)
	}
	return
}

type profile1D struct {
	K, Alpha, A, B []float64
}

/*
axisProfile samples the damping along one axis of n cells, spacing h and
a layer of p cells at each end. The regular profile sits at x = i*h, the half
profile at x = (i+1/2)*h. Inside the layer, with norm the normalized depth:

	d     = d0 norm^N,  d0 = -(N+1) vpmax ln(R) / (2 L)
	K     = 1 + (KMax-1) norm^N
	alpha = AlphaMax (1 - norm)
	b     = exp(-(d/K + alpha) DT)
	a     = d (b-1) / (K (d + K alpha))
*/
func axisProfile(n, p int, h float64, prm Params, vpmax, DT float64, half bool) (pr profile1D) {
	pr = profile1D{
		K:     utils.ConstArray(n, 1),
		Alpha: make([]float64, n),
		A:     make([]float64, n),
		B:     utils.ConstArray(n, 1),
	}
	if p == 0 {
		return
	}
	var (
		thickness = float64(p) * h
		d0        = -(prm.NPower + 1) * vpmax * math.Log(prm.Rcoef) / (2 * thickness)
		left      = thickness
		right     = float64(n-1)*h - thickness
		shift     float64
	)
	if half {
		shift = h / 2
	}
	for i := 0; i < n; i++ {
		var (
			x        = float64(i)*h + shift
			abscissa float64
			d, K     = 0., 1.
			alpha    float64
		)
		switch {
		case x <= left:
			abscissa = left - x
		case x >= right:
			abscissa = x - right
		}
		if abscissa > 0 {
			norm := abscissa / thickness
			normN := math.Pow(norm, prm.NPower)
			d = d0 * normN
			K = 1 + (prm.KMax-1)*normN
			alpha = math.Max(prm.AlphaMax*(1-norm), 0)
		}
		pr.K[i], pr.Alpha[i] = K, alpha
		pr.B[i] = math.Exp(-(d/K + alpha) * DT)
		if math.Abs(d) > 1.e-6 {
			pr.A[i] = d * (pr.B[i] - 1) / (K * (d + K*alpha))
		}
	}
	return
}

/*
Generate builds the sixteen profiles for grid g. vpmax is the largest P wave
speed in the model and DT the solver time step.
*/
func Generate(g types.Grid, prm Params, vpmax, DT float64, verbose bool) (p *Profiles, err error) {
	if err = g.Validate(); err != nil {
		return
	}
	if err = prm.Validate(); err != nil {
		return
	}
	if !(vpmax > 0) || !(DT > 0) {
		err = fmt.Errorf("%w: CPML needs positive vpmax and DT, have %g, %g", types.ErrConfiguration, vpmax, DT)
		return
	}
	var (
		NX, NZ = g.NX(), g.NZ()
	)
	p = &Profiles{}
	p.X = broadcastX(axisProfile(NX, g.Pml, g.Dx, prm, vpmax, DT, false), NZ)
	p.XHalf = broadcastX(axisProfile(NX, g.Pml, g.Dx, prm, vpmax, DT, true), NZ)
	p.Z = broadcastZ(axisProfile(NZ, g.Pml, g.Dz, prm, vpmax, DT, false), NX)
	p.ZHalf = broadcastZ(axisProfile(NZ, g.Pml, g.Dz, prm, vpmax, DT, true), NX)
	if verbose {
		fmt.Printf("CPML: %s, vpmax = %8.3f m/s, DT = %10.4e s, Rcoef = %g, NPower = %g, KMax = %g, AlphaMax = %g\n",
			g, vpmax, DT, prm.Rcoef, prm.NPower, prm.KMax, prm.AlphaMax)
	}
	return
}

// broadcastX spreads an x profile of NX values across NZ columns.
func broadcastX(pr profile1D, NZ int) (ax Axis) {
	fill := func(v []float64) (A utils.Matrix) {
		A = utils.NewMatrix(len(v), NZ)
		data := A.Data()
		for i, val := range v {
			for j := 0; j < NZ; j++ {
				data[i*NZ+j] = val
			}
		}
		return
	}
	return Axis{K: fill(pr.K), Alpha: fill(pr.Alpha), A: fill(pr.A), B: fill(pr.B)}
}

// broadcastZ spreads a z profile of NZ values down NX rows.
func broadcastZ(pr profile1D, NX int) (ax Axis) {
	fill := func(v []float64) (A utils.Matrix) {
		NZ := len(v)
		A = utils.NewMatrix(NX, NZ)
		data := A.Data()
		for i := 0; i < NX; i++ {
			copy(data[i*NZ:(i+1)*NZ], v)
		}
		return
	}
	return Axis{K: fill(pr.K), Alpha: fill(pr.Alpha), A: fill(pr.A), B: fill(pr.B)}
}
