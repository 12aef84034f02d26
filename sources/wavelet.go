package sources

import (
	"fmt"
	"math"
	"strings"

	"github.com/notargets/seisfdtd/types"
	"github.com/notargets/seisfdtd/utils"
)

type WaveletType uint8

const (
	Ricker WaveletType = iota
	Gaussian
	GaussianDerivative
)

var waveletNames = map[string]WaveletType{
	"ricker":             Ricker,
	"gaussian":           Gaussian,
	"gaussianderivative": GaussianDerivative,
	"gaus1":              GaussianDerivative,
}

func (w WaveletType) String() string {
	switch w {
	case Ricker:
		return "Ricker"
	case Gaussian:
		return "Gaussian"
	case GaussianDerivative:
		return "GaussianDerivative"
	}
	return "unknown"
}

func NewWaveletType(label string) (w WaveletType, err error) {
	var ok bool
	if w, ok = waveletNames[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = fmt.Errorf("%w: unknown source wavelet %q", types.ErrConfiguration, label)
	}
	return
}

/*
Params describe a point force. Angle is the force direction in degrees from
the +x axis toward +z. A zero T0 delays the peak by 1.2/F0 so the wavelet
starts from rest.
*/
type Params struct {
	Wavelet   WaveletType
	F0        float64 // dominant frequency, Hz
	T0        float64 // peak time, s
	Amplitude float64
	Angle     float64
}

func (prm Params) Delay() float64 {
	if prm.T0 > 0 {
		return prm.T0
	}
	return 1.2 / prm.F0
}

// Value is the unit amplitude wavelet at time t.
func (prm Params) Value(t float64) (w float64) {
	var (
		pf  = math.Pi * prm.F0
		tau = t - prm.Delay()
		arg = utils.POW(pf*tau, 2)
	)
	switch prm.Wavelet {
	case Ricker:
		w = (1 - 2*arg) * math.Exp(-arg)
	case Gaussian:
		w = math.Exp(-arg)
	case GaussianDerivative:
		// scaled so the extrema are +-1
		w = -2 * pf * pf * tau * math.Exp(-arg) / (math.Sqrt2 * pf * math.Exp(-0.5))
	}
	return
}

// Generate samples the wavelet at t = k DT and projects it onto x and z at cell (I,J).
func Generate(prm Params, nstep int, DT float64, I, J int) (s Series, err error) {
	if !(prm.F0 > 0) {
		err = fmt.Errorf("%w: source frequency must be positive, have %g", types.ErrConfiguration, prm.F0)
		return
	}
	if nstep <= 0 || !(DT > 0) {
		err = fmt.Errorf("%w: need positive nstep and DT, have %d, %g", types.ErrConfiguration, nstep, DT)
		return
	}
	var (
		rad    = prm.Angle * math.Pi / 180
		ax, az = prm.Amplitude * math.Cos(rad), prm.Amplitude * math.Sin(rad)
	)
	s = Series{
		Srcx: make([]float64, nstep),
		Srcz: make([]float64, nstep),
		I:    I,
		J:    J,
	}
	for k := 0; k < nstep; k++ {
		w := prm.Value(float64(k) * DT)
		s.Srcx[k], s.Srcz[k] = ax*w, az*w
	}
	return
}

// Impulse is a single unit force sample at step 1 along the given angle.
func Impulse(nstep int, angle float64, I, J int) (s Series) {
	var (
		rad = angle * math.Pi / 180
	)
	s = Series{
		Srcx: make([]float64, nstep),
		Srcz: make([]float64, nstep),
		I:    I,
		J:    J,
	}
	if nstep > 0 {
		s.Srcx[0], s.Srcz[0] = math.Cos(rad), math.Sin(rad)
	}
	return
}
