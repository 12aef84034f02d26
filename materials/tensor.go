package materials

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/seisfdtd/types"
)

// VelocityLimits are Vp min, Vp max, Vs min, Vs max in m/s.
type VelocityLimits [4]float64

// Bourbie, Coussy and Zinszner (1992) and empirical compilations
var IsotropicMaterials = map[string]VelocityLimits{
	"air":       {343, 343, 0, 0},
	"ice1h":     {3400, 3800, 1700, 1900},
	"snow":      {100, 2000, 50, 500},
	"soil":      {300, 700, 100, 300},
	"water":     {1450, 1500, 0, 0},
	"oil":       {1200, 1250, 0, 0},
	"dry_sand":  {400, 1200, 100, 500},
	"wet_sand":  {1500, 2000, 400, 600},
	"granite":   {4500, 6000, 2500, 3300},
	"gneiss":    {4400, 5200, 2700, 3200},
	"basalt":    {5000, 6000, 2800, 3400},
	"limestone": {3500, 6000, 2000, 3300},
	"anhydrite": {4000, 5500, 2200, 3100},
	"coal":      {2200, 2700, 1000, 1400},
	"salt":      {4500, 5500, 2500, 3100},
}

// LameStiffness is the isotropic Voigt tensor for Lame parameters lam and mu.
func LameStiffness(lam, mu float64) (C *mat.SymDense) {
	C = mat.NewSymDense(6, nil)
	for a := 0; a < 3; a++ {
		for b := a; b < 3; b++ {
			C.SetSym(a, b, lam)
		}
		C.SetSym(a, a, lam+2*mu)
		C.SetSym(a+3, a+3, mu)
	}
	return
}

/*
IsotropicStiffness picks a velocity pair within the material limits with an
arctan pressure correction, then forms the Lame parameters:

	mu  = rho Vs^2
	lam = rho Vp^2 - 2 mu
*/
func IsotropicStiffness(pressure, density float64, lim VelocityLimits) *mat.SymDense {
	var (
		cp = 2 * (lim[1] - lim[0]) / math.Pi
		cs = 2 * (lim[3] - lim[2]) / math.Pi
		vp = cp*math.Atan(pressure) + lim[0]
		vs = cs*math.Atan(pressure) + lim[2]
		mu = density * vs * vs
	)
	return LameStiffness(density*vp*vp-2*mu, mu)
}

// IceStiffness is the Gammon (1983) ice Ih tensor in Pa, temperature in C, pressure in kbar.
func IceStiffness(T, P float64) (C *mat.SymDense) {
	var (
		T2, P2 = T * T, P * P
		c11    = 136.813 - 0.28940*T - 0.00178270*T2 + 4.6648*P - 0.13501*P2
		c12    = 69.4200 - 0.14673*T - 0.00090362*T2 + 5.0743*P + 0.085917*P2
		c13    = 56.3410 - 0.11916*T - 0.00073120*T2 + 6.4189*P - 0.52490*P2
		c33    = 147.607 - 0.31129*T - 0.0018948*T2 + 4.7546*P - 0.11307*P2
		c44    = 29.7260 - 0.062874*T - 0.00038956*T2 + 0.5662*P + 0.036917*P2
	)
	C = mat.NewSymDense(6, []float64{
		c11, c12, c13, 0, 0, 0,
		c12, c11, c13, 0, 0, 0,
		c13, c13, c33, 0, 0, 0,
		0, 0, 0, c44, 0, 0,
		0, 0, 0, 0, c44, 0,
		0, 0, 0, 0, 0, (c11 - c12) / 2,
	})
	C.ScaleSym(1e8, C)
	return
}

// IceDensity uses the Gammon polynomial for method "gammon", linear expansion otherwise.
func IceDensity(T float64, method string) float64 {
	const (
		rho0  = 917.
		alpha = 51.0e-6
	)
	if method == "gammon" {
		return rho0 / (1 + 1.576e-4*T - 2.778e-7*T*T + 8.850e-9*T*T*T - 1.778e-10*T*T*T*T)
	}
	return rho0 * (1 - alpha*T)
}

// RhoWaterCorrection is the Kell equation for water density at T in C.
func RhoWaterCorrection(T float64) float64 {
	var (
		T2, T3 = T * T, T * T * T
	)
	return (999.83952 + 16.945176*T - 7.9870401e-3*T2 - 46.170461e-6*T3 +
		105.56302e-9*T2*T2 - 280.54253e-12*T3*T2) / (1 + 16.897850e-3*T)
}

// PorewaterCorrection mixes air and water into the pore space, porosity and lwc in percent.
func PorewaterCorrection(T, density, porosity, lwc float64) (rho, gramsAir, gramsWater float64) {
	var (
		rhoAir   = 0.02897 / (8.2057338e-5 * (273 + T))
		rhoWater = math.Min(math.Max(RhoWaterCorrection(T), 950), RhoWaterCorrection(0))
	)
	gramsAir = (1 - lwc/100) * rhoAir
	gramsWater = (lwc / 100) * rhoWater
	rho = (1-porosity/100)*density + (porosity/100)*(gramsAir+gramsWater)
	return
}

// RotatorZXZ builds the Bunge z-x-z rotation from three Euler angles in radians.
func RotatorZXZ(e [3]float64) (R *mat.Dense) {
	var (
		rotZ = func(t float64) *mat.Dense {
			return mat.NewDense(3, 3, []float64{
				math.Cos(t), -math.Sin(t), 0,
				math.Sin(t), math.Cos(t), 0,
				0, 0, 1,
			})
		}
		rotX = mat.NewDense(3, 3, []float64{
			1, 0, 0,
			0, math.Cos(e[1]), -math.Sin(e[1]),
			0, math.Sin(e[1]), math.Cos(e[1]),
		})
	)
	R = mat.NewDense(3, 3, nil)
	R.Product(rotZ(e[0]), rotX, rotZ(e[2]))
	return
}

// Bond is the 6x6 Voigt transformation matching the 3x3 rotation R.
func Bond(R mat.Matrix) (M *mat.Dense) {
	var (
		r = func(i, j int) float64 { return R.At(i, j) }
		// shear rows pair (1,2), (2,0), (0,1)
		pair = [3][2]int{{1, 2}, {2, 0}, {0, 1}}
	)
	M = mat.NewDense(6, 6, nil)
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			p, q := pair[b][0], pair[b][1]
			M.Set(a, b, r(a, b)*r(a, b))
			M.Set(a, b+3, 2*r(a, p)*r(a, q))
		}
	}
	for s := 0; s < 3; s++ {
		m, n := pair[s][0], pair[s][1]
		for b := 0; b < 3; b++ {
			p, q := pair[b][0], pair[b][1]
			M.Set(s+3, b, r(m, b)*r(n, b))
			M.Set(s+3, b+3, r(m, p)*r(n, q)+r(m, q)*r(n, p))
		}
	}
	return
}

// symmetrize returns the symmetric part of the square matrix A.
func symmetrize(A mat.Matrix) (S *mat.SymDense) {
	n, _ := A.Dims()
	S = mat.NewSymDense(n, nil)
	for a := 0; a < n; a++ {
		for b := a; b < n; b++ {
			S.SetSym(a, b, 0.5*(A.At(a, b)+A.At(b, a)))
		}
	}
	return
}

/*
FabricAverage rotates C into every orientation and returns the Hill mean of
the Voigt (stiffness) and Reuss (compliance) averages.
*/
func FabricAverage(C mat.Symmetric, euler [][3]float64) (H *mat.SymDense, err error) {
	if len(euler) == 0 {
		err = fmt.Errorf("%w: fabric average needs at least one orientation", types.ErrConfiguration)
		return
	}
	var (
		S, N, tmp, rotated, hill mat.Dense
	)
	var (
		voigt = mat.NewDense(6, 6, nil)
		reuss = mat.NewDense(6, 6, nil)
		np    = float64(len(euler))
	)
	if err = S.Inverse(C); err != nil {
		err = fmt.Errorf("%w: stiffness tensor is singular: %v", types.ErrConfiguration, err)
		return
	}
	for _, e := range euler {
		M := Bond(RotatorZXZ(e))
		if err = N.Inverse(M); err != nil {
			return
		}
		tmp.Mul(C, M.T())
		rotated.Mul(M, &tmp)
		voigt.Add(voigt, &rotated)
		tmp.Mul(&S, N.T())
		rotated.Mul(&N, &tmp)
		reuss.Add(reuss, &rotated)
	}
	voigt.Scale(1/np, voigt)
	reuss.Scale(1/np, reuss)
	if err = tmp.Inverse(reuss); err != nil {
		err = fmt.Errorf("%w: averaged compliance is singular: %v", types.ErrConfiguration, err)
		return
	}
	hill.Add(voigt, &tmp)
	hill.Scale(0.5, &hill)
	H = symmetrize(&hill)
	return
}

func IsPositiveDefinite(C mat.Symmetric) bool {
	var (
		es mat.EigenSym
	)
	if !es.Factorize(C, false) {
		return false
	}
	for _, ev := range es.Values(nil) {
		if ev <= 0 {
			return false
		}
	}
	return true
}

/*
HighFrequencyStability evaluates the Becache (2003) conditions on the x-z
plane coefficients. A positive value flags a mode that grows inside the
absorbing layer, ok is true when all three are non positive.
*/
func HighFrequencyStability(C mat.Matrix) (cond [3]float64, ok bool) {
	var (
		c11, c13 = C.At(0, 0), C.At(0, 2)
		c33, c55 = C.At(2, 2), C.At(4, 4)
		s        = c13 + c55
	)
	cond[0] = (s*s - c11*(c33-c55)) * (s*s + c55*(c33-c55))
	cond[1] = (c13+2*c55)*(c13+2*c55) - c11*c33
	cond[2] = s*s - c11*c55 - c55*c55
	ok = cond[0] <= 0 && cond[1] <= 0 && cond[2] <= 0
	return
}

// Velocities returns the vertical and horizontal P and S speeds for C and rho.
func Velocities(C mat.Matrix, rho float64) (vpv, vph, vsv, vsh float64) {
	vpv = math.Sqrt(C.At(2, 2) / rho)
	vph = math.Sqrt(C.At(0, 0) / rho)
	vsv = math.Sqrt(C.At(3, 3) / rho)
	vsh = math.Sqrt((C.At(0, 0) - C.At(0, 1)) / (2 * rho))
	return
}
