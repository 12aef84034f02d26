package materials

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/seisfdtd/types"
	"github.com/notargets/seisfdtd/utils"
)

func twoMaterials() Lookup {
	var a, b Record
	for k := range a {
		a[k] = float64(k + 1)
		b[k] = float64(100 * (k + 1))
	}
	return Lookup{a, b}
}

func TestBuildPaddedFields(t *testing.T) {
	var (
		lu = twoMaterials()
		// nx = 3, nz = 4
		ids = [][]int{
			{0, 0, 1, 1},
			{0, 1, 1, 0},
			{1, 1, 0, 0},
		}
		nx, nz, p = 3, 4, 2
	)
	{ // Interior copy and edge replication
		f, err := BuildPaddedFields(ids, lu, p, utils.Matrix{})
		require.NoError(t, err)
		NX, NZ := f.Dims()
		assert.Equal(t, nx+2*p, NX)
		assert.Equal(t, nz+2*p, NZ)
		for i := 0; i < nx; i++ {
			for j := 0; j < nz; j++ {
				r := lu[ids[i][j]]
				assert.Equal(t, r.C11(), f.C11.At(i+p, j+p))
				assert.Equal(t, r.C13(), f.C13.At(i+p, j+p))
				assert.Equal(t, r.C15(), f.C15.At(i+p, j+p))
				assert.Equal(t, r.C33(), f.C33.At(i+p, j+p))
				assert.Equal(t, r.C35(), f.C35.At(i+p, j+p))
				assert.Equal(t, r.C55(), f.C55.At(i+p, j+p))
				assert.Equal(t, r.Rho(), f.Rho.At(i+p, j+p))
			}
		}
		for _, ch := range types.MaterialChannels {
			A := *f.Field(ch)
			for i := 0; i < NX; i++ {
				for j := 0; j < NZ; j++ {
					ic := int(math.Min(math.Max(float64(i), float64(p)), float64(nx+p-1)))
					jc := int(math.Min(math.Max(float64(j), float64(p)), float64(nz+p-1)))
					assert.Equal(t, A.At(ic, jc), A.At(i, j), "%s at (%d,%d)", ch, i, j)
				}
			}
		}
		// Corners carry the interior corner material
		assert.Equal(t, lu[0].C11(), f.C11.At(0, 0))
		assert.Equal(t, lu[1].C11(), f.C11.At(0, NZ-1))
		assert.Equal(t, lu[1].C11(), f.C11.At(NX-1, 0))
		assert.Equal(t, lu[0].C11(), f.C11.At(NX-1, NZ-1))
	}
	{ // Gradient scales density only, and the scaled value is replicated
		g := utils.NewMatrixConst(nx, nz, 1)
		g.Set(0, 0, 2.5)
		f, err := BuildPaddedFields(ids, lu, p, g)
		require.NoError(t, err)
		assert.Equal(t, 2.5*lu[0].Rho(), f.Rho.At(p, p))
		assert.Equal(t, 2.5*lu[0].Rho(), f.Rho.At(0, 0))
		assert.Equal(t, lu[0].C11(), f.C11.At(p, p))
		assert.Equal(t, lu[1].Rho(), f.Rho.At(p, p+2))
	}
	{ // Read only after freezing
		f, err := BuildPaddedFields(ids, lu, p, utils.Matrix{})
		require.NoError(t, err)
		f.SetReadOnly()
		assert.Panics(t, func() { f.C55.Set(0, 0, 1) })
		assert.Panics(t, func() { f.Rho.Scale(2) })
	}
	{ // Invalid input
		_, err := BuildPaddedFields([][]int{{0, 2}}, lu, p, utils.Matrix{})
		assert.True(t, errors.Is(err, types.ErrConfiguration))
		_, err = BuildPaddedFields([][]int{{0, 1}, {0}}, lu, p, utils.Matrix{})
		assert.True(t, errors.Is(err, types.ErrConfiguration))
		_, err = BuildPaddedFields(ids, lu, 0, utils.Matrix{})
		assert.True(t, errors.Is(err, types.ErrConfiguration))
		_, err = BuildPaddedFields(nil, lu, p, utils.Matrix{})
		assert.True(t, errors.Is(err, types.ErrConfiguration))
		_, err = BuildPaddedFields(ids, lu, p, utils.NewMatrix(nz, nx))
		assert.True(t, errors.Is(err, types.ErrConfiguration))
	}
}

func TestFieldsSaveLoad(t *testing.T) {
	var (
		dir = t.TempDir()
		ids = [][]int{{0, 1}, {1, 0}}
	)
	f, err := BuildPaddedFields(ids, twoMaterials(), 1, utils.Matrix{})
	require.NoError(t, err)
	require.NoError(t, f.Save(dir, false))
	for _, name := range []string{"c11.dat", "c13.dat", "c15.dat", "c33.dat", "c35.dat", "c55.dat", "rho.dat"} {
		_, err = os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
	g, err := types.NewGrid(2, 2, 1, 1, 1)
	require.NoError(t, err)
	h, err := LoadFields(dir, g)
	require.NoError(t, err)
	for _, ch := range types.MaterialChannels {
		assert.True(t, f.Field(ch).Equal(*h.Field(ch)), ch.String())
	}
	{ // Wrong grid
		_, err = LoadFields(dir, types.Grid{Nx: 3, Nz: 2, Pml: 1, Dx: 1, Dz: 1})
		assert.True(t, errors.Is(err, types.ErrIO))
	}
	{ // One missing file fails the whole load
		require.NoError(t, os.Remove(filepath.Join(dir, "c35.dat")))
		h, err = LoadFields(dir, g)
		assert.Error(t, err)
		assert.Nil(t, h)
	}
}

func TestRecordLayout(t *testing.T) {
	C := mat.NewSymDense(6, nil)
	for a := 0; a < 6; a++ {
		for b := a; b < 6; b++ {
			C.SetSym(a, b, float64(10*(a+1)+b+1))
		}
	}
	r := NewRecord(C, 917)
	assert.Equal(t, 11., r.C11())
	assert.Equal(t, 13., r.C13())
	assert.Equal(t, 15., r.C15())
	assert.Equal(t, 33., r.C33())
	assert.Equal(t, 35., r.C35())
	assert.Equal(t, 55., r.C55())
	assert.Equal(t, 66., r[20])
	assert.Equal(t, 917., r.Rho())
	assert.True(t, mat.Equal(C, r.Tensor()))
	_, err := Lookup{r}.Get(1)
	assert.True(t, errors.Is(err, types.ErrConfiguration))
}

func TestTensorPhysics(t *testing.T) {
	{ // Isotropic tensor reproduces its velocities
		var (
			rho, vp, vs = 2000., 2000., 1000.
			mu          = rho * vs * vs
			C           = LameStiffness(rho*vp*vp-2*mu, mu)
		)
		vpv, vph, vsv, vsh := Velocities(C, rho)
		assert.InDelta(t, vp, vpv, 1.e-9)
		assert.InDelta(t, vp, vph, 1.e-9)
		assert.InDelta(t, vs, vsv, 1.e-9)
		assert.InDelta(t, vs, vsh, 1.e-9)
		assert.True(t, IsPositiveDefinite(C))
		cond, _ := HighFrequencyStability(C)
		assert.Less(t, cond[0], 0.)
		assert.InDelta(t, 0., cond[1], 1.e-6*vp*vp*rho)
	}
	{ // Degenerate velocity limits select the exact values
		C := IsotropicStiffness(0.1, 1000, VelocityLimits{1500, 1500, 500, 500})
		vpv, _, vsv, _ := Velocities(C, 1000)
		assert.InDelta(t, 1500., vpv, 1.e-9)
		assert.InDelta(t, 500., vsv, 1.e-9)
	}
	{ // Bond of the identity rotation is the identity
		M := Bond(RotatorZXZ([3]float64{}))
		assert.True(t, mat.EqualApprox(M, eye(6), 1.e-14))
	}
	{ // Rotations are orthogonal
		R := RotatorZXZ([3]float64{0.3, 1.1, -0.7})
		var RRt mat.Dense
		RRt.Mul(R, R.T())
		assert.True(t, mat.EqualApprox(&RRt, eye(3), 1.e-14))
	}
	{ // A single identity orientation leaves the tensor unchanged
		C := IceStiffness(-10, 0)
		H, err := FabricAverage(C, [][3]float64{{0, 0, 0}})
		require.NoError(t, err)
		assert.True(t, mat.EqualApprox(C, H, 1.e-3))
	}
	{ // Any fabric of an isotropic tensor is the same tensor
		C := LameStiffness(4.e9, 3.e9)
		H, err := FabricAverage(C, [][3]float64{{0.1, 0.2, 0.3}, {1.3, 0.4, 2.9}, {3.0, 2.2, 0.5}})
		require.NoError(t, err)
		assert.True(t, mat.EqualApprox(C, H, 1.))
		_, err = FabricAverage(C, nil)
		assert.True(t, errors.Is(err, types.ErrConfiguration))
	}
	{ // Ice Ih
		C := IceStiffness(0, 0)
		assert.InDelta(t, 136.813e8, C.At(0, 0), 1)
		assert.InDelta(t, C.At(0, 0), C.At(1, 1), 1.e-6)
		assert.InDelta(t, (136.813-69.42)/2*1e8, C.At(5, 5), 1)
		assert.True(t, IsPositiveDefinite(C))
		assert.False(t, IsPositiveDefinite(LameStiffness(1, -1)))
		assert.InDelta(t, 917., IceDensity(0, ""), 1.e-12)
		assert.InDelta(t, 917., IceDensity(0, "gammon"), 1.e-12)
		assert.Greater(t, IceDensity(-20, ""), 917.)
	}
	{ // Water and porewater
		assert.InDelta(t, 999.84, RhoWaterCorrection(0), 0.01)
		assert.InDelta(t, 999.905, RhoWaterCorrection(4), 1e-3)
		rho, _, _ := PorewaterCorrection(0, 2000, 0, 50)
		assert.Equal(t, 2000., rho)
		rho, air, water := PorewaterCorrection(0, 2000, 100, 100)
		assert.InDelta(t, 0., air, 1.e-12)
		assert.InDelta(t, water, rho, 1.e-12)
	}
}

func eye(n int) *mat.Dense {
	I := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		I.Set(i, i, 1)
	}
	return I
}

func TestMaterialLookup(t *testing.T) {
	dir := t.TempDir()
	angFile := filepath.Join(dir, "fabric.ang")
	require.NoError(t, os.WriteFile(angFile, []byte("0 0 0\n"), 0644))
	mats := []Material{
		{ID: 2, Name: "granite", Density: 2700},
		{ID: 0, Name: "custom", Density: 1000, Vp: 1500, Vs: 0},
		{ID: 1, Name: "explicit", Density: 1500, Stiffness: make([]float64, 21)},
		{ID: 3, Name: "ice1h", Density: 917, Temperature: -10},
		{ID: 4, Name: "ice1h", Density: 917, Temperature: -10, AngleFile: angFile},
	}
	mats[2].Stiffness[OffC55] = 4.e9
	lu, err := NewLookup(mats, false)
	require.NoError(t, err)
	require.Len(t, lu, 5)
	{ // Explicit Vp only gives a fluid
		assert.Equal(t, 1000*1500*1500., lu[0].C11())
		assert.Equal(t, 1000*1500*1500., lu[0].C13())
		assert.Equal(t, 0., lu[0].C55())
		assert.Equal(t, 1000., lu[0].Rho())
	}
	{ // Explicit stiffness is taken as given
		assert.Equal(t, 4.e9, lu[1].C55())
		assert.Equal(t, 1500., lu[1].Rho())
	}
	{ // Built-in isotropic table, rounded entries
		C := IsotropicStiffness(isotropicPressure, 2700, IsotropicMaterials["granite"])
		assert.Equal(t, math.Round(C.At(0, 0)), lu[2].C11())
		assert.Equal(t, math.Round(C.At(4, 4)), lu[2].C55())
	}
	{ // Ice, with and without a fabric
		C := IceStiffness(-10, icePressure)
		assert.Equal(t, math.Round(C.At(2, 2)), lu[3].C33())
		F := IceStiffness(-10, fabricPressure)
		assert.InDelta(t, math.Round(F.At(0, 0)), lu[4].C11(), 1)
		assert.InDelta(t, math.Round(F.At(4, 4)), lu[4].C55(), 1)
	}
	{ // Invalid tables
		_, err = NewLookup([]Material{{ID: 0, Name: "granite", Density: 2700}, {ID: 2, Name: "salt", Density: 2100}}, false)
		assert.True(t, errors.Is(err, types.ErrConfiguration))
		_, err = NewLookup([]Material{{ID: 0, Name: "unobtainium", Density: 1}}, false)
		assert.True(t, errors.Is(err, types.ErrConfiguration))
		_, err = NewLookup([]Material{{ID: 0, Name: "x", Density: 1, Stiffness: []float64{1, 2}}}, false)
		assert.True(t, errors.Is(err, types.ErrConfiguration))
		_, err = NewLookup([]Material{{ID: 0, Name: "granite"}}, false)
		assert.True(t, errors.Is(err, types.ErrConfiguration))
		_, err = NewLookup(nil, false)
		assert.True(t, errors.Is(err, types.ErrConfiguration))
	}
}
