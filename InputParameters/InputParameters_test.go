package InputParameters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/seisfdtd/materials"
	"github.com/notargets/seisfdtd/readfiles"
	"github.com/notargets/seisfdtd/sources"
	"github.com/notargets/seisfdtd/types"
)

var modelYAML = `
Title: "Ice over bedrock"
Dx: 1.0
Dz: 0.5
Pml: 10
Image: model.png
Materials:
  - ID: 0
    Name: ice1h
    RGB: "255/255/255"
    Temperature: -10
    Density: 917
    AngleFile: fabric.ang
  - ID: 1
    Name: granite
    RGB: "0, 0, 0"
    Density: 2700
Source:
  X: 20
  Z: 5
  Wavelet: gaus1
  F0: 250
  Angle: 90
NStep: 1500
Output:
  Dir: out
  SnapshotInterval: 10
  ImageInterval: 100
Receivers:
  - [10, 0]
  - [30, 0]
`

func TestInputParameters(t *testing.T) {
	var (
		dir  = t.TempDir()
		path = filepath.Join(dir, "model.yaml")
	)
	require.NoError(t, os.WriteFile(path, []byte(modelYAML), 0o644))
	ip, err := ReadFile(path)
	require.NoError(t, err)
	{ // Values and relative paths
		assert.Equal(t, "Ice over bedrock", ip.Title)
		assert.Equal(t, 0.5, ip.Dz)
		assert.Equal(t, 1500, ip.NStep)
		assert.Equal(t, filepath.Join(dir, "model.png"), ip.Image)
		assert.Equal(t, filepath.Join(dir, "fabric.ang"), ip.Materials[0].AngleFile)
		assert.Equal(t, "", ip.Materials[1].AngleFile)
		assert.Equal(t, [][2]int{{10, 0}, {30, 0}}, ip.Receivers)
		assert.Equal(t, 100, ip.Output.ImageInterval)
	}
	{ // Derived solver inputs
		g, err := ip.Grid(40, 20)
		require.NoError(t, err)
		I, J, err := ip.SourceCell(g)
		require.NoError(t, err)
		assert.Equal(t, []int{30, 15}, []int{I, J})
		rc, err := ip.ReceiverCells(g)
		require.NoError(t, err)
		assert.Equal(t, [][2]int{{20, 10}, {40, 10}}, rc)

		prm, err := ip.SourceParams()
		require.NoError(t, err)
		assert.Equal(t, sources.GaussianDerivative, prm.Wavelet)
		assert.Equal(t, 1., prm.Amplitude)

		c := ip.CPMLParams()
		assert.InDelta(t, 250*3.141592653589793, c.AlphaMax, 1e-9)
		assert.Equal(t, 2., c.NPower)
	}
	{ // Colours map to material ids regardless of spelling
		remap, err := ip.MaterialIDs([]readfiles.RGB{{0, 0, 0}, {255, 255, 255}})
		require.NoError(t, err)
		assert.Equal(t, []int{1, 0}, remap)
		_, err = ip.MaterialIDs([]readfiles.RGB{{1, 2, 3}})
		assert.ErrorIs(t, err, types.ErrConfiguration)
	}
	{ // Without colours, image colour n is material n
		ip2 := &InputParameters{Materials: []materials.Material{{ID: 0, Name: "granite"}}}
		remap, err := ip2.MaterialIDs(make([]readfiles.RGB, 3))
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1, 2}, remap)
	}
}

func TestInputValidation(t *testing.T) {
	valid := func() *InputParameters {
		ip := &InputParameters{}
		require.NoError(t, ip.Parse([]byte(modelYAML)))
		require.NoError(t, ip.Validate())
		return ip
	}
	for _, mod := range []func(ip *InputParameters){
		func(ip *InputParameters) { ip.Dx = 0 },
		func(ip *InputParameters) { ip.Pml = 0 },
		func(ip *InputParameters) { ip.Image = "" },
		func(ip *InputParameters) { ip.Materials = nil },
		func(ip *InputParameters) { ip.NStep = 0 },
		func(ip *InputParameters) { ip.Source.F0 = 0 },
		func(ip *InputParameters) { ip.Source.Wavelet = "boxcar" },
		func(ip *InputParameters) { ip.Output.ImageInterval = -1 },
		func(ip *InputParameters) { ip.Materials[1].RGB = "255,255,255" },
		func(ip *InputParameters) { ip.CPML = &CPMLParameters{NPower: 2, KMax: 1, Rcoef: 2} },
	} {
		ip := valid()
		mod(ip)
		assert.ErrorIs(t, ip.Validate(), types.ErrConfiguration)
	}
	{ // Unparseable YAML
		dir := t.TempDir()
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("Dx: [1, 2"), 0o644))
		_, err := ReadFile(path)
		assert.ErrorIs(t, err, types.ErrConfiguration)
		_, err = ReadFile(filepath.Join(dir, "missing.yaml"))
		assert.ErrorIs(t, err, types.ErrIO)
	}
}

func TestCellBounds(t *testing.T) {
	ip := &InputParameters{}
	require.NoError(t, ip.Parse([]byte(modelYAML)))
	g, err := ip.Grid(40, 20)
	require.NoError(t, err)
	{ // Interior corners are accepted
		for _, xz := range [][2]int{{0, 0}, {39, 19}} {
			ip.Source.X, ip.Source.Z = xz[0], xz[1]
			I, J, err := ip.SourceCell(g)
			require.NoError(t, err)
			assert.Equal(t, []int{xz[0] + 10, xz[1] + 10}, []int{I, J})
		}
	}
	{ // Positions in the absorbing layer or off the grid are rejected
		for _, xz := range [][2]int{{-1, 5}, {-5, 5}, {40, 5}, {20, 20}, {20, -3}, {500, 500}} {
			ip.Source.X, ip.Source.Z = xz[0], xz[1]
			_, _, err := ip.SourceCell(g)
			assert.ErrorIs(t, err, types.ErrConfiguration, "source at %v", xz)

			ip.Receivers = [][2]int{{10, 0}, xz}
			rc, err := ip.ReceiverCells(g)
			assert.ErrorIs(t, err, types.ErrConfiguration, "receiver at %v", xz)
			assert.Nil(t, rc)
		}
	}
}
