package InputParameters

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/notargets/seisfdtd/cpml"
	"github.com/notargets/seisfdtd/materials"
	"github.com/notargets/seisfdtd/readfiles"
	"github.com/notargets/seisfdtd/sources"
	"github.com/notargets/seisfdtd/types"
)

// Parameters obtained from the YAML model file
type InputParameters struct {
	Title     string               `json:"Title"`
	Dx        float64              `json:"Dx"`
	Dz        float64              `json:"Dz"`
	Pml       int                  `json:"Pml"`
	Image     string               `json:"Image"`              // PNG, one colour per material
	Gradient  string               `json:"Gradient,omitempty"` // density weights, nx by nz field file
	Materials []materials.Material `json:"Materials"`
	Source    SourceParameters     `json:"Source"`
	NStep     int                  `json:"NStep"`
	CPML      *CPMLParameters      `json:"CPML,omitempty"` // defaults follow the source frequency
	Output    OutputParameters     `json:"Output"`
	Receivers [][2]int             `json:"Receivers,omitempty"` // interior (x,z) cells
	baseDir   string
}

// Source position is in interior cells, the absorbing layer offset is added later.
type SourceParameters struct {
	X         int     `json:"X"`
	Z         int     `json:"Z"`
	Wavelet   string  `json:"Wavelet"`
	F0        float64 `json:"F0"`
	T0        float64 `json:"T0,omitempty"`
	Amplitude float64 `json:"Amplitude,omitempty"`
	Angle     float64 `json:"Angle"` // degrees from +x toward +z
}

type CPMLParameters struct {
	NPower   float64 `json:"NPower"`
	KMax     float64 `json:"KMax"`
	Rcoef    float64 `json:"Rcoef"`
	AlphaMax float64 `json:"AlphaMax"`
}

type OutputParameters struct {
	Dir              string `json:"Dir"`
	SnapshotInterval int    `json:"SnapshotInterval"` // binary snapshots, 0 disables
	ImageInterval    int    `json:"ImageInterval"`    // PNG heat maps, 0 disables
}

func (ip *InputParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

/*
ReadFile parses and validates a model file. Relative paths inside it (image,
gradient, fabric angle files) are taken relative to the model file.
*/
func ReadFile(path string) (ip *InputParameters, err error) {
	var (
		data []byte
	)
	if data, err = os.ReadFile(path); err != nil {
		err = fmt.Errorf("%w: %v", types.ErrIO, err)
		return
	}
	ip = &InputParameters{}
	if err = ip.Parse(data); err != nil {
		err = fmt.Errorf("%w: parsing %s: %v", types.ErrConfiguration, path, err)
		return
	}
	ip.baseDir = filepath.Dir(path)
	ip.Image = ip.Resolve(ip.Image)
	ip.Gradient = ip.Resolve(ip.Gradient)
	for k := range ip.Materials {
		ip.Materials[k].AngleFile = ip.Resolve(ip.Materials[k].AngleFile)
	}
	err = ip.Validate()
	return
}

// Resolve anchors a relative path at the model file's directory.
func (ip *InputParameters) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || ip.baseDir == "" {
		return path
	}
	return filepath.Join(ip.baseDir, path)
}

func (ip *InputParameters) Validate() (err error) {
	switch {
	case !(ip.Dx > 0) || !(ip.Dz > 0):
		err = fmt.Errorf("grid spacing must be positive, have dx = %g, dz = %g", ip.Dx, ip.Dz)
	case ip.Pml <= 0:
		err = fmt.Errorf("PML thickness must be positive, have %d", ip.Pml)
	case ip.Image == "":
		err = fmt.Errorf("no material image given")
	case len(ip.Materials) == 0:
		err = fmt.Errorf("no materials defined")
	case ip.NStep <= 0:
		err = fmt.Errorf("number of steps must be positive, have %d", ip.NStep)
	case !(ip.Source.F0 > 0):
		err = fmt.Errorf("source frequency must be positive, have %g", ip.Source.F0)
	case ip.Output.SnapshotInterval < 0 || ip.Output.ImageInterval < 0:
		err = fmt.Errorf("output intervals must be non negative, have %d, %d",
			ip.Output.SnapshotInterval, ip.Output.ImageInterval)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrConfiguration, err)
	}
	if _, err = ip.SourceParams(); err != nil {
		return
	}
	seen := make(map[string]int)
	for _, m := range ip.Materials {
		if m.RGB == "" {
			continue
		}
		if id, ok := seen[normalizeRGB(m.RGB)]; ok {
			return fmt.Errorf("%w: materials %d and %d share colour %s",
				types.ErrConfiguration, id, m.ID, m.RGB)
		}
		seen[normalizeRGB(m.RGB)] = m.ID
	}
	return ip.CPMLParams().Validate()
}

// Grid combines the image dimensions with the spacing and layer thickness.
func (ip *InputParameters) Grid(nx, nz int) (types.Grid, error) {
	return types.NewGrid(nx, nz, ip.Pml, ip.Dx, ip.Dz)
}

func (ip *InputParameters) SourceParams() (prm sources.Params, err error) {
	label := ip.Source.Wavelet
	if label == "" {
		label = "ricker"
	}
	if prm.Wavelet, err = sources.NewWaveletType(label); err != nil {
		return
	}
	prm.F0, prm.T0, prm.Angle = ip.Source.F0, ip.Source.T0, ip.Source.Angle
	prm.Amplitude = ip.Source.Amplitude
	if prm.Amplitude == 0 {
		prm.Amplitude = 1
	}
	return
}

// SourceCell is the source position on the padded grid. The model file gives
// it in interior cells, anything outside them is rejected.
func (ip *InputParameters) SourceCell(g types.Grid) (I, J int, err error) {
	if err = checkInterior(g, "source", ip.Source.X, ip.Source.Z); err != nil {
		return
	}
	I, J = g.Interior(ip.Source.X, ip.Source.Z)
	return
}

// ReceiverCells converts the receivers to padded grid coordinates.
func (ip *InputParameters) ReceiverCells(g types.Grid) (rc [][2]int, err error) {
	rc = make([][2]int, len(ip.Receivers))
	for n, r := range ip.Receivers {
		if err = checkInterior(g, fmt.Sprintf("receiver %d", n), r[0], r[1]); err != nil {
			return nil, err
		}
		rc[n][0], rc[n][1] = g.Interior(r[0], r[1])
	}
	return
}

func checkInterior(g types.Grid, what string, x, z int) error {
	if x < 0 || x >= g.Nx || z < 0 || z >= g.Nz {
		return fmt.Errorf("%w: %s at (%d,%d) is outside the %d x %d model",
			types.ErrConfiguration, what, x, z, g.Nx, g.Nz)
	}
	return nil
}

func (ip *InputParameters) CPMLParams() (prm cpml.Params) {
	prm = cpml.DefaultParams(ip.Source.F0)
	if c := ip.CPML; c != nil {
		prm = cpml.Params{NPower: c.NPower, KMax: c.KMax, Rcoef: c.Rcoef, AlphaMax: c.AlphaMax}
	}
	return
}

/*
MaterialIDs maps image colour indices to material IDs. Materials naming an RGB
colour are matched to it, otherwise colour n is material n.
*/
func (ip *InputParameters) MaterialIDs(colors []readfiles.RGB) (remap []int, err error) {
	var (
		byColor = make(map[string]int)
	)
	for _, m := range ip.Materials {
		if m.RGB != "" {
			byColor[normalizeRGB(m.RGB)] = m.ID
		}
	}
	remap = make([]int, len(colors))
	for n, c := range colors {
		if len(byColor) == 0 {
			remap[n] = n
			continue
		}
		id, ok := byColor[c.String()]
		if !ok {
			err = fmt.Errorf("%w: image colour %s has no material", types.ErrConfiguration, c)
			return
		}
		remap[n] = id
	}
	return
}

func normalizeRGB(s string) string {
	var (
		r, g, b int
	)
	s = strings.NewReplacer(",", "/", " ", "").Replace(s)
	if _, err := fmt.Sscanf(s, "%d/%d/%d", &r, &g, &b); err != nil {
		return s
	}
	return fmt.Sprintf("%d/%d/%d", r, g, b)
}

func (ip *InputParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("%g, %g\t\t= Dx, Dz\n", ip.Dx, ip.Dz)
	fmt.Printf("[%d]\t\t\t= PML thickness\n", ip.Pml)
	fmt.Printf("[%s]\t= Material image\n", ip.Image)
	if ip.Gradient != "" {
		fmt.Printf("[%s]\t= Density gradient\n", ip.Gradient)
	}
	fmt.Printf("[%d]\t\t\t= Number of steps\n", ip.NStep)
	s := ip.Source
	fmt.Printf("Source %s at (%d,%d), f0 = %g Hz, angle = %g deg\n", s.Wavelet, s.X, s.Z, s.F0, s.Angle)
	for _, m := range ip.Materials {
		fmt.Printf("Material[%d] = %s, T = %g C, rho = %g kg/m3\n", m.ID, m.Name, m.Temperature, m.Density)
	}
	if len(ip.Receivers) != 0 {
		fmt.Printf("Receivers = %v\n", ip.Receivers)
	}
}
