package snapshots

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/notargets/seisfdtd/types"
	"github.com/notargets/seisfdtd/utils"
)

// fieldGrid exposes a padded field as plotter.GridXYZ, columns along x and
// rows along z, in metres.
type fieldGrid struct {
	field  utils.Matrix
	dx, dz float64
}

func (fg fieldGrid) Dims() (c, r int)   { return fg.field.Dims() }
func (fg fieldGrid) Z(c, r int) float64 { return fg.field.At(c, r) }
func (fg fieldGrid) X(c int) float64    { return float64(c) * fg.dx }
func (fg fieldGrid) Y(r int) float64    { return float64(r) * fg.dz }

/*
HeatMap renders snapshots as PNG images. The colour scale is symmetric about
zero, so the sign of the velocity reads directly off the diverging palette.
A blank field is drawn against a unit scale.
*/
type HeatMap struct {
	Dir           string
	Grid          types.Grid
	Width, Height vg.Length
	DPI           int
	Palette       palette.Palette
	Verbose       bool
}

func NewHeatMap(dir string, g types.Grid, verbose bool) (hm *HeatMap, err error) {
	if err = os.MkdirAll(dir, 0o755); err != nil {
		err = fmt.Errorf("%w: %v", types.ErrIO, err)
		return
	}
	hm = &HeatMap{
		Dir:     dir,
		Grid:    g,
		Width:   6 * vg.Inch,
		Height:  6 * vg.Inch,
		DPI:     100,
		Palette: moreland.SmoothBlueRed().Palette(255),
		Verbose: verbose,
	}
	return
}

func (hm *HeatMap) Plot(ch types.Channel, step int, field utils.Matrix) (p *plot.Plot) {
	var (
		fg   = fieldGrid{field: field, dx: hm.Grid.Dx, dz: hm.Grid.Dz}
		vmax = field.MaxAbs()
	)
	if vmax == 0 {
		vmax = 1
	}
	p = plot.New()
	p.Title.Text = fmt.Sprintf("%s, step %d, |max| = %.3g", ch, step, field.MaxAbs())
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "z (m)"
	h := plotter.NewHeatMap(fg, hm.Palette)
	h.Min, h.Max = -vmax, vmax
	p.Add(h)
	return
}

func (hm *HeatMap) Snapshot(ch types.Channel, step int, field utils.Matrix) (err error) {
	var (
		path = filepath.Join(hm.Dir, FileName(ch, step, "png"))
		c    = vgimg.NewWith(vgimg.UseWH(hm.Width, hm.Height), vgimg.UseDPI(hm.DPI))
		file *os.File
	)
	hm.Plot(ch, step, field).Draw(draw.New(c))
	if file, err = os.Create(path); err != nil {
		return fmt.Errorf("%w: %v", types.ErrIO, err)
	}
	bw := bufio.NewWriter(file)
	if _, err = (vgimg.PngCanvas{Canvas: c}).WriteTo(bw); err == nil {
		err = bw.Flush()
	}
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("%w: writing %s: %v", types.ErrIO, path, err)
	}
	if hm.Verbose {
		fmt.Printf("rendered %s\n", path)
	}
	return
}
