/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/notargets/seisfdtd/InputParameters"
	"github.com/notargets/seisfdtd/cpml"
	"github.com/notargets/seisfdtd/materials"
	"github.com/notargets/seisfdtd/model_problems/Elastic2D"
	"github.com/notargets/seisfdtd/readfiles"
	"github.com/notargets/seisfdtd/snapshots"
	"github.com/notargets/seisfdtd/sources"
	"github.com/notargets/seisfdtd/types"
	"github.com/notargets/seisfdtd/utils"
)

// Output layout below the run directory
const (
	FieldsDir   = "fields"
	CPMLDir     = "cpml"
	SourceDir   = "source"
	SnapshotDir = "snapshots"
	ImageDir    = "images"
	TraceDir    = "traces"
)

/*
Pipeline carries a model from its YAML description to a finished run. Each
stage either builds its product from the previous one or loads what an
earlier invocation saved under OutDir.
*/
type Pipeline struct {
	IP       *InputParameters.InputParameters
	OutDir   string
	Verbose  bool
	Grid     types.Grid
	Fields   *materials.Fields
	Profiles *cpml.Profiles
	Source   sources.Series
	DT       float64
}

func NewPipeline(ip *InputParameters.InputParameters, outDir string, verbose bool) *Pipeline {
	if outDir == "" {
		outDir = ip.Output.Dir
	}
	if outDir == "" {
		outDir = "output"
	}
	return &Pipeline{IP: ip, OutDir: outDir, Verbose: verbose}
}

func (pl *Pipeline) dir(sub string) (dir string, err error) {
	dir = filepath.Join(pl.OutDir, sub)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		err = fmt.Errorf("%w: %v", types.ErrIO, err)
	}
	return
}

// BuildFields turns the material image into padded stiffness and density fields.
func (pl *Pipeline) BuildFields() (err error) {
	var (
		ids      [][]int
		colors   []readfiles.RGB
		remap    []int
		lu       materials.Lookup
		gradient utils.Matrix
	)
	if ids, colors, err = readfiles.ReadMaterialImage(pl.IP.Image, pl.Verbose); err != nil {
		return
	}
	if remap, err = pl.IP.MaterialIDs(colors); err != nil {
		return
	}
	for i := range ids {
		for j := range ids[i] {
			ids[i][j] = remap[ids[i][j]]
		}
	}
	if pl.Grid, err = pl.IP.Grid(len(ids), len(ids[0])); err != nil {
		return
	}
	if lu, err = materials.NewLookup(pl.IP.Materials, pl.Verbose); err != nil {
		return
	}
	if pl.Verbose {
		lu.Print()
	}
	if pl.IP.Gradient != "" {
		if gradient, err = readfiles.ReadField(pl.IP.Gradient, pl.Grid.Nx, pl.Grid.Nz); err != nil {
			return
		}
	}
	if pl.Fields, err = materials.BuildPaddedFields(ids, lu, pl.Grid.Pml, gradient); err != nil {
		return
	}
	pl.DT, err = Elastic2D.TimeStep(pl.Fields, pl.Grid)
	return
}

func (pl *Pipeline) SaveFields() (err error) {
	var dir string
	if dir, err = pl.dir(FieldsDir); err != nil {
		return
	}
	return pl.Fields.Save(dir, pl.Verbose)
}

// LoadFields reads saved fields, recovering the grid from the density file's shape.
func (pl *Pipeline) LoadFields() (err error) {
	var (
		dir = filepath.Join(pl.OutDir, FieldsDir)
		rho utils.Matrix
	)
	if rho, err = readfiles.ReadFieldAnyShape(filepath.Join(dir, types.Rho.String()+".dat")); err != nil {
		return
	}
	NX, NZ := rho.Dims()
	if pl.Grid, err = pl.IP.Grid(NX-2*pl.IP.Pml, NZ-2*pl.IP.Pml); err != nil {
		return
	}
	if pl.Fields, err = materials.LoadFields(dir, pl.Grid); err != nil {
		return
	}
	pl.DT, err = Elastic2D.TimeStep(pl.Fields, pl.Grid)
	return
}

func (pl *Pipeline) BuildProfiles() (err error) {
	pl.Profiles, err = cpml.Generate(pl.Grid, pl.IP.CPMLParams(), pl.Fields.MaxPVelocity(), pl.DT, pl.Verbose)
	return
}

func (pl *Pipeline) SaveProfiles() (err error) {
	var dir string
	if dir, err = pl.dir(CPMLDir); err != nil {
		return
	}
	return pl.Profiles.Save(dir, pl.Verbose)
}

func (pl *Pipeline) LoadProfiles() (err error) {
	pl.Profiles, err = cpml.Load(filepath.Join(pl.OutDir, CPMLDir), pl.Grid)
	return
}

func (pl *Pipeline) BuildSource() (err error) {
	var prm sources.Params
	if prm, err = pl.IP.SourceParams(); err != nil {
		return
	}
	var I, J int
	if I, J, err = pl.IP.SourceCell(pl.Grid); err != nil {
		return
	}
	if pl.Source, err = sources.Generate(prm, pl.IP.NStep, pl.DT, I, J); err != nil {
		return
	}
	return pl.Source.Validate(pl.Grid, pl.IP.NStep)
}

func (pl *Pipeline) SaveSource() (err error) {
	var dir string
	if dir, err = pl.dir(SourceDir); err != nil {
		return
	}
	return pl.Source.Save(dir, pl.Verbose)
}

func (pl *Pipeline) LoadSource() (err error) {
	var I, J int
	if I, J, err = pl.IP.SourceCell(pl.Grid); err != nil {
		return
	}
	pl.Source, err = sources.Load(filepath.Join(pl.OutDir, SourceDir), pl.IP.NStep, I, J)
	return
}

// Sinks assembles the snapshot outputs the model file asks for, nil when there are none.
func (pl *Pipeline) Sinks() (sink Elastic2D.SnapshotSink, trace *snapshots.Trace, err error) {
	var (
		fo  snapshots.FanOut
		dir string
		out = pl.IP.Output
	)
	if out.SnapshotInterval > 0 {
		var bw *snapshots.BinaryWriter
		if dir, err = pl.dir(SnapshotDir); err != nil {
			return
		}
		if bw, err = snapshots.NewBinaryWriter(dir, pl.Verbose); err != nil {
			return
		}
		fo = append(fo, &snapshots.Decimate{Interval: out.SnapshotInterval, Next: bw})
	}
	if out.ImageInterval > 0 {
		var hm *snapshots.HeatMap
		if dir, err = pl.dir(ImageDir); err != nil {
			return
		}
		if hm, err = snapshots.NewHeatMap(dir, pl.Grid, pl.Verbose); err != nil {
			return
		}
		fo = append(fo, &snapshots.Decimate{Interval: out.ImageInterval, Next: hm})
	}
	if len(pl.IP.Receivers) != 0 {
		var cells [][2]int
		if cells, err = pl.IP.ReceiverCells(pl.Grid); err != nil {
			return
		}
		if trace, err = snapshots.NewTrace(pl.Grid, cells...); err != nil {
			return
		}
		fo = append(fo, trace)
	}
	if len(fo) != 0 {
		sink = fo
	}
	return
}

// Run steps the solver, saving receiver traces even when the run stops early.
func (pl *Pipeline) Run(ctx context.Context, ProcLimit int) (res Elastic2D.Result, err error) {
	var (
		c     *Elastic2D.Elastic
		sink  Elastic2D.SnapshotSink
		trace *snapshots.Trace
	)
	if c, err = Elastic2D.NewElastic(pl.Grid, pl.Fields, pl.Profiles, pl.Source,
		pl.IP.NStep, ProcLimit, pl.Verbose); err != nil {
		return
	}
	if sink, trace, err = pl.Sinks(); err != nil {
		return
	}
	res, err = c.Solve(ctx, sink)
	if trace != nil {
		dir, terr := pl.dir(TraceDir)
		if terr == nil {
			terr = trace.Save(dir, pl.Verbose)
		}
		if err == nil {
			err = terr
		}
	}
	return
}
