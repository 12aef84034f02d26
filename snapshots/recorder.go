package snapshots

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/notargets/seisfdtd/readfiles"
	"github.com/notargets/seisfdtd/types"
	"github.com/notargets/seisfdtd/utils"
)

type Frame struct {
	Channel types.Channel
	Step    int
	Field   utils.Matrix
}

// Recorder keeps a copy of every snapshot in memory.
type Recorder struct {
	mu     sync.Mutex
	Frames []Frame
}

func (r *Recorder) Snapshot(ch types.Channel, step int, field utils.Matrix) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Frames = append(r.Frames, Frame{Channel: ch, Step: step, Field: field.Copy()})
	return nil
}

// Last returns the most recent frame of channel ch.
func (r *Recorder) Last(ch types.Channel) (f Frame, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k := len(r.Frames) - 1; k >= 0; k-- {
		if r.Frames[k].Channel == ch {
			return r.Frames[k], true
		}
	}
	return
}

/*
Trace samples the snapshot fields at a set of receiver cells, building one
time series per receiver and channel. Samples are appended in step order, so
Trace must see every step it is meant to record.
*/
type Trace struct {
	Receivers [][2]int
	mu        sync.Mutex
	series    map[types.Channel][][]float64
}

func NewTrace(g types.Grid, receivers ...[2]int) (tr *Trace, err error) {
	for _, rc := range receivers {
		if rc[0] < 0 || rc[0] >= g.NX() || rc[1] < 0 || rc[1] >= g.NZ() {
			err = fmt.Errorf("%w: receiver (%d,%d) outside the padded grid %d x %d",
				types.ErrConfiguration, rc[0], rc[1], g.NX(), g.NZ())
			return
		}
	}
	tr = &Trace{
		Receivers: receivers,
		series:    make(map[types.Channel][][]float64),
	}
	return
}

func (tr *Trace) Snapshot(ch types.Channel, _ int, field utils.Matrix) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	s, ok := tr.series[ch]
	if !ok {
		s = make([][]float64, len(tr.Receivers))
	}
	for n, rc := range tr.Receivers {
		s[n] = append(s[n], field.At(rc[0], rc[1]))
	}
	tr.series[ch] = s
	return nil
}

// Series returns the samples of receiver n for channel ch.
func (tr *Trace) Series(ch types.Channel, n int) []float64 {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if s, ok := tr.series[ch]; ok && n < len(s) {
		return s[n]
	}
	return nil
}

// Save writes each receiver series as <channel>_rec<n>.dat.
func (tr *Trace) Save(dir string, verbose bool) (err error) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	for ch, s := range tr.series {
		for n := range s {
			path := filepath.Join(dir, fmt.Sprintf("%s_rec%03d.dat", ch, n))
			if err = readfiles.WriteSeries(path, s[n]); err != nil {
				return
			}
			if verbose {
				fmt.Printf("wrote %s, %d samples\n", path, len(s[n]))
			}
		}
	}
	return
}
