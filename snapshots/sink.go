package snapshots

import (
	"errors"
	"fmt"

	"github.com/notargets/seisfdtd/types"
	"github.com/notargets/seisfdtd/utils"
)

// Sink receives one field per channel and step. The field is only valid for
// the duration of the call, implementations that keep it must copy.
type Sink interface {
	Snapshot(ch types.Channel, step int, field utils.Matrix) error
}

// SinkFunc adapts a plain function to a Sink.
type SinkFunc func(ch types.Channel, step int, field utils.Matrix) error

func (f SinkFunc) Snapshot(ch types.Channel, step int, field utils.Matrix) error {
	return f(ch, step, field)
}

// Discard drops every snapshot.
var Discard Sink = SinkFunc(func(types.Channel, int, utils.Matrix) error { return nil })

/*
FanOut hands each snapshot to every sink in order. All sinks are called even
when one fails, the returned error joins the failures.
*/
type FanOut []Sink

func (fo FanOut) Snapshot(ch types.Channel, step int, field utils.Matrix) (err error) {
	var errs []error
	for _, s := range fo {
		if s == nil {
			continue
		}
		if e := s.Snapshot(ch, step, field); e != nil {
			errs = append(errs, e)
		}
	}
	return errors.Join(errs...)
}

// Decimate forwards only the steps that are multiples of Interval.
type Decimate struct {
	Interval int
	Next     Sink
}

func NewDecimate(interval int, next Sink) (d *Decimate, err error) {
	if interval < 1 {
		err = fmt.Errorf("%w: snapshot interval must be at least 1, have %d",
			types.ErrConfiguration, interval)
		return
	}
	d = &Decimate{Interval: interval, Next: next}
	return
}

func (d *Decimate) Snapshot(ch types.Channel, step int, field utils.Matrix) error {
	if step%d.Interval != 0 {
		return nil
	}
	return d.Next.Snapshot(ch, step, field)
}

// Select forwards only the listed channels.
type Select struct {
	Channels []types.Channel
	Next     Sink
}

func (s Select) Snapshot(ch types.Channel, step int, field utils.Matrix) error {
	for _, c := range s.Channels {
		if c == ch {
			return s.Next.Snapshot(ch, step, field)
		}
	}
	return nil
}
