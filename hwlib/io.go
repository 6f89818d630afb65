// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"github.com/db47h/tpusim"
	"github.com/pkg/errors"
)

// Clock registers a clock generator toggling clk every halfPeriod time
// units. The first transition, a rising edge if clk is 0, happens at
// now+halfPeriod.
//
func Clock(s *tpusim.Scheduler, clk *tpusim.Signal, halfPeriod uint64) error {
	if clk == nil {
		return errors.New("clock: signal not connected")
	}
	if halfPeriod == 0 {
		return errors.Errorf("clock %s: zero half period", clk.Name())
	}
	var toggle func()
	toggle = func() {
		clk.Write(clk.Read() ^ 1)
		s.After(halfPeriod, toggle)
	}
	s.After(halfPeriod, toggle)
	return nil
}

// A Step is a stimulus value applied at an absolute time.
//
type Step struct {
	At    uint64
	Value uint64
}

// Stimulus schedules writes of the given values to sig. Steps must not be in
// the past.
//
func Stimulus(s *tpusim.Scheduler, sig *tpusim.Signal, steps ...Step) error {
	if sig == nil {
		return errors.New("stimulus: signal not connected")
	}
	now := s.Now()
	for _, st := range steps {
		if st.At < now {
			return errors.Errorf("stimulus %s: step at t=%d is in the past (t=%d)", sig.Name(), st.At, now)
		}
	}
	for _, st := range steps {
		s.WriteAfter(sig, st.Value, st.At-now)
	}
	return nil
}

// Probe registers an output or probe. The fn function is called with the
// current time and the committed values of sigs, in order, at Init and
// whenever any of them changes.
//
func Probe(s *tpusim.Scheduler, name string, fn func(t uint64, v []uint64), sigs ...*tpusim.Signal) error {
	if err := connected(name, sigs...); err != nil {
		return err
	}
	if fn == nil {
		return errors.Errorf("%s: nil probe function", name)
	}
	vs := make([]uint64, len(sigs))
	s.Combinational(name, func() error {
		for i, sig := range sigs {
			vs[i] = sig.Read()
		}
		fn(s.Now(), vs)
		return nil
	}, sigs...)
	return nil
}
