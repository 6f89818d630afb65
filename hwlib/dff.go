// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import "github.com/db47h/tpusim"

// DFF registers a data flip flop triggered on the rising edge of clk.
//
//	Inputs: in, clk
//	Outputs: out
//	Function: out(t) = in(t-1) // where t is the current clock cycle.
//
func DFF(s *tpusim.Scheduler, name string, clk, in, out *tpusim.Signal) error {
	if err := sameWidth(name, in, out); err != nil {
		return err
	}
	if err := connected(name, clk); err != nil {
		return err
	}
	s.Clocked(name, clk, tpusim.Rising, func() error {
		out.Write(in.Read())
		return nil
	})
	return nil
}

// Register registers a DFF with a load enable.
//
//	Inputs: in, load, clk
//	Outputs: out
//	Function: if load(t-1) { out(t) = in(t-1) } else { out(t) = out(t-1) }
//
func Register(s *tpusim.Scheduler, name string, clk, in, load, out *tpusim.Signal) error {
	if err := sameWidth(name, in, out); err != nil {
		return err
	}
	if err := connected(name, clk, load); err != nil {
		return err
	}
	s.Clocked(name, clk, tpusim.Rising, func() error {
		if load.Bool() {
			out.Write(in.Read())
		}
		return nil
	})
	return nil
}
