// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"github.com/db47h/tpusim"
	"github.com/pkg/errors"
)

// Mux registers a multiplexer.
//
//	Inputs: a, b, sel
//	Outputs: out
//	Function: if sel == 0 { out = a } else { out = b }
//
func Mux(s *tpusim.Scheduler, name string, a, b, sel, out *tpusim.Signal) error {
	if err := sameWidth(name, a, b, out); err != nil {
		return err
	}
	if sel == nil {
		return errors.Errorf("%s: sel not connected", name)
	}
	s.Combinational(name, func() error {
		if sel.Bool() {
			out.Write(b.Read())
		} else {
			out.Write(a.Read())
		}
		return nil
	}, a, b, sel)
	return nil
}

// DMux registers a demultiplexer.
//
//	Inputs: in, sel
//	Outputs: a, b
//	Function: if sel == 0 { a = in; b = 0 } else { a = 0; b = in }
//
func DMux(s *tpusim.Scheduler, name string, in, sel, a, b *tpusim.Signal) error {
	if err := sameWidth(name, in, a, b); err != nil {
		return err
	}
	if sel == nil {
		return errors.Errorf("%s: sel not connected", name)
	}
	s.Combinational(name, func() error {
		if sel.Bool() {
			a.Write(0)
			b.Write(in.Read())
		} else {
			a.Write(in.Read())
			b.Write(0)
		}
		return nil
	}, in, sel)
	return nil
}
