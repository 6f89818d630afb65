// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"github.com/db47h/tpusim"
)

// Adder registers an N-bits adder with carry out. carry may be nil.
//
//	Inputs: a, b
//	Outputs: sum, carry
//	Function: sum = lsb(a + b)
//	          carry = msb(a + b)
//
func Adder(s *tpusim.Scheduler, name string, a, b, sum, carry *tpusim.Signal) error {
	if err := sameWidth(name, a, b, sum); err != nil {
		return err
	}
	w := sum.Width()
	s.Combinational(name, func() error {
		va, vb := a.Read(), b.Read()
		r := va + vb
		if carry != nil {
			var c uint64
			if w == tpusim.MaxWidth {
				if r < va {
					c = 1
				}
			} else {
				c = r >> w & 1
			}
			carry.Write(c)
		}
		sum.Write(r & sum.Mask())
		return nil
	}, a, b)
	return nil
}

// Inc registers an incrementer.
//
//	Inputs: in
//	Outputs: out
//	Function: out = lsb(in + 1)
//
func Inc(s *tpusim.Scheduler, name string, in, out *tpusim.Signal) error {
	if err := sameWidth(name, in, out); err != nil {
		return err
	}
	s.Combinational(name, func() error {
		out.Write((in.Read() + 1) & out.Mask())
		return nil
	}, in)
	return nil
}
