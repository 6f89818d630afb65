// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwlib provides a library of reusable parts for tpusim: bitwise
// gates, muxers, flip-flops, adders, memories, an ALU, and stimulus
// generators.
//
// All parts are built by registering processes with a *tpusim.Scheduler
// before its Init method is called. Pin widths are checked at construction.
//
package hwlib

import (
	"github.com/db47h/tpusim"
	"github.com/pkg/errors"
)

// sameWidth checks that all signals are set and share the same width.
func sameWidth(part string, sigs ...*tpusim.Signal) error {
	var w uint
	for i, sig := range sigs {
		if sig == nil {
			return errors.Errorf("%s: pin %d not connected", part, i)
		}
		if i == 0 {
			w = sig.Width()
			continue
		}
		if sig.Width() != w {
			return errors.Errorf("%s: width mismatch: %s is %d bits, %s is %d bits",
				part, sigs[0].Name(), w, sig.Name(), sig.Width())
		}
	}
	return nil
}

func connected(part string, sigs ...*tpusim.Signal) error {
	for i, sig := range sigs {
		if sig == nil {
			return errors.Errorf("%s: pin %d not connected", part, i)
		}
	}
	return nil
}

// Not registers a bitwise NOT gate.
//
//	Inputs: in
//	Outputs: out
//	Function: out = ^in
//
func Not(s *tpusim.Scheduler, name string, in, out *tpusim.Signal) error {
	if err := sameWidth(name, in, out); err != nil {
		return err
	}
	s.Combinational(name, func() error {
		out.Write(^in.Read() & out.Mask())
		return nil
	}, in)
	return nil
}

// other gates
type gate func(a, b uint64) uint64

func (g gate) mount(s *tpusim.Scheduler, name string, a, b, out *tpusim.Signal) error {
	if err := sameWidth(name, a, b, out); err != nil {
		return err
	}
	s.Combinational(name, func() error {
		out.Write(g(a.Read(), b.Read()) & out.Mask())
		return nil
	}, a, b)
	return nil
}

var (
	and  = gate(func(a, b uint64) uint64 { return a & b })
	nand = gate(func(a, b uint64) uint64 { return ^(a & b) })
	or   = gate(func(a, b uint64) uint64 { return a | b })
	nor  = gate(func(a, b uint64) uint64 { return ^(a | b) })
	xor  = gate(func(a, b uint64) uint64 { return a ^ b })
	xnor = gate(func(a, b uint64) uint64 { return ^(a ^ b) })
)

// And registers a bitwise AND gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = a & b
//
func And(s *tpusim.Scheduler, name string, a, b, out *tpusim.Signal) error {
	return and.mount(s, name, a, b, out)
}

// Nand registers a bitwise NAND gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = ^(a & b)
//
func Nand(s *tpusim.Scheduler, name string, a, b, out *tpusim.Signal) error {
	return nand.mount(s, name, a, b, out)
}

// Or registers a bitwise OR gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = a | b
//
func Or(s *tpusim.Scheduler, name string, a, b, out *tpusim.Signal) error {
	return or.mount(s, name, a, b, out)
}

// Nor registers a bitwise NOR gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = ^(a | b)
//
func Nor(s *tpusim.Scheduler, name string, a, b, out *tpusim.Signal) error {
	return nor.mount(s, name, a, b, out)
}

// Xor registers a bitwise XOR gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = a ^ b
//
func Xor(s *tpusim.Scheduler, name string, a, b, out *tpusim.Signal) error {
	return xor.mount(s, name, a, b, out)
}

// Xnor registers a bitwise XNOR gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = ^(a ^ b)
//
func Xnor(s *tpusim.Scheduler, name string, a, b, out *tpusim.Signal) error {
	return xnor.mount(s, name, a, b, out)
}
