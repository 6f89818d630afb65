// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package tpusim

// A ProcessFunc is the body of a process. It reads committed signal values
// and writes pending ones. A non-nil error is a fault that aborts the
// simulation.
//
// For example, a Not gate can be defined like this:
//
//	in, out := s.NewSignal("in", 1), s.NewSignal("out", 1)
//	s.Combinational("not", func() error {
//		out.Write(^in.Read() & 1)
//		return nil
//	}, in)
//
type ProcessFunc func() error

// Kind identifies the process variant.
//
type Kind int

// Process variants.
//
const (
	KindCombinational Kind = iota
	KindClocked
)

func (k Kind) String() string {
	if k == KindClocked {
		return "clocked"
	}
	return "combinational"
}

// Edge qualifies the clock transitions that trigger a clocked process.
// Edges are detected on the least significant bit of the committed value.
//
type Edge int

// Clock edges.
//
const (
	Rising Edge = iota
	Falling
)

func (e Edge) String() string {
	if e == Falling {
		return "falling"
	}
	return "rising"
}

// matches returns true if the last commit of clk is a qualifying edge.
func (e Edge) matches(clk *Signal) bool {
	p, c := clk.prev&1, clk.cur&1
	if e == Rising {
		return p == 0 && c == 1
	}
	return p == 1 && c == 0
}

// A Process is a unit of logic registered with a Scheduler. It owns no
// signals; its sensitivity list is fixed at construction.
//
type Process struct {
	id     int
	name   string
	kind   Kind
	inputs []*Signal
	clock  *Signal
	edge   Edge
	body   ProcessFunc

	evals  uint64
	queued uint64 // round stamp, dedups the work-set
}

// Name returns the process name.
//
func (p *Process) Name() string { return p.name }

// Kind returns the process variant.
//
func (p *Process) Kind() Kind { return p.kind }

// Edge returns the triggering edge of a clocked process.
//
func (p *Process) Edge() Edge { return p.edge }

// Sensitivity returns the signals triggering the process: its inputs for a
// combinational process, its clock for a clocked one.
//
func (p *Process) Sensitivity() []*Signal {
	if p.kind == KindClocked {
		return []*Signal{p.clock}
	}
	return append([]*Signal(nil), p.inputs...)
}

// Evaluations returns how many times the process body has run.
//
func (p *Process) Evaluations() uint64 { return p.evals }

func (p *Process) String() string { return p.name }
