// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package tpusim

import (
	"cmp"
	"container/heap"
	"context"
	"slices"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultMaxDeltaRounds is the delta round budget per time instant used when
// Config.MaxDeltaRounds is not set.
//
const DefaultMaxDeltaRounds = 1000

// OverflowPolicy selects what happens when a value wider than its target
// signal is written.
//
type OverflowPolicy int

// Overflow policies.
//
const (
	OverflowTruncate OverflowPolicy = iota // drop the extra high bits
	OverflowReject                         // abort the simulation
)

func (o OverflowPolicy) String() string {
	if o == OverflowReject {
		return "reject"
	}
	return "truncate"
}

// Config holds the Scheduler settings. The zero value is ready to use.
//
type Config struct {
	// MaxDeltaRounds is the number of delta rounds allowed per time instant
	// before the simulation is aborted with a ConvergenceError.
	MaxDeltaRounds int
	Overflow       OverflowPolicy
	// Tracer, if not nil, receives every committed signal change.
	Tracer Tracer
	// Logger defaults to the logrus standard logger.
	Logger logrus.FieldLogger
}

// Stats holds the scheduler counters.
//
type Stats struct {
	Instants    uint64 // time instants with at least one timed event
	Rounds      uint64 // delta rounds
	Evaluations uint64 // process evaluations
	Commits     uint64 // committed value changes
}

// A Scheduler is the simulation kernel. It owns the signals, processes and
// timed events of a circuit and drives them to a stable state at each time
// instant before advancing time.
//
// A Scheduler goes through the following phases: build (NewSignal,
// Combinational, Clocked, After), Init, then any number of Run or Settle
// calls, and Dispose.
//
type Scheduler struct {
	cfg Config
	log *logrus.Entry

	signals []*Signal
	names   map[string]*Signal
	procs   []*Process

	events eventQueue
	seq    uint64
	now    uint64

	dirty   []*Signal // signals with a pending value
	changed []*Signal // signals changed by the last commit
	current *Process  // process being evaluated, nil for stimulus
	stamp   uint64
	delta   int // delta round of the current instant

	buildErr    *multierror.Error
	initialized bool
	disposed    bool
	fault       error
	stats       Stats
}

// New returns a new Scheduler.
//
func New(cfg Config) *Scheduler {
	if cfg.MaxDeltaRounds <= 0 {
		cfg.MaxDeltaRounds = DefaultMaxDeltaRounds
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Scheduler{
		cfg:   cfg,
		log:   log.WithField("component", "scheduler"),
		names: make(map[string]*Signal),
	}
}

func (s *Scheduler) building(what string) {
	if s.disposed || s.initialized {
		panic("tpusim: " + what + " called after Init")
	}
}

func (s *Scheduler) configError(err error) {
	s.buildErr = multierror.Append(s.buildErr, err)
}

// NewSignal creates a new signal of the given width in bits. Its initial
// value is 0.
//
// Invalid widths and duplicate names are reported by Init.
//
func (s *Scheduler) NewSignal(name string, width uint) *Signal {
	s.building("NewSignal")
	if width == 0 || width > MaxWidth {
		s.configError(errors.Errorf("signal %s: invalid width %d", name, width))
		width = MaxWidth
	}
	if _, ok := s.names[name]; ok {
		s.configError(errors.Errorf("duplicate signal name %s", name))
	}
	sig := &Signal{s: s, name: name, width: width, mask: widthMask(width)}
	s.names[name] = sig
	s.signals = append(s.signals, sig)
	return sig
}

func (s *Scheduler) addProcess(p *Process) *Process {
	p.id = len(s.procs)
	s.procs = append(s.procs, p)
	return p
}

// Combinational registers a process evaluated whenever any of its inputs
// changes, and once at Init.
//
func (s *Scheduler) Combinational(name string, body ProcessFunc, inputs ...*Signal) *Process {
	s.building("Combinational")
	if body == nil {
		s.configError(errors.Errorf("process %s: nil body", name))
	}
	if len(inputs) == 0 {
		s.configError(errors.Errorf("process %s: empty sensitivity list", name))
	}
	p := s.addProcess(&Process{name: name, kind: KindCombinational, body: body})
	for _, in := range inputs {
		if in == nil {
			s.configError(errors.Errorf("process %s: nil input signal", name))
			continue
		}
		if in.s != s {
			s.configError(errors.Errorf("process %s: signal %s belongs to another scheduler", name, in.name))
			continue
		}
		if slices.Contains(p.inputs, in) {
			continue
		}
		p.inputs = append(p.inputs, in)
		in.comb = append(in.comb, p)
	}
	return p
}

// Clocked registers a process evaluated only when clk makes the given
// transition.
//
func (s *Scheduler) Clocked(name string, clk *Signal, edge Edge, body ProcessFunc) *Process {
	s.building("Clocked")
	if body == nil {
		s.configError(errors.Errorf("process %s: nil body", name))
	}
	p := s.addProcess(&Process{name: name, kind: KindClocked, clock: clk, edge: edge, body: body})
	switch {
	case clk == nil:
		s.configError(errors.Errorf("process %s: nil clock signal", name))
	case clk.s != s:
		s.configError(errors.Errorf("process %s: clock %s belongs to another scheduler", name, clk.name))
	default:
		clk.clock = append(clk.clock, p)
	}
	return p
}

// Init checks the circuit, evaluates every combinational process once and
// settles the initial state at time 0.
//
// All configuration errors found while building the circuit are returned
// together.
//
func (s *Scheduler) Init() error {
	if s.disposed {
		return ErrDisposed
	}
	if s.initialized {
		return errors.New("scheduler already initialized")
	}
	if s.fault != nil {
		return s.fault
	}
	if err := s.buildErr.ErrorOrNil(); err != nil {
		return errors.Wrap(err, "invalid circuit")
	}
	s.initialized = true
	var seed []*Process
	for _, p := range s.procs {
		if p.kind == KindCombinational {
			seed = append(seed, p)
		}
	}
	s.log.Debugf("[t %07d] init: %d signals, %d processes", s.now, len(s.signals), len(s.procs))
	return s.settle(seed)
}

func (s *Scheduler) ready() error {
	switch {
	case s.disposed:
		return ErrDisposed
	case s.fault != nil:
		return ErrAborted
	case !s.initialized:
		return ErrNotInitialized
	}
	return nil
}

func (s *Scheduler) abort(err error) error {
	if s.fault == nil {
		s.fault = err
		s.log.Errorf("[t %07d] simulation aborted: %v", s.now, err)
	}
	return s.fault
}

// commit commits all pending values and returns the processes to evaluate in
// the next delta round, in registration order.
func (s *Scheduler) commit(seed []*Process) []*Process {
	s.stamp++
	var work []*Process
	add := func(p *Process) {
		if p.queued != s.stamp {
			p.queued = s.stamp
			work = append(work, p)
		}
	}
	for _, p := range seed {
		add(p)
	}
	s.changed = s.changed[:0]
	for _, sig := range s.dirty {
		if !sig.commit() {
			continue
		}
		s.changed = append(s.changed, sig)
		s.stats.Commits++
		if s.cfg.Tracer != nil {
			s.cfg.Tracer.Trace(Change{Time: s.now, Delta: s.delta, Signal: sig, Value: sig.cur})
		}
		for _, p := range sig.comb {
			add(p)
		}
		for _, p := range sig.clock {
			if p.edge.matches(sig) {
				add(p)
			}
		}
	}
	clear(s.dirty)
	s.dirty = s.dirty[:0]
	slices.SortFunc(work, func(a, b *Process) int { return cmp.Compare(a.id, b.id) })
	return work
}

// settle runs delta rounds until no signal changes.
func (s *Scheduler) settle(seed []*Process) error {
	if s.fault != nil {
		return s.fault
	}
	s.delta = 0
	work := s.commit(seed)
	for rounds := 0; len(work) > 0; rounds++ {
		if rounds >= s.cfg.MaxDeltaRounds {
			return s.abort(&ConvergenceError{Time: s.now, Rounds: rounds, Signals: signalNames(s.changed)})
		}
		s.stats.Rounds++
		s.log.Tracef("[t %07d] delta %d: %d processes", s.now, rounds, len(work))
		for _, p := range work {
			s.current = p
			p.evals++
			s.stats.Evaluations++
			err := p.body()
			s.current = nil
			if err != nil {
				return s.abort(errors.Wrapf(err, "process %s at t=%d", p.name, s.now))
			}
			if s.fault != nil {
				return s.fault
			}
		}
		s.delta = rounds + 1
		work = s.commit(nil)
	}
	return nil
}

// Settle commits pending stimulus writes and runs delta rounds at the current
// time until the circuit is stable. Use it after writing signals from
// outside of the simulation.
//
func (s *Scheduler) Settle() error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.settle(nil)
}

// Run settles the current time instant, then advances time from one timed
// event to the next, settling each instant, until time reaches until.
//
// The context is checked between time instants and between passes of zero
// delay events. Zero delay events that keep rescheduling themselves at the
// same instant are bounded by MaxDeltaRounds, like delta rounds. Any fault
// aborts the simulation and is returned; subsequent calls return ErrAborted.
//
func (s *Scheduler) Run(ctx context.Context, until uint64) error {
	if err := s.ready(); err != nil {
		return err
	}
	if until < s.now {
		return errors.Errorf("cannot run backwards from t=%d to t=%d", s.now, until)
	}
	if err := s.settle(nil); err != nil {
		return err
	}
	var (
		passes  int
		started bool
	)
	for len(s.events) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		t := s.events[0].at
		if t > until {
			break
		}
		// zero delay events scheduled while settling t count as extra passes
		// over the same instant.
		if started && t == s.now {
			passes++
		} else {
			passes, started = 0, true
			s.now = t
			s.stats.Instants++
		}
		mark := s.seq
		for len(s.events) > 0 && s.events[0].at == t {
			if s.events[0].seq > mark {
				// events scheduled by this pass
				passes++
				mark = s.seq
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			if passes >= s.cfg.MaxDeltaRounds {
				return s.abort(&ConvergenceError{Time: t, Rounds: passes, Signals: signalNames(s.dirty)})
			}
			ev := heap.Pop(&s.events).(*event)
			ev.fn()
			if s.fault != nil {
				return s.fault
			}
		}
		s.log.Debugf("[t %07d] settling %d pending writes", t, len(s.dirty))
		if err := s.settle(nil); err != nil {
			return err
		}
	}
	s.now = until
	return nil
}

// Dispose releases all resources held by the scheduler. It cannot be used
// afterwards.
//
func (s *Scheduler) Dispose() {
	for _, sig := range s.signals {
		sig.comb, sig.clock = nil, nil
	}
	s.signals, s.procs, s.events, s.dirty, s.changed = nil, nil, nil, nil, nil
	s.names = nil
	s.disposed = true
}

// Now returns the current simulation time.
//
func (s *Scheduler) Now() uint64 { return s.now }

// Stats returns the scheduler counters.
//
func (s *Scheduler) Stats() Stats { return s.stats }

// Err returns the fault that aborted the simulation, if any.
//
func (s *Scheduler) Err() error { return s.fault }

// Signals returns the signals in creation order.
//
func (s *Scheduler) Signals() []*Signal { return append([]*Signal(nil), s.signals...) }

// Signal returns the signal with the given name, or nil.
//
func (s *Scheduler) Signal(name string) *Signal { return s.names[name] }

// Processes returns the processes in registration order.
//
func (s *Scheduler) Processes() []*Process { return append([]*Process(nil), s.procs...) }

// Size returns the process count in the circuit.
//
func (s *Scheduler) Size() int { return len(s.procs) }

func signalNames(sigs []*Signal) []string {
	names := make([]string, len(sigs))
	for i, sig := range sigs {
		names[i] = sig.name
	}
	return names
}
