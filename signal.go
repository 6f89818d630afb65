// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package tpusim

// MaxWidth is the widest supported signal, in bits.
//
const MaxWidth = 64

// A Signal is a fixed width unsigned bit vector with a committed value and a
// pending (next) value.
//
// Processes only ever observe committed values. Writes are recorded as
// pending and become visible to every process in the next delta round, once
// the Scheduler commits them.
//
type Signal struct {
	s     *Scheduler
	name  string
	width uint
	mask  uint64

	cur  uint64
	prev uint64 // committed value before the last commit, for edge detection
	next uint64

	pending bool
	driver  *Process // writer of next, nil for stimulus

	comb  []*Process // combinational processes sensitive to this signal
	clock []*Process // clocked processes using this signal as clock
}

// Name returns the signal name.
//
func (sig *Signal) Name() string { return sig.name }

// Width returns the signal width in bits.
//
func (sig *Signal) Width() uint { return sig.width }

// Mask returns the bit mask covering all bits of the signal.
//
func (sig *Signal) Mask() uint64 { return sig.mask }

// Read returns the committed value of the signal, never a pending one.
//
func (sig *Signal) Read() uint64 { return sig.cur }

// Bool returns true if the committed value is not zero.
//
func (sig *Signal) Bool() bool { return sig.cur != 0 }

// Pending returns the pending value, if any.
//
func (sig *Signal) Pending() (uint64, bool) { return sig.next, sig.pending }

// Write records v as the pending value of the signal.
//
// Writing the committed value while nothing is pending is a no-op and does
// not trigger dependent processes. When several processes agree on a pending
// value, the first one remains its recorded driver. Values wider than the
// signal are either truncated or rejected depending on the scheduler's
// overflow policy.
//
func (sig *Signal) Write(v uint64) {
	s := sig.s
	if s.fault != nil {
		return
	}
	if v&^sig.mask != 0 {
		if s.cfg.Overflow == OverflowReject {
			s.abort(&OverflowError{Signal: sig.name, Width: sig.width, Value: v})
			return
		}
		v &= sig.mask
	}
	drv := s.current
	if sig.pending {
		if sig.driver != drv && sig.next != v {
			s.abort(&ConflictError{
				Signal:  sig.name,
				Drivers: [2]string{driverName(sig.driver), driverName(drv)},
				Values:  [2]uint64{sig.next, v},
			})
			return
		}
		if sig.driver == drv {
			sig.next = v
		}
		return
	}
	if v == sig.cur {
		return
	}
	sig.next, sig.driver, sig.pending = v, drv, true
	s.dirty = append(s.dirty, sig)
}

// commit moves the pending value to the committed slot and returns true if
// the committed value changed.
//
func (sig *Signal) commit() bool {
	if !sig.pending {
		return false
	}
	sig.pending = false
	sig.driver = nil
	sig.prev = sig.cur
	sig.cur = sig.next
	return sig.prev != sig.cur
}

// Subscribers returns the processes triggered by changes of sig: the
// combinational processes listing it as input followed by the clocked
// processes using it as clock.
//
func (sig *Signal) Subscribers() []*Process {
	ps := make([]*Process, 0, len(sig.comb)+len(sig.clock))
	ps = append(ps, sig.comb...)
	return append(ps, sig.clock...)
}

func (sig *Signal) String() string { return sig.name }

func driverName(p *Process) string {
	if p == nil {
		return "stimulus"
	}
	return p.name
}

func widthMask(w uint) uint64 {
	if w >= 64 {
		return ^uint64(0)
	}
	return 1<<w - 1
}
