// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package tpusim

import (
	"encoding/binary"
	"hash"

	"github.com/cespare/xxhash"
)

// A Change is a committed signal value change.
//
type Change struct {
	Time   uint64
	Delta  int // delta round within Time; 0 for stimulus commits
	Signal *Signal
	Value  uint64
}

// A Tracer receives every committed signal change, in commit order.
//
// Waveform dumpers and other trace consumers implement Tracer; they get read
// access to the signal value history and nothing else.
//
type Tracer interface {
	Trace(c Change)
}

// TracerFunc adapts a function to the Tracer interface.
//
type TracerFunc func(c Change)

// Trace implements Tracer.
//
func (f TracerFunc) Trace(c Change) { f(c) }

// Sample is one entry of a signal history.
//
type Sample struct {
	Time  uint64
	Delta int
	Value uint64
}

// Recorder is a Tracer that keeps the value history of every signal and a
// running digest of all changes.
//
// Two runs of the same circuit with the same stimulus produce the same
// digest.
//
type Recorder struct {
	hist map[*Signal][]Sample
	h    hash.Hash64
	buf  [24]byte
	n    int
}

// NewRecorder returns a new, empty Recorder.
//
func NewRecorder() *Recorder {
	return &Recorder{
		hist: make(map[*Signal][]Sample),
		h:    xxhash.New(),
	}
}

// Trace implements Tracer.
//
func (r *Recorder) Trace(c Change) {
	r.hist[c.Signal] = append(r.hist[c.Signal], Sample{Time: c.Time, Delta: c.Delta, Value: c.Value})
	binary.LittleEndian.PutUint64(r.buf[0:], c.Time)
	binary.LittleEndian.PutUint64(r.buf[8:], c.Value)
	binary.LittleEndian.PutUint64(r.buf[16:], uint64(c.Delta))
	r.h.Write([]byte(c.Signal.name))
	r.h.Write(r.buf[:])
	r.n++
}

// History returns the recorded changes of sig.
//
func (r *Recorder) History(sig *Signal) []Sample { return r.hist[sig] }

// ValueAt returns the value of sig as committed at the end of time instant t.
//
func (r *Recorder) ValueAt(sig *Signal, t uint64) uint64 {
	var v uint64
	for _, smp := range r.hist[sig] {
		if smp.Time > t {
			break
		}
		v = smp.Value
	}
	return v
}

// Changes returns the number of recorded changes.
//
func (r *Recorder) Changes() int { return r.n }

// Digest returns the xxhash of the change stream recorded so far.
//
func (r *Recorder) Digest() uint64 { return r.h.Sum64() }
