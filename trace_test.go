// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package tpusim_test

import (
	"testing"

	hw "github.com/db47h/tpusim"
)

// counter builds a free running counter clocked every 5 time units and
// returns its recorder.
func counter(t *testing.T, start uint64) (*hw.Scheduler, *hw.Signal, *hw.Recorder) {
	t.Helper()
	rec := hw.NewRecorder()
	s := hw.New(hw.Config{Tracer: rec})
	clk := s.NewSignal("clk", 1)
	cnt := s.NewSignal("cnt", 4)
	next := s.NewSignal("next", 4)
	s.Combinational("inc", func() error { next.Write(cnt.Read() + 1); return nil }, cnt)
	s.Clocked("reg", clk, hw.Rising, func() error { cnt.Write(next.Read()); return nil })
	var tick func()
	tick = func() {
		clk.Write(clk.Read() ^ 1)
		s.After(5, tick)
	}
	s.After(5, tick)
	cnt.Write(start)
	mustInit(t, s)
	return s, cnt, rec
}

func TestRecorder(t *testing.T) {
	s, cnt, rec := counter(t, 0)
	mustRun(t, s, 100)
	// rising edges at 5, 15, ..., 95
	if cnt.Read() != 10 {
		t.Fatalf("expected cnt = 10, got %d", cnt.Read())
	}
	h := rec.History(cnt)
	if len(h) != 10 {
		t.Fatalf("expected 10 changes, got %d", len(h))
	}
	for i, smp := range h {
		if smp.Time != uint64(10*i+5) || smp.Value != uint64(i+1) || smp.Delta != 1 {
			t.Errorf("sample %d: unexpected %+v", i, smp)
		}
	}
	for _, d := range []struct{ t, v uint64 }{{0, 0}, {4, 0}, {5, 1}, {14, 1}, {15, 2}, {100, 10}} {
		if v := rec.ValueAt(cnt, d.t); v != d.v {
			t.Errorf("cnt at t=%d: expected %d, got %d", d.t, d.v, v)
		}
	}
	// cnt, next and clk changes
	if n := rec.Changes(); n != 10+11+20 {
		t.Fatalf("expected 41 changes, got %d", n)
	}
}

func TestRecorder_digest(t *testing.T) {
	s1, _, r1 := counter(t, 0)
	s2, _, r2 := counter(t, 0)
	s3, _, r3 := counter(t, 3)
	for _, s := range []*hw.Scheduler{s1, s2, s3} {
		mustRun(t, s, 200)
	}
	if r1.Digest() != r2.Digest() {
		t.Fatalf("identical runs have different digests: %x != %x", r1.Digest(), r2.Digest())
	}
	if r1.Digest() == r3.Digest() {
		t.Fatal("different runs have the same digest")
	}
}

func TestTracerFunc(t *testing.T) {
	var got []hw.Change
	s := hw.New(hw.Config{Tracer: hw.TracerFunc(func(c hw.Change) { got = append(got, c) })})
	a := s.NewSignal("a", 8)
	mustInit(t, s)
	s.WriteAfter(a, 42, 7)
	s.WriteAfter(a, 42, 8)
	mustRun(t, s, 10)
	if len(got) != 1 {
		t.Fatalf("expected 1 change, got %d", len(got))
	}
	if c := got[0]; c.Signal != a || c.Time != 7 || c.Value != 42 || c.Delta != 0 {
		t.Fatalf("bad change %+v", c)
	}
}
