// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib_test

import (
	"testing"

	hw "github.com/db47h/tpusim"
	hl "github.com/db47h/tpusim/hwlib"
)

func TestClock(t *testing.T) {
	s := hw.New(hw.Config{})
	clk := s.NewSignal("clk", 1)
	if err := hl.Clock(s, clk, 5); err != nil {
		t.Fatal(err)
	}
	var rising, falling []uint64
	s.Clocked("rise", clk, hw.Rising, func() error { rising = append(rising, s.Now()); return nil })
	s.Clocked("fall", clk, hw.Falling, func() error { falling = append(falling, s.Now()); return nil })
	mustInit(t, s)
	if err := s.Run(ctx, 100); err != nil {
		t.Fatal(err)
	}
	if len(rising) != 10 || len(falling) != 10 {
		t.Fatalf("expected 10 rising and 10 falling edges, got %d and %d", len(rising), len(falling))
	}
	for i := range rising {
		if rising[i] != uint64(10*i+5) || falling[i] != uint64(10*i+10) {
			t.Fatalf("edge %d at t=%d/%d", i, rising[i], falling[i])
		}
	}
}

func TestClock_errors(t *testing.T) {
	s := hw.New(hw.Config{})
	if err := hl.Clock(s, nil, 5); err == nil {
		t.Fatal("expected an error for a nil clock")
	}
	if err := hl.Clock(s, s.NewSignal("clk", 1), 0); err == nil {
		t.Fatal("expected an error for a zero half period")
	}
}

func TestStimulusProbe(t *testing.T) {
	s := hw.New(hw.Config{})
	a, b := s.NewSignal("a", 8), s.NewSignal("b", 8)
	type sample struct{ t, a, b uint64 }
	var got []sample
	if err := hl.Stimulus(s, a, hl.Step{At: 10, Value: 1}, hl.Step{At: 20, Value: 2}, hl.Step{At: 30, Value: 2}); err != nil {
		t.Fatal(err)
	}
	if err := hl.Stimulus(s, b, hl.Step{At: 20, Value: 7}); err != nil {
		t.Fatal(err)
	}
	if err := hl.Probe(s, "probe", func(t uint64, v []uint64) {
		got = append(got, sample{t, v[0], v[1]})
	}, a, b); err != nil {
		t.Fatal(err)
	}
	mustInit(t, s)
	if err := s.Run(ctx, 50); err != nil {
		t.Fatal(err)
	}
	exp := []sample{{0, 0, 0}, {10, 1, 0}, {20, 2, 7}}
	if len(got) != len(exp) {
		t.Fatalf("expected %v, got %v", exp, got)
	}
	for i := range exp {
		if got[i] != exp[i] {
			t.Fatalf("expected %v, got %v", exp, got)
		}
	}

	if err := s.Run(ctx, 60); err != nil {
		t.Fatal(err)
	}
	if err := hl.Stimulus(s, a, hl.Step{At: 40, Value: 3}); err == nil {
		t.Fatal("expected an error for a step in the past")
	}
	if err := hl.Probe(s, "nil", nil, a); err == nil {
		t.Fatal("expected an error for a nil probe function")
	}
}
