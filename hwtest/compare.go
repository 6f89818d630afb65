// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwtest provides utility functions for testing circuits.
//
package hwtest

import (
	"context"
	"math/rand"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/db47h/tpusim"
	"github.com/db47h/tpusim/hwlib"
)

// HalfPeriod is the half period of the clock driving compared parts.
//
const HalfPeriod = 5

// A Builder registers a part with s, clocked by clk, and returns the part's
// input and output signals.
//
type Builder func(s *tpusim.Scheduler, clk *tpusim.Signal) (in, out []*tpusim.Signal, err error)

type bench struct {
	s       *tpusim.Scheduler
	in, out []*tpusim.Signal
}

func newBench(t testing.TB, b Builder) *bench {
	t.Helper()
	s := tpusim.New(tpusim.Config{})
	clk := s.NewSignal("clk", 1)
	if err := hwlib.Clock(s, clk, HalfPeriod); err != nil {
		t.Fatal(err)
	}
	in, out, err := b(s, clk)
	if err != nil {
		t.Fatal(err)
	}
	if err = s.Init(); err != nil {
		t.Fatal(err)
	}
	return &bench{s, in, out}
}

// Cycle runs s for one full clock period.
//
func Cycle(t testing.TB, s *tpusim.Scheduler) {
	t.Helper()
	if err := s.Run(context.Background(), s.Now()+2*HalfPeriod); err != nil {
		t.Fatal(err)
	}
}

func names(sigs []*tpusim.Signal) string {
	var b strings.Builder
	for _, sig := range sigs {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(sig.Name())
		b.WriteByte('[')
		b.WriteString(strconv.FormatUint(uint64(sig.Width()), 10))
		b.WriteByte(']')
	}
	return b.String()
}

// Compare takes two parts and compares their outputs given the same random
// inputs, for the given number of clock cycles. Both parts must have the same
// input/output interface (signal count and widths).
//
func Compare(t testing.TB, cycles int, part1, part2 Builder) {
	t.Helper()

	seed := time.Now().UnixNano()
	rnd := rand.New(rand.NewSource(seed))

	b1, b2 := newBench(t, part1), newBench(t, part2)
	defer b1.s.Dispose()
	defer b2.s.Dispose()

	// compare interfaces
	if len(b1.in) != len(b2.in) || len(b1.out) != len(b2.out) {
		t.Fatalf("interface mismatch: (%s) -> (%s) vs (%s) -> (%s)",
			names(b1.in), names(b1.out), names(b2.in), names(b2.out))
	}
	for i := range b1.in {
		if b1.in[i].Width() != b2.in[i].Width() {
			t.Fatalf("input %d: %s is %d bits, %s is %d bits", i,
				b1.in[i].Name(), b1.in[i].Width(), b2.in[i].Name(), b2.in[i].Width())
		}
	}
	for i := range b1.out {
		if b1.out[i].Width() != b2.out[i].Width() {
			t.Fatalf("output %d: %s is %d bits, %s is %d bits", i,
				b1.out[i].Name(), b1.out[i].Width(), b2.out[i].Name(), b2.out[i].Width())
		}
	}

	vs := make([]uint64, len(b1.in))
	errString := func(o int, ex, got uint64) string {
		var b strings.Builder
		for i, sig := range b1.in {
			if b.Len() > 0 {
				b.WriteString(", ")
			}
			b.WriteString(sig.Name())
			b.WriteString("=0x")
			b.WriteString(strconv.FormatUint(vs[i], 16))
		}
		return "seed " + strconv.FormatInt(seed, 10) + ", " + b.String() + ": " + b1.out[o].Name() +
			" = 0x" + strconv.FormatUint(ex, 16) + ", got 0x" + strconv.FormatUint(got, 16)
	}

	start := time.Now()
	for i := 0; i < cycles; i++ {
		for k, sig := range b1.in {
			vs[k] = rnd.Uint64() & sig.Mask()
			sig.Write(vs[k])
			b2.in[k].Write(vs[k])
		}
		Cycle(t, b1.s)
		Cycle(t, b2.s)
		for o, out := range b1.out {
			if ex, got := out.Read(), b2.out[o].Read(); ex != got {
				t.Fatal(errString(o, ex, got))
			}
		}
	}
	st := b1.s.Stats()
	t.Logf("%d processes. %d cycles, %d delta rounds in %v", b1.s.Size(), cycles, st.Rounds, time.Since(start))
}
