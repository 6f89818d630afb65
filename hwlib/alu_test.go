// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib_test

import (
	"testing"
	"testing/quick"

	hw "github.com/db47h/tpusim"
	hl "github.com/db47h/tpusim/hwlib"
)

func newALU(t *testing.T, width uint) (*hw.Scheduler, hl.ALUPins) {
	t.Helper()
	s := hw.New(hw.Config{})
	p := hl.ALUPins{
		Op:     s.NewSignal("op", 4),
		A:      s.NewSignal("a", width),
		B:      s.NewSignal("b", width),
		Result: s.NewSignal("result", width),
	}
	if err := hl.ALU(s, "alu", p); err != nil {
		t.Fatal(err)
	}
	mustInit(t, s)
	return s, p
}

func TestALU(t *testing.T) {
	s, p := newALU(t, 8)
	in := []*hw.Signal{p.Op, p.A, p.B}
	for _, d := range []struct {
		op  hl.Op
		res uint64
	}{
		{hl.OpAdd, 9},
		{hl.OpSub, 3},
		{hl.OpAnd, 2},
		{hl.OpOr, 7},
		{hl.OpXor, 5},
		{hl.OpShl, 48},
		{hl.OpShr, 0},
		{hl.OpZero, 0},
	} {
		set(t, s, in, uint64(d.op), 6, 3)
		if p.Result.Read() != d.res {
			t.Errorf("6 %s 3: expected %d, got %d", d.op, d.res, p.Result.Read())
		}
	}
}

func TestALU_unmapped(t *testing.T) {
	s, p := newALU(t, 8)
	in := []*hw.Signal{p.Op, p.A, p.B}
	set(t, s, in, uint64(hl.OpAnd), 6, 3)
	if p.Result.Read() != 2 {
		t.Fatalf("expected 2, got %d", p.Result.Read())
	}
	for code := uint64(8); code < 16; code++ {
		set(t, s, in, code, code, 1)
		if p.Result.Read() != 2 {
			t.Fatalf("opcode %d changed the result to %d", code, p.Result.Read())
		}
		if _, ok := hl.DecodeOp(code); ok {
			t.Fatalf("opcode %d should not decode", code)
		}
	}
}

func TestALU_wrap(t *testing.T) {
	s, p := newALU(t, 8)
	in := []*hw.Signal{p.Op, p.A, p.B}
	set(t, s, in, uint64(hl.OpSub), 3, 6)
	if p.Result.Read() != 0xfd {
		t.Fatalf("3 - 6: expected fd, got %x", p.Result.Read())
	}
	set(t, s, in, uint64(hl.OpAdd), 0xff, 2)
	if p.Result.Read() != 1 {
		t.Fatalf("ff + 2: expected 1, got %x", p.Result.Read())
	}
}

func TestALU_quick(t *testing.T) {
	s, p := newALU(t, 16)
	in := []*hw.Signal{p.Op, p.A, p.B}
	f := func(code uint8, a, b uint16) bool {
		op := hl.Op(code % 8)
		set(t, s, in, uint64(op), uint64(a), uint64(b))
		return p.Result.Read() == op.Apply(uint64(a), uint64(b), 16)
	}
	if err := quick.Check(f, nil); err != nil {
		t.Fatal(err)
	}
}

func TestOp(t *testing.T) {
	for code, name := range []string{"zero", "add", "sub", "and", "or", "xor", "shl", "shr"} {
		op, ok := hl.DecodeOp(uint64(code))
		if !ok || op.String() != name {
			t.Errorf("opcode %d: expected %s, got %s, %v", code, name, op, ok)
		}
	}
	if s := hl.Op(12).String(); s != "Op(12)" {
		t.Errorf("expected Op(12), got %s", s)
	}
	if r := hl.OpShl.Apply(1, 70, 64); r != 0 {
		t.Errorf("1 << 70: expected 0, got %x", r)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("Apply with an invalid op should panic")
		}
	}()
	hl.Op(9).Apply(1, 1, 8)
}

func TestALU_errors(t *testing.T) {
	s := hw.New(hw.Config{})
	a, b, r := s.NewSignal("a", 8), s.NewSignal("b", 8), s.NewSignal("r", 4)
	if err := hl.ALU(s, "alu", hl.ALUPins{Op: s.NewSignal("op", 4), A: a, B: b, Result: r}); err == nil {
		t.Fatal("expected a width mismatch error")
	}
	if err := hl.ALU(s, "alu", hl.ALUPins{A: a, B: b, Result: a}); err == nil {
		t.Fatal("expected an unconnected op error")
	}
}
