// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtest_test

import (
	"testing"

	hw "github.com/db47h/tpusim"
	hl "github.com/db47h/tpusim/hwlib"
	"github.com/db47h/tpusim/hwtest"
)

func builtinXor(s *hw.Scheduler, _ *hw.Signal) (in, out []*hw.Signal, err error) {
	a, b, o := s.NewSignal("a", 8), s.NewSignal("b", 8), s.NewSignal("out", 8)
	return []*hw.Signal{a, b}, []*hw.Signal{o}, hl.Xor(s, "xor", a, b, o)
}

func nandXor(s *hw.Scheduler, _ *hw.Signal) (in, out []*hw.Signal, err error) {
	a, b, o := s.NewSignal("a", 8), s.NewSignal("b", 8), s.NewSignal("out", 8)
	nandAB, w0, w1 := s.NewSignal("nandAB", 8), s.NewSignal("w0", 8), s.NewSignal("w1", 8)
	for _, g := range []struct {
		name      string
		a, b, out *hw.Signal
	}{
		{"nand0", a, b, nandAB},
		{"nand1", a, nandAB, w0},
		{"nand2", b, nandAB, w1},
		{"nand3", w0, w1, o},
	} {
		if err = hl.Nand(s, g.name, g.a, g.b, g.out); err != nil {
			return nil, nil, err
		}
	}
	return []*hw.Signal{a, b}, []*hw.Signal{o}, nil
}

func TestCompare_gates(t *testing.T) {
	hwtest.Compare(t, 100, builtinXor, nandXor)
}

func ram(s *hw.Scheduler, clk *hw.Signal) (in, out []*hw.Signal, err error) {
	p := hl.RAMPins{
		Dout: s.NewSignal("dout", 8),
		Din:  s.NewSignal("din", 8),
		Addr: s.NewSignal("addr", 4),
		WE:   s.NewSignal("we", 1),
		Clk:  clk,
	}
	_, err = hl.RAM(s, "ram", p, 8, 16)
	return []*hw.Signal{p.Addr, p.Din, p.WE}, []*hw.Signal{p.Dout}, err
}

// regFileA uses port A of a register file as a single port RAM.
func regFileA(s *hw.Scheduler, clk *hw.Signal) (in, out []*hw.Signal, err error) {
	p := hl.RegFilePins{
		DoutA: s.NewSignal("douta", 8),
		DoutB: s.NewSignal("doutb", 8),
		Din:   s.NewSignal("din", 8),
		AddrA: s.NewSignal("addra", 4),
		AddrB: s.NewSignal("addrb", 4),
		WE:    s.NewSignal("we", 1),
		Clk:   clk,
	}
	_, err = hl.RegisterFile(s, "regs", p, 8, 16)
	return []*hw.Signal{p.AddrA, p.Din, p.WE}, []*hw.Signal{p.DoutA}, err
}

func TestCompare_memories(t *testing.T) {
	hwtest.Compare(t, 200, ram, regFileA)
}
