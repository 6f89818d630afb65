// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/tpusim"
	"github.com/pkg/errors"
)

// Memory is an array of nwords cells of wsize bits. Cells are signals, so
// that a write on a clock edge is seen by the read logic in the next delta
// round.
//
type Memory struct {
	name  string
	wsize uint
	cells []*tpusim.Signal
}

func checkGeometry(name string, wsize uint, nwords int) error {
	if wsize == 0 || wsize > tpusim.MaxWidth {
		return errors.Errorf("%s: invalid word size %d", name, wsize)
	}
	if nwords < 1 {
		return errors.Errorf("%s: invalid word count %d", name, nwords)
	}
	return nil
}

// checkAddr checks that addr can reach every one of nwords words.
func checkAddr(name string, addr *tpusim.Signal, nwords int) error {
	if addr == nil {
		return errors.Errorf("%s: address pin not connected", name)
	}
	if w := addr.Width(); w < 63 && uint64(nwords) > 1<<w {
		return errors.Errorf("%s: %d bits address %s cannot reach %d words", name, w, addr.Name(), nwords)
	}
	return nil
}

func checkData(name string, wsize uint, sigs ...*tpusim.Signal) error {
	if err := connected(name, sigs...); err != nil {
		return err
	}
	for _, sig := range sigs {
		if sig.Width() != wsize {
			return errors.Errorf("%s: data pin %s is %d bits, want %d", name, sig.Name(), sig.Width(), wsize)
		}
	}
	return nil
}

func newMemory(s *tpusim.Scheduler, name string, wsize uint, nwords int) *Memory {
	m := &Memory{name: name, wsize: wsize, cells: make([]*tpusim.Signal, nwords)}
	for i := range m.cells {
		m.cells[i] = s.NewSignal(name+".mem["+strconv.Itoa(i)+"]", wsize)
	}
	return m
}

// Name returns the memory name.
//
func (m *Memory) Name() string { return m.name }

// Words returns the number of words in m.
//
func (m *Memory) Words() int { return len(m.cells) }

// WordSize returns the word size of m, in bits.
//
func (m *Memory) WordSize() uint { return m.wsize }

// Cell returns the signal backing word i.
//
func (m *Memory) Cell(i int) *tpusim.Signal { return m.cells[i] }

// Peek returns the committed value of word i.
//
func (m *Memory) Peek(i int) uint64 { return m.cells[i].Read() }

func (m *Memory) cell(addr uint64) (*tpusim.Signal, error) {
	if addr >= uint64(len(m.cells)) {
		return nil, &tpusim.AddressError{Part: m.name, Addr: addr, Words: len(m.cells)}
	}
	return m.cells[addr], nil
}

// writer returns the synchronous write logic: mem[addr] = din if we.
func (m *Memory) writer(we, addr, din *tpusim.Signal) tpusim.ProcessFunc {
	return func() error {
		if !we.Bool() {
			return nil
		}
		c, err := m.cell(addr.Read())
		if err != nil {
			return err
		}
		c.Write(din.Read())
		return nil
	}
}

// reader returns the combinational read logic: dout = mem[addr].
func (m *Memory) reader(addr, dout *tpusim.Signal) tpusim.ProcessFunc {
	return func() error {
		c, err := m.cell(addr.Read())
		if err != nil {
			return err
		}
		dout.Write(c.Read())
		return nil
	}
}

// sensitivity returns addrs followed by all memory cells.
func (m *Memory) sensitivity(addrs ...*tpusim.Signal) []*tpusim.Signal {
	return append(addrs, m.cells...)
}

// RAMPins connects a RAM.
//
type RAMPins struct {
	Dout *tpusim.Signal
	Din  *tpusim.Signal
	Addr *tpusim.Signal
	WE   *tpusim.Signal // write enable
	Clk  *tpusim.Signal
}

// RAM registers a single port RAM of nwords words of wsize bits.
//
//	Inputs: din, addr, we, clk
//	Outputs: dout
//	Function: on rising clk: if we { mem[addr] = din }
//	          dout = mem[addr] // combinational
//
func RAM(s *tpusim.Scheduler, name string, p RAMPins, wsize uint, nwords int) (*Memory, error) {
	if err := checkGeometry(name, wsize, nwords); err != nil {
		return nil, err
	}
	if err := checkData(name, wsize, p.Din, p.Dout); err != nil {
		return nil, err
	}
	if err := checkAddr(name, p.Addr, nwords); err != nil {
		return nil, err
	}
	if err := connected(name, p.WE, p.Clk); err != nil {
		return nil, err
	}
	m := newMemory(s, name, wsize, nwords)
	s.Clocked(name+".write", p.Clk, tpusim.Rising, m.writer(p.WE, p.Addr, p.Din))
	s.Combinational(name+".read", m.reader(p.Addr, p.Dout), m.sensitivity(p.Addr)...)
	return m, nil
}

// RegFilePins connects a register file.
//
type RegFilePins struct {
	DoutA *tpusim.Signal
	DoutB *tpusim.Signal
	Din   *tpusim.Signal
	AddrA *tpusim.Signal // read port A and write address
	AddrB *tpusim.Signal
	WE    *tpusim.Signal
	Clk   *tpusim.Signal
}

// RegisterFile registers a dual read, single write register file.
//
//	Inputs: din, addra, addrb, we, clk
//	Outputs: douta, doutb
//	Function: on rising clk: if we { mem[addra] = din }
//	          douta = mem[addra], doutb = mem[addrb] // combinational
//
func RegisterFile(s *tpusim.Scheduler, name string, p RegFilePins, wsize uint, nwords int) (*Memory, error) {
	if err := checkGeometry(name, wsize, nwords); err != nil {
		return nil, err
	}
	if err := checkData(name, wsize, p.Din, p.DoutA, p.DoutB); err != nil {
		return nil, err
	}
	if err := checkAddr(name, p.AddrA, nwords); err != nil {
		return nil, err
	}
	if err := checkAddr(name, p.AddrB, nwords); err != nil {
		return nil, err
	}
	if err := connected(name, p.WE, p.Clk); err != nil {
		return nil, err
	}
	m := newMemory(s, name, wsize, nwords)
	readA, readB := m.reader(p.AddrA, p.DoutA), m.reader(p.AddrB, p.DoutB)
	s.Clocked(name+".write", p.Clk, tpusim.Rising, m.writer(p.WE, p.AddrA, p.Din))
	s.Combinational(name+".read", func() error {
		if err := readA(); err != nil {
			return err
		}
		return readB()
	}, m.sensitivity(p.AddrA, p.AddrB)...)
	return m, nil
}
