// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package tpu assembles the toy processor testbench: an instruction fetch
// loop (program counter and instruction ROM), a data RAM, a register file
// and an ALU, driven by a clock generator and a seeded random stimulus.
//
// The instruction decoder is not wired to the datapath. Fetched words are
// only decoded for logging.
//
package tpu

import (
	"context"
	"math/bits"
	"math/rand"
	"sort"

	"github.com/db47h/tpusim"
	"github.com/db47h/tpusim/hwlib"
	"github.com/db47h/tpusim/internal/config"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// opBits is the ALU opcode width. It covers the 8 mapped opcodes and 8
// unmapped ones.
const opBits = 4

// Testbench is a built toy processor circuit.
//
type Testbench struct {
	S        *tpusim.Scheduler
	Recorder *tpusim.Recorder

	Clk   *tpusim.Signal
	PC    *tpusim.Signal
	Instr *tpusim.Signal

	RAM     *hwlib.Memory
	RegFile *hwlib.Memory
	ROM     *hwlib.ROM

	log logrus.FieldLogger
}

// datapath holds the data path signals. Widths are resolved by Bind.
type datapath struct {
	RAMAddr *tpusim.Signal `hw:"ram,ram_addr"`
	RAMDin  *tpusim.Signal `hw:"data,ram_din"`
	RAMDout *tpusim.Signal `hw:"data,ram_dout"`
	RAMWE   *tpusim.Signal `hw:"1,ram_we"`
	AddrA   *tpusim.Signal `hw:"rf,rf_addra"`
	AddrB   *tpusim.Signal `hw:"rf,rf_addrb"`
	DoutA   *tpusim.Signal `hw:"data,rf_douta"`
	DoutB   *tpusim.Signal `hw:"data,rf_doutb"`
	RFWE    *tpusim.Signal `hw:"1,rf_we"`
	Op      *tpusim.Signal `hw:"opcode,alu_op"`
	Result  *tpusim.Signal `hw:"data,alu_result"`
	WBSel   *tpusim.Signal `hw:"1,wb_sel"`
	WB      *tpusim.Signal `hw:"data"`
}

// addrBits returns the address width needed to reach n words.
func addrBits(n int) uint {
	if n <= 1 {
		return 1
	}
	return uint(bits.Len(uint(n - 1)))
}

// New builds the testbench described by cfg. The returned testbench is
// initialized and ready to run.
//
func New(cfg *config.Config, log logrus.FieldLogger) (*Testbench, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	overflow, err := cfg.Overflow()
	if err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	rec := tpusim.NewRecorder()
	s := tpusim.New(tpusim.Config{
		MaxDeltaRounds: cfg.Kernel.MaxDeltaRounds,
		Overflow:       overflow,
		Tracer:         rec,
		Logger:         log,
	})
	tb := &Testbench{S: s, Recorder: rec, log: log.WithField("component", "tpu")}

	if err = tb.build(cfg); err != nil {
		s.Dispose()
		return nil, err
	}
	if err = s.Init(); err != nil {
		s.Dispose()
		return nil, err
	}
	return tb, nil
}

func (tb *Testbench) build(cfg *config.Config) error {
	s := tb.S
	w := cfg.RegFile.WSize

	// fetch: pc -> rom -> instr, pc = pc + 1 on each rising edge
	tb.Clk = s.NewSignal("clk", 1)
	pcBits := addrBits(len(cfg.ROM.Content))
	tb.PC = s.NewSignal("pc", pcBits)
	pcNext := s.NewSignal("pc_next", pcBits)
	tb.Instr = s.NewSignal("instr", cfg.ROM.Width)

	var dp datapath
	if err := s.Bind("", &dp, map[string]uint{
		"data":   w,
		"ram":    addrBits(cfg.RAM.NWords),
		"rf":     addrBits(cfg.RegFile.NWords),
		"opcode": opBits,
	}); err != nil {
		return err
	}
	ramAddr, ramDin, ramDout, ramWE := dp.RAMAddr, dp.RAMDin, dp.RAMDout, dp.RAMWE
	addrA, addrB, doutA, doutB, rfWE := dp.AddrA, dp.AddrB, dp.DoutA, dp.DoutB, dp.RFWE
	op, result, wbSel, wb := dp.Op, dp.Result, dp.WBSel, dp.WB

	var err error
	if err = hwlib.Clock(s, tb.Clk, cfg.Clock.HalfPeriod); err != nil {
		return err
	}
	if n := len(cfg.ROM.Content); n > 1 && n&(n-1) == 0 {
		if err = hwlib.Inc(s, "pc_inc", tb.PC, pcNext); err != nil {
			return err
		}
	} else {
		pc := tb.PC
		s.Combinational("pc_inc", func() error {
			pcNext.Write((pc.Read() + 1) % uint64(n))
			return nil
		}, pc)
	}
	if err = hwlib.DFF(s, "pc_reg", tb.Clk, pcNext, tb.PC); err != nil {
		return err
	}
	if tb.ROM, err = hwlib.NewROM(s, "ins_rom", tb.Instr, tb.PC, cfg.ROM.Content); err != nil {
		return err
	}
	if tb.RAM, err = hwlib.RAM(s, "ram", hwlib.RAMPins{
		Dout: ramDout, Din: ramDin, Addr: ramAddr, WE: ramWE, Clk: tb.Clk,
	}, cfg.RAM.WSize, cfg.RAM.NWords); err != nil {
		return err
	}
	if tb.RegFile, err = hwlib.RegisterFile(s, "regs", hwlib.RegFilePins{
		DoutA: doutA, DoutB: doutB, Din: wb, AddrA: addrA, AddrB: addrB, WE: rfWE, Clk: tb.Clk,
	}, w, cfg.RegFile.NWords); err != nil {
		return err
	}
	if err = hwlib.ALU(s, "alu", hwlib.ALUPins{Op: op, A: doutA, B: doutB, Result: result}); err != nil {
		return err
	}
	if err = hwlib.Mux(s, "wb_mux", result, ramDout, wbSel, wb); err != nil {
		return err
	}
	if err = hwlib.Probe(s, "decoder", func(t uint64, v []uint64) {
		f := hwlib.DecodeInstruction(uint32(v[0]))
		tb.log.Debugf("[t %07d] pc=%d instr=0x%08x fmt=%d aluop=%d immed=0x%06x",
			t, v[1], v[0], f.Fmt, f.ALUOp, f.Immed)
	}, tb.Instr, tb.PC); err != nil {
		return err
	}

	// random stimulus, applied on falling edges so that inputs are stable
	// on the next rising edge.
	rnd := rand.New(rand.NewSource(cfg.Seed))
	nRAM, nRF := cfg.RAM.NWords, cfg.RegFile.NWords
	s.Clocked("stimulus", tb.Clk, tpusim.Falling, func() error {
		ramAddr.Write(uint64(rnd.Intn(nRAM)))
		ramDin.Write(rnd.Uint64() & ramDin.Mask())
		ramWE.Write(uint64(rnd.Intn(2)))
		addrA.Write(uint64(rnd.Intn(nRF)))
		addrB.Write(uint64(rnd.Intn(nRF)))
		rfWE.Write(uint64(rnd.Intn(2)))
		op.Write(uint64(rnd.Intn(1 << opBits)))
		wbSel.Write(uint64(rnd.Intn(2)))
		return nil
	})
	return nil
}

// Run runs the simulation until time until.
//
func (tb *Testbench) Run(ctx context.Context, until uint64) error {
	return tb.S.Run(ctx, until)
}

// Values returns the committed value of every signal, by name.
//
func (tb *Testbench) Values() map[string]uint64 {
	sigs := tb.S.Signals()
	m := make(map[string]uint64, len(sigs))
	for _, sig := range sigs {
		m[sig.Name()] = sig.Read()
	}
	return m
}

// Result is the outcome of a simulation run.
//
type Result struct {
	Time    uint64
	Stats   tpusim.Stats
	Digest  uint64
	Changes int
	Values  map[string]uint64
}

// Names returns the signal names in r.Values, sorted.
//
func (r *Result) Names() []string {
	ns := make([]string, 0, len(r.Values))
	for n := range r.Values {
		ns = append(ns, n)
	}
	sort.Strings(ns)
	return ns
}

// Simulate builds the testbench described by cfg and runs it for
// cfg.Duration time units.
//
func Simulate(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*Result, error) {
	tb, err := New(cfg, log)
	if err != nil {
		return nil, err
	}
	defer tb.S.Dispose()

	tb.log.Infof("simulating %d time units, seed %d", cfg.Duration, cfg.Seed)
	if err = tb.Run(ctx, cfg.Duration); err != nil {
		return nil, errors.Wrap(err, "simulation failed")
	}
	r := &Result{
		Time:    tb.S.Now(),
		Stats:   tb.S.Stats(),
		Digest:  tb.Recorder.Digest(),
		Changes: tb.Recorder.Changes(),
		Values:  tb.Values(),
	}
	tb.log.Infof("[t %07d] done: %d instants, %d delta rounds, %d evaluations",
		r.Time, r.Stats.Instants, r.Stats.Rounds, r.Stats.Evaluations)
	return r, nil
}
