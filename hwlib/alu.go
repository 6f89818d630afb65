// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/tpusim"
	"github.com/pkg/errors"
)

// Op is an ALU operation.
//
type Op uint8

// ALU operations, by opcode.
//
const (
	OpZero Op = iota
	OpAdd
	OpSub
	OpAnd
	OpOr
	OpXor
	OpShl
	OpShr
	opCount
)

var opNames = [opCount]string{"zero", "add", "sub", "and", "or", "xor", "shl", "shr"}

func (op Op) String() string {
	if op < opCount {
		return opNames[op]
	}
	return "Op(" + strconv.Itoa(int(op)) + ")"
}

// DecodeOp maps an opcode to an operation. It returns false for unmapped
// opcodes.
//
func DecodeOp(code uint64) (Op, bool) {
	if code >= uint64(opCount) {
		return 0, false
	}
	return Op(code), true
}

// Apply computes a op b, truncated to width bits.
//
func (op Op) Apply(a, b uint64, width uint) uint64 {
	var r uint64
	switch op {
	case OpZero:
	case OpAdd:
		r = a + b
	case OpSub:
		r = a - b
	case OpAnd:
		r = a & b
	case OpOr:
		r = a | b
	case OpXor:
		r = a ^ b
	case OpShl:
		r = a << b
	case OpShr:
		r = a >> b
	default:
		panic("invalid ALU operation " + op.String())
	}
	if width < 64 {
		r &= 1<<width - 1
	}
	return r
}

// ALUPins connects an ALU.
//
type ALUPins struct {
	Op     *tpusim.Signal
	A      *tpusim.Signal
	B      *tpusim.Signal
	Result *tpusim.Signal
}

// ALU registers an ALU mux selecting the operation by opcode.
//
//	Inputs: op, a, b
//	Outputs: result
//	Function: result = a op b, see DecodeOp.
//	          Unmapped opcodes leave result unchanged.
//
func ALU(s *tpusim.Scheduler, name string, p ALUPins) error {
	if err := sameWidth(name, p.A, p.B, p.Result); err != nil {
		return err
	}
	if p.Op == nil {
		return errors.Errorf("%s: op not connected", name)
	}
	w := p.Result.Width()
	s.Combinational(name, func() error {
		op, ok := DecodeOp(p.Op.Read())
		if !ok {
			return nil
		}
		p.Result.Write(op.Apply(p.A.Read(), p.B.Read(), w))
		return nil
	}, p.Op, p.A, p.B)
	return nil
}
