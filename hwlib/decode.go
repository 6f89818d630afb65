// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

// Field returns bits [lo, hi) of v, shifted down to bit 0.
//
func Field(v uint64, hi, lo uint) uint64 {
	if hi <= lo {
		return 0
	}
	n := hi - lo
	if n >= 64 {
		return v >> lo
	}
	return v >> lo & (1<<n - 1)
}

// Fields holds the fields of a 32 bits instruction word.
//
//	31    28 27    24 23                              0
//	+-------+--------+--------------------------------+
//	|  fmt  | aluop  |             data24             |
//	+-------+--------+--------------------------------+
//
// The DataNN fields are the immediate variants: the low NN bits of data24,
// or a slice of it, padded with zeros on the right.
//
type Fields struct {
	Fmt    uint8
	ALUOp  uint8
	Immed  uint32 // same as Data24
	Data24 uint32 // word[23:0]
	Data20 uint32 // word[19:0] << 4
	Data16 uint32 // word[23:8] << 8
	Data12 uint32 // word[23:12] << 12
}

// DecodeInstruction extracts the fields of an instruction word.
//
func DecodeInstruction(word uint32) Fields {
	w := uint64(word)
	d24 := uint32(Field(w, 24, 0))
	return Fields{
		Fmt:    uint8(Field(w, 32, 28)),
		ALUOp:  uint8(Field(w, 28, 24)),
		Immed:  d24,
		Data24: d24,
		Data20: uint32(Field(w, 20, 0)) << 4,
		Data16: uint32(Field(w, 24, 8)) << 8,
		Data12: uint32(Field(w, 24, 12)) << 12,
	}
}
