// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"github.com/db47h/tpusim"
	"github.com/pkg/errors"
)

// ROM is a read-only memory.
//
type ROM struct {
	name    string
	content []uint64
}

// NewROM registers a ROM with the given content. The content is copied.
//
//	Inputs: addr
//	Outputs: dout
//	Function: dout = content[addr] // combinational
//
func NewROM(s *tpusim.Scheduler, name string, dout, addr *tpusim.Signal, content []uint64) (*ROM, error) {
	if len(content) == 0 {
		return nil, errors.Errorf("%s: empty content table", name)
	}
	if err := connected(name, dout); err != nil {
		return nil, err
	}
	if err := checkAddr(name, addr, len(content)); err != nil {
		return nil, err
	}
	for i, w := range content {
		if w&^dout.Mask() != 0 {
			return nil, errors.Errorf("%s: word %d (0x%x) does not fit in %d bits", name, i, w, dout.Width())
		}
	}
	r := &ROM{name: name, content: append([]uint64(nil), content...)}
	s.Combinational(name+".read", func() error {
		v, err := r.Read(addr.Read())
		if err != nil {
			return err
		}
		dout.Write(v)
		return nil
	}, addr)
	return r, nil
}

// Read returns the word at addr.
//
func (r *ROM) Read(addr uint64) (uint64, error) {
	if addr >= uint64(len(r.content)) {
		return 0, &tpusim.AddressError{Part: r.name, Addr: addr, Words: len(r.content)}
	}
	return r.content[addr], nil
}

// Words returns the number of words in r.
//
func (r *ROM) Words() int { return len(r.content) }
