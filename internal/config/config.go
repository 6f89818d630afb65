// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package config holds the testbench configuration, loadable from a YAML
// file.
//
package config

import (
	"os"

	"github.com/db47h/tpusim"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the testbench configuration.
//
type Config struct {
	Duration uint64 `yaml:"duration"`
	Seed     int64  `yaml:"seed"`
	Clock    Clock  `yaml:"clock"`
	Kernel   Kernel `yaml:"kernel"`
	RAM      Memory `yaml:"ram"`
	RegFile  Memory `yaml:"regfile"`
	ALU      ALU    `yaml:"alu"`
	ROM      ROM    `yaml:"rom"`
}

// Clock configures the clock generator.
//
type Clock struct {
	HalfPeriod uint64 `yaml:"half_period"`
}

// Kernel configures the scheduler.
//
type Kernel struct {
	MaxDeltaRounds int    `yaml:"max_delta_rounds"`
	Overflow       string `yaml:"overflow"` // truncate or reject
}

// Memory is the geometry of a RAM or register file.
//
type Memory struct {
	WSize  uint `yaml:"wsize"`
	NWords int  `yaml:"nwords"`
}

// ALU configures the ALU operand width.
//
type ALU struct {
	Width uint `yaml:"width"`
}

// ROM holds the instruction ROM content.
//
type ROM struct {
	Content []uint64 `yaml:"content"`
	Width   uint     `yaml:"width"`
}

// InsROMContent is the default instruction ROM content.
//
var InsROMContent = []uint64{0x00888888, 0x00888888}

// Default returns the default configuration.
//
func Default() *Config {
	return &Config{
		Duration: 2000,
		Seed:     1,
		Clock:    Clock{HalfPeriod: 10},
		Kernel:   Kernel{MaxDeltaRounds: tpusim.DefaultMaxDeltaRounds, Overflow: "truncate"},
		RAM:      Memory{WSize: 8, NWords: 16},
		RegFile:  Memory{WSize: 8, NWords: 16},
		ALU:      ALU{Width: 8},
		ROM:      ROM{Content: append([]uint64(nil), InsROMContent...), Width: 32},
	}
}

// Load reads the YAML file at path on top of the default configuration and
// validates the result.
//
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}
	cfg := Default()
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}
	if err = cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, path)
	}
	return cfg, nil
}

// Overflow returns the kernel overflow policy.
//
func (c *Config) Overflow() (tpusim.OverflowPolicy, error) {
	switch c.Kernel.Overflow {
	case "", "truncate":
		return tpusim.OverflowTruncate, nil
	case "reject":
		return tpusim.OverflowReject, nil
	}
	return 0, errors.Errorf("unknown overflow policy %q", c.Kernel.Overflow)
}

func (m Memory) validate(name string) error {
	if m.WSize == 0 || m.WSize > tpusim.MaxWidth {
		return errors.Errorf("%s: invalid wsize %d", name, m.WSize)
	}
	if m.NWords < 1 {
		return errors.Errorf("%s: invalid nwords %d", name, m.NWords)
	}
	return nil
}

// Validate checks the configuration values.
//
func (c *Config) Validate() error {
	if c.Clock.HalfPeriod == 0 {
		return errors.New("clock: half_period must be > 0")
	}
	if c.Kernel.MaxDeltaRounds < 1 {
		return errors.Errorf("kernel: invalid max_delta_rounds %d", c.Kernel.MaxDeltaRounds)
	}
	if _, err := c.Overflow(); err != nil {
		return errors.Wrap(err, "kernel")
	}
	if err := c.RAM.validate("ram"); err != nil {
		return err
	}
	if err := c.RegFile.validate("regfile"); err != nil {
		return err
	}
	if c.ALU.Width == 0 || c.ALU.Width > tpusim.MaxWidth {
		return errors.Errorf("alu: invalid width %d", c.ALU.Width)
	}
	if c.ALU.Width != c.RegFile.WSize || c.RAM.WSize != c.RegFile.WSize {
		return errors.Errorf("datapath width mismatch: alu %d, regfile %d, ram %d bits",
			c.ALU.Width, c.RegFile.WSize, c.RAM.WSize)
	}
	if c.ROM.Width == 0 || c.ROM.Width > 32 {
		return errors.Errorf("rom: invalid width %d", c.ROM.Width)
	}
	if len(c.ROM.Content) == 0 {
		return errors.New("rom: empty content")
	}
	for i, w := range c.ROM.Content {
		if w>>c.ROM.Width != 0 {
			return errors.Errorf("rom: word %d (0x%x) does not fit in %d bits", i, w, c.ROM.Width)
		}
	}
	return nil
}
