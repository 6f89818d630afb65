// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/db47h/tpusim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tpusim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, uint64(2000), cfg.Duration)
	assert.Equal(t, uint64(10), cfg.Clock.HalfPeriod)
	assert.Equal(t, Memory{WSize: 8, NWords: 16}, cfg.RAM)
	assert.Equal(t, Memory{WSize: 8, NWords: 16}, cfg.RegFile)
	assert.Equal(t, InsROMContent, cfg.ROM.Content)

	// defaults do not share the ROM content
	cfg.ROM.Content[0] = 0
	assert.Equal(t, uint64(0x00888888), Default().ROM.Content[0])

	ov, err := cfg.Overflow()
	require.NoError(t, err)
	assert.Equal(t, tpusim.OverflowTruncate, ov)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
duration: 500
seed: 42
clock:
  half_period: 4
kernel:
  max_delta_rounds: 64
  overflow: reject
ram:
  nwords: 32
rom:
  content: [0x01000001, 0x02000002, 0x03000003]
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), cfg.Duration)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, uint64(4), cfg.Clock.HalfPeriod)
	assert.Equal(t, 64, cfg.Kernel.MaxDeltaRounds)
	assert.Equal(t, 32, cfg.RAM.NWords)
	assert.Equal(t, uint(8), cfg.RAM.WSize, "unset fields keep their default")
	assert.Equal(t, []uint64{0x01000001, 0x02000002, 0x03000003}, cfg.ROM.Content)

	ov, err := cfg.Overflow()
	require.NoError(t, err)
	assert.Equal(t, tpusim.OverflowReject, ov)
}

func TestLoad_errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "clock: [1, 2"))
	assert.ErrorContains(t, err, "parsing config")

	_, err = Load(writeConfig(t, "clock:\n  half_period: 0\n"))
	assert.ErrorContains(t, err, "half_period")
}

func TestValidate(t *testing.T) {
	for _, d := range []struct {
		name string
		mod  func(c *Config)
		err  string
	}{
		{"max delta rounds", func(c *Config) { c.Kernel.MaxDeltaRounds = 0 }, "max_delta_rounds"},
		{"overflow", func(c *Config) { c.Kernel.Overflow = "wrap" }, "overflow policy"},
		{"ram wsize", func(c *Config) { c.RAM.WSize = 65 }, "ram: invalid wsize"},
		{"regfile nwords", func(c *Config) { c.RegFile.NWords = 0 }, "regfile: invalid nwords"},
		{"alu width", func(c *Config) { c.ALU.Width = 0 }, "alu: invalid width"},
		{"datapath", func(c *Config) { c.ALU.Width = 16 }, "width mismatch"},
		{"rom width", func(c *Config) { c.ROM.Width = 33 }, "rom: invalid width"},
		{"rom content", func(c *Config) { c.ROM.Content = nil }, "empty content"},
		{"rom word", func(c *Config) { c.ROM.Width = 16 }, "does not fit"},
	} {
		t.Run(d.name, func(t *testing.T) {
			cfg := Default()
			d.mod(cfg)
			assert.ErrorContains(t, cfg.Validate(), d.err)
		})
	}
}
