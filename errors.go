// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package tpusim

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrAborted is returned by Run and Settle once a fault has aborted the
	// simulation.
	ErrAborted = errors.New("simulation aborted")
	// ErrDisposed is returned when using a Scheduler after Dispose.
	ErrDisposed = errors.New("scheduler disposed")
	// ErrNotInitialized is returned by Run and Settle when called before Init.
	ErrNotInitialized = errors.New("scheduler not initialized")
)

// ConvergenceError reports a time instant where delta rounds did not reach a
// fixpoint within the configured budget. Signals holds the names of the
// signals that changed during the last round.
//
type ConvergenceError struct {
	Time    uint64
	Rounds  int
	Signals []string
}

func (e *ConvergenceError) Error() string {
	return "no fixpoint after " + strconv.Itoa(e.Rounds) + " delta rounds at t=" +
		strconv.FormatUint(e.Time, 10) + ", last changed: " + strings.Join(e.Signals, ", ")
}

// AddressError reports an access outside of a memory block.
//
type AddressError struct {
	Part  string
	Addr  uint64
	Words int
}

func (e *AddressError) Error() string {
	return e.Part + ": address " + strconv.FormatUint(e.Addr, 10) +
		" out of range [0, " + strconv.Itoa(e.Words) + ")"
}

// OverflowError reports a write of a value wider than the target signal when
// the scheduler runs with OverflowReject.
//
type OverflowError struct {
	Signal string
	Width  uint
	Value  uint64
}

func (e *OverflowError) Error() string {
	return "value 0x" + strconv.FormatUint(e.Value, 16) + " does not fit in " +
		strconv.FormatUint(uint64(e.Width), 10) + " bit signal " + e.Signal
}

// ConflictError reports two drivers writing different values to the same
// signal within a single delta round.
//
type ConflictError struct {
	Signal  string
	Drivers [2]string
	Values  [2]uint64
}

func (e *ConflictError) Error() string {
	return "conflicting writes to " + e.Signal + ": " +
		e.Drivers[0] + "=0x" + strconv.FormatUint(e.Values[0], 16) + ", " +
		e.Drivers[1] + "=0x" + strconv.FormatUint(e.Values[1], 16)
}
