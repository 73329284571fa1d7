// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spa

import "github.com/emer/emergent/v2/etime"

// Time contains the timing state for running a model.
type Time struct {

	// accumulated amount of time the network has been running,
	// in simulation-time (not real world time), in seconds.
	Time float32

	// cycle counter: number of ticks run since last reset.
	Cycle int

	// amount of time to increment per cycle, in seconds.
	TimePerCyc float32 `def:"0.001"`

	// current evaluation mode, e.g., Train, Test, etc
	Mode etime.Modes
}

// NewTime returns a new Time struct with default parameters
func NewTime() *Time {
	tm := &Time{}
	tm.Defaults()
	return tm
}

// Defaults sets default values
func (tm *Time) Defaults() {
	tm.TimePerCyc = 0.001
}

// Reset resets the counters all back to zero
func (tm *Time) Reset() {
	tm.Time = 0
	tm.Cycle = 0
	if tm.TimePerCyc == 0 {
		tm.Defaults()
	}
}

// CycleInc increments at the cycle level
func (tm *Time) CycleInc() {
	tm.Cycle++
	tm.Time += tm.TimePerCyc
}
