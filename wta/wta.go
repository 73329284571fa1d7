// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package wta provides winner-take-all competitive dynamics over a vector
of rule utilities, modeled on the mutual inhibition of the basal ganglia
/ thalamus selection circuit but computed directly in continuous state,
without a neural simulator.

Each rule carries an activity value in [0..1].  Per tick, each rule's
net drive is its utility minus the maximum utility among all *other*
rules scaled by an inhibition gain >= 1, so only the best rule receives
net positive drive, and near-ties drive everyone toward zero.  Activity
integrates toward the drive with a fixed time constant, which is what
produces hysteresis: a momentary utility fluctuation does not flip an
established winner.  The output selection signal passes activity through
a saturating x/(x+1) ramp above a deadzone, so a clear winner approaches
1 while losers and ambiguous states read as 0.

When all selection values are near zero, no action is selected that
tick -- callers must treat that as a valid ambiguous state, not an error.
*/
package wta

import (
	"github.com/chewxy/math32"
	"github.com/goki/mat32"
)

// Params are the competitive-dynamics parameters.
type Params struct {
	Gain     float32 `def:"2" min:"1" desc:"inhibition gain multiplying the max utility among all other rules -- >= 1 so that only the single best-utility rule can receive net positive drive, and ties dampen everyone"`
	Tau      float32 `def:"0.016" min:"0.001" desc:"time constant in seconds for integrating activity toward drive -- the source of hysteresis: larger values switch winners more slowly and resist oscillation between near-equal rules more strongly"`
	Deadzone float32 `def:"0.05" min:"0" desc:"activity level below which the output selection signal is exactly 0 -- suppresses residual chatter from losing rules"`
	OutGain  float32 `def:"100" min:"0" desc:"gain on the saturating x/(x+1) output ramp above the deadzone -- higher values push a clear winner's selection closer to 1"`
}

func (wp *Params) Defaults() {
	wp.Gain = 2
	wp.Tau = 0.016
	wp.Deadzone = 0.05
	wp.OutGain = 100
}

// State is the per-rule mutable selection state, updated every tick.
type State struct {
	Act   []float32 `desc:"per-rule activity in [0..1], integrated over ticks"`
	Drive []float32 `desc:"per-rule net drive from the last update"`
	Sel   []float32 `desc:"per-rule output selection signal from the last update"`
}

// Init allocates and zeros state for n rules.
func (st *State) Init(n int) {
	st.Act = make([]float32, n)
	st.Drive = make([]float32, n)
	st.Sel = make([]float32, n)
}

// Reset zeros all state without reallocating.
func (st *State) Reset() {
	for i := range st.Act {
		st.Act[i] = 0
		st.Drive[i] = 0
		st.Sel[i] = 0
	}
}

// DriveFmUtil computes each rule's net drive from the utility vector:
// drive[i] = util[i] - Gain * max(util[j], j != i).
func (wp *Params) DriveFmUtil(st *State, util []float32) {
	// top two utilities: the max-other for the argmax is the second
	// highest, and for everyone else it is the highest
	mx1 := float32(-math32.MaxFloat32)
	mx2 := float32(-math32.MaxFloat32)
	mxi := -1
	for i, u := range util {
		if u > mx1 {
			mx2 = mx1
			mx1 = u
			mxi = i
		} else if u > mx2 {
			mx2 = u
		}
	}
	for i, u := range util {
		oth := mx1
		if i == mxi {
			oth = mx2
		}
		if len(util) == 1 {
			oth = 0
		}
		st.Drive[i] = u - wp.Gain*oth
	}
}

// ActFmDrive integrates activity toward drive over time step dt (seconds)
// with time constant Tau, clamping to [0..1].
func (wp *Params) ActFmDrive(st *State, dt float32) {
	dtt := dt / wp.Tau
	if dtt > 1 {
		dtt = 1
	}
	for i, dr := range st.Drive {
		act := st.Act[i] + (dr-st.Act[i])*dtt
		st.Act[i] = mat32.Clamp(act, 0, 1)
	}
}

// SelFmAct computes the output selection signal from activity:
// 0 below the deadzone, then a saturating OutGain*x / (OutGain*x + 1)
// ramp, so strong activity reads as ~1.
func (wp *Params) SelFmAct(st *State) {
	for i, act := range st.Act {
		x := act - wp.Deadzone
		if x <= 0 {
			st.Sel[i] = 0
			continue
		}
		gx := wp.OutGain * x
		st.Sel[i] = gx / (gx + 1)
	}
}

// Step runs one full selection update from the given utilities:
// drives, activity integration, output.  Fully deterministic.
func (wp *Params) Step(st *State, util []float32, dt float32) {
	wp.DriveFmUtil(st, util)
	wp.ActFmDrive(st, dt)
	wp.SelFmAct(st)
}
