// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package inputs provides time-based input processes for driving channels:
piecewise-constant schedules, fixed input presentation, and noise
sources.  Each process follows the environment pattern: Init to reset,
Step to advance one tick of length Dt, State / Vector to read the
current output.

The typical loop feeds a network like this:

	pw.Init(0)
	for i := 0; i < n; i++ {
		pw.Step()
		nt.SetInput("vision", pw.Vector())
		nt.Cycle()
	}

Time starts at Dt on the first Step, matching the convention that tick i
reports the state at the end of its time step.
*/
package inputs

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/chewxy/math32"
	"github.com/emer/emergent/v2/env"
	"github.com/emer/etable/v2/etensor"
)

// Point is one breakpoint of a piecewise-constant schedule.
type Point struct {
	T   float32   `desc:"time in seconds at which this value starts"`
	Vec []float32 `desc:"output vector from this time on"`
}

// Piecewise outputs a piecewise-constant (zero-order hold) vector
// schedule: the value of the latest breakpoint at or before the current
// time, and zeros before the first breakpoint.
type Piecewise struct {
	Nm     string          `desc:"name of this input process"`
	Dim    int             `desc:"output dimensionality"`
	Dt     float32         `def:"0.001" desc:"time step per Step call, in seconds"`
	Points []Point         `desc:"breakpoints, sorted by time at Config"`
	Out    etensor.Float32 `desc:"current output"`
	Tick   env.Ctr         `view:"inline" desc:"tick counter -- Cur*Dt is current time"`
}

func (pw *Piecewise) Name() string { return pw.Nm }

// Config sets the dimensionality and breakpoints, sorting them by time.
func (pw *Piecewise) Config(dim int, dt float32, points []Point) error {
	for _, pt := range points {
		if len(pt.Vec) != dim {
			return fmt.Errorf("inputs.Piecewise: breakpoint at t=%v has dim %d != %d", pt.T, len(pt.Vec), dim)
		}
	}
	pw.Dim = dim
	pw.Dt = dt
	pw.Points = append([]Point{}, points...)
	sort.Slice(pw.Points, func(i, j int) bool { return pw.Points[i].T < pw.Points[j].T })
	pw.Out.SetShape([]int{dim}, nil, []string{"D"})
	return nil
}

func (pw *Piecewise) Init(run int) {
	pw.Tick.Scale = env.Tick
	pw.Tick.Init()
	pw.Out.SetZeros()
}

// Step advances one tick and updates the output for the new time.
// The lookup uses t + Dt/2 so a breakpoint lands exactly on its tick
// even with float rounding.
func (pw *Piecewise) Step() bool {
	pw.Tick.Incr()
	t := float32(pw.Tick.Cur) * pw.Dt
	pw.Out.SetZeros()
	for i := len(pw.Points) - 1; i >= 0; i-- {
		if pw.Points[i].T <= t+0.5*pw.Dt {
			copy(pw.Out.Values, pw.Points[i].Vec)
			break
		}
	}
	return true
}

func (pw *Piecewise) State(element string) etensor.Tensor { return &pw.Out }

// Vector returns the current output vector.
func (pw *Piecewise) Vector() []float32 { return pw.Out.Values }

// PresentInput cycles through a fixed list of vectors, presenting each
// one for PresentTime seconds before moving to the next, wrapping around.
type PresentInput struct {
	Nm          string          `desc:"name of this input process"`
	Dim         int             `desc:"output dimensionality"`
	Dt          float32         `def:"0.001" desc:"time step per Step call, in seconds"`
	PresentTime float32         `desc:"how long each input is presented, in seconds"`
	Inputs      [][]float32     `desc:"inputs to present, in order"`
	Out         etensor.Float32 `desc:"current output"`
	Tick        env.Ctr         `view:"inline" desc:"tick counter"`
}

func (pr *PresentInput) Name() string { return pr.Nm }

func (pr *PresentInput) Config(dim int, dt, presentTime float32, ins [][]float32) error {
	if presentTime <= 0 {
		return fmt.Errorf("inputs.PresentInput: presentation time must be positive, got %v", presentTime)
	}
	for i, in := range ins {
		if len(in) != dim {
			return fmt.Errorf("inputs.PresentInput: input %d has dim %d != %d", i, len(in), dim)
		}
	}
	pr.Dim = dim
	pr.Dt = dt
	pr.PresentTime = presentTime
	pr.Inputs = ins
	pr.Out.SetShape([]int{dim}, nil, []string{"D"})
	return nil
}

func (pr *PresentInput) Init(run int) {
	pr.Tick.Scale = env.Tick
	pr.Tick.Init()
	pr.Out.SetZeros()
}

func (pr *PresentInput) Step() bool {
	pr.Tick.Incr()
	t := float32(pr.Tick.Cur) * pr.Dt
	n := len(pr.Inputs)
	if n == 0 {
		return true
	}
	// small epsilon so a presentation boundary lands on the next input
	i := int((t-pr.Dt)/pr.PresentTime+1.0e-7) % n
	copy(pr.Out.Values, pr.Inputs[i])
	return true
}

func (pr *PresentInput) State(element string) etensor.Tensor { return &pr.Out }

func (pr *PresentInput) Vector() []float32 { return pr.Out.Values }

// WhiteNoise outputs Gaussian white noise, optionally scaled by
// 1/sqrt(Dt) so that integrating the noise gives a magnitude independent
// of the time step.
type WhiteNoise struct {
	Nm    string          `desc:"name of this input process"`
	Dim   int             `desc:"output dimensionality"`
	Dt    float32         `def:"0.001" desc:"time step per Step call, in seconds"`
	Std   float32         `def:"1" desc:"standard deviation of the noise"`
	Scale bool            `def:"true" desc:"scale by 1/sqrt(Dt) for integration, making integrated magnitude Dt-invariant"`
	Seed  int64           `desc:"random seed -- same seed gives the same noise sequence"`
	Out   etensor.Float32 `desc:"current output"`
	Tick  env.Ctr         `view:"inline" desc:"tick counter"`

	rnd *rand.Rand
}

func (wn *WhiteNoise) Name() string { return wn.Nm }

func (wn *WhiteNoise) Config(dim int, dt float32, seed int64) {
	wn.Dim = dim
	wn.Dt = dt
	wn.Std = 1
	wn.Scale = true
	wn.Seed = seed
	wn.Out.SetShape([]int{dim}, nil, []string{"D"})
}

func (wn *WhiteNoise) Init(run int) {
	wn.Tick.Scale = env.Tick
	wn.Tick.Init()
	wn.rnd = rand.New(rand.NewSource(wn.Seed))
	wn.Out.SetZeros()
}

func (wn *WhiteNoise) Step() bool {
	wn.Tick.Incr()
	alpha := float32(1)
	if wn.Scale {
		alpha = 1 / math32.Sqrt(wn.Dt)
	}
	for i := range wn.Out.Values {
		wn.Out.Values[i] = alpha * wn.Std * float32(wn.rnd.NormFloat64())
	}
	return true
}

func (wn *WhiteNoise) State(element string) etensor.Tensor { return &wn.Out }

func (wn *WhiteNoise) Vector() []float32 { return wn.Out.Values }

// FilteredNoise outputs white noise passed through a lowpass filter with
// time constant Tau, giving temporally correlated noise.
type FilteredNoise struct {
	WhiteNoise
	Tau float32         `def:"0.005" min:"0" desc:"lowpass filter time constant, in seconds"`
	Flt etensor.Float32 `desc:"filtered output"`
}

func (fn *FilteredNoise) Config(dim int, dt, tau float32, seed int64) {
	fn.WhiteNoise.Config(dim, dt, seed)
	fn.Tau = tau
	fn.Flt.SetShape([]int{dim}, nil, []string{"D"})
}

func (fn *FilteredNoise) Init(run int) {
	fn.WhiteNoise.Init(run)
	fn.Flt.SetZeros()
}

func (fn *FilteredNoise) Step() bool {
	fn.WhiteNoise.Step()
	dtt := fn.Dt / fn.Tau
	if dtt > 1 {
		dtt = 1
	}
	for i, x := range fn.Out.Values {
		fn.Flt.Values[i] += (x - fn.Flt.Values[i]) * dtt
	}
	return true
}

func (fn *FilteredNoise) State(element string) etensor.Tensor { return &fn.Flt }

func (fn *FilteredNoise) Vector() []float32 { return fn.Flt.Values }
