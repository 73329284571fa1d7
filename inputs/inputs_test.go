// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inputs

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestPiecewise(t *testing.T) {
	pw := &Piecewise{Nm: "pw"}
	err := pw.Config(2, 0.001, []Point{
		{T: 0.5, Vec: []float32{1, 0}},
		{T: 0.25, Vec: []float32{0, 1}}, // out of order on purpose
	})
	if err != nil {
		t.Fatal(err)
	}
	pw.Init(0)

	step := func(n int) {
		for i := 0; i < n; i++ {
			pw.Step()
		}
	}
	step(100) // t = 0.1: before first breakpoint
	if pw.Vector()[0] != 0 || pw.Vector()[1] != 0 {
		t.Errorf("t=0.1: %v, want zeros", pw.Vector())
	}
	step(150) // t = 0.25
	if pw.Vector()[1] != 1 {
		t.Errorf("t=0.25: %v, want [0 1]", pw.Vector())
	}
	step(250) // t = 0.5
	if pw.Vector()[0] != 1 {
		t.Errorf("t=0.5: %v, want [1 0]", pw.Vector())
	}
	step(1000) // well past the last breakpoint: holds
	if pw.Vector()[0] != 1 {
		t.Errorf("t=1.5: %v, want [1 0]", pw.Vector())
	}
}

func TestPiecewiseConfigError(t *testing.T) {
	pw := &Piecewise{}
	if err := pw.Config(3, 0.001, []Point{{T: 0, Vec: []float32{1}}}); err == nil {
		t.Error("expected dimension error")
	}
}

func TestPresentInput(t *testing.T) {
	pr := &PresentInput{Nm: "pr"}
	err := pr.Config(1, 0.001, 0.01, [][]float32{{1}, {2}, {3}})
	if err != nil {
		t.Fatal(err)
	}
	pr.Init(0)

	got := []float32{}
	for i := 0; i < 35; i++ {
		pr.Step()
		if i%10 == 0 { // first tick of each presentation window
			got = append(got, pr.Vector()[0])
		}
	}
	want := []float32{1, 2, 3, 1} // wraps around
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("presentation %d: %v != %v", i, got[i], want[i])
		}
	}
}

func TestWhiteNoiseDeterminism(t *testing.T) {
	mk := func() []float32 {
		wn := &WhiteNoise{Nm: "wn"}
		wn.Config(8, 0.001, 99)
		wn.Init(0)
		for i := 0; i < 10; i++ {
			wn.Step()
		}
		return append([]float32{}, wn.Vector()...)
	}
	a := mk()
	b := mk()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed diverged at %d: %v != %v", i, a[i], b[i])
		}
	}
}

func TestWhiteNoiseScale(t *testing.T) {
	wn := &WhiteNoise{Nm: "wn"}
	wn.Config(1000, 0.0001, 5)
	wn.Init(0)
	wn.Step()
	var ss float32
	for _, v := range wn.Vector() {
		ss += v * v
	}
	std := math32.Sqrt(ss / 1000)
	want := 1 / math32.Sqrt(0.0001) // 100
	if std < want/2 || std > want*2 {
		t.Errorf("scaled noise std: %v, want near %v", std, want)
	}
}

func TestFilteredNoiseSmoothing(t *testing.T) {
	fn := &FilteredNoise{}
	fn.Config(1, 0.001, 0.05, 13)
	fn.Nm = "fn"
	fn.Init(0)

	// lagged autocorrelation of the filtered signal should be high;
	// raw white noise has none
	var prev, sumd, sumr float32
	n := 2000
	for i := 0; i < n; i++ {
		fn.Step()
		cur := fn.Vector()[0]
		if i > 0 {
			sumd += math32.Abs(cur - prev)
			sumr += math32.Abs(cur)
		}
		prev = cur
	}
	if sumr == 0 {
		t.Fatal("filtered signal is identically zero")
	}
	if sumd/sumr > 0.5 {
		t.Errorf("filtered signal step-to-step change ratio %v -- not smooth", sumd/sumr)
	}
}
