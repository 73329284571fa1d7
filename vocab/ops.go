// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vocab

import (
	"github.com/chewxy/math32"
	"github.com/emer/etable/v2/metric"
)

// Bind binds two equal-length vectors via circular convolution:
// out[i] = sum_k a[k] * b[(i-k) mod d].  Binding is the association
// operator of the algebra: the result is nearly orthogonal to both
// inputs, and approximately invertible via Unbind.
// This is the direct O(d^2) form -- bind and unbind must use the same
// operator everywhere, and the direct form keeps that trivially true.
func Bind(a, b []float32) []float32 {
	d := len(a)
	out := make([]float32, d)
	for i := 0; i < d; i++ {
		var sum float32
		for k := 0; k < d; k++ {
			j := i - k
			if j < 0 {
				j += d
			}
			sum += a[k] * b[j]
		}
		out[i] = sum
	}
	return out
}

// Involution returns the approximate inverse of a vector under circular
// convolution: the index-reversed vector b'[0] = b[0], b'[i] = b[d-i].
func Involution(b []float32) []float32 {
	d := len(b)
	out := make([]float32, d)
	out[0] = b[0]
	for i := 1; i < d; i++ {
		out[i] = b[d-i]
	}
	return out
}

// Unbind approximately recovers a from Bind(a, b) given b:
// Unbind(Bind(a, b), b) is similar to a (cosine > ~0.95 at d >= 64).
func Unbind(a, b []float32) []float32 {
	return Bind(a, Involution(b))
}

// Superpose returns the elementwise sum of the given vectors, representing
// their mixture.  Magnitude is not renormalized: it communicates confidence.
func Superpose(vecs ...[]float32) []float32 {
	out := make([]float32, len(vecs[0]))
	for _, v := range vecs {
		for i := range v {
			out[i] += v[i]
		}
	}
	return out
}

// Subtract returns a - b elementwise.
func Subtract(a, b []float32) []float32 {
	out := make([]float32, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}

// Scale returns s * a elementwise.
func Scale(s float32, a []float32) []float32 {
	out := make([]float32, len(a))
	for i := range a {
		out[i] = s * a[i]
	}
	return out
}

// AddTo accumulates src into dst elementwise, in place.
func AddTo(dst, src []float32) {
	for i := range src {
		dst[i] += src[i]
	}
}

// Norm returns the L2 norm of the vector.
func Norm(a []float32) float32 {
	var ss float32
	for _, v := range a {
		ss += v * v
	}
	return math32.Sqrt(ss)
}

// UnitNorm normalizes the vector to unit L2 norm in place.
// A zero vector is left unchanged.
func UnitNorm(a []float32) {
	nrm := Norm(a)
	if nrm == 0 {
		return
	}
	for i := range a {
		a[i] /= nrm
	}
}

// Dot returns the inner product of two equal-length vectors.
func Dot(a, b []float32) float32 {
	return metric.InnerProduct32(a, b)
}

// Cosine returns the cosine similarity of two equal-length vectors,
// in [-1, 1].  Zero vectors yield 0, not NaN: a zeroed channel simply
// matches nothing.
func Cosine(a, b []float32) float32 {
	na := Norm(a)
	nb := Norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	return metric.InnerProduct32(a, b) / (na * nb)
}
