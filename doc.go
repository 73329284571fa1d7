// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package spa is the overall repository for vector-symbolic action
selection in the Go language (golang): encoding symbols as
high-dimensional vectors, binding them compositionally, and routing
information between named channels via rules selected by a competitive
winner-take-all dynamic modeled on the basal ganglia / thalamus circuit.

This top-level of the repository has no functional code -- everything is
organized into the following sub-repositories:

* vocab: vocabularies of semantic pointers -- named pseudo-random unit
vectors with circular-convolution binding, unbinding, superposition and
cosine similarity.

* rules: the condition --> effect rule grammar and its recursive-descent
parser, producing expression trees evaluated against the vocabulary and
channel state.

* wta: winner-take-all competitive dynamics turning per-rule utilities
into a decisive, temporally stable selection signal with hysteresis.

* spa: the core network tying everything together -- channel store,
utility evaluator, effect router, per-cycle simulation loop and probe
logging.

* inputs: time-based input processes (piecewise schedules, fixed
presentations, noise) for driving channels.

* examples: these actually compile into runnable programs and provide
the starting point for your own models.  examples/routing is the place
to start: a two-rule model that stores visual statements into working
memory and answers questions from it.
*/
package spa
