// Copyright 2025 Loom ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/loom-ml/loom/internal/eval"
	"github.com/loom-ml/loom/internal/tensor"
)

// ErrUnimplemented reports a (kind, target) pair with no registered kernel.
var ErrUnimplemented = eval.ErrUnimplemented

// Eval runs a single-output primitive on the given target, materializing
// out. Unsupported (kind, target) pairs return ErrUnimplemented without
// touching output storage.
func Eval(target Target, p *Primitive, inputs []*Array, out *Array) error {
	return eval.Eval(target, p, inputs, out)
}

// EvalMulti runs a multi-output primitive (DivMod, Split) on the given
// target, materializing every element of outs or none.
func EvalMulti(target Target, p *Primitive, inputs []*Array, outs []*Array) error {
	return eval.EvalMulti(target, p, inputs, outs)
}

// Supported reports whether the (kind, target) pair has a registered
// kernel.
func Supported(target Target, kind Kind) bool {
	return eval.Supported(target, kind)
}

// DefaultTarget picks the fastest host target: VecCPU when a vector unit
// is detected, CPU otherwise.
func DefaultTarget() Target {
	return eval.DefaultTarget()
}

// Targets lists every execution target in dispatch order.
func Targets() []Target {
	ts := make([]Target, tensor.NumTargets())
	for i := range ts {
		ts[i] = Target(i)
	}
	return ts
}
