// Package generic implements the dtype- and shape-general fallback executors
// for primitive evaluation. Every fast path in the veccpu backend must match
// these results bit for bit; this package is the correctness baseline.
package generic

import (
	"github.com/pkg/errors"

	"github.com/loom-ml/loom/internal/tensor"
)

// ErrInvalidOperand reports a primitive applied to an operand dtype it does
// not support, e.g. Exp on an integer array.
var ErrInvalidOperand = errors.New("invalid operand")

func wantInputs(p *tensor.Primitive, inputs []*tensor.Array, n int) error {
	if len(inputs) != n {
		return errors.Errorf("[%s] expected %d inputs, got %d", p, n, len(inputs))
	}
	return nil
}
