package veccpu

import (
	"github.com/loom-ml/loom/internal/backend/generic"
	"github.com/loom-ml/loom/internal/tensor"
)

// EvalFull vectorizes the scalar-fill float32 case; broadcasting a larger
// source or any other dtype delegates to the generic executor.
func EvalFull(p *tensor.Primitive, inputs []*tensor.Array, out *tensor.Array) error {
	if len(inputs) != 1 {
		return generic.EvalFull(p, inputs, out)
	}
	in := inputs[0]

	if in.DataSize() == 1 && in.DType() == tensor.Float32 && out.DType() == tensor.Float32 {
		if err := out.Materialize(); err != nil {
			return err
		}
		fillF32(tensor.Data[float32](out)[:out.NumElements()], tensor.Data[float32](in)[0])
		return nil
	}

	return generic.EvalFull(p, inputs, out)
}
