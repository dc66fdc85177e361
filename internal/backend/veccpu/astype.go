package veccpu

import (
	"github.com/loom-ml/loom/internal/backend/generic"
	"github.com/loom-ml/loom/internal/parallel"
	"github.com/loom-ml/loom/internal/tensor"
)

// EvalAsType vectorizes the contiguous float32/int32/uint32 conversion
// pairs. Same-dtype casts and every other pair delegate to the generic
// executor (which covers the alias case and the full dtype matrix).
func EvalAsType(p *tensor.Primitive, inputs []*tensor.Array, out *tensor.Array) error {
	if len(inputs) != 1 {
		return generic.EvalAsType(p, inputs, out)
	}
	in := inputs[0]

	if !in.Flags().Contiguous || in.DType() == out.DType() {
		return generic.EvalAsType(p, inputs, out)
	}

	switch {
	case in.DType() == tensor.Float32 && out.DType() == tensor.Int32:
		return castFlat(in, out, func(v float32) int32 { return int32(v) })
	case in.DType() == tensor.Float32 && out.DType() == tensor.Uint32:
		return castFlat(in, out, func(v float32) uint32 { return uint32(v) })
	case in.DType() == tensor.Int32 && out.DType() == tensor.Float32:
		return castFlat(in, out, func(v int32) float32 { return float32(v) })
	case in.DType() == tensor.Uint32 && out.DType() == tensor.Float32:
		return castFlat(in, out, func(v uint32) float32 { return float32(v) })
	}

	return generic.EvalAsType(p, inputs, out)
}

func castFlat[S, D int32 | uint32 | float32](in, out *tensor.Array, conv func(S) D) error {
	if err := generic.MaterializeUnary(in, out); err != nil {
		return err
	}
	n := in.DataSize()
	src := tensor.Data[S](in)[:n]
	dst := tensor.Data[D](out)[:n]
	parallel.Spans(n, cfg, func(s, e int) {
		for i := s; i < e; i++ {
			dst[i] = conv(src[i])
		}
	})
	return nil
}
