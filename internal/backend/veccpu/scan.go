package veccpu

import (
	"github.com/loom-ml/loom/internal/backend/generic"
	"github.com/loom-ml/loom/internal/parallel"
	"github.com/loom-ml/loom/internal/tensor"
)

// EvalScan vectorizes the exclusive float32 running sum when the input is
// row-contiguous and the scan axis has unit stride, so the data decomposes
// into independent flat segments. Inclusive scans and every other
// reduction, dtype or layout delegate to the generic executor.
func EvalScan(p *tensor.Primitive, inputs []*tensor.Array, out *tensor.Array) error {
	if len(inputs) != 1 {
		return generic.EvalScan(p, inputs, out)
	}
	in := inputs[0]

	shape := in.Shape()
	fast := p.Reduce == tensor.ScanSum && !p.Inclusive &&
		in.DType() == tensor.Float32 && out.DType() == tensor.Float32 &&
		in.Flags().RowContiguous &&
		p.Axis >= 0 && p.Axis < len(shape) && in.Strides()[p.Axis] == 1
	if !fast {
		return generic.EvalScan(p, inputs, out)
	}

	if err := out.Materialize(); err != nil {
		return err
	}

	axisSize := shape[p.Axis]
	n := in.NumElements()
	src := tensor.Data[float32](in)[:n]
	dst := tensor.Data[float32](out)[:n]

	if axisSize == 0 || n == 0 {
		return nil
	}

	segments := n / axisSize
	parallel.Spans(segments, cfg, func(lo, hi int) {
		for seg := lo; seg < hi; seg++ {
			base := seg * axisSize
			var acc float32
			if !p.Reverse {
				for k := 0; k < axisSize; k++ {
					dst[base+k] = acc
					acc += src[base+k]
				}
			} else {
				for k := axisSize - 1; k >= 0; k-- {
					dst[base+k] = acc
					acc += src[base+k]
				}
			}
		}
	})
	return nil
}
