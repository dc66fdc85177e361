package generic

import (
	"github.com/pkg/errors"

	"github.com/loom-ml/loom/internal/tensor"
)

// EvalMatmul is the delegated general matmul for float32/float64. The
// numeric algorithm is the straightforward triple loop over strided
// operands; batch dimensions on the left operand pair with the right.
func EvalMatmul(p *tensor.Primitive, inputs []*tensor.Array, out *tensor.Array) error {
	if err := wantInputs(p, inputs, 2); err != nil {
		return err
	}
	a, b := inputs[0], inputs[1]
	if len(a.Shape()) < 2 || len(b.Shape()) < 2 {
		return errors.Errorf("[matmul] operands must be at least 2-D, got %v and %v", a.Shape(), b.Shape())
	}
	if err := out.Materialize(); err != nil {
		return err
	}

	switch out.DType() {
	case tensor.Float32:
		matmulT[float32](a, b, out)
	case tensor.Float64:
		matmulT[float64](a, b, out)
	default:
		return errors.Wrapf(ErrInvalidOperand, "[matmul] only float32/float64 supported, got %s", out.DType())
	}
	return nil
}

func matmulT[T ~float32 | ~float64](a, b, out *tensor.Array) {
	aShape, bShape := a.Shape(), b.Shape()
	m := aShape[len(aShape)-2]
	k := aShape[len(aShape)-1]
	n := bShape[len(bShape)-1]

	as := tensor.Data[T](a)
	bs := tensor.Data[T](b)
	os := tensor.Data[T](out)

	ars := a.Strides()[len(aShape)-2]
	acs := a.Strides()[len(aShape)-1]
	brs := b.Strides()[len(bShape)-2]
	bcs := b.Strides()[len(bShape)-1]

	batch := out.NumElements() / (m * n)
	for bi := 0; bi < batch; bi++ {
		aBase := tensor.ElemToLoc(bi*m*k, aShape, a.Strides())
		bBase := tensor.ElemToLoc(bi*k*n, bShape, b.Strides())
		oBase := bi * m * n

		for i := 0; i < m; i++ {
			for j := 0; j < n; j++ {
				var acc T
				for l := 0; l < k; l++ {
					acc += as[aBase+i*ars+l*acs] * bs[bBase+l*brs+j*bcs]
				}
				os[oBase+i*n+j] = acc
			}
		}
	}
}
