package generic

import (
	"github.com/pkg/errors"
	"github.com/x448/float16"

	"github.com/loom-ml/loom/internal/tensor"
)

// copyT moves same-width elements from a strided input into an output
// prepared by MaterializeUnary.
func copyT[T tensor.Elem](in, out *tensor.Array) {
	unaryT(in, out, func(v T) T { return v })
}

// copyFlat copies element-wise between arrays of equal element size,
// respecting the input's strides. Only widths matter here, so spans are
// addressed by their bit width.
func copyFlat(in, out *tensor.Array) {
	switch in.ItemSize() {
	case 1:
		copyT[uint8](in, out)
	case 2:
		copyT[uint16](in, out)
	case 4:
		copyT[uint32](in, out)
	case 8:
		copyT[uint64](in, out)
	}
}

// copyBroadcast replicates a (possibly smaller) input across a dense output
// using zero strides for repeated dimensions.
func copyBroadcast(in, out *tensor.Array) {
	shape := out.Shape()
	strides := tensor.BroadcastStrides(in.Shape(), in.Strides(), shape)
	n := out.NumElements()

	switch in.ItemSize() {
	case 1:
		src, dst := tensor.Data[uint8](in), tensor.Data[uint8](out)
		for i := 0; i < n; i++ {
			dst[i] = src[tensor.ElemToLoc(i, shape, strides)]
		}
	case 2:
		src, dst := tensor.Data[uint16](in), tensor.Data[uint16](out)
		for i := 0; i < n; i++ {
			dst[i] = src[tensor.ElemToLoc(i, shape, strides)]
		}
	case 4:
		src, dst := tensor.Data[uint32](in), tensor.Data[uint32](out)
		for i := 0; i < n; i++ {
			dst[i] = src[tensor.ElemToLoc(i, shape, strides)]
		}
	case 8:
		src, dst := tensor.Data[uint64](in), tensor.Data[uint64](out)
		for i := 0; i < n; i++ {
			dst[i] = src[tensor.ElemToLoc(i, shape, strides)]
		}
	}
}

// EvalFull is the generic executor for Full: replicate the input across the
// output shape.
func EvalFull(p *tensor.Primitive, inputs []*tensor.Array, out *tensor.Array) error {
	if err := wantInputs(p, inputs, 1); err != nil {
		return err
	}
	in := inputs[0]
	if in.DType() != out.DType() {
		return errors.Wrapf(ErrInvalidOperand, "[full] dtype mismatch: %s vs %s", in.DType(), out.DType())
	}
	if err := MaterializeBinary(out, in); err != nil {
		return err
	}
	copyBroadcast(in, out)
	return nil
}

// EvalCopy materializes a logical copy: buffer aliasing, no byte movement.
func EvalCopy(p *tensor.Primitive, inputs []*tensor.Array, out *tensor.Array) error {
	if err := wantInputs(p, inputs, 1); err != nil {
		return err
	}
	AliasNoOp(inputs[0], out)
	return nil
}

// EvalStopGradient is a true no-op at evaluation time.
func EvalStopGradient(p *tensor.Primitive, inputs []*tensor.Array, out *tensor.Array) error {
	if err := wantInputs(p, inputs, 1); err != nil {
		return err
	}
	AliasNoOp(inputs[0], out)
	return nil
}

// EvalReshape aliases row-contiguous inputs and copies otherwise; logical
// element order is preserved either way.
func EvalReshape(p *tensor.Primitive, inputs []*tensor.Array, out *tensor.Array) error {
	if err := wantInputs(p, inputs, 1); err != nil {
		return err
	}
	in := inputs[0]
	if in.NumElements() != out.NumElements() {
		return errors.Errorf("[reshape] incompatible shapes %v -> %v", in.Shape(), out.Shape())
	}

	if in.Flags().RowContiguous {
		AliasNoOp(in, out)
		return nil
	}
	if err := out.Materialize(); err != nil {
		return err
	}
	// Strided gather in logical order; the output shape differs but the
	// flat enumeration is shared.
	reshapeCopy(in, out)
	return nil
}

func reshapeCopy(in, out *tensor.Array) {
	shape, strides := in.Shape(), in.Strides()
	n := in.NumElements()

	switch in.ItemSize() {
	case 1:
		src, dst := tensor.Data[uint8](in), tensor.Data[uint8](out)
		for i := 0; i < n; i++ {
			dst[i] = src[tensor.ElemToLoc(i, shape, strides)]
		}
	case 2:
		src, dst := tensor.Data[uint16](in), tensor.Data[uint16](out)
		for i := 0; i < n; i++ {
			dst[i] = src[tensor.ElemToLoc(i, shape, strides)]
		}
	case 4:
		src, dst := tensor.Data[uint32](in), tensor.Data[uint32](out)
		for i := 0; i < n; i++ {
			dst[i] = src[tensor.ElemToLoc(i, shape, strides)]
		}
	case 8:
		src, dst := tensor.Data[uint64](in), tensor.Data[uint64](out)
		for i := 0; i < n; i++ {
			dst[i] = src[tensor.ElemToLoc(i, shape, strides)]
		}
	}
}

// EvalBroadcast materializes a zero-stride view: repeated dimensions read
// the same storage.
func EvalBroadcast(p *tensor.Primitive, inputs []*tensor.Array, out *tensor.Array) error {
	if err := wantInputs(p, inputs, 1); err != nil {
		return err
	}
	in := inputs[0]
	out.AsView(in, tensor.BroadcastStrides(in.Shape(), in.Strides(), out.Shape()), 0)
	return nil
}

// EvalTranspose materializes a permuted-stride view.
func EvalTranspose(p *tensor.Primitive, inputs []*tensor.Array, out *tensor.Array) error {
	if err := wantInputs(p, inputs, 1); err != nil {
		return err
	}
	in := inputs[0]
	ndim := len(in.Shape())
	axes := p.Axes
	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}
	if len(axes) != ndim {
		return errors.Errorf("[transpose] axes length %d != ndim %d", len(axes), ndim)
	}
	strides := make([]int, ndim)
	for i, ax := range axes {
		if ax < 0 || ax >= ndim {
			return errors.Errorf("[transpose] invalid axis %d for %dD array", ax, ndim)
		}
		strides[i] = in.Strides()[ax]
	}
	out.AsView(in, strides, 0)
	return nil
}

// EvalSlice materializes a strided window view.
func EvalSlice(p *tensor.Primitive, inputs []*tensor.Array, out *tensor.Array) error {
	if err := wantInputs(p, inputs, 1); err != nil {
		return err
	}
	in := inputs[0]
	ndim := len(in.Shape())
	if len(p.Starts) != ndim || len(p.Steps) != ndim {
		return errors.Errorf("[slice] starts/steps rank mismatch for %dD array", ndim)
	}

	offset := 0
	strides := make([]int, ndim)
	for i := 0; i < ndim; i++ {
		offset += p.Starts[i] * in.Strides()[i]
		strides[i] = in.Strides()[i] * p.Steps[i]
	}
	out.AsView(in, strides, offset)
	return nil
}

// EvalConcatenate copies each input into its window of a dense output along
// the concatenation axis.
func EvalConcatenate(p *tensor.Primitive, inputs []*tensor.Array, out *tensor.Array) error {
	if len(inputs) == 0 {
		return errors.Errorf("[concatenate] no inputs")
	}
	if err := out.Materialize(); err != nil {
		return err
	}

	axis := p.Axis
	axisOffset := 0
	for _, in := range inputs {
		dstBase := axisOffset * out.Strides()[axis]
		concatCopy(in, out, dstBase)
		axisOffset += in.Shape()[axis]
	}
	return nil
}

func concatCopy(in, out *tensor.Array, dstBase int) {
	shape, srcStrides := in.Shape(), in.Strides()
	dstStrides := out.Strides()
	n := in.NumElements()

	switch in.ItemSize() {
	case 1:
		src, dst := tensor.Data[uint8](in), tensor.Data[uint8](out)
		for i := 0; i < n; i++ {
			dst[dstBase+tensor.ElemToLoc(i, shape, dstStrides)] = src[tensor.ElemToLoc(i, shape, srcStrides)]
		}
	case 2:
		src, dst := tensor.Data[uint16](in), tensor.Data[uint16](out)
		for i := 0; i < n; i++ {
			dst[dstBase+tensor.ElemToLoc(i, shape, dstStrides)] = src[tensor.ElemToLoc(i, shape, srcStrides)]
		}
	case 4:
		src, dst := tensor.Data[uint32](in), tensor.Data[uint32](out)
		for i := 0; i < n; i++ {
			dst[dstBase+tensor.ElemToLoc(i, shape, dstStrides)] = src[tensor.ElemToLoc(i, shape, srcStrides)]
		}
	case 8:
		src, dst := tensor.Data[uint64](in), tensor.Data[uint64](out)
		for i := 0; i < n; i++ {
			dst[dstBase+tensor.ElemToLoc(i, shape, dstStrides)] = src[tensor.ElemToLoc(i, shape, srcStrides)]
		}
	}
}

// EvalArange fills a 1-D output with Start + i*Step.
func EvalArange(p *tensor.Primitive, inputs []*tensor.Array, out *tensor.Array) error {
	if len(inputs) != 0 {
		return errors.Errorf("[arange] expected 0 inputs, got %d", len(inputs))
	}
	if err := out.Materialize(); err != nil {
		return err
	}
	n := out.NumElements()

	switch out.DType() {
	case tensor.Int8:
		fillRange(tensor.Data[int8](out), n, p.Start, p.Step)
	case tensor.Int16:
		fillRange(tensor.Data[int16](out), n, p.Start, p.Step)
	case tensor.Int32:
		fillRange(tensor.Data[int32](out), n, p.Start, p.Step)
	case tensor.Int64:
		fillRange(tensor.Data[int64](out), n, p.Start, p.Step)
	case tensor.Uint8:
		fillRange(tensor.Data[uint8](out), n, p.Start, p.Step)
	case tensor.Uint16:
		fillRange(tensor.Data[uint16](out), n, p.Start, p.Step)
	case tensor.Uint32:
		fillRange(tensor.Data[uint32](out), n, p.Start, p.Step)
	case tensor.Uint64:
		fillRange(tensor.Data[uint64](out), n, p.Start, p.Step)
	case tensor.Float32:
		fillRange(tensor.Data[float32](out), n, p.Start, p.Step)
	case tensor.Float64:
		fillRange(tensor.Data[float64](out), n, p.Start, p.Step)
	case tensor.Float16:
		dst := tensor.Data[uint16](out)
		for i := 0; i < n; i++ {
			dst[i] = float16.Fromfloat32(float32(p.Start + float64(i)*p.Step)).Bits()
		}
	default:
		return errors.Wrapf(ErrInvalidOperand, "[arange] unsupported dtype %s", out.DType())
	}
	return nil
}

func fillRange[T number](dst []T, n int, start, step float64) {
	for i := 0; i < n; i++ {
		dst[i] = T(start + float64(i)*step)
	}
}

// EvalRandomBits fills a Uint32 output with counter-based pseudo-random
// bits derived from the primitive's key.
func EvalRandomBits(p *tensor.Primitive, inputs []*tensor.Array, out *tensor.Array) error {
	if out.DType() != tensor.Uint32 {
		return errors.Wrapf(ErrInvalidOperand, "[random_bits] output must be uint32, got %s", out.DType())
	}
	if err := out.Materialize(); err != nil {
		return err
	}
	dst := tensor.Data[uint32](out)
	n := out.NumElements()
	for i := 0; i < n; i++ {
		dst[i] = uint32(splitmix64(p.Seed + uint64(i)))
	}
	return nil
}

// splitmix64 is the finalizing mixer from the splitmix64 generator; one
// call per counter gives independent streams per key.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
