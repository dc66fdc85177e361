package generic

import (
	"github.com/loom-ml/loom/internal/tensor"
)

// AliasNoOp materializes out as a logical copy of in without arithmetic:
// donation when in is the sole buffer owner, shared reference otherwise.
func AliasNoOp(in, out *tensor.Array) {
	if in.Donatable() {
		out.Donate(in)
	} else {
		out.Alias(in)
	}
}

// MaterializeUnary prepares out for an element-wise unary kernel over in.
//
// For a contiguous input the output adopts the input's physical layout, and
// the input's buffer is donated when it is the sole owner and element sizes
// match. Otherwise dense row-major storage is allocated for the logical
// shape.
func MaterializeUnary(in, out *tensor.Array) error {
	if in.Flags().Contiguous {
		if in.Donatable() && in.ItemSize() == out.ItemSize() {
			out.Donate(in)
			return nil
		}
		return out.MaterializeAs(in.Strides(), in.DataSize())
	}
	return out.Materialize()
}

// MaterializeBinary prepares dense row-major output storage for a binary
// kernel, donating an input buffer when one is eligible.
//
// Eligibility: donatable, equal element size, and a dense row-major layout
// covering the full output (so index i of the donated buffer is exactly the
// element the kernel reads before writing index i). Inputs are tried in
// order; the first eligible input wins, which makes aliasing deterministic
// and left-biased.
func MaterializeBinary(out *tensor.Array, inputs ...*tensor.Array) error {
	for _, in := range inputs {
		if in.Donatable() && in.ItemSize() == out.ItemSize() &&
			in.Flags().RowContiguous && in.Shape().Equal(out.Shape()) {
			out.Donate(in)
			return nil
		}
	}
	return out.Materialize()
}
