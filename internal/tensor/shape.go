package tensor

import "fmt"

// Shape represents the dimensions of an array.
type Shape []int

// NumElements returns the total number of logical elements.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks that all dimensions are non-negative.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim < 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be >= 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides for the shape.
// stride[i] = product of all dimensions after i, in elements.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// ColMajorStrides calculates column-major strides for the shape.
func (s Shape) ColMajorStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[0] = 1
	for i := 1; i < len(s); i++ {
		strides[i] = strides[i-1] * s[i-1]
	}
	return strides
}

// BroadcastShapes combines two shapes under NumPy-style broadcasting.
//
// Shapes are compared right to left; dimensions are compatible when equal or
// when one of them is 1, and missing leading dimensions count as 1. The
// result dimension is the element-wise maximum.
//
// The graph layer validates compatibility at construction time; evaluation
// only needs the combined output shape, so incompatible inputs are still an
// error here to catch misuse in tests.
func BroadcastShapes(a, b Shape) (Shape, error) {
	maxLen := max(len(a), len(b))
	result := make(Shape, maxLen)

	for i := 0; i < maxLen; i++ {
		aDim, bDim := 1, 1
		if idx := len(a) - 1 - i; idx >= 0 {
			aDim = a[idx]
		}
		if idx := len(b) - 1 - i; idx >= 0 {
			bDim = b[idx]
		}

		switch {
		case aDim == bDim, bDim == 1:
			result[maxLen-1-i] = aDim
		case aDim == 1:
			result[maxLen-1-i] = bDim
		default:
			return nil, fmt.Errorf("shapes not compatible for broadcasting: %v vs %v (dimension %d: %d vs %d)",
				a, b, maxLen-1-i, aDim, bDim)
		}
	}

	return result, nil
}

// BroadcastStrides maps an operand's strides onto a broadcast output shape.
// Size-1 (or missing) operand dimensions get stride 0 so the single element
// is logically repeated.
func BroadcastStrides(shape Shape, strides []int, out Shape) []int {
	result := make([]int, len(out))
	offset := len(out) - len(shape)
	for i := range out {
		src := i - offset
		if src < 0 || shape[src] == 1 {
			result[i] = 0
		} else {
			result[i] = strides[src]
		}
	}
	return result
}

// ElemToLoc converts a flat logical index into a storage offset using the
// given shape and strides.
func ElemToLoc(flat int, shape Shape, strides []int) int {
	loc := 0
	for i := len(shape) - 1; i >= 0; i-- {
		if shape[i] == 0 {
			continue
		}
		loc += (flat % shape[i]) * strides[i]
		flat /= shape[i]
	}
	return loc
}
