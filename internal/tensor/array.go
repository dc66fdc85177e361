package tensor

import (
	"fmt"
	"unsafe"

	"github.com/loom-ml/loom/internal/allocator"
)

// Flags describe how a view's logical traversal order relates to storage
// order. They are derived from shape and strides and recomputed whenever
// either changes, so they can never go stale.
type Flags struct {
	// Contiguous means the view's distinct elements occupy one dense span
	// of storage, enabling flat kernel access over DataSize elements.
	Contiguous bool
	// RowContiguous means strides are exactly row-major for the shape.
	RowContiguous bool
	// ColContiguous means strides are exactly column-major for the shape.
	ColContiguous bool
}

// Array is an immutable-shape view over a reference-counted storage buffer.
//
// The graph layer constructs arrays with a producing primitive and input
// edges but no storage; storage is materialized exactly once, at evaluation
// time, either by allocation or by donation from an input.
type Array struct {
	shape    Shape
	strides  []int
	dtype    DataType
	flags    Flags
	dataSize int // distinct elements physically addressed by this view

	buf     *buffer
	donated bool // buffer ownership moved to an output; readable until Release
	offset  int  // element offset into buf

	prim   *Primitive
	inputs []*Array
}

// NewArray creates an unevaluated array: shape and dtype fixed, no storage.
func NewArray(shape Shape, dtype DataType, prim *Primitive, inputs []*Array) *Array {
	a := &Array{
		shape:  shape.Clone(),
		dtype:  dtype,
		prim:   prim,
		inputs: inputs,
	}
	a.setGeometry(shape.ComputeStrides(), 0)
	return a
}

// FromSlice creates a materialized array from a Go slice, copying the data.
func FromSlice[T Elem](data []T, shape Shape) (*Array, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}
	a := NewArray(shape, dtypeOf[T](), nil, nil)
	if err := a.Materialize(); err != nil {
		return nil, err
	}
	copy(Data[T](a), data)
	return a, nil
}

// Scalar creates a materialized 0-D array holding one value.
func Scalar[T Elem](v T) *Array {
	a, err := FromSlice([]T{v}, Shape{})
	if err != nil {
		panic(err) // Shape{} can never mismatch a one-element slice
	}
	return a
}

// Elem constrains the Go element types backing array storage. Float16 data
// is accessed as raw uint16 bit patterns.
type Elem interface {
	~bool | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64 | ~complex64
}

func dtypeOf[T Elem]() DataType {
	var dummy T
	switch any(dummy).(type) {
	case bool:
		return Bool
	case int8:
		return Int8
	case int16:
		return Int16
	case int32:
		return Int32
	case int64:
		return Int64
	case uint8:
		return Uint8
	case uint16:
		return Uint16
	case uint32:
		return Uint32
	case uint64:
		return Uint64
	case float32:
		return Float32
	case float64:
		return Float64
	case complex64:
		return Complex64
	default:
		panic("unsupported element type")
	}
}

// Shape returns the array's shape.
func (a *Array) Shape() Shape {
	return a.shape
}

// Strides returns per-dimension element offsets.
func (a *Array) Strides() []int {
	return a.strides
}

// DType returns the element type.
func (a *Array) DType() DataType {
	return a.dtype
}

// Flags returns the contiguity flags derived from shape and strides.
func (a *Array) Flags() Flags {
	return a.flags
}

// NumElements returns the logical element count implied by the shape.
func (a *Array) NumElements() int {
	return a.shape.NumElements()
}

// DataSize returns the number of distinct storage elements addressed by the
// view. For broadcast views this is smaller than NumElements.
func (a *Array) DataSize() int {
	return a.dataSize
}

// ItemSize returns the byte size of one element.
func (a *Array) ItemSize() int {
	return a.dtype.Size()
}

// NBytes returns the storage size required for a dense materialization.
func (a *Array) NBytes() int {
	return a.NumElements() * a.ItemSize()
}

// Primitive returns the producing primitive, or nil for source arrays.
func (a *Array) Primitive() *Primitive {
	return a.prim
}

// Inputs returns the producing primitive's operand arrays. The edge is
// owned by the graph layer and consumed read-only here.
func (a *Array) Inputs() []*Array {
	return a.inputs
}

// HasData reports whether this array owns materialized storage. A donated
// source reports false even while its read-only reference is still live.
func (a *Array) HasData() bool {
	return a.buf != nil && !a.donated
}

// Donatable reports whether this array is the sole owner of its buffer and
// may transfer it to an output. The check reflects live references at the
// moment of the call.
func (a *Array) Donatable() bool {
	return a.buf != nil && !a.donated && a.buf.unique()
}

// Materialize allocates dense storage for the logical shape, blocking on the
// allocator if resource-constrained. Calling it on an already materialized
// array is an error: storage is materialized exactly once.
func (a *Array) Materialize() error {
	return a.MaterializeN(a.NumElements())
}

// MaterializeN allocates storage for n elements. Fast paths that alias a
// contiguous input's physical span use n == input.DataSize().
func (a *Array) MaterializeN(n int) error {
	if a.buf != nil {
		return fmt.Errorf("array already materialized")
	}
	buf, err := newBuffer(n*a.ItemSize(), allocator.Default())
	if err != nil {
		return err
	}
	a.buf = buf
	a.offset = 0
	a.setGeometry(a.shape.ComputeStrides(), n)
	return nil
}

// MaterializeAs allocates storage for n elements laid out with the given
// strides. Unary fast paths use it to mirror a contiguous input's physical
// layout (row- or column-major) in the output.
func (a *Array) MaterializeAs(strides []int, n int) error {
	if a.buf != nil {
		return fmt.Errorf("array already materialized")
	}
	buf, err := newBuffer(n*a.ItemSize(), allocator.Default())
	if err != nil {
		return err
	}
	a.buf = buf
	a.offset = 0
	a.setGeometry(append([]int(nil), strides...), n)
	return nil
}

// Alias makes this array a new reference to src's buffer with src's
// geometry and no byte copy. Used for true no-op transforms on shared
// inputs.
func (a *Array) Alias(src *Array) {
	src.buf.addRef()
	a.adopt(src)
}

// Donate transfers ownership of src's buffer to this array. src must be
// donatable; it stops owning storage at the moment of transfer, but keeps a
// read-only reference so an in-flight kernel can still read its elements
// before overwriting them. The reference drops at Release.
func (a *Array) Donate(src *Array) {
	a.adopt(src)
	src.donated = true
}

func (a *Array) adopt(src *Array) {
	a.buf = src.buf
	a.offset = src.offset
	a.strides = append([]int(nil), src.strides...)
	a.flags = src.flags
	a.dataSize = src.dataSize
	if !a.shape.Equal(src.shape) {
		// Shape-preserving aliases keep src geometry; reshapes recompute
		// dense strides for the new shape.
		a.setGeometry(a.shape.ComputeStrides(), src.dataSize)
	}
}

// AsView makes this array a strided view over src's buffer: same storage,
// new strides and element offset. Flags and data size are recomputed from
// the new geometry.
func (a *Array) AsView(src *Array, strides []int, offset int) {
	src.buf.addRef()
	a.buf = src.buf
	a.offset = src.offset + offset
	a.setGeometry(strides, -1)
}

// Release drops this array's buffer reference. A donated source only drops
// its read-only view; the recipient owns the underlying count.
func (a *Array) Release() {
	if a.donated {
		a.buf = nil
		a.donated = false
		return
	}
	if a.buf != nil {
		a.buf.release()
		a.buf = nil
	}
}

// setGeometry installs strides and recomputes flags and dataSize.
// dataSize < 0 means derive it from the geometry.
func (a *Array) setGeometry(strides []int, dataSize int) {
	if len(strides) != len(a.shape) {
		panic(fmt.Sprintf("strides rank %d does not match shape rank %d", len(strides), len(a.shape)))
	}
	a.strides = strides

	rowMajor := a.shape.ComputeStrides()
	colMajor := a.shape.ColMajorStrides()
	row, col := true, true
	for i, dim := range a.shape {
		if dim == 1 {
			continue // stride of a size-1 dim is irrelevant
		}
		if strides[i] != rowMajor[i] {
			row = false
		}
		if strides[i] != colMajor[i] {
			col = false
		}
	}

	if dataSize < 0 {
		dataSize = 1
		for i, dim := range a.shape {
			if strides[i] != 0 {
				dataSize *= dim
			}
		}
	}

	a.dataSize = dataSize
	a.flags = Flags{
		Contiguous:    row || col || dataSize <= 1,
		RowContiguous: row,
		ColContiguous: col,
	}
}

// Data returns a typed span over the array's storage starting at its
// element offset. Panics on element size mismatch or missing storage.
func Data[T Elem](a *Array) []T {
	var dummy T
	if int(unsafe.Sizeof(dummy)) != a.ItemSize() {
		panic(fmt.Sprintf("span access with element size %d on %s array", unsafe.Sizeof(dummy), a.dtype))
	}
	if a.buf == nil {
		panic("span access on array without storage")
	}
	raw := a.buf.data[a.offset*a.ItemSize():]
	if len(raw) == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&raw[0])), len(raw)/a.ItemSize())
}

// Bytes returns the raw storage span starting at the array's offset.
func (a *Array) Bytes() []byte {
	if a.buf == nil {
		panic("byte access on array without storage")
	}
	return a.buf.data[a.offset*a.ItemSize():]
}

// String returns a human-readable description.
func (a *Array) String() string {
	return fmt.Sprintf("Array[%s]%v", a.dtype, a.shape)
}
