// Package tensor provides the array, primitive and target types for the loom
// compute engine.
package tensor

// DataType is runtime type information for array elements.
type DataType int

// Supported element types.
const (
	Bool DataType = iota
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float16
	Float32
	Float64
	Complex64
)

// Size returns the byte size of one element.
func (dt DataType) Size() int {
	switch dt {
	case Bool, Int8, Uint8:
		return 1
	case Int16, Uint16, Float16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64, Complex64:
		return 8
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Bool:
		return "bool"
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Uint32:
		return "uint32"
	case Uint64:
		return "uint64"
	case Float16:
		return "float16"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Complex64:
		return "complex64"
	default:
		return "unknown"
	}
}

// IsFloat reports whether the type is a floating-point type.
func (dt DataType) IsFloat() bool {
	return dt == Float16 || dt == Float32 || dt == Float64
}

// IsInteger reports whether the type is a signed or unsigned integer type.
func (dt DataType) IsInteger() bool {
	switch dt {
	case Int8, Int16, Int32, Int64, Uint8, Uint16, Uint32, Uint64:
		return true
	}
	return false
}

// IsUnsigned reports whether the type is an unsigned integer type. Bool
// counts as unsigned: its absolute value is itself.
func (dt DataType) IsUnsigned() bool {
	switch dt {
	case Bool, Uint8, Uint16, Uint32, Uint64:
		return true
	}
	return false
}

// IsComplex reports whether the type is a complex type.
func (dt DataType) IsComplex() bool {
	return dt == Complex64
}
