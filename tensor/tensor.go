// Copyright 2025 Loom ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for the Loom array engine.
//
// The package re-exports the core array model and the primitive evaluation
// entry points:
//   - Array: a strided view over reference-counted buffer storage
//   - Primitive: a tagged operation with its parameters
//   - Target: an execution target (CPU, VecCPU, GPU)
//   - Eval/EvalMulti: synchronous primitive evaluation
//
// Example:
//
//	a, _ := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3})
//	b, _ := tensor.FromSlice([]float32{4, 5, 6}, tensor.Shape{3})
//	out := tensor.NewArray(tensor.Shape{3}, tensor.Float32)
//	err := tensor.Eval(tensor.DefaultTarget(),
//		tensor.NewPrimitive(tensor.KindAdd), []*tensor.Array{a, b}, out)
package tensor

import (
	"github.com/loom-ml/loom/internal/tensor"
)

// Type aliases for the public API.

// Array is a strided view over shared buffer storage.
type Array = tensor.Array

// Shape is the dimension list of an array.
type Shape = tensor.Shape

// Flags caches the contiguity properties of an array's layout.
type Flags = tensor.Flags

// DataType identifies the element type of an array.
type DataType = tensor.DataType

// Primitive is a tagged operation kind plus its parameters.
type Primitive = tensor.Primitive

// Kind tags one array operation.
type Kind = tensor.Kind

// Target selects where a primitive executes.
type Target = tensor.Target

// LogBase selects the logarithm base for the Log primitive.
type LogBase = tensor.LogBase

// ScanOp selects the associative reduction applied by Scan.
type ScanOp = tensor.ScanOp

// Elem constrains the Go element types an array can be built from.
type Elem = tensor.Elem

// Data type constants.
const (
	Bool      = tensor.Bool
	Int8      = tensor.Int8
	Int16     = tensor.Int16
	Int32     = tensor.Int32
	Int64     = tensor.Int64
	Uint8     = tensor.Uint8
	Uint16    = tensor.Uint16
	Uint32    = tensor.Uint32
	Uint64    = tensor.Uint64
	Float16   = tensor.Float16
	Float32   = tensor.Float32
	Float64   = tensor.Float64
	Complex64 = tensor.Complex64
)

// Execution targets.
const (
	CPU    = tensor.CPU
	VecCPU = tensor.VecCPU
	GPU    = tensor.GPU
)

// Logarithm bases.
const (
	BaseE  = tensor.BaseE
	Base2  = tensor.Base2
	Base10 = tensor.Base10
)

// Scan reductions.
const (
	ScanSum  = tensor.ScanSum
	ScanProd = tensor.ScanProd
	ScanMax  = tensor.ScanMax
	ScanMin  = tensor.ScanMin
)

// Primitive kinds.
const (
	KindAbs          = tensor.KindAbs
	KindAdd          = tensor.KindAdd
	KindArange       = tensor.KindArange
	KindArcCos       = tensor.KindArcCos
	KindArcCosh      = tensor.KindArcCosh
	KindArcSin       = tensor.KindArcSin
	KindArcSinh      = tensor.KindArcSinh
	KindArcTan       = tensor.KindArcTan
	KindArcTanh      = tensor.KindArcTanh
	KindAsType       = tensor.KindAsType
	KindBroadcast    = tensor.KindBroadcast
	KindCeil         = tensor.KindCeil
	KindConcatenate  = tensor.KindConcatenate
	KindCopy         = tensor.KindCopy
	KindCos          = tensor.KindCos
	KindCosh         = tensor.KindCosh
	KindDivide       = tensor.KindDivide
	KindDivMod       = tensor.KindDivMod
	KindEqual        = tensor.KindEqual
	KindErf          = tensor.KindErf
	KindExp          = tensor.KindExp
	KindFFT          = tensor.KindFFT
	KindFloor        = tensor.KindFloor
	KindFull         = tensor.KindFull
	KindGreater      = tensor.KindGreater
	KindGreaterEqual = tensor.KindGreaterEqual
	KindLess         = tensor.KindLess
	KindLessEqual    = tensor.KindLessEqual
	KindLog          = tensor.KindLog
	KindLog1p        = tensor.KindLog1p
	KindLogAddExp    = tensor.KindLogAddExp
	KindLogicalAnd   = tensor.KindLogicalAnd
	KindLogicalNot   = tensor.KindLogicalNot
	KindLogicalOr    = tensor.KindLogicalOr
	KindMatmul       = tensor.KindMatmul
	KindMaximum      = tensor.KindMaximum
	KindMinimum      = tensor.KindMinimum
	KindMultiply     = tensor.KindMultiply
	KindNegative     = tensor.KindNegative
	KindNotEqual     = tensor.KindNotEqual
	KindPower        = tensor.KindPower
	KindRandomBits   = tensor.KindRandomBits
	KindRemainder    = tensor.KindRemainder
	KindReshape      = tensor.KindReshape
	KindRound        = tensor.KindRound
	KindScan         = tensor.KindScan
	KindSigmoid      = tensor.KindSigmoid
	KindSign         = tensor.KindSign
	KindSin          = tensor.KindSin
	KindSinh         = tensor.KindSinh
	KindSlice        = tensor.KindSlice
	KindSplit        = tensor.KindSplit
	KindSqrt         = tensor.KindSqrt
	KindSquare       = tensor.KindSquare
	KindStopGradient = tensor.KindStopGradient
	KindSubtract     = tensor.KindSubtract
	KindTan          = tensor.KindTan
	KindTanh         = tensor.KindTanh
	KindTranspose    = tensor.KindTranspose
)

// NewArray creates an array header with no storage attached.
func NewArray(shape Shape, dtype DataType) *Array {
	return tensor.NewArray(shape, dtype, nil, nil)
}

// NewPrimitive creates a parameter-free primitive of the given kind.
func NewPrimitive(kind Kind) *Primitive {
	return tensor.NewPrimitive(kind)
}

// FromSlice builds a materialized row-major array from a Go slice.
func FromSlice[T Elem](data []T, shape Shape) (*Array, error) {
	return tensor.FromSlice(data, shape)
}

// Scalar builds a materialized zero-dimensional array holding one value.
func Scalar[T Elem](v T) *Array {
	return tensor.Scalar(v)
}

// Data returns the typed element view of a materialized array.
func Data[T Elem](a *Array) []T {
	return tensor.Data[T](a)
}

// BroadcastShapes computes the common shape of two operands.
func BroadcastShapes(a, b Shape) (Shape, error) {
	return tensor.BroadcastShapes(a, b)
}

// NumKinds returns the size of the closed primitive set.
func NumKinds() int {
	return tensor.NumKinds()
}
