package tensor

// Kind tags one array operation, independent of how it is executed.
type Kind int

// The closed set of primitive kinds.
const (
	KindAbs Kind = iota
	KindAdd
	KindArange
	KindArcCos
	KindArcCosh
	KindArcSin
	KindArcSinh
	KindArcTan
	KindArcTanh
	KindAsType
	KindBroadcast
	KindCeil
	KindConcatenate
	KindCopy
	KindCos
	KindCosh
	KindDivide
	KindDivMod
	KindEqual
	KindErf
	KindExp
	KindFFT
	KindFloor
	KindFull
	KindGreater
	KindGreaterEqual
	KindLess
	KindLessEqual
	KindLog
	KindLog1p
	KindLogAddExp
	KindLogicalAnd
	KindLogicalNot
	KindLogicalOr
	KindMatmul
	KindMaximum
	KindMinimum
	KindMultiply
	KindNegative
	KindNotEqual
	KindPower
	KindRandomBits
	KindRemainder
	KindReshape
	KindRound
	KindScan
	KindSigmoid
	KindSign
	KindSin
	KindSinh
	KindSlice
	KindSplit
	KindSqrt
	KindSquare
	KindStopGradient
	KindSubtract
	KindTan
	KindTanh
	KindTranspose
	numKinds
)

var kindNames = [...]string{
	KindAbs:          "Abs",
	KindAdd:          "Add",
	KindArange:       "Arange",
	KindArcCos:       "ArcCos",
	KindArcCosh:      "ArcCosh",
	KindArcSin:       "ArcSin",
	KindArcSinh:      "ArcSinh",
	KindArcTan:       "ArcTan",
	KindArcTanh:      "ArcTanh",
	KindAsType:       "AsType",
	KindBroadcast:    "Broadcast",
	KindCeil:         "Ceil",
	KindConcatenate:  "Concatenate",
	KindCopy:         "Copy",
	KindCos:          "Cos",
	KindCosh:         "Cosh",
	KindDivide:       "Divide",
	KindDivMod:       "DivMod",
	KindEqual:        "Equal",
	KindErf:          "Erf",
	KindExp:          "Exp",
	KindFFT:          "FFT",
	KindFloor:        "Floor",
	KindFull:         "Full",
	KindGreater:      "Greater",
	KindGreaterEqual: "GreaterEqual",
	KindLess:         "Less",
	KindLessEqual:    "LessEqual",
	KindLog:          "Log",
	KindLog1p:        "Log1p",
	KindLogAddExp:    "LogAddExp",
	KindLogicalAnd:   "LogicalAnd",
	KindLogicalNot:   "LogicalNot",
	KindLogicalOr:    "LogicalOr",
	KindMatmul:       "Matmul",
	KindMaximum:      "Maximum",
	KindMinimum:      "Minimum",
	KindMultiply:     "Multiply",
	KindNegative:     "Negative",
	KindNotEqual:     "NotEqual",
	KindPower:        "Power",
	KindRandomBits:   "RandomBits",
	KindRemainder:    "Remainder",
	KindReshape:      "Reshape",
	KindRound:        "Round",
	KindScan:         "Scan",
	KindSigmoid:      "Sigmoid",
	KindSign:         "Sign",
	KindSin:          "Sin",
	KindSinh:         "Sinh",
	KindSlice:        "Slice",
	KindSplit:        "Split",
	KindSqrt:         "Sqrt",
	KindSquare:       "Square",
	KindStopGradient: "StopGradient",
	KindSubtract:     "Subtract",
	KindTan:          "Tan",
	KindTanh:         "Tanh",
	KindTranspose:    "Transpose",
}

// NumKinds returns the size of the closed primitive set.
func NumKinds() int {
	return int(numKinds)
}

// String returns the primitive kind name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

// LogBase selects the logarithm base for the Log primitive.
type LogBase int

// Supported logarithm bases.
const (
	BaseE LogBase = iota
	Base2
	Base10
)

// ScanOp selects the associative reduction applied by Scan.
type ScanOp int

// Supported scan reductions.
const (
	ScanSum ScanOp = iota
	ScanProd
	ScanMax
	ScanMin
)

// Primitive is a tagged operation kind plus operation-specific parameters.
// It is immutable once constructed and owned by the array it produced.
type Primitive struct {
	Kind Kind

	// Scan parameters.
	Axis      int
	Reverse   bool
	Inclusive bool
	Reduce    ScanOp

	// Log base selection.
	Base LogBase

	// Sqrt computes 1/sqrt(x) when Recip is set.
	Recip bool

	// Transpose permutation.
	Axes []int

	// Slice window: per-dimension start offsets and steps.
	Starts []int
	Steps  []int

	// Concatenate/Split axis reuses Axis; Split count.
	SplitN int

	// RandomBits key.
	Seed uint64

	// Arange start/step values.
	Start float64
	Step  float64
}

// NewPrimitive creates a parameter-free primitive of the given kind.
func NewPrimitive(kind Kind) *Primitive {
	return &Primitive{Kind: kind}
}

// String returns the kind name, for error messages.
func (p *Primitive) String() string {
	return p.Kind.String()
}
