package veccpu

import (
	"math"
	"testing"

	"github.com/loom-ml/loom/internal/backend/generic"
	"github.com/loom-ml/loom/internal/tensor"
)

func fromF32(t *testing.T, data []float32, shape tensor.Shape) *tensor.Array {
	t.Helper()
	a, err := tensor.FromSlice(data, shape)
	if err != nil {
		t.Fatalf("failed to create array: %v", err)
	}
	return a
}

func fromI32(t *testing.T, data []int32, shape tensor.Shape) *tensor.Array {
	t.Helper()
	a, err := tensor.FromSlice(data, shape)
	if err != nil {
		t.Fatalf("failed to create array: %v", err)
	}
	return a
}

// pin adds a reference so an input survives evaluation for reuse on the
// other path.
func pin(t *testing.T, a *tensor.Array) func() {
	t.Helper()
	view := tensor.NewArray(a.Shape(), a.DType(), nil, nil)
	view.Alias(a)
	return view.Release
}

func rampF32(n int) []float32 {
	data := make([]float32, n)
	for i := range data {
		data[i] = float32(i%17) - 8.5
	}
	return data
}

func TestUnaryMatchesGenericBitwise(t *testing.T) {
	kinds := []struct {
		name string
		prim *tensor.Primitive
	}{
		{"abs", tensor.NewPrimitive(tensor.KindAbs)},
		{"negative", tensor.NewPrimitive(tensor.KindNegative)},
		{"square", tensor.NewPrimitive(tensor.KindSquare)},
		{"exp", tensor.NewPrimitive(tensor.KindExp)},
		{"sin", tensor.NewPrimitive(tensor.KindSin)},
		{"tanh", tensor.NewPrimitive(tensor.KindTanh)},
		{"sigmoid", tensor.NewPrimitive(tensor.KindSigmoid)},
		{"sqrt", tensor.NewPrimitive(tensor.KindSqrt)},
		{"log base 2", &tensor.Primitive{Kind: tensor.KindLog, Base: tensor.Base2}},
	}

	// Large enough to cross the parallel threshold.
	input := rampF32(40000)
	shape := tensor.Shape{40000}

	for _, tt := range kinds {
		t.Run(tt.name, func(t *testing.T) {
			inFast := fromF32(t, input, shape)
			unpin := pin(t, inFast)
			fast := tensor.NewArray(shape, tensor.Float32, tt.prim, []*tensor.Array{inFast})
			if err := EvalUnary(tt.prim, []*tensor.Array{inFast}, fast); err != nil {
				t.Fatalf("fast path failed: %v", err)
			}
			unpin()

			inRef := fromF32(t, input, shape)
			unpin = pin(t, inRef)
			ref := tensor.NewArray(shape, tensor.Float32, tt.prim, []*tensor.Array{inRef})
			if err := generic.EvalUnary(tt.prim, []*tensor.Array{inRef}, ref); err != nil {
				t.Fatalf("generic path failed: %v", err)
			}
			unpin()

			f := tensor.Data[float32](fast)
			r := tensor.Data[float32](ref)
			for i := 0; i < len(input); i++ {
				if math.Float32bits(f[i]) != math.Float32bits(r[i]) {
					t.Fatalf("%s diverges at %d: %x vs %x", tt.name, i,
						math.Float32bits(f[i]), math.Float32bits(r[i]))
				}
			}
		})
	}
}

func TestUnaryAbsInt32(t *testing.T) {
	data := []int32{-5, 0, 7, math.MinInt32 + 1}
	in := fromI32(t, data, tensor.Shape{4})
	p := tensor.NewPrimitive(tensor.KindAbs)
	out := tensor.NewArray(tensor.Shape{4}, tensor.Int32, p, []*tensor.Array{in})
	if err := EvalUnary(p, []*tensor.Array{in}, out); err != nil {
		t.Fatalf("abs failed: %v", err)
	}
	got := tensor.Data[int32](out)
	want := []int32{5, 0, 7, math.MaxInt32}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("abs[%d] = %d, expected %d", i, got[i], want[i])
		}
	}
}

func TestUnaryStridedFallsBack(t *testing.T) {
	src := fromF32(t, []float32{1, 9, 2, 9, 3, 9}, tensor.Shape{6})
	view := tensor.NewArray(tensor.Shape{3}, tensor.Float32, nil, nil)
	view.AsView(src, []int{2}, 0)

	p := tensor.NewPrimitive(tensor.KindNegative)
	out := tensor.NewArray(tensor.Shape{3}, tensor.Float32, p, []*tensor.Array{view})
	if err := EvalUnary(p, []*tensor.Array{view}, out); err != nil {
		t.Fatalf("negative failed: %v", err)
	}
	got := tensor.Data[float32](out)
	want := []float32{-1, -2, -3}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("negative[%d] = %f, expected %f", i, got[i], want[i])
		}
	}
}

func TestBinaryShapeCases(t *testing.T) {
	n := 20000
	vec := rampF32(n)
	shape := tensor.Shape{n}
	kinds := []struct {
		name string
		kind tensor.Kind
	}{
		{"add", tensor.KindAdd},
		{"subtract", tensor.KindSubtract},
		{"multiply", tensor.KindMultiply},
		{"divide", tensor.KindDivide},
		{"remainder", tensor.KindRemainder},
	}

	cases := []struct {
		name string
		mk   func(t *testing.T) (a, b *tensor.Array)
	}{
		{"vector vector", func(t *testing.T) (*tensor.Array, *tensor.Array) {
			return fromF32(t, vec, shape), fromF32(t, rampF32(n), shape)
		}},
		{"scalar left", func(t *testing.T) (*tensor.Array, *tensor.Array) {
			return tensor.Scalar(float32(2.5)), fromF32(t, vec, shape)
		}},
		{"scalar right", func(t *testing.T) (*tensor.Array, *tensor.Array) {
			return fromF32(t, vec, shape), tensor.Scalar(float32(2.5))
		}},
	}

	for _, kc := range kinds {
		for _, sc := range cases {
			t.Run(kc.name+" "+sc.name, func(t *testing.T) {
				p := tensor.NewPrimitive(kc.kind)

				a1, b1 := sc.mk(t)
				ua, ub := pin(t, a1), pin(t, b1)
				outShape := a1.Shape()
				if b1.NumElements() > a1.NumElements() {
					outShape = b1.Shape()
				}
				fast := tensor.NewArray(outShape, tensor.Float32, p, []*tensor.Array{a1, b1})
				if err := EvalBinary(p, []*tensor.Array{a1, b1}, fast); err != nil {
					t.Fatalf("fast path failed: %v", err)
				}
				ua()
				ub()

				a2, b2 := sc.mk(t)
				ua, ub = pin(t, a2), pin(t, b2)
				ref := tensor.NewArray(outShape, tensor.Float32, p, []*tensor.Array{a2, b2})
				if err := generic.EvalBinary(p, []*tensor.Array{a2, b2}, ref); err != nil {
					t.Fatalf("generic path failed: %v", err)
				}
				ua()
				ub()

				f := tensor.Data[float32](fast)
				r := tensor.Data[float32](ref)
				for i := 0; i < outShape.NumElements(); i++ {
					if math.Float32bits(f[i]) != math.Float32bits(r[i]) {
						t.Fatalf("diverges at %d: %x vs %x", i,
							math.Float32bits(f[i]), math.Float32bits(r[i]))
					}
				}
			})
		}
	}
}

func TestBinaryInt32(t *testing.T) {
	a := fromI32(t, []int32{10, -10, 7, 0}, tensor.Shape{4})
	b := fromI32(t, []int32{3, 3, -2, 5}, tensor.Shape{4})

	tests := []struct {
		name string
		kind tensor.Kind
		want []int32
	}{
		{"add", tensor.KindAdd, []int32{13, -7, 5, 5}},
		{"subtract", tensor.KindSubtract, []int32{7, -13, 9, -5}},
		{"multiply", tensor.KindMultiply, []int32{30, -30, -14, 0}},
		{"divide", tensor.KindDivide, []int32{3, -3, -3, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ua, ub := pin(t, a), pin(t, b)
			defer ua()
			defer ub()
			p := tensor.NewPrimitive(tt.kind)
			out := tensor.NewArray(tensor.Shape{4}, tensor.Int32, p, []*tensor.Array{a, b})
			if err := EvalBinary(p, []*tensor.Array{a, b}, out); err != nil {
				t.Fatalf("%s failed: %v", tt.name, err)
			}
			got := tensor.Data[int32](out)
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("%s[%d] = %d, expected %d", tt.name, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPowerFastPath(t *testing.T) {
	base := []float32{1, 2, 3, 4}
	exp := []float32{2, 0.5, -1, 3}

	a := fromF32(t, base, tensor.Shape{4})
	b := fromF32(t, exp, tensor.Shape{4})
	p := tensor.NewPrimitive(tensor.KindPower)
	out := tensor.NewArray(tensor.Shape{4}, tensor.Float32, p, []*tensor.Array{a, b})
	if err := EvalBinary(p, []*tensor.Array{a, b}, out); err != nil {
		t.Fatalf("power failed: %v", err)
	}

	// Both operands were sole owners; the left one donates first.
	if a.HasData() {
		t.Error("left operand should have donated its buffer")
	}
	if !b.HasData() {
		t.Error("right operand should keep its buffer")
	}

	got := tensor.Data[float32](out)
	for i := range base {
		want := float32(math.Pow(float64(base[i]), float64(exp[i])))
		if math.Float32bits(got[i]) != math.Float32bits(want) {
			t.Errorf("power[%d] = %f, expected %f", i, got[i], want)
		}
	}
}

func TestAsTypeFastPairs(t *testing.T) {
	t.Run("float32 to int32", func(t *testing.T) {
		in := fromF32(t, []float32{1.9, -1.9, 0.5, -0.5}, tensor.Shape{4})
		p := tensor.NewPrimitive(tensor.KindAsType)
		out := tensor.NewArray(tensor.Shape{4}, tensor.Int32, p, []*tensor.Array{in})
		if err := EvalAsType(p, []*tensor.Array{in}, out); err != nil {
			t.Fatalf("astype failed: %v", err)
		}
		got := tensor.Data[int32](out)
		want := []int32{1, -1, 0, 0}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("cast[%d] = %d, expected %d", i, got[i], want[i])
			}
		}
	})

	t.Run("int32 to float32", func(t *testing.T) {
		in := fromI32(t, []int32{-3, 0, 1 << 20}, tensor.Shape{3})
		p := tensor.NewPrimitive(tensor.KindAsType)
		out := tensor.NewArray(tensor.Shape{3}, tensor.Float32, p, []*tensor.Array{in})
		if err := EvalAsType(p, []*tensor.Array{in}, out); err != nil {
			t.Fatalf("astype failed: %v", err)
		}
		got := tensor.Data[float32](out)
		want := []float32{-3, 0, 1 << 20}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("cast[%d] = %f, expected %f", i, got[i], want[i])
			}
		}
	})

	t.Run("strided input delegates", func(t *testing.T) {
		src := fromF32(t, []float32{1.9, 9, -1.9, 9}, tensor.Shape{4})
		view := tensor.NewArray(tensor.Shape{2}, tensor.Float32, nil, nil)
		view.AsView(src, []int{2}, 0)

		p := tensor.NewPrimitive(tensor.KindAsType)
		out := tensor.NewArray(tensor.Shape{2}, tensor.Int32, p, []*tensor.Array{view})
		if err := EvalAsType(p, []*tensor.Array{view}, out); err != nil {
			t.Fatalf("astype failed: %v", err)
		}
		got := tensor.Data[int32](out)
		if got[0] != 1 || got[1] != -1 {
			t.Errorf("strided cast = %v, expected [1 -1]", got[:2])
		}
	})
}

func TestScanFastPathMatchesGeneric(t *testing.T) {
	rows, cols := 64, 300
	input := rampF32(rows * cols)
	shape := tensor.Shape{rows, cols}

	for _, reverse := range []bool{false, true} {
		name := "forward"
		if reverse {
			name = "reverse"
		}
		t.Run(name, func(t *testing.T) {
			p := &tensor.Primitive{
				Kind:    tensor.KindScan,
				Reduce:  tensor.ScanSum,
				Axis:    1,
				Reverse: reverse,
			}

			inFast := fromF32(t, input, shape)
			fast := tensor.NewArray(shape, tensor.Float32, p, []*tensor.Array{inFast})
			if err := EvalScan(p, []*tensor.Array{inFast}, fast); err != nil {
				t.Fatalf("fast scan failed: %v", err)
			}

			inRef := fromF32(t, input, shape)
			ref := tensor.NewArray(shape, tensor.Float32, p, []*tensor.Array{inRef})
			if err := generic.EvalScan(p, []*tensor.Array{inRef}, ref); err != nil {
				t.Fatalf("generic scan failed: %v", err)
			}

			f := tensor.Data[float32](fast)
			r := tensor.Data[float32](ref)
			for i := 0; i < rows*cols; i++ {
				if math.Float32bits(f[i]) != math.Float32bits(r[i]) {
					t.Fatalf("scan diverges at %d: %x vs %x", i,
						math.Float32bits(f[i]), math.Float32bits(r[i]))
				}
			}
		})
	}
}

func TestScanInclusiveDelegates(t *testing.T) {
	in := fromF32(t, []float32{1, 2, 3}, tensor.Shape{3})
	p := &tensor.Primitive{
		Kind:      tensor.KindScan,
		Reduce:    tensor.ScanSum,
		Axis:      0,
		Inclusive: true,
	}
	out := tensor.NewArray(tensor.Shape{3}, tensor.Float32, p, []*tensor.Array{in})
	if err := EvalScan(p, []*tensor.Array{in}, out); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	got := tensor.Data[float32](out)
	want := []float32{1, 3, 6}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("scan[%d] = %f, expected %f", i, got[i], want[i])
		}
	}
}

func TestFullFill(t *testing.T) {
	v := tensor.Scalar(float32(3.25))
	p := tensor.NewPrimitive(tensor.KindFull)
	out := tensor.NewArray(tensor.Shape{100, 3}, tensor.Float32, p, []*tensor.Array{v})
	if err := EvalFull(p, []*tensor.Array{v}, out); err != nil {
		t.Fatalf("full failed: %v", err)
	}
	got := tensor.Data[float32](out)
	for i := 0; i < 300; i++ {
		if got[i] != 3.25 {
			t.Fatalf("full[%d] = %f, expected 3.25", i, got[i])
		}
	}
}
