package generic

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/loom-ml/loom/internal/tensor"
)

func runScanF32(t *testing.T, p *tensor.Primitive, input []float32, shape tensor.Shape) []float32 {
	t.Helper()
	in := fromF32(t, input, shape)
	out := tensor.NewArray(shape, tensor.Float32, p, []*tensor.Array{in})
	if err := EvalScan(p, []*tensor.Array{in}, out); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	return tensor.Data[float32](out)[:shape.NumElements()]
}

func TestScanSumCombinations(t *testing.T) {
	input := []float32{1, 2, 3, 4}
	tests := []struct {
		name      string
		reverse   bool
		inclusive bool
		want      []float32
	}{
		{"forward inclusive", false, true, []float32{1, 3, 6, 10}},
		{"forward exclusive", false, false, []float32{0, 1, 3, 6}},
		{"reverse inclusive", true, true, []float32{10, 9, 7, 4}},
		{"reverse exclusive", true, false, []float32{9, 7, 4, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &tensor.Primitive{
				Kind:      tensor.KindScan,
				Reduce:    tensor.ScanSum,
				Axis:      0,
				Reverse:   tt.reverse,
				Inclusive: tt.inclusive,
			}
			got := runScanF32(t, p, input, tensor.Shape{4})
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("%s[%d] = %f, expected %f", tt.name, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestScanReductions(t *testing.T) {
	input := []float32{3, 1, 4, 1, 5}
	tests := []struct {
		name   string
		reduce tensor.ScanOp
		want   []float32
	}{
		{"prod", tensor.ScanProd, []float32{3, 3, 12, 12, 60}},
		{"max", tensor.ScanMax, []float32{3, 3, 4, 4, 5}},
		{"min", tensor.ScanMin, []float32{3, 1, 1, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &tensor.Primitive{
				Kind:      tensor.KindScan,
				Reduce:    tt.reduce,
				Axis:      0,
				Inclusive: true,
			}
			got := runScanF32(t, p, input, tensor.Shape{5})
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("%s[%d] = %f, expected %f", tt.name, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestScanAxis0OfMatrix(t *testing.T) {
	// Scanning the leading axis walks a stride larger than one.
	input := []float32{
		1, 2,
		3, 4,
		5, 6,
	}
	p := &tensor.Primitive{
		Kind:      tensor.KindScan,
		Reduce:    tensor.ScanSum,
		Axis:      0,
		Inclusive: true,
	}
	got := runScanF32(t, p, input, tensor.Shape{3, 2})
	want := []float32{
		1, 2,
		4, 6,
		9, 12,
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("scan[%d] = %f, expected %f", i, got[i], want[i])
		}
	}
}

func TestScanIntSum(t *testing.T) {
	in := fromI32(t, []int32{2, -1, 4}, tensor.Shape{3})
	p := &tensor.Primitive{Kind: tensor.KindScan, Reduce: tensor.ScanSum, Axis: 0, Inclusive: true}
	out := tensor.NewArray(tensor.Shape{3}, tensor.Int32, p, []*tensor.Array{in})
	if err := EvalScan(p, []*tensor.Array{in}, out); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	got := tensor.Data[int32](out)
	want := []int32{2, 1, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("scan[%d] = %d, expected %d", i, got[i], want[i])
		}
	}
}

func TestScanStridedInput(t *testing.T) {
	// Scan over a transposed view: axis 1 of the view walks the storage
	// with stride 3.
	src := fromF32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	tr := tensor.NewArray(tensor.Shape{3, 2}, tensor.Float32, nil, nil)
	tr.AsView(src, []int{1, 3}, 0)

	p := &tensor.Primitive{Kind: tensor.KindScan, Reduce: tensor.ScanSum, Axis: 1, Inclusive: true}
	out := tensor.NewArray(tensor.Shape{3, 2}, tensor.Float32, p, []*tensor.Array{tr})
	if err := EvalScan(p, []*tensor.Array{tr}, out); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	got := tensor.Data[float32](out)
	// Transposed view is [[1 4] [2 5] [3 6]]; inclusive row sums.
	want := []float32{1, 5, 2, 7, 3, 9}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("scan[%d] = %f, expected %f", i, got[i], want[i])
		}
	}
}

func TestScanRejectsBadOperands(t *testing.T) {
	in := fromF32(t, []float32{1, 2}, tensor.Shape{2})
	p := &tensor.Primitive{Kind: tensor.KindScan, Reduce: tensor.ScanSum, Axis: 1}
	out := tensor.NewArray(tensor.Shape{2}, tensor.Float32, p, []*tensor.Array{in})
	if err := EvalScan(p, []*tensor.Array{in}, out); err == nil {
		t.Error("expected axis range error")
	}

	cplx, err := tensor.FromSlice([]complex64{1, 2}, tensor.Shape{2})
	if err != nil {
		t.Fatalf("failed to create array: %v", err)
	}
	p2 := &tensor.Primitive{Kind: tensor.KindScan, Reduce: tensor.ScanSum, Axis: 0}
	out2 := tensor.NewArray(tensor.Shape{2}, tensor.Complex64, p2, []*tensor.Array{cplx})
	if err := EvalScan(p2, []*tensor.Array{cplx}, out2); !errors.Is(err, ErrInvalidOperand) {
		t.Errorf("expected ErrInvalidOperand for complex scan, got %v", err)
	}
}
