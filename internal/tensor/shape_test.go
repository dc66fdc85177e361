package tensor

import (
	"testing"
)

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Shape
		want    Shape
		wantErr bool
	}{
		{
			name: "column against row",
			a:    Shape{3, 1},
			b:    Shape{1, 4},
			want: Shape{3, 4},
		},
		{
			name: "scalar against matrix",
			a:    Shape{},
			b:    Shape{2, 3},
			want: Shape{2, 3},
		},
		{
			name: "rank extension",
			a:    Shape{4},
			b:    Shape{2, 3, 4},
			want: Shape{2, 3, 4},
		},
		{
			name: "equal shapes",
			a:    Shape{2, 2},
			b:    Shape{2, 2},
			want: Shape{2, 2},
		},
		{
			name:    "incompatible",
			a:       Shape{3},
			b:       Shape{4},
			wantErr: true,
		},
		{
			name:    "incompatible inner dim",
			a:       Shape{2, 3},
			b:       Shape{2, 4},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BroadcastShapes(tt.a, tt.b)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("BroadcastShapes(%v, %v) = %v, expected error", tt.a, tt.b, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("BroadcastShapes(%v, %v) failed: %v", tt.a, tt.b, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("BroadcastShapes(%v, %v) = %v, expected %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestBroadcastStrides(t *testing.T) {
	// A (3,1) operand broadcast to (3,4) repeats along the last dim, so its
	// stride there must be zero.
	got := BroadcastStrides(Shape{3, 1}, []int{1, 1}, Shape{3, 4})
	want := []int{1, 0}
	if len(got) != len(want) {
		t.Fatalf("stride rank %d, expected %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("stride[%d] = %d, expected %d", i, got[i], want[i])
		}
	}

	// Rank extension pads leading zero strides.
	got = BroadcastStrides(Shape{4}, []int{1}, Shape{2, 3, 4})
	want = []int{0, 0, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("extended stride[%d] = %d, expected %d", i, got[i], want[i])
		}
	}
}

func TestComputeStrides(t *testing.T) {
	s := Shape{2, 3, 4}
	row := s.ComputeStrides()
	col := s.ColMajorStrides()
	wantRow := []int{12, 4, 1}
	wantCol := []int{1, 2, 6}
	for i := range s {
		if row[i] != wantRow[i] {
			t.Errorf("row stride[%d] = %d, expected %d", i, row[i], wantRow[i])
		}
		if col[i] != wantCol[i] {
			t.Errorf("col stride[%d] = %d, expected %d", i, col[i], wantCol[i])
		}
	}
}

func TestElemToLoc(t *testing.T) {
	shape := Shape{2, 3}
	row := shape.ComputeStrides()
	col := shape.ColMajorStrides()

	// Row-major strides make flat index and location coincide.
	for flat := 0; flat < shape.NumElements(); flat++ {
		if loc := ElemToLoc(flat, shape, row); loc != flat {
			t.Errorf("row-major ElemToLoc(%d) = %d", flat, loc)
		}
	}

	// Column-major: logical (i,j) lives at j*2+i.
	wantCol := []int{0, 2, 4, 1, 3, 5}
	for flat, want := range wantCol {
		if loc := ElemToLoc(flat, shape, col); loc != want {
			t.Errorf("col-major ElemToLoc(%d) = %d, expected %d", flat, loc, want)
		}
	}
}
