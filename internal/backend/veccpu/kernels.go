package veccpu

import (
	"github.com/loom-ml/loom/internal/parallel"
)

// Flat-span kernels. Each operates on raw contiguous spans and shards
// across workers for large inputs; shard boundaries never change results
// because every write is an independent element.

func mapF32(dst, src []float32, f func(float64) float64) {
	parallel.Spans(len(dst), cfg, func(s, e int) {
		for i := s; i < e; i++ {
			dst[i] = float32(f(float64(src[i])))
		}
	})
}

func negF32(dst, src []float32) {
	parallel.Spans(len(dst), cfg, func(s, e int) {
		for i := s; i < e; i++ {
			dst[i] = -src[i]
		}
	})
}

func absF32(dst, src []float32) {
	parallel.Spans(len(dst), cfg, func(s, e int) {
		for i := s; i < e; i++ {
			if src[i] < 0 {
				dst[i] = -src[i]
			} else {
				dst[i] = src[i]
			}
		}
	})
}

func absI32(dst, src []int32) {
	parallel.Spans(len(dst), cfg, func(s, e int) {
		for i := s; i < e; i++ {
			if src[i] < 0 {
				dst[i] = -src[i]
			} else {
				dst[i] = src[i]
			}
		}
	})
}

func squareF32(dst, src []float32) {
	parallel.Spans(len(dst), cfg, func(s, e int) {
		for i := s; i < e; i++ {
			dst[i] = src[i] * src[i]
		}
	})
}

func fillF32(dst []float32, v float32) {
	parallel.Spans(len(dst), cfg, func(s, e int) {
		for i := s; i < e; i++ {
			dst[i] = v
		}
	})
}

// binaryVV, binarySV and binaryVS are the three shape-specialized binary
// routines: vector-vector, scalar-left and scalar-right.

func binaryVV[T int32 | float32](dst, a, b []T, f func(T, T) T) {
	parallel.Spans(len(dst), cfg, func(s, e int) {
		for i := s; i < e; i++ {
			dst[i] = f(a[i], b[i])
		}
	})
}

func binarySV[T int32 | float32](dst []T, s T, b []T, f func(T, T) T) {
	parallel.Spans(len(dst), cfg, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			dst[i] = f(s, b[i])
		}
	})
}

func binaryVS[T int32 | float32](dst []T, a []T, s T, f func(T, T) T) {
	parallel.Spans(len(dst), cfg, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			dst[i] = f(a[i], s)
		}
	})
}
