package maths

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Abs 绝对值
func Abs[T constraints.Float](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

// IsFinite 判断数值既不是NaN也不是Inf
func IsFinite[T constraints.Float](v T) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// MaxAbsIndex 返回绝对值最大元素的索引，空切片返回0
func MaxAbsIndex[T constraints.Float](v []T) int {
	idx := 0
	var best T
	for i, x := range v {
		if a := Abs(x); a > best {
			best, idx = a, i
		}
	}
	return idx
}
