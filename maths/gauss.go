package maths

import (
	"errors"
	"fmt"

	"circuit/types"

	"gonum.org/v1/gonum/mat"
)

// 求解错误定义
var (
	ErrSingular  = errors.New("矩阵奇异或接近奇异")
	ErrDimension = errors.New("矩阵维度不匹配")
)

// Solve 使用带部分主元的高斯消元求解 Ax=b
// 参数:
//
//	a - 系数方阵，可以为nil表示0维系统
//	b - 右侧向量，长度必须等于a的维度
//
// 返回:
//
//	解向量x（0维系统返回空向量），错误信息
//
// 算法步骤:
//  1. 拷贝a和b，输入数据保持不变
//  2. 对每一列k选取[k, n-1]行中绝对值最大的元素作为主元并交换行
//  3. 主元绝对值小于 types.PivotTolerance 时返回 ErrSingular
//  4. 消去k列以下元素，最后按行逆序回代
func Solve(a *mat.Dense, b *mat.VecDense) (*mat.VecDense, error) {
	n := 0
	if b != nil {
		n = b.Len()
	}
	if a == nil || a.IsEmpty() {
		if n != 0 {
			return nil, fmt.Errorf("%w: 空矩阵与长度 %d 的向量", ErrDimension, n)
		}
		return &mat.VecDense{}, nil
	}
	if r, c := a.Dims(); r != c || r != n {
		return nil, fmt.Errorf("%w: 矩阵 %dx%d 向量 %d", ErrDimension, r, c, n)
	}

	// 1. 拷贝，行切片直接引用拷贝后的底层数据
	u := mat.DenseCopyOf(a)
	rows := make([][]float64, n)
	for i := range n {
		rows[i] = u.RawRowView(i)
	}
	z := make([]float64, n)
	for i := range n {
		z[i] = b.AtVec(i)
	}

	// 2. 逐列消元
	for k := range n {
		p := k + MaxAbsIndex(column(rows[k:], k))
		if pivot := Abs(rows[p][k]); pivot < types.PivotTolerance {
			return nil, fmt.Errorf("%w: 第 %d 列主元 %g", ErrSingular, k, pivot)
		}
		// 行交换只交换行引用
		if p != k {
			rows[k], rows[p] = rows[p], rows[k]
			z[k], z[p] = z[p], z[k]
		}
		pivot := rows[k][k]
		for i := k + 1; i < n; i++ {
			factor := rows[i][k] / pivot
			if factor == 0 {
				continue
			}
			rows[i][k] = 0
			for j := k + 1; j < n; j++ {
				rows[i][j] -= factor * rows[k][j]
			}
			z[i] -= factor * z[k]
		}
	}

	// 3. 回代
	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := z[i]
		for j := i + 1; j < n; j++ {
			sum -= rows[i][j] * x[j]
		}
		x[i] = sum / rows[i][i]
	}
	return mat.NewVecDense(n, x), nil
}

// Residual 计算 max|Ax-b|，用于校验求解精度
func Residual(a *mat.Dense, x, b *mat.VecDense) float64 {
	if a == nil || a.IsEmpty() {
		return 0
	}
	r, _ := a.Dims()
	ax := mat.NewVecDense(r, nil)
	ax.MulVec(a, x)
	ax.SubVec(ax, b)
	return Abs(ax.AtVec(MaxAbsIndex(ax.RawVector().Data)))
}

// column 取出各行第k列元素
func column(rows [][]float64, k int) []float64 {
	col := make([]float64, len(rows))
	for i, row := range rows {
		col[i] = row[k]
	}
	return col
}
