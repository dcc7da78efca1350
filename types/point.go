package types

import (
	"fmt"
	"math"
)

// Point 原理图坐标点(网格单位)
type Point struct {
	X, Y float64
}

// Pt 创建坐标点
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add 坐标相加
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Rotate 按象限旋转(每象限逆时针90度)，quadrant 取值 0-3
func (p Point) Rotate(quadrant int) Point {
	switch ((quadrant % 4) + 4) % 4 {
	case 1:
		return Point{X: -p.Y, Y: p.X}
	case 2:
		return Point{X: -p.X, Y: -p.Y}
	case 3:
		return Point{X: p.Y, Y: -p.X}
	}
	return p
}

// Coincident 判断两点是否重合
func (p Point) Coincident(q Point) bool {
	return math.Abs(p.X-q.X) < CoincidenceTolerance && math.Abs(p.Y-q.Y) < CoincidenceTolerance
}

func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}
