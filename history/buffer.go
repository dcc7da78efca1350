// Package history 元件电压电流的历史采样记录，供波形显示使用。
package history

import "circuit/types"

// Sample 单次采样
type Sample struct {
	Voltage float64 `json:"v"` // 端电压
	Current float64 `json:"i"` // 支路电流
	Time    float64 `json:"t"` // 仿真时间
}

// Buffer 定长环形缓冲区，容量满时丢弃最早的采样
type Buffer struct {
	data  []Sample // 底层存储
	head  int      // 最早采样的位置
	count int      // 当前采样数量
}

// NewBuffer 创建指定容量的缓冲区，容量小于1时使用默认容量
func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = types.DefaultHistoryCapacity
	}
	return &Buffer{data: make([]Sample, capacity)}
}

// Append 追加采样
func (b *Buffer) Append(voltage, current, time float64) {
	s := Sample{Voltage: voltage, Current: current, Time: time}
	if b.count < len(b.data) {
		b.data[(b.head+b.count)%len(b.data)] = s
		b.count++
		return
	}
	// 已满，覆盖最早的采样
	b.data[b.head] = s
	b.head = (b.head + 1) % len(b.data)
}

// Len 当前采样数量
func (b *Buffer) Len() int { return b.count }

// Cap 缓冲区容量
func (b *Buffer) Cap() int { return len(b.data) }

// At 获取第i个采样(0为最早)
func (b *Buffer) At(i int) Sample {
	if i < 0 || i >= b.count {
		panic("history: index out of range")
	}
	return b.data[(b.head+i)%len(b.data)]
}

// Last 最新采样
func (b *Buffer) Last() (Sample, bool) {
	if b.count == 0 {
		return Sample{}, false
	}
	return b.At(b.count - 1), true
}

// Samples 按时间顺序返回所有采样的副本
func (b *Buffer) Samples() []Sample {
	out := make([]Sample, b.count)
	n := copy(out, b.data[b.head:min(b.head+b.count, len(b.data))])
	copy(out[n:], b.data[:b.count-n])
	return out
}

// Reset 清空采样
func (b *Buffer) Reset() {
	b.head, b.count = 0, 0
	clear(b.data)
}
