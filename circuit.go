// Package circuit 集总参数电路的瞬态仿真核心。
//
// Circuit 持有元件、连线和仿真时钟；结构修改后必须调用 Resolve 重新求解节点，
// 然后由 Step、Simulate 或 Run 推进仿真。Circuit 不可并发使用。
package circuit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"circuit/element"
	"circuit/graph"
	"circuit/metrics"
	"circuit/simulation"
	"circuit/types"

	"github.com/google/uuid"
)

// 电路错误定义
var (
	ErrStaleTopology   = errors.New("电路结构已修改，需要重新求解节点")
	ErrElementNotFound = errors.New("元件不存在")
	ErrWireNotFound    = errors.New("连线不存在")
	ErrInvalidPeriod   = errors.New("仿真周期必须大于0")
)

// Option 电路配置项
type Option func(*Circuit)

// WithHistoryCapacity 设置元件历史记录容量
func WithHistoryCapacity(n int) Option {
	return func(c *Circuit) { c.historyCap = n }
}

// WithLogger 设置日志
func WithLogger(l *slog.Logger) Option {
	return func(c *Circuit) { c.logger = l }
}

// WithMetrics 设置指标
func WithMetrics(r *metrics.Registry) Option {
	return func(c *Circuit) { c.metrics = r }
}

// Circuit 电路模拟器
type Circuit struct {
	elements    []*element.Element // 元件列表(插入顺序)
	wires       []types.Wire       // 连线列表(插入顺序)
	nextElement types.ElementID    // 下一个元件编号
	nextWire    types.WireID       // 下一个连线编号
	graph       *graph.Graph       // 最近一次节点求解结果
	stale       bool               // 结构修改后未重新求解
	steps       int                // 已完成的步数
	historyCap  int                // 元件历史记录容量
	logger      *slog.Logger
	metrics     *metrics.Registry
	stepper     *simulation.Stepper
}

// NewCircuit 初始化
func NewCircuit(opts ...Option) *Circuit {
	c := &Circuit{historyCap: types.DefaultHistoryCapacity}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.stepper = simulation.NewStepper(c.logger, c.metrics)
	return c
}

// ------------------------------ 编辑 ------------------------------

// AddElement 添加元件，rotation 为旋转象限 0-3
func (c *Circuit) AddElement(t types.ElementType, value float64, pos types.Point, rotation int) (*element.Element, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("未知的元件类型: %d", t)
	}
	if rotation < 0 || rotation > 3 {
		return nil, fmt.Errorf("旋转象限 %d 超出范围 0-3", rotation)
	}
	e := element.New(c.nextElement, t, value, pos, rotation, c.historyCap)
	c.nextElement++
	c.elements = append(c.elements, e)
	c.stale = true
	return e, nil
}

// RemoveElement 删除元件
func (c *Circuit) RemoveElement(id types.ElementID) error {
	i := c.indexElement(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrElementNotFound, id)
	}
	c.elements = slices.Delete(c.elements, i, i+1)
	c.stale = true
	return nil
}

// SetPins 修改元件引脚偏移
func (c *Circuit) SetPins(id types.ElementID, pins []types.Point) error {
	e, ok := c.Element(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrElementNotFound, id)
	}
	if err := e.SetPins(pins); err != nil {
		return err
	}
	c.stale = true
	return nil
}

// Move 移动或旋转元件
func (c *Circuit) Move(id types.ElementID, pos types.Point, rotation int) error {
	e, ok := c.Element(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrElementNotFound, id)
	}
	if rotation < 0 || rotation > 3 {
		return fmt.Errorf("旋转象限 %d 超出范围 0-3", rotation)
	}
	e.Position, e.Rotation = pos, rotation
	c.stale = true
	return nil
}

// SetValue 修改元件值，不影响拓扑
func (c *Circuit) SetValue(id types.ElementID, value float64) error {
	e, ok := c.Element(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrElementNotFound, id)
	}
	e.Value = value
	return nil
}

// AddWire 添加连线
func (c *Circuit) AddWire(a, b types.Point) types.WireID {
	id := c.nextWire
	c.nextWire++
	c.wires = append(c.wires, types.Wire{ID: id, A: a, B: b})
	c.stale = true
	return id
}

// RemoveWire 删除连线
func (c *Circuit) RemoveWire(id types.WireID) error {
	i := slices.IndexFunc(c.wires, func(w types.Wire) bool { return w.ID == id })
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrWireNotFound, id)
	}
	c.wires = slices.Delete(c.wires, i, i+1)
	c.stale = true
	return nil
}

// ------------------------------ 查询 ------------------------------

// Element 按编号获取元件
func (c *Circuit) Element(id types.ElementID) (*element.Element, bool) {
	if i := c.indexElement(id); i >= 0 {
		return c.elements[i], true
	}
	return nil, false
}

// Elements 元件列表
func (c *Circuit) Elements() []*element.Element { return slices.Clone(c.elements) }

// Wires 连线列表
func (c *Circuit) Wires() []types.Wire { return slices.Clone(c.wires) }

// Graph 最近一次节点求解结果，未求解时为nil
func (c *Circuit) Graph() *graph.Graph { return c.graph }

// Stale 结构修改后是否尚未重新求解
func (c *Circuit) Stale() bool { return c.stale }

// HasGround 是否包含接地元件，开始仿真前由调用方检查
func (c *Circuit) HasGround() bool {
	return slices.ContainsFunc(c.elements, (*element.Element).IsGround)
}

// Time 当前仿真时间(秒)
func (c *Circuit) Time() float64 { return float64(c.steps) * types.TimeStep }

// Steps 已完成的步数
func (c *Circuit) Steps() int { return c.steps }

func (c *Circuit) indexElement(id types.ElementID) int {
	return slices.IndexFunc(c.elements, func(e *element.Element) bool { return e.ID == id })
}

// ------------------------------ 仿真 ------------------------------

// Resolve 根据当前几何关系重新求解节点
func (c *Circuit) Resolve() *graph.Graph {
	c.graph = graph.Resolve(c.wires, c.elements)
	c.stale = false
	c.metrics.RecordResolve(c.graph.NumNodes, c.graph.NumVoltageSources)
	c.logger.Info("节点求解完成",
		"elements", len(c.elements), "wires", len(c.wires),
		"nodes", c.graph.NumNodes, "voltage_sources", c.graph.NumVoltageSources)
	return c.graph
}

// Step 推进一个固定步长，失败时不修改任何元件状态且时钟不前进
func (c *Circuit) Step() (*simulation.Result, error) {
	if c.stale {
		return nil, ErrStaleTopology
	}
	res, err := c.stepper.Step(c.elements, c.Time())
	if err != nil {
		return nil, err
	}
	c.steps++
	c.metrics.SetTime(c.Time())
	return res, nil
}

// Reset 清除所有元件的伴随模型状态和历史，时钟归零
func (c *Circuit) Reset() {
	for _, e := range c.elements {
		e.Reset()
	}
	c.steps = 0
	c.stepper.Reset()
	c.metrics.SetTime(0)
}

// Simulate 批量仿真直到仿真时间到达 endTime，每步成功后调用 onStep
func (c *Circuit) Simulate(ctx context.Context, endTime float64, onStep func(*simulation.Result)) error {
	runID := uuid.NewString()
	target := int(math.Round(endTime / types.TimeStep))
	c.logger.Info("开始仿真", "run_id", runID, "time", c.Time(), "end_time", endTime)
	for c.steps < target {
		if err := ctx.Err(); err != nil {
			c.logger.Info("仿真取消", "run_id", runID, "time", c.Time())
			return err
		}
		res, err := c.Step()
		if err != nil {
			c.logger.Error("仿真中止", "run_id", runID, "time", c.Time(), "err", err)
			return err
		}
		if onStep != nil {
			onStep(res)
		}
	}
	c.logger.Info("仿真结束", "run_id", runID, "time", c.Time(), "steps", c.steps)
	return nil
}

// Run 按固定周期推进仿真，每步成功后调用 onTick
//
// ctx 取消时返回nil；步进失败时停止并返回错误。
func (c *Circuit) Run(ctx context.Context, period time.Duration, onTick func(*simulation.Result)) error {
	if period <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidPeriod, period)
	}
	runID := uuid.NewString()
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	c.logger.Info("实时仿真启动", "run_id", runID, "period", period)
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("实时仿真停止", "run_id", runID, "time", c.Time())
			return nil
		case <-ticker.C:
			res, err := c.Step()
			if err != nil {
				c.logger.Error("实时仿真中止", "run_id", runID, "time", c.Time(), "err", err)
				return err
			}
			if onTick != nil {
				onTick(res)
			}
		}
	}
}
