// Package simulation 固定步长的后向欧拉瞬态仿真。
package simulation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"circuit/element"
	"circuit/maths"
	"circuit/metrics"
)

// Result 一步仿真的结果
type Result struct {
	Step              int       // 步序号(从1开始)
	Time              float64   // 本步仿真时间
	NodesNum          int       // 节点数量(不含地)
	VoltageSourcesNum int       // 电压源数量
	Voltages          []float64 // 按节点编号索引的电压，下标0为地
	Unknowns          []float64 // 完整解向量
}

// Stepper 仿真步进器，不可并发使用
type Stepper struct {
	Logger  *slog.Logger      // 日志
	Metrics *metrics.Registry // 指标，可为nil
	steps   int               // 已成功的步数
}

// NewStepper 创建步进器，logger为nil时使用 slog.Default()
func NewStepper(logger *slog.Logger, reg *metrics.Registry) *Stepper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Stepper{Logger: logger, Metrics: reg}
}

// Steps 已成功的步数
func (s *Stepper) Steps() int { return s.steps }

// Reset 步数清零
func (s *Stepper) Reset() { s.steps = 0 }

// Step 执行一步仿真，t为本步的仿真时间
//
// 算法步骤:
//  1. 由节点分配计算方程规模
//  2. 组装并求解MNA方程
//  3. 计算每个元件的新状态并检查数值有效性
//  4. 全部成功后才提交元件状态并记录历史，失败时元件保持不变
func (s *Stepper) Step(elements []*element.Element, t float64) (*Result, error) {
	start := time.Now()
	// 1. 方程规模
	nodesNum, vsNum := GetNum(elements)
	// 2. 组装与求解
	m, vsIDs := Assemble(elements, nodesNum, vsNum)
	if err := m.Solve(); err != nil {
		return nil, s.fail(t, err)
	}
	voltages := m.Voltages()
	unknowns := m.Unknowns()
	if err := validate(unknowns); err != nil {
		return nil, s.fail(t, err)
	}
	// 3. 元件状态
	states := make([]element.State, len(elements))
	for i, e := range elements {
		states[i] = e.Evaluate(m, vsIDs[i])
		if err := validate([]float64{states[i].Voltage, states[i].Current}); err != nil {
			return nil, s.fail(t, fmt.Errorf("元件 %d: %w", e.ID, err))
		}
	}
	// 4. 提交
	for i, e := range elements {
		e.Commit(states[i], t)
	}
	s.steps++
	s.Metrics.RecordStep(time.Since(start), m.Size())
	if s.Logger.Enabled(context.Background(), slog.LevelDebug) {
		s.Logger.Debug("步进完成", "step", s.steps, "time", t, "nodes", nodesNum,
			"voltage_sources", vsNum, "residual", maths.Residual(m.A, m.X, m.Z))
	}
	return &Result{
		Step:              s.steps,
		Time:              t,
		NodesNum:          nodesNum,
		VoltageSourcesNum: vsNum,
		Voltages:          voltages,
		Unknowns:          unknowns,
	}, nil
}

// fail 包装失败信息并记录
func (s *Stepper) fail(t float64, err error) error {
	reason := metrics.ReasonOther
	switch {
	case errors.Is(err, maths.ErrSingular):
		reason = metrics.ReasonSingular
	case errors.Is(err, ErrInvalidSolution):
		reason = metrics.ReasonInvalid
	}
	s.Metrics.RecordStepFailure(reason)
	stepErr := &StepError{Step: s.steps + 1, Time: t, Err: err}
	s.Logger.Error("仿真步失败", "step", stepErr.Step, "time", t, "reason", reason, "err", err)
	return stepErr
}

// validate 检查数值有效性
func validate(values []float64) error {
	for i, v := range values {
		if !maths.IsFinite(v) {
			return fmt.Errorf("%w: 第 %d 项为 %g", ErrInvalidSolution, i, v)
		}
	}
	return nil
}
