package simulation

import (
	"errors"
	"fmt"
)

// ErrInvalidSolution 求解结果含NaN或Inf
var ErrInvalidSolution = errors.New("检测到无效数值(NaN/Inf)")

// StepError 带仿真上下文的步进错误
type StepError struct {
	Step int     // 失败的步序号(从1开始)
	Time float64 // 失败时的仿真时间
	Err  error   // 原始错误
}

func (e *StepError) Error() string {
	return fmt.Sprintf("第 %d 步失败(时间=%.6e): %v", e.Step, e.Time, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
