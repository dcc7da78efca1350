// Package metrics 仿真运行指标(Prometheus)。
//
// 所有记录方法都允许nil接收者，未启用指标时调用方无需判断。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 步进失败原因标签
const (
	ReasonSingular = "singular" // 矩阵奇异
	ReasonInvalid  = "invalid"  // 解含NaN/Inf
	ReasonOther    = "other"    // 其他错误
)

// Registry 仿真指标集合
type Registry struct {
	StepsTotal        prometheus.Counter     // 成功步数
	StepFailuresTotal *prometheus.CounterVec // 失败步数(按原因)
	StepDuration      prometheus.Histogram   // 单步耗时
	SystemSize        prometheus.Gauge       // 方程维度
	Nodes             prometheus.Gauge       // 节点数量(不含地)
	VoltageSources    prometheus.Gauge       // 电压源数量
	ResolvesTotal     prometheus.Counter     // 节点求解次数
	SimulationTime    prometheus.Gauge       // 当前仿真时间(秒)

	registry *prometheus.Registry
}

// NewRegistry 创建独立的指标注册表
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	factory := promauto.With(r.registry)

	r.StepsTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "circuit_steps_total",
		Help: "Total number of successful simulation steps",
	})
	r.StepFailuresTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "circuit_step_failures_total",
		Help: "Total number of failed simulation steps",
	}, []string{"reason"}) // singular, invalid, other
	r.StepDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "circuit_step_duration_seconds",
		Help:    "Wall time spent assembling and solving one step",
		Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
	})
	r.SystemSize = factory.NewGauge(prometheus.GaugeOpts{
		Name: "circuit_system_size",
		Help: "Number of unknowns in the last assembled system",
	})
	r.Nodes = factory.NewGauge(prometheus.GaugeOpts{
		Name: "circuit_nodes",
		Help: "Number of non-ground electrical nodes",
	})
	r.VoltageSources = factory.NewGauge(prometheus.GaugeOpts{
		Name: "circuit_voltage_sources",
		Help: "Number of connected voltage sources",
	})
	r.ResolvesTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "circuit_resolves_total",
		Help: "Total number of topology resolutions",
	})
	r.SimulationTime = factory.NewGauge(prometheus.GaugeOpts{
		Name: "circuit_simulation_time_seconds",
		Help: "Current simulated time",
	})
	return r
}

// Gatherer 底层注册表
func (r *Registry) Gatherer() prometheus.Gatherer { return r.registry }

// Handler /metrics 导出
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// RecordStep 记录一次成功步进
func (r *Registry) RecordStep(duration time.Duration, size int) {
	if r == nil {
		return
	}
	r.StepsTotal.Inc()
	r.StepDuration.Observe(duration.Seconds())
	r.SystemSize.Set(float64(size))
}

// RecordStepFailure 记录一次失败步进
func (r *Registry) RecordStepFailure(reason string) {
	if r == nil {
		return
	}
	r.StepFailuresTotal.WithLabelValues(reason).Inc()
}

// RecordResolve 记录一次节点求解
func (r *Registry) RecordResolve(nodes, voltageSources int) {
	if r == nil {
		return
	}
	r.ResolvesTotal.Inc()
	r.Nodes.Set(float64(nodes))
	r.VoltageSources.Set(float64(voltageSources))
}

// SetTime 更新仿真时间
func (r *Registry) SetTime(t float64) {
	if r == nil {
		return
	}
	r.SimulationTime.Set(t)
}
