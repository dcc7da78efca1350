// Package config 命令行仿真场景的YAML配置。
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"strings"
	"time"

	"circuit"
	"circuit/metrics"
	"circuit/types"
	"circuit/utils"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// validate 校验器单例
var validate = newValidator()

// Config 仿真场景配置
type Config struct {
	Simulation Simulation `yaml:"simulation"`
	Log        Log        `yaml:"log"`
	Output     Output     `yaml:"output"`
	Schematic  Schematic  `yaml:"schematic"`
}

// Simulation 仿真参数
type Simulation struct {
	Duration        string        `yaml:"duration" validate:"required,sivalue"` // 批量仿真时长，如 "50ms"
	Period          time.Duration `yaml:"period" validate:"gt=0"`              // 实时模式节拍周期
	HistoryCapacity int           `yaml:"history_capacity" validate:"gte=1"`   // 元件历史记录容量
	Live            bool          `yaml:"live"`                                // 实时模式
}

// Log 日志参数
type Log struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Output 输出参数，空字符串表示不输出
type Output struct {
	JSON    string `yaml:"json"`                                        // JSON记录文件
	Chart   string `yaml:"chart"`                                       // HTML图表文件
	Plot    string `yaml:"plot"`                                        // 波形图片文件(.png/.svg)
	Metrics string `yaml:"metrics" validate:"omitempty,hostname_port"` // 指标监听地址
}

// Schematic 原理图
type Schematic struct {
	Elements []ElementSpec `yaml:"elements" validate:"dive"`
	Wires    []WireSpec    `yaml:"wires" validate:"dive"`
}

// ElementSpec 元件描述
type ElementSpec struct {
	Kind     string       `yaml:"kind" validate:"required,kind"`     // 元件类型名称或缩写
	Value    string       `yaml:"value" validate:"omitempty,sivalue"` // 元件值，如 "1k"、"10uF"
	At       [2]float64   `yaml:"at"`                                 // 位置
	Rotation int          `yaml:"rotation" validate:"gte=0,lte=3"`   // 旋转象限
	Pins     [][2]float64 `yaml:"pins"`                               // 自定义引脚偏移
}

// WireSpec 连线描述
type WireSpec struct {
	From [2]float64 `yaml:"from"`
	To   [2]float64 `yaml:"to"`
}

// Default 默认配置
func Default() *Config {
	return &Config{
		Simulation: Simulation{
			Duration:        "1s",
			Period:          16 * time.Millisecond,
			HistoryCapacity: types.DefaultHistoryCapacity,
		},
		Log: Log{Level: "info", Format: "text"},
	}
}

// Load 读取并校验配置文件，未给出的字段使用默认值
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置失败: %w", err)
	}
	return Parse(data)
}

// Parse 解析并校验YAML配置
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验配置
func (cfg *Config) Validate() error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}
	for i, spec := range cfg.Schematic.Elements {
		t := types.GetNameType(spec.Kind)
		if t != types.TypeGround && spec.Value == "" {
			return fmt.Errorf("元件 %d(%s): 缺少元件值", i, spec.Kind)
		}
		if len(spec.Pins) > 0 && len(spec.Pins) != t.GetPostCount() {
			return fmt.Errorf("元件 %d(%s): 需要 %d 个引脚, 实际 %d", i, spec.Kind, t.GetPostCount(), len(spec.Pins))
		}
		if t == types.TypeResistor || t == types.TypeInductor {
			if v, _ := utils.ParseValue(spec.Value); v <= 0 {
				return fmt.Errorf("元件 %d(%s): 元件值必须大于0", i, spec.Kind)
			}
		}
	}
	return nil
}

// EndTime 批量仿真结束时间(秒)
func (cfg *Config) EndTime() float64 {
	v, _ := utils.ParseValue(cfg.Simulation.Duration)
	return v
}

// Build 按原理图创建电路，节点尚未求解
func (cfg *Config) Build(opts ...circuit.Option) (*circuit.Circuit, error) {
	opts = append([]circuit.Option{circuit.WithHistoryCapacity(cfg.Simulation.HistoryCapacity)}, opts...)
	c := circuit.NewCircuit(opts...)
	for i, spec := range cfg.Schematic.Elements {
		t, err := types.ParseElementType(spec.Kind)
		if err != nil {
			return nil, fmt.Errorf("元件 %d: %w", i, err)
		}
		var value float64
		if spec.Value != "" {
			if value, err = utils.ParseValue(spec.Value); err != nil {
				return nil, fmt.Errorf("元件 %d: %w", i, err)
			}
		}
		e, err := c.AddElement(t, value, types.Pt(spec.At[0], spec.At[1]), spec.Rotation)
		if err != nil {
			return nil, fmt.Errorf("元件 %d: %w", i, err)
		}
		if len(spec.Pins) > 0 {
			pins := make([]types.Point, len(spec.Pins))
			for j, p := range spec.Pins {
				pins[j] = types.Pt(p[0], p[1])
			}
			if err := c.SetPins(e.ID, pins); err != nil {
				return nil, fmt.Errorf("元件 %d: %w", i, err)
			}
		}
	}
	for _, w := range cfg.Schematic.Wires {
		c.AddWire(types.Pt(w.From[0], w.From[1]), types.Pt(w.To[0], w.To[1]))
	}
	return c, nil
}

// Logger 按日志配置创建 slog.Logger
func (cfg *Config) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Metrics 配置了监听地址时创建指标注册表
func (cfg *Config) Metrics() *metrics.Registry {
	if cfg.Output.Metrics == "" {
		return nil
	}
	return metrics.NewRegistry()
}

// newValidator 注册元件类型与数值格式校验
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		return name
	})
	_ = v.RegisterValidation("kind", func(fl validator.FieldLevel) bool {
		return types.GetNameType(fl.Field().String()) != types.TypeUnknown
	})
	_ = v.RegisterValidation("sivalue", func(fl validator.FieldLevel) bool {
		_, err := utils.ParseValue(fl.Field().String())
		return err == nil
	})
	return v
}

// formatValidationError 返回第一个校验错误
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}
	for _, e := range validationErrs {
		field, param := e.Namespace(), e.Param()
		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: 缺少必填项", field)
		case "gt":
			return fmt.Errorf("%s: 必须大于 %s", field, param)
		case "gte":
			return fmt.Errorf("%s: 必须不小于 %s", field, param)
		case "lte":
			return fmt.Errorf("%s: 必须不大于 %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: 必须是 [%s] 之一", field, param)
		case "kind":
			return fmt.Errorf("%s: 未知的元件类型 '%v'", field, e.Value())
		case "sivalue":
			return fmt.Errorf("%s: 无效的数值格式 '%v'", field, e.Value())
		default:
			return fmt.Errorf("%s: 校验失败(%s)", field, e.Tag())
		}
	}
	return err
}
