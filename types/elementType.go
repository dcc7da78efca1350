package types

import (
	"fmt"
	"strings"
)

// ElementType 元件类型
type ElementType uint8

// 电路元件类型常量定义
const (
	TypeUnknown       ElementType = iota // 未知类型
	TypeResistor                         // 电阻
	TypeCapacitor                        // 电容
	TypeInductor                         // 电感
	TypeVoltageSource                    // 独立电压源
	TypeGround                           // 地
)

// elementTypeString 元件映射
var elementTypeString = map[ElementType]struct {
	Name string // 元件名称
	Unit string // 元件值单位
	Pins int    // 引脚数量
}{
	TypeUnknown:       {Name: "Unknown"},
	TypeResistor:      {Name: "Resistor", Unit: "Ω", Pins: 2},
	TypeCapacitor:     {Name: "Capacitor", Unit: "F", Pins: 2},
	TypeInductor:      {Name: "Inductor", Unit: "H", Pins: 2},
	TypeVoltageSource: {Name: "VoltageSource", Unit: "V", Pins: 2},
	TypeGround:        {Name: "Ground", Pins: 1},
}

// mapName 名称到类型的映射，同时接受网表常用缩写
var mapName = map[string]ElementType{
	"resistor":      TypeResistor,
	"r":             TypeResistor,
	"capacitor":     TypeCapacitor,
	"c":             TypeCapacitor,
	"inductor":      TypeInductor,
	"l":             TypeInductor,
	"voltagesource": TypeVoltageSource,
	"voltage":       TypeVoltageSource,
	"v":             TypeVoltageSource,
	"ground":        TypeGround,
	"gnd":           TypeGround,
	"g":             TypeGround,
}

// String 返回元件类型的字符串表示
func (t ElementType) String() string {
	if et, ok := elementTypeString[t]; ok {
		return et.Name
	}
	return "Unknown"
}

// Unit 元件值单位
func (t ElementType) Unit() string {
	return elementTypeString[t].Unit
}

// GetPostCount 获取引脚数量
func (t ElementType) GetPostCount() int {
	return elementTypeString[t].Pins
}

// DefaultPins 默认引脚偏移，两端元件沿X轴间隔一个网格
func (t ElementType) DefaultPins() []Point {
	switch t.GetPostCount() {
	case 1:
		return []Point{{}}
	case 2:
		return []Point{{}, {X: 1}}
	}
	return nil
}

// IsValid 是否为已知元件类型
func (t ElementType) IsValid() bool {
	return t > TypeUnknown && t <= TypeGround
}

// GetNameType 通过名称获取类型
func GetNameType(name string) ElementType {
	return mapName[strings.ToLower(strings.TrimSpace(name))]
}

// ParseElementType 解析元件类型名称
func ParseElementType(name string) (ElementType, error) {
	if t := GetNameType(name); t != TypeUnknown {
		return t, nil
	}
	return TypeUnknown, fmt.Errorf("未知的元件类型 '%s'", name)
}
