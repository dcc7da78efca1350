package utils

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// valuePattern 数值、可选的量级前缀和可选的单位
var valuePattern = regexp.MustCompile(`^([-+]?\d*\.?\d+(?:[eE][-+]?\d+)?)(meg|[TGMKkmunpf])?(Ω|ohm|[FHVs])?$`)

// unitMap 量级前缀
var unitMap = map[string]float64{
	"T":   1e12,  // 太
	"G":   1e9,   // 吉
	"meg": 1e6,   // 兆
	"M":   1e6,   // 兆
	"K":   1e3,   // 千
	"k":   1e3,   // 千
	"m":   1e-3,  // 毫
	"u":   1e-6,  // 微
	"n":   1e-9,  // 纳
	"p":   1e-12, // 皮
	"f":   1e-15, // 飞
}

// ParseValue 解析带量级前缀的元件值，如 "1k"、"10uF"、"4.7meg"、"1e-3"
func ParseValue(val string) (float64, error) {
	matches := valuePattern.FindStringSubmatch(strings.TrimSpace(val))
	if matches == nil {
		return 0, fmt.Errorf("无效的数值格式: '%s'", val)
	}
	num, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, err
	}
	if multiplier, ok := unitMap[matches[2]]; ok {
		num *= multiplier
	}
	return num, nil
}

// FormatValue 按量级前缀格式化数值，保留三位小数
func FormatValue(value float64, unit string) string {
	abs := math.Abs(value)
	switch {
	case abs == 0:
		return fmt.Sprintf("0 %s", unit)
	case abs >= 1e9:
		return fmt.Sprintf("%.3f G%s", value/1e9, unit)
	case abs >= 1e6:
		return fmt.Sprintf("%.3f M%s", value/1e6, unit)
	case abs >= 1e3:
		return fmt.Sprintf("%.3f k%s", value/1e3, unit)
	case abs >= 1:
		return fmt.Sprintf("%.3f %s", value, unit)
	case abs >= 1e-3:
		return fmt.Sprintf("%.3f m%s", value*1e3, unit)
	case abs >= 1e-6:
		return fmt.Sprintf("%.3f u%s", value*1e6, unit)
	case abs >= 1e-9:
		return fmt.Sprintf("%.3f n%s", value*1e9, unit)
	case abs >= 1e-12:
		return fmt.Sprintf("%.3f p%s", value*1e12, unit)
	}
	return fmt.Sprintf("%.3e %s", value, unit)
}
