package core

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DefaultBaseUnit 每番折算的基础分
const DefaultBaseUnit = 100

// Fan 一个计番项
type Fan struct {
	Name   string `json:"name"`            // 番型标识
	Title  string `json:"title,omitempty"` // 显示名
	Weight int    `json:"weight"`          // 番数
}

// FanRule 与牌型相关的番型规则
type FanRule struct {
	Name     string                // 番型名, 番数从权重表查
	Shapes   ShapeMask             // 在哪些牌型下参与计算
	Count    func(v *HandView) int // 命中次数, 0 表示不成立
	Replaces []string              // 成立时从同一种读法中去掉的番型
}

// SituationalRule 与拆法无关的和牌情境番 (自摸, 杠上开花, 海底等)
type SituationalRule struct {
	Name    string
	Applies func(ctx ScoreContext) bool
}

// FanTable 番型表: 规则 + 权重
type FanTable struct {
	Weights     map[string]int      // 番型名 -> 番数
	Rules       []FanRule           // 牌型番
	Situational []SituationalRule   // 情境番
	Limits      map[WinShape]string // 封顶牌型: 直接记该番, 不再计其他番
	Titles      map[string]string   // 番型显示名
	BaseUnit    int                 // 每番基础分
}

// Weight 番数, 未配置的番型为 0
func (ft *FanTable) Weight(name string) int {
	return ft.Weights[name]
}

// fan 按名字生成计番项
func (ft *FanTable) fan(name string) Fan {
	return Fan{Name: name, Title: ft.Titles[name], Weight: ft.Weights[name]}
}

// Check 每个规则都必须有权重
func (ft *FanTable) Check() error {
	names := make([]string, 0, len(ft.Rules)+len(ft.Situational)+len(ft.Limits))
	for _, r := range ft.Rules {
		names = append(names, r.Name)
	}
	for _, r := range ft.Situational {
		names = append(names, r.Name)
	}
	for _, name := range ft.Limits {
		names = append(names, name)
	}
	for _, name := range names {
		if _, ok := ft.Weights[name]; !ok {
			return NewGameError("FAN_WEIGHT_MISSING", "番型缺少番数配置").WithContext("fan", name)
		}
	}
	if ft.BaseUnit <= 0 {
		return NewGameError("FAN_BASE_UNIT", "每番基础分必须为正数").WithContext("baseUnit", ft.BaseUnit)
	}
	return nil
}

// WithWeights 返回覆盖部分权重后的新表, 原表不变
func (ft *FanTable) WithWeights(overrides map[string]int) *FanTable {
	cp := *ft
	cp.Weights = make(map[string]int, len(ft.Weights))
	for k, v := range ft.Weights {
		cp.Weights[k] = v
	}
	for k, v := range overrides {
		cp.Weights[k] = v
	}
	return &cp
}

// FanWeights 番型权重文件格式
type FanWeights struct {
	BaseUnit int               `yaml:"base_unit"`
	Fans     map[string]int    `yaml:"fans"`
	Titles   map[string]string `yaml:"titles"`
}

// ParseFanWeights 解析 YAML 格式的番型权重
func ParseFanWeights(data []byte) (*FanWeights, error) {
	var fw FanWeights
	if err := yaml.Unmarshal(data, &fw); err != nil {
		return nil, fmt.Errorf("解析番型表失败: %w", err)
	}
	if len(fw.Fans) == 0 {
		return nil, NewGameError("FAN_TABLE_EMPTY", "番型表为空")
	}
	if fw.BaseUnit == 0 {
		fw.BaseUnit = DefaultBaseUnit
	}
	for name, w := range fw.Fans {
		if w < 0 {
			return nil, NewGameError("FAN_WEIGHT_NEGATIVE", "番数不能为负").WithContext("fan", name)
		}
	}
	return &fw, nil
}

// evaluate 对一种读法计番 (不含情境番)
func (ft *FanTable) evaluate(v *HandView) (fans []Fan, limit bool) {
	if name, ok := ft.Limits[v.Shape]; ok {
		return []Fan{ft.fan(name)}, true
	}

	replaced := make(map[string]bool)
	for _, r := range ft.Rules {
		if !r.Shapes.Has(v.Shape) {
			continue
		}
		n := r.Count(v)
		if n <= 0 {
			continue
		}
		for i := 0; i < n; i++ {
			fans = append(fans, ft.fan(r.Name))
		}
		for _, name := range r.Replaces {
			replaced[name] = true
		}
	}

	if len(replaced) == 0 {
		return fans, false
	}
	kept := fans[:0]
	for _, f := range fans {
		if !replaced[f.Name] {
			kept = append(kept, f)
		}
	}
	return kept, false
}

// Bool 把判定函数包装成命中 0/1 次
func Bool(pred func(v *HandView) bool) func(v *HandView) int {
	return func(v *HandView) int {
		if pred(v) {
			return 1
		}
		return 0
	}
}

// LoadFanTable 用 YAML 权重和规则组装番型表, overrides 覆盖文件中的番数
func LoadFanTable(data []byte, overrides map[string]int, rules []FanRule, situational []SituationalRule, limits map[WinShape]string) (*FanTable, error) {
	fw, err := ParseFanWeights(data)
	if err != nil {
		return nil, err
	}
	for name, w := range overrides {
		if w < 0 {
			return nil, NewGameError("FAN_WEIGHT_NEGATIVE", "番数不能为负").WithContext("fan", name)
		}
	}
	ft := &FanTable{
		Weights:     fw.Fans,
		Rules:       rules,
		Situational: situational,
		Limits:      limits,
		Titles:      fw.Titles,
		BaseUnit:    fw.BaseUnit,
	}
	if len(overrides) > 0 {
		ft = ft.WithWeights(overrides)
	}
	if err := ft.Check(); err != nil {
		return nil, err
	}
	return ft, nil
}
