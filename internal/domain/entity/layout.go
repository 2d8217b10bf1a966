package entity

import (
	"fmt"
	"strings"
)

// FieldKind 字段类型
type FieldKind string

const (
	FieldKindString      FieldKind = "string"
	FieldKindBool        FieldKind = "bool"
	FieldKindImage       FieldKind = "image"
	FieldKindIcon        FieldKind = "icon"
	FieldKindBulletList  FieldKind = "bullet-list"
	FieldKindMetricList  FieldKind = "metric-list"
	FieldKindSectionList FieldKind = "section-list"
	FieldKindTeamList    FieldKind = "team-list"
	FieldKindChart       FieldKind = "chart"
	FieldKindTable       FieldKind = "table"
)

// LayoutKind 布局种类，对应模板中的十二种固定幻灯片版式
type LayoutKind string

const (
	LayoutKindIntro            LayoutKind = "intro"
	LayoutKindBasicInfo        LayoutKind = "basic-info"
	LayoutKindBulletWithIcons  LayoutKind = "bullet-with-icons"
	LayoutKindBulletIconsOnly  LayoutKind = "bullet-icons-only"
	LayoutKindMetrics          LayoutKind = "metrics"
	LayoutKindMetricsWithImage LayoutKind = "metrics-with-image"
	LayoutKindNumberedBullets  LayoutKind = "numbered-bullets"
	LayoutKindQuote            LayoutKind = "quote"
	LayoutKindTableOfContents  LayoutKind = "table-of-contents"
	LayoutKindChartWithBullets LayoutKind = "chart-with-bullets"
	LayoutKindTableInfo        LayoutKind = "table-info"
	LayoutKindTeam             LayoutKind = "team"
)

// FieldSpec 字段声明
// List 类字段的元素结构由 Kind 本身确定
type FieldSpec struct {
	Kind     FieldKind `json:"kind"`
	Required bool      `json:"required"`
}

// LayoutSchema 单个布局的内容 Schema
type LayoutSchema struct {
	// ID 布局标识的 name 部分，形如 general-intro-slide
	ID     string               `json:"id"`
	Name   string               `json:"name"`
	Kind   LayoutKind           `json:"kind"`
	Fields map[string]FieldSpec `json:"fields"`
}

// TemplateSchema 模板（布局组）的完整 Schema
type TemplateSchema struct {
	Name    string          `json:"name"`
	Ordered bool            `json:"ordered"`
	Layouts []*LayoutSchema `json:"layouts"`
}

// Layout 按 ID 查找布局
func (t *TemplateSchema) Layout(id string) *LayoutSchema {
	for _, l := range t.Layouts {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// ParseLayoutID 解析 ns:name 形式的布局标识
func ParseLayoutID(layoutID string) (group, name string, err error) {
	parts := strings.SplitN(layoutID, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("malformed layout id %q, expected group:name", layoutID)
	}
	return parts[0], parts[1], nil
}
