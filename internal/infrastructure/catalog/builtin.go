// Package catalog 提供模板目录实现
package catalog

import (
	"context"

	"go.opentelemetry.io/otel"

	"deck-import-api/internal/application/layout"
	"deck-import-api/internal/domain/entity"
)

var tracer = otel.Tracer("catalog")

// Builtin 内置模板注册表
// 服务自带 general 模板，无需外部目录服务即可导入
type Builtin struct {
	templates map[string]*entity.TemplateSchema
	ordered   []*entity.TemplateSchema
}

// NewBuiltin 创建内置模板注册表
func NewBuiltin() *Builtin {
	all := layout.BuiltinTemplates()
	m := make(map[string]*entity.TemplateSchema, len(all))
	for _, t := range all {
		m[t.Name] = t
	}
	return &Builtin{templates: m, ordered: all}
}

// Template 按名称获取模板 Schema，不存在时返回 nil, nil
func (b *Builtin) Template(_ context.Context, name string) (*entity.TemplateSchema, error) {
	return b.templates[name], nil
}

// Templates 列出全部内置模板
func (b *Builtin) Templates(_ context.Context) ([]*entity.TemplateSchema, error) {
	return b.ordered, nil
}
