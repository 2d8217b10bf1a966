package dto

import (
	"deck-import-api/internal/domain/entity"
)

// FieldSpecResponse 字段声明响应
type FieldSpecResponse struct {
	Kind     string `json:"kind"`
	Required bool   `json:"required"`
}

// LayoutResponse 布局 Schema 响应
type LayoutResponse struct {
	ID     string                       `json:"id"`
	Name   string                       `json:"name"`
	Kind   string                       `json:"kind"`
	Fields map[string]FieldSpecResponse `json:"fields"`
}

// TemplateResponse 模板响应
type TemplateResponse struct {
	Name    string           `json:"name"`
	Ordered bool             `json:"ordered"`
	Layouts []LayoutResponse `json:"layouts"`
}

// ToTemplateResponse 转换模板 Schema
func ToTemplateResponse(t *entity.TemplateSchema) TemplateResponse {
	resp := TemplateResponse{
		Name:    t.Name,
		Ordered: t.Ordered,
		Layouts: make([]LayoutResponse, 0, len(t.Layouts)),
	}
	for _, l := range t.Layouts {
		lr := LayoutResponse{
			ID:     l.ID,
			Name:   l.Name,
			Kind:   string(l.Kind),
			Fields: make(map[string]FieldSpecResponse, len(l.Fields)),
		}
		for name, spec := range l.Fields {
			lr.Fields[name] = FieldSpecResponse{
				Kind:     string(spec.Kind),
				Required: spec.Required,
			}
		}
		resp.Layouts = append(resp.Layouts, lr)
	}
	return resp
}

// ToTemplateListResponse 转换模板列表
func ToTemplateListResponse(items []*entity.TemplateSchema) []TemplateResponse {
	resp := make([]TemplateResponse, 0, len(items))
	for _, t := range items {
		resp = append(resp, ToTemplateResponse(t))
	}
	return resp
}
