package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"deck-import-api/internal/config"
	"deck-import-api/internal/domain/entity"
)

// HTTPCatalog 模板前端服务的目录客户端
// 消费模板服务的 /api/template?group=<name> 接口
type HTTPCatalog struct {
	baseURL string
	client  *http.Client
}

// NewHTTPCatalog 创建 HTTP 目录客户端
func NewHTTPCatalog(cfg *config.CatalogConfig) *HTTPCatalog {
	return &HTTPCatalog{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

// templateResponse 模板服务的响应结构
type templateResponse struct {
	Name    string `json:"name"`
	Ordered bool   `json:"ordered"`
	Slides  []struct {
		ID          string          `json:"id"`
		Name        string          `json:"name"`
		Description string          `json:"description"`
		JSONSchema  json.RawMessage `json:"json_schema"`
	} `json:"slides"`
}

// Template 按名称获取模板 Schema，模板服务返回 404 时视为未安装
func (c *HTTPCatalog) Template(ctx context.Context, name string) (*entity.TemplateSchema, error) {
	ctx, span := tracer.Start(ctx, "catalog.HTTPCatalog.Template",
		trace.WithAttributes(attribute.String("template.name", name)))
	defer span.End()

	endpoint := fmt.Sprintf("%s/api/template?group=%s", c.baseURL, url.QueryEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("catalog returned status %d", resp.StatusCode)
		span.RecordError(err)
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to read catalog response: %w", err)
	}

	var tr templateResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}

	return convertTemplate(&tr), nil
}

// Templates 模板服务没有列表接口，返回内置模板集之外的空集
func (c *HTTPCatalog) Templates(ctx context.Context) ([]*entity.TemplateSchema, error) {
	_, span := tracer.Start(ctx, "catalog.HTTPCatalog.Templates")
	defer span.End()

	// 逐个探测已知模板名的成本不可控，列表能力由内置目录承担
	return nil, nil
}

// convertTemplate 将模板服务响应转换为领域 Schema
func convertTemplate(tr *templateResponse) *entity.TemplateSchema {
	t := &entity.TemplateSchema{
		Name:    tr.Name,
		Ordered: tr.Ordered,
		Layouts: make([]*entity.LayoutSchema, 0, len(tr.Slides)),
	}
	for _, s := range tr.Slides {
		t.Layouts = append(t.Layouts, &entity.LayoutSchema{
			ID:     s.ID,
			Name:   s.Name,
			Kind:   layoutKindFromID(s.ID),
			Fields: fieldSpecsFromJSONSchema(s.JSONSchema),
		})
	}
	return t
}

// layoutKindFromID 从布局标识推断布局种类
func layoutKindFromID(id string) entity.LayoutKind {
	kinds := map[string]entity.LayoutKind{
		"general-intro-slide":      entity.LayoutKindIntro,
		"basic-info-slide":         entity.LayoutKindBasicInfo,
		"bullet-with-icons-slide":  entity.LayoutKindBulletWithIcons,
		"bullet-icons-only-slide":  entity.LayoutKindBulletIconsOnly,
		"metrics-slide":            entity.LayoutKindMetrics,
		"metrics-with-image-slide": entity.LayoutKindMetricsWithImage,
		"numbered-bullets-slide":   entity.LayoutKindNumberedBullets,
		"quote-slide":              entity.LayoutKindQuote,
		"table-of-contents-slide":  entity.LayoutKindTableOfContents,
		"chart-with-bullets-slide": entity.LayoutKindChartWithBullets,
		"table-info-slide":         entity.LayoutKindTableInfo,
		"team-slide":               entity.LayoutKindTeam,
	}
	if kind, ok := kinds[id]; ok {
		return kind
	}
	return entity.LayoutKindBasicInfo
}

// jsonSchema 模板服务下发的 JSON Schema 片段
type jsonSchema struct {
	Type       string                `json:"type"`
	Properties map[string]jsonSchema `json:"properties"`
	Required   []string              `json:"required"`
	Items      *jsonSchema           `json:"items"`
}

// fieldSpecsFromJSONSchema 将布局的 JSON Schema 映射为字段声明
// 对象与数组字段按其内部结构归入封闭的字段类型集合
func fieldSpecsFromJSONSchema(raw json.RawMessage) map[string]entity.FieldSpec {
	var schema jsonSchema
	if err := json.Unmarshal(raw, &schema); err != nil {
		return map[string]entity.FieldSpec{}
	}

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	fields := make(map[string]entity.FieldSpec, len(schema.Properties))
	for name, prop := range schema.Properties {
		fields[name] = entity.FieldSpec{
			Kind:     fieldKind(&prop),
			Required: required[name],
		}
	}
	return fields
}

// fieldKind 从属性结构推断字段类型
func fieldKind(prop *jsonSchema) entity.FieldKind {
	switch prop.Type {
	case "boolean":
		return entity.FieldKindBool
	case "object":
		if hasProperty(prop, "__image_url__") || hasProperty(prop, "__image_prompt__") {
			return entity.FieldKindImage
		}
		if hasProperty(prop, "__icon_query__") {
			return entity.FieldKindIcon
		}
		if hasProperty(prop, "headers") && hasProperty(prop, "rows") {
			return entity.FieldKindTable
		}
		if hasProperty(prop, "data") {
			return entity.FieldKindChart
		}
		return entity.FieldKindString
	case "array":
		if prop.Items == nil {
			return entity.FieldKindBulletList
		}
		switch {
		case hasProperty(prop.Items, "value") && hasProperty(prop.Items, "label"):
			return entity.FieldKindMetricList
		case hasProperty(prop.Items, "position"):
			return entity.FieldKindTeamList
		case hasProperty(prop.Items, "page"):
			return entity.FieldKindSectionList
		default:
			return entity.FieldKindBulletList
		}
	default:
		return entity.FieldKindString
	}
}

func hasProperty(s *jsonSchema, name string) bool {
	_, ok := s.Properties[name]
	return ok
}
