package layout

import (
	"context"
	"fmt"

	"deck-import-api/internal/domain/entity"
	"deck-import-api/pkg/errors"
)

// Catalog 模板目录端口
// 实现可以是内置注册表，也可以是模板前端服务的 HTTP 客户端
type Catalog interface {
	// Template 按名称获取模板 Schema，不存在时返回 nil, nil
	Template(ctx context.Context, name string) (*entity.TemplateSchema, error)

	// Templates 列出全部已安装模板
	Templates(ctx context.Context) ([]*entity.TemplateSchema, error)
}

// Resolver 布局 Schema 解析器
type Resolver struct {
	catalog Catalog
}

// NewResolver 创建布局解析器
func NewResolver(catalog Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Resolve 将 group:name 形式的布局标识解析为布局 Schema
// 布局的 group 必须与请求的模板一致
func (r *Resolver) Resolve(ctx context.Context, template, layoutID string) (*entity.LayoutSchema, error) {
	group, name, err := entity.ParseLayoutID(layoutID)
	if err != nil {
		return nil, errors.New(errors.CodeInvalidParam, "malformed layout id").WithDetail(err.Error())
	}

	if group != template {
		return nil, errors.New(errors.CodeLayoutNotFound, "layout not found").
			WithDetail(fmt.Sprintf("layout %q belongs to group %q, request uses template %q", layoutID, group, template))
	}

	schema, err := r.catalog.Template(ctx, template)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeCatalogError, "template catalog unavailable")
	}
	if schema == nil {
		return nil, errors.New(errors.CodeTemplateNotFound, "template not found").
			WithDetail(fmt.Sprintf("template %q is not installed", template))
	}

	l := schema.Layout(name)
	if l == nil {
		return nil, errors.New(errors.CodeLayoutNotFound, "layout not found").
			WithDetail(fmt.Sprintf("layout %q does not exist in template %q", name, template))
	}
	return l, nil
}
