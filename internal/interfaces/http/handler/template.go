// Package handler 提供 HTTP 请求处理器
package handler

import (
	"deck-import-api/internal/application/layout"
	"deck-import-api/internal/interfaces/http/dto"
	"deck-import-api/pkg/errors"
	"deck-import-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// TemplateHandler 模板与布局 Schema 处理器
type TemplateHandler struct {
	catalog layout.Catalog
}

// NewTemplateHandler 创建模板处理器
func NewTemplateHandler(catalog layout.Catalog) *TemplateHandler {
	return &TemplateHandler{
		catalog: catalog,
	}
}

// ListTemplates 获取模板列表
// @Summary 获取模板列表
// @Description 获取全部可用模板及其布局 Schema
// @Tags Templates
// @Accept json
// @Produce json
// @Success 200 {object} dto.Response[[]dto.TemplateResponse]
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/templates [get]
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	ctx := c.Request.Context()

	templates, err := h.catalog.Templates(ctx)
	if err != nil {
		logger.Error(ctx, "failed to list templates", err)
		dto.InternalError(c, "failed to list templates")
		return
	}

	dto.Success(c, dto.ToTemplateListResponse(templates))
}

// GetTemplateLayouts 获取模板的布局 Schema
// @Summary 获取模板布局
// @Description 获取指定模板的全部布局 Schema
// @Tags Templates
// @Accept json
// @Produce json
// @Param name path string true "模板名称"
// @Success 200 {object} dto.Response[dto.TemplateResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/templates/{name}/layouts [get]
func (h *TemplateHandler) GetTemplateLayouts(c *gin.Context) {
	ctx := c.Request.Context()
	name := dto.BindTemplateName(c)

	template, err := h.catalog.Template(ctx, name)
	if err != nil {
		if errors.IsAppError(err) {
			appErr := errors.AsAppError(err)
			dto.Error(c, appErr.HTTPStatus, appErr.Message)
			return
		}
		logger.Error(ctx, "failed to get template", err)
		dto.InternalError(c, "failed to get template")
		return
	}

	if template == nil {
		dto.NotFound(c, "template not found")
		return
	}

	dto.Success(c, dto.ToTemplateResponse(template))
}
