// Package handler 提供 HTTP 请求处理器
package handler

import (
	"net/http"

	"deck-import-api/internal/domain/entity"
	"deck-import-api/internal/domain/repository"
	"deck-import-api/internal/interfaces/http/dto"
	"deck-import-api/pkg/errors"
	"deck-import-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// PresentationHandler 演示文稿处理器
type PresentationHandler struct {
	presentationRepo repository.PresentationRepository
}

// NewPresentationHandler 创建演示文稿处理器
func NewPresentationHandler(presentationRepo repository.PresentationRepository) *PresentationHandler {
	return &PresentationHandler{
		presentationRepo: presentationRepo,
	}
}

// ListPresentations 获取演示文稿列表
// @Summary 获取演示文稿列表
// @Description 按模板与状态过滤获取演示文稿列表
// @Tags Presentations
// @Accept json
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页条数" default(20)
// @Param template query string false "模板名称"
// @Param status query string false "导入状态"
// @Success 200 {object} dto.Response[[]dto.PresentationResponse]
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/presentations [get]
func (h *PresentationHandler) ListPresentations(c *gin.Context) {
	ctx := c.Request.Context()

	pageReq := dto.BindPage(c)
	filter := &repository.PresentationFilter{
		Template: c.Query("template"),
		Status:   entity.ImportStatus(c.Query("status")),
	}

	result, err := h.presentationRepo.List(ctx, filter, repository.NewPagination(pageReq.Page, pageReq.PageSize))
	if err != nil {
		logger.Error(ctx, "failed to list presentations", err)
		dto.InternalError(c, "failed to list presentations")
		return
	}

	resp := dto.ToPresentationListResponse(result.Items)
	meta := dto.NewPageMeta(pageReq.Page, pageReq.PageSize, int(result.Total))
	dto.SuccessWithPage(c, resp, meta)
}

// GetPresentation 获取演示文稿详情
// @Summary 获取演示文稿详情
// @Description 获取指定演示文稿及按序排列的幻灯片
// @Tags Presentations
// @Accept json
// @Produce json
// @Param pid path string true "演示文稿 ID"
// @Success 200 {object} dto.Response[dto.PresentationResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/presentations/{pid} [get]
func (h *PresentationHandler) GetPresentation(c *gin.Context) {
	ctx := c.Request.Context()
	presentationID := dto.BindPresentationID(c)

	presentation, err := h.presentationRepo.GetWithSlides(ctx, presentationID)
	if err != nil {
		if errors.IsAppError(err) {
			appErr := errors.AsAppError(err)
			dto.Error(c, appErr.HTTPStatus, appErr.Message)
			return
		}
		logger.Error(ctx, "failed to get presentation", err)
		dto.InternalError(c, "failed to get presentation")
		return
	}

	if presentation == nil {
		dto.NotFound(c, "presentation not found")
		return
	}

	resp := dto.ToPresentationResponse(presentation)
	dto.Success(c, resp)
}

// DeletePresentation 删除演示文稿
// @Summary 删除演示文稿
// @Description 删除指定演示文稿及其全部幻灯片
// @Tags Presentations
// @Accept json
// @Produce json
// @Param pid path string true "演示文稿 ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/presentations/{pid} [delete]
func (h *PresentationHandler) DeletePresentation(c *gin.Context) {
	ctx := c.Request.Context()
	presentationID := dto.BindPresentationID(c)

	// 先确认存在，保证删除不存在的资源返回 404
	presentation, err := h.presentationRepo.GetByID(ctx, presentationID)
	if err != nil {
		logger.Error(ctx, "failed to get presentation", err)
		dto.InternalError(c, "failed to get presentation")
		return
	}
	if presentation == nil {
		dto.NotFound(c, "presentation not found")
		return
	}

	if err := h.presentationRepo.Delete(ctx, presentationID); err != nil {
		if errors.IsAppError(err) {
			appErr := errors.AsAppError(err)
			dto.Error(c, appErr.HTTPStatus, appErr.Message)
			return
		}
		logger.Error(ctx, "failed to delete presentation", err)
		dto.InternalError(c, "failed to delete presentation")
		return
	}

	c.Status(http.StatusNoContent)
}
