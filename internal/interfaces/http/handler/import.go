// Package handler 提供 HTTP 请求处理器
package handler

import (
	stderrors "errors"

	"deck-import-api/internal/application/importer"
	"deck-import-api/internal/interfaces/http/dto"
	"deck-import-api/pkg/errors"
	"deck-import-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ImportHandler 演示文稿导入处理器
type ImportHandler struct {
	orchestrator *importer.Orchestrator
}

// NewImportHandler 创建导入处理器
func NewImportHandler(orchestrator *importer.Orchestrator) *ImportHandler {
	return &ImportHandler{
		orchestrator: orchestrator,
	}
}

// ImportPresentation 导入演示文稿
// @Summary 导入演示文稿
// @Description 校验幻灯片内容、解析素材并持久化完整演示文稿
// @Tags Presentations
// @Accept json
// @Produce json
// @Param body body dto.ImportPresentationRequest true "导入请求"
// @Success 200 {object} dto.Response[dto.ImportPresentationResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/presentations/import [post]
func (h *ImportHandler) ImportPresentation(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ImportPresentationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	result, err := h.orchestrator.Import(ctx, req.ToImporterRequest())
	if err != nil {
		// 校验失败：整单拒绝并返回逐张幻灯片的错误明细
		var rejection *importer.RejectionError
		if stderrors.As(err, &rejection) {
			dto.UnprocessableEntity(c, "slide validation failed", dto.ToRejectionDetail(rejection))
			return
		}

		if errors.IsAppError(err) {
			appErr := errors.AsAppError(err)
			dto.ErrorWithDetail(c, appErr.HTTPStatus, appErr.Message, &dto.ErrorDetail{
				ErrorCode: string(appErr.Code),
				Details:   appErr.Detail,
			})
			return
		}

		logger.Error(ctx, "failed to import presentation", err)
		dto.InternalError(c, "failed to import presentation")
		return
	}

	dto.Success(c, dto.ToImportResponse(result))
}
