// Package router 提供 HTTP 路由配置
package router

import (
	"deck-import-api/internal/interfaces/http/handler"

	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(
	v1 *gin.RouterGroup,
	importHandler *handler.ImportHandler,
	presentationHandler *handler.PresentationHandler,
	templateHandler *handler.TemplateHandler,
) {
	// 演示文稿管理
	presentations := v1.Group("/presentations")
	{
		presentations.POST("/import", importHandler.ImportPresentation)
		presentations.GET("", presentationHandler.ListPresentations)
		presentations.GET("/:pid", presentationHandler.GetPresentation)
		presentations.DELETE("/:pid", presentationHandler.DeletePresentation)
	}

	// 模板与布局 Schema
	templates := v1.Group("/templates")
	{
		templates.GET("", templateHandler.ListTemplates)
		templates.GET("/:name/layouts", templateHandler.GetTemplateLayouts)
	}
}
