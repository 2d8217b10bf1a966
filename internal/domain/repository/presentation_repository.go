// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"deck-import-api/internal/domain/entity"
)

// PresentationFilter 演示文稿过滤条件
type PresentationFilter struct {
	Template string
	Status   entity.ImportStatus
}

// PresentationRepository 演示文稿仓储接口
type PresentationRepository interface {
	// Create 创建演示文稿及其全部幻灯片（单事务内）
	Create(ctx context.Context, presentation *entity.Presentation) error

	// GetByID 根据 ID 获取演示文稿（不含幻灯片）
	GetByID(ctx context.Context, id string) (*entity.Presentation, error)

	// GetWithSlides 根据 ID 获取演示文稿及按序排列的幻灯片
	GetWithSlides(ctx context.Context, id string) (*entity.Presentation, error)

	// List 获取演示文稿列表
	List(ctx context.Context, filter *PresentationFilter, pagination Pagination) (*PagedResult[*entity.Presentation], error)

	// Delete 删除演示文稿及其幻灯片
	Delete(ctx context.Context, id string) error

	// UpdateExportResult 更新导出结果
	UpdateExportResult(ctx context.Context, id string, exportPath, exportError string) error
}
