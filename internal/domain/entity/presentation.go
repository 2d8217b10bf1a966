// Package entity 定义领域实体
package entity

import (
	"time"

	"github.com/lib/pq"
)

// ImportStatus 导入状态
type ImportStatus string

const (
	ImportStatusReceived   ImportStatus = "received"
	ImportStatusValidating ImportStatus = "validating"
	ImportStatusResolving  ImportStatus = "resolving"
	ImportStatusAssembling ImportStatus = "assembling"
	ImportStatusPersisted  ImportStatus = "persisted"
	ImportStatusExporting  ImportStatus = "exporting"
	ImportStatusDone       ImportStatus = "done"
	ImportStatusRejected   ImportStatus = "rejected"
)

// ExportFormat 导出格式
type ExportFormat string

const (
	ExportFormatPPTX ExportFormat = "pptx"
	ExportFormatPDF  ExportFormat = "pdf"
)

// IsValid 检查导出格式是否合法
func (f ExportFormat) IsValid() bool {
	return f == ExportFormatPPTX || f == ExportFormatPDF
}

// Presentation 演示文稿实体
type Presentation struct {
	ID          string         `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string         `json:"title" gorm:"type:varchar(255);not null"`
	Template    string         `json:"template" gorm:"type:varchar(100);not null"`
	Language    string         `json:"language" gorm:"type:varchar(100)"`
	SlideCount  int            `json:"slide_count" gorm:"not null"`
	LayoutsUsed pq.StringArray `json:"layouts_used" gorm:"type:text[]"`
	Status      ImportStatus   `json:"status" gorm:"type:varchar(50);not null"`
	ExportAs    string         `json:"export_as,omitempty" gorm:"type:varchar(10)"`
	ExportPath  string         `json:"export_path,omitempty" gorm:"type:text"`
	ExportError string         `json:"export_error,omitempty" gorm:"type:text"`
	CreatedAt   time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"autoUpdateTime"`

	Slides []*Slide `json:"slides,omitempty" gorm:"-"`
}

// TableName 指定表名
func (Presentation) TableName() string {
	return "presentations"
}

// Slide 已解析的幻灯片实体
// Content 存储素材指令解析完成后的最终内容树
type Slide struct {
	ID             string         `json:"id" gorm:"type:uuid;primaryKey"`
	PresentationID string         `json:"presentation_id" gorm:"type:uuid;index;not null"`
	Index          int            `json:"index" gorm:"column:slide_index;not null"`
	LayoutGroup    string         `json:"layout_group" gorm:"type:varchar(100);not null"`
	LayoutSlug     string         `json:"layout_slug" gorm:"type:varchar(100);not null"`
	Content        map[string]any `json:"content" gorm:"type:jsonb;serializer:json"`
	SpeakerNote    *string        `json:"speaker_note,omitempty" gorm:"type:text"`
	CreatedAt      time.Time      `json:"created_at" gorm:"autoCreateTime"`
}

// TableName 指定表名
func (Slide) TableName() string {
	return "slides"
}

// LayoutID 返回完整布局标识，形如 general:general-intro-slide
func (s *Slide) LayoutID() string {
	return s.LayoutGroup + ":" + s.LayoutSlug
}
