package dto

import (
	"time"

	"deck-import-api/internal/domain/entity"
)

// SlideResponse 幻灯片响应
type SlideResponse struct {
	ID          string         `json:"id"`
	Index       int            `json:"index"`
	Layout      string         `json:"layout"`
	Content     map[string]any `json:"content"`
	SpeakerNote *string        `json:"speaker_note,omitempty"`
}

// PresentationResponse 演示文稿响应
type PresentationResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Template    string          `json:"template"`
	Language    string          `json:"language"`
	SlideCount  int             `json:"slide_count"`
	LayoutsUsed []string        `json:"layouts_used"`
	Status      string          `json:"status"`
	ExportAs    string          `json:"export_as,omitempty"`
	ExportPath  string          `json:"export_path,omitempty"`
	ExportError string          `json:"export_error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Slides      []SlideResponse `json:"slides,omitempty"`
}

// ToPresentationResponse 转换演示文稿实体
func ToPresentationResponse(p *entity.Presentation) PresentationResponse {
	resp := PresentationResponse{
		ID:          p.ID,
		Title:       p.Title,
		Template:    p.Template,
		Language:    p.Language,
		SlideCount:  p.SlideCount,
		LayoutsUsed: p.LayoutsUsed,
		Status:      string(p.Status),
		ExportAs:    p.ExportAs,
		ExportPath:  p.ExportPath,
		ExportError: p.ExportError,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	for _, s := range p.Slides {
		resp.Slides = append(resp.Slides, SlideResponse{
			ID:          s.ID,
			Index:       s.Index,
			Layout:      s.LayoutID(),
			Content:     s.Content,
			SpeakerNote: s.SpeakerNote,
		})
	}
	return resp
}

// ToPresentationListResponse 转换演示文稿列表
func ToPresentationListResponse(items []*entity.Presentation) []PresentationResponse {
	resp := make([]PresentationResponse, 0, len(items))
	for _, p := range items {
		resp = append(resp, ToPresentationResponse(p))
	}
	return resp
}
