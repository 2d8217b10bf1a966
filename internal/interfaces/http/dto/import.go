package dto

import (
	"deck-import-api/internal/application/importer"
)

// 请求默认值
const (
	DefaultTemplate = "general"
	DefaultLanguage = "Traditional Chinese"
)

// SlideRequest 导入请求中的单张幻灯片
type SlideRequest struct {
	Layout      string         `json:"layout" binding:"required"`
	Content     map[string]any `json:"content" binding:"required"`
	SpeakerNote *string        `json:"speaker_note,omitempty"`
}

// ImportPresentationRequest 演示文稿导入请求
type ImportPresentationRequest struct {
	Title    string         `json:"title" binding:"required"`
	Template string         `json:"template"`
	Language string         `json:"language"`
	ExportAs string         `json:"export_as"`
	Slides   []SlideRequest `json:"slides" binding:"required"`
}

// ToImporterRequest 转换为流水线请求并补齐默认值
func (r *ImportPresentationRequest) ToImporterRequest() *importer.Request {
	template := r.Template
	if template == "" {
		template = DefaultTemplate
	}
	language := r.Language
	if language == "" {
		language = DefaultLanguage
	}

	slides := make([]importer.SlideInput, 0, len(r.Slides))
	for _, s := range r.Slides {
		slides = append(slides, importer.SlideInput{
			Layout:      s.Layout,
			Content:     s.Content,
			SpeakerNote: s.SpeakerNote,
		})
	}

	return &importer.Request{
		Title:    r.Title,
		Template: template,
		Language: language,
		ExportAs: r.ExportAs,
		Slides:   slides,
	}
}

// AssetWarning 素材解析警告
type AssetWarning struct {
	SlideIndex int    `json:"slide_index"`
	FieldPath  string `json:"field_path"`
	AssetType  string `json:"asset_type"`
	Reason     string `json:"reason"`
	Detail     string `json:"detail,omitempty"`
}

// ImportPresentationResponse 导入成功响应
type ImportPresentationResponse struct {
	PresentationID string         `json:"presentation_id"`
	EditURL        string         `json:"edit_url"`
	ExportPath     string         `json:"export_path,omitempty"`
	ExportError    string         `json:"export_error,omitempty"`
	Warnings       []AssetWarning `json:"warnings,omitempty"`
}

// ToImportResponse 转换导入结果
func ToImportResponse(result *importer.Result) ImportPresentationResponse {
	resp := ImportPresentationResponse{
		PresentationID: result.PresentationID,
		EditURL:        result.EditURL,
		ExportPath:     result.ExportPath,
		ExportError:    result.ExportError,
	}
	for _, w := range result.Warnings {
		resp.Warnings = append(resp.Warnings, AssetWarning{
			SlideIndex: w.SlideIndex,
			FieldPath:  w.Path,
			AssetType:  w.AssetType,
			Reason:     w.Reason,
			Detail:     w.Detail,
		})
	}
	return resp
}

// FieldError 单个字段的校验错误
type FieldError struct {
	FieldPath string `json:"field_path"`
	Code      string `json:"code"`
	Expected  string `json:"expected,omitempty"`
	Got       string `json:"got,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

// SlideErrors 单张幻灯片的全部校验错误
type SlideErrors struct {
	SlideIndex int          `json:"slide_index"`
	LayoutID   string       `json:"layout_id"`
	Errors     []FieldError `json:"errors"`
}

// ToRejectionDetail 将拒绝错误转换为 422 响应详情
func ToRejectionDetail(rejection *importer.RejectionError) *ErrorDetail {
	slides := make([]SlideErrors, 0, len(rejection.Slides))
	for _, s := range rejection.Slides {
		se := SlideErrors{
			SlideIndex: s.SlideIndex,
			LayoutID:   s.LayoutID,
			Errors:     make([]FieldError, 0, len(s.Errors)),
		}
		for _, e := range s.Errors {
			se.Errors = append(se.Errors, FieldError{
				FieldPath: e.Path,
				Code:      e.Code,
				Expected:  e.Expected,
				Got:       e.Got,
				Detail:    e.Detail,
			})
		}
		slides = append(slides, se)
	}
	return &ErrorDetail{
		ErrorCode: "import_rejected",
		Details:   rejection.Error(),
		Slides:    slides,
	}
}
