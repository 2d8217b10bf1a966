package importer

import (
	"fmt"
)

// 字段校验错误码
const (
	FieldCodeMissingRequired   = "missing_required"
	FieldCodeWrongType         = "wrong_type"
	FieldCodeUnknownField      = "unknown_field"
	FieldCodeInvalidEnum       = "invalid_enum"
	FieldCodeEmptyList         = "empty_list"
	FieldCodeRowLengthMismatch = "row_length_mismatch"
	FieldCodeUnknownLayout     = "unknown_layout"
)

// FieldError 单个字段的校验错误
type FieldError struct {
	Path     string `json:"field_path"`
	Code     string `json:"code"`
	Expected string `json:"expected,omitempty"`
	Got      string `json:"got,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Path, e.Code, e.Detail)
}

// SlideErrors 单张幻灯片的全部校验错误
type SlideErrors struct {
	SlideIndex int          `json:"slide_index"`
	LayoutID   string       `json:"layout_id"`
	Errors     []FieldError `json:"errors"`
}

// RejectionError 导入请求被整体拒绝
// 携带全部幻灯片的全部校验错误，供接口层组装 422 响应
type RejectionError struct {
	Slides []SlideErrors
}

func (e *RejectionError) Error() string {
	total := 0
	for _, s := range e.Slides {
		total += len(s.Errors)
	}
	return fmt.Sprintf("import rejected: %d validation errors across %d slides", total, len(e.Slides))
}

// 素材降级原因
const (
	AssetReasonEmpty         = "empty"
	AssetReasonInvalidURL    = "invalid_url"
	AssetReasonTimeout       = "timeout"
	AssetReasonUpstreamError = "upstream_error"
	AssetReasonNotFound      = "not_found"
)

// AssetWarning 素材解析警告
// 素材解析失败不会导致导入失败，仅以警告形式回传并代之以占位素材
type AssetWarning struct {
	SlideIndex int    `json:"slide_index"`
	Path       string `json:"field_path"`
	AssetType  string `json:"asset_type"` // image | icon
	Reason     string `json:"reason"`
	Detail     string `json:"detail,omitempty"`
}
