package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deck-import-api/internal/domain/entity"
)

func metricsSchema() *entity.LayoutSchema {
	return &entity.LayoutSchema{
		ID:   "metrics-slide",
		Kind: entity.LayoutKindMetrics,
		Fields: map[string]entity.FieldSpec{
			"title":       {Kind: entity.FieldKindString, Required: true},
			"description": {Kind: entity.FieldKindString, Required: true},
			"metrics":     {Kind: entity.FieldKindMetricList, Required: true},
		},
	}
}

func TestValidateMetricsSlideValid(t *testing.T) {
	v := NewValidator(PolicyDrop)
	content := map[string]any{
		"title":       "關鍵指標",
		"description": "本季度核心數據",
		"metrics": []any{
			map[string]any{"value": "95%", "label": "客戶滿意度"},
			map[string]any{"value": float64(42), "label": "新客戶數"},
		},
	}

	sanitized, errs := v.ValidateSlide(metricsSchema(), content)
	assert.Empty(t, errs)
	assert.Len(t, sanitized, 3)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	v := NewValidator(PolicyDrop)
	content := map[string]any{
		"description": 42,
		"metrics": []any{
			map[string]any{"label": "缺 value"},
			map[string]any{"value": "1", "label": true},
		},
	}

	_, errs := v.ValidateSlide(metricsSchema(), content)
	require.Len(t, errs, 4)

	byPath := map[string]string{}
	for _, e := range errs {
		byPath[e.Path] = e.Code
	}
	assert.Equal(t, FieldCodeMissingRequired, byPath["title"])
	assert.Equal(t, FieldCodeWrongType, byPath["description"])
	assert.Equal(t, FieldCodeMissingRequired, byPath["metrics[0].value"])
	assert.Equal(t, FieldCodeWrongType, byPath["metrics[1].label"])
}

func TestValidateUnknownFieldPolicy(t *testing.T) {
	content := map[string]any{
		"title":       "標題",
		"description": "描述",
		"metrics":     []any{map[string]any{"value": "1", "label": "l"}},
		"theme":       "dark",
	}

	t.Run("drop removes undeclared fields", func(t *testing.T) {
		sanitized, errs := NewValidator(PolicyDrop).ValidateSlide(metricsSchema(), content)
		assert.Empty(t, errs)
		assert.NotContains(t, sanitized, "theme")
	})

	t.Run("reject reports undeclared fields", func(t *testing.T) {
		_, errs := NewValidator(PolicyReject).ValidateSlide(metricsSchema(), content)
		require.Len(t, errs, 1)
		assert.Equal(t, FieldCodeUnknownField, errs[0].Code)
		assert.Equal(t, "theme", errs[0].Path)
	})
}

func TestValidateTableRowLength(t *testing.T) {
	schema := &entity.LayoutSchema{
		ID:   "table-info-slide",
		Kind: entity.LayoutKindTableInfo,
		Fields: map[string]entity.FieldSpec{
			"title":     {Kind: entity.FieldKindString, Required: true},
			"tableData": {Kind: entity.FieldKindTable, Required: true},
		},
	}
	content := map[string]any{
		"title": "對比",
		"tableData": map[string]any{
			"headers": []any{"項目", "2023", "2024"},
			"rows": []any{
				[]any{"營收", "100", "120"},
				[]any{"成本", "80"},
			},
		},
	}

	_, errs := NewValidator(PolicyDrop).ValidateSlide(schema, content)
	require.Len(t, errs, 1)
	assert.Equal(t, FieldCodeRowLengthMismatch, errs[0].Code)
	assert.Equal(t, "tableData.rows[1]", errs[0].Path)
}

func TestValidateChart(t *testing.T) {
	schema := &entity.LayoutSchema{
		ID:   "chart-with-bullets-slide",
		Kind: entity.LayoutKindChartWithBullets,
		Fields: map[string]entity.FieldSpec{
			"chartData": {Kind: entity.FieldKindChart, Required: true},
		},
	}

	t.Run("valid pie chart", func(t *testing.T) {
		_, errs := NewValidator(PolicyDrop).ValidateSlide(schema, map[string]any{
			"chartData": map[string]any{
				"type": "pie",
				"data": []any{
					map[string]any{"name": "A", "value": float64(60)},
					map[string]any{"name": "B", "value": float64(40)},
				},
			},
		})
		assert.Empty(t, errs)
	})

	t.Run("unsupported chart type", func(t *testing.T) {
		_, errs := NewValidator(PolicyDrop).ValidateSlide(schema, map[string]any{
			"chartData": map[string]any{
				"type": "scatter",
				"data": []any{map[string]any{"name": "A", "value": float64(1)}},
			},
		})
		require.Len(t, errs, 1)
		assert.Equal(t, FieldCodeInvalidEnum, errs[0].Code)
		assert.Equal(t, "chartData.type", errs[0].Path)
	})

	t.Run("non numeric data point", func(t *testing.T) {
		_, errs := NewValidator(PolicyDrop).ValidateSlide(schema, map[string]any{
			"chartData": map[string]any{
				"type": "bar",
				"data": []any{map[string]any{"name": "A", "value": "many"}},
			},
		})
		require.Len(t, errs, 1)
		assert.Equal(t, FieldCodeWrongType, errs[0].Code)
	})
}

func TestValidateImageField(t *testing.T) {
	schema := &entity.LayoutSchema{
		ID:   "basic-info-slide",
		Kind: entity.LayoutKindBasicInfo,
		Fields: map[string]entity.FieldSpec{
			"image": {Kind: entity.FieldKindImage, Required: true},
		},
	}

	t.Run("directive with only prompt is valid", func(t *testing.T) {
		_, errs := NewValidator(PolicyDrop).ValidateSlide(schema, map[string]any{
			"image": map[string]any{"__image_prompt__": "office"},
		})
		assert.Empty(t, errs)
	})

	t.Run("plain string is rejected", func(t *testing.T) {
		_, errs := NewValidator(PolicyDrop).ValidateSlide(schema, map[string]any{
			"image": "https://example.com/a.png",
		})
		require.Len(t, errs, 1)
		assert.Equal(t, FieldCodeWrongType, errs[0].Code)
	})

	t.Run("object without marker keys is rejected", func(t *testing.T) {
		_, errs := NewValidator(PolicyDrop).ValidateSlide(schema, map[string]any{
			"image": map[string]any{"url": "https://example.com/a.png"},
		})
		require.Len(t, errs, 1)
		assert.Equal(t, FieldCodeWrongType, errs[0].Code)
	})
}
