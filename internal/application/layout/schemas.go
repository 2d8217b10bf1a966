// Package layout 提供布局目录与 Schema 解析能力
package layout

import (
	"deck-import-api/internal/domain/entity"
)

// BuiltinTemplates 返回内置模板集合
// 当前仅内置 general 模板，包含十二种固定布局
func BuiltinTemplates() []*entity.TemplateSchema {
	return []*entity.TemplateSchema{generalTemplate()}
}

// generalTemplate 构建 general 模板的完整 Schema
func generalTemplate() *entity.TemplateSchema {
	return &entity.TemplateSchema{
		Name:    "general",
		Ordered: false,
		Layouts: []*entity.LayoutSchema{
			{
				ID:   "general-intro-slide",
				Name: "Intro Slide",
				Kind: entity.LayoutKindIntro,
				Fields: map[string]entity.FieldSpec{
					"title":       {Kind: entity.FieldKindString, Required: true},
					"description": {Kind: entity.FieldKindString, Required: true},
					"presenter":   {Kind: entity.FieldKindString},
					"image":       {Kind: entity.FieldKindImage, Required: true},
				},
			},
			{
				ID:   "basic-info-slide",
				Name: "Basic Info Slide",
				Kind: entity.LayoutKindBasicInfo,
				Fields: map[string]entity.FieldSpec{
					"title":       {Kind: entity.FieldKindString, Required: true},
					"description": {Kind: entity.FieldKindString, Required: true},
					"image":       {Kind: entity.FieldKindImage, Required: true},
				},
			},
			{
				ID:   "bullet-with-icons-slide",
				Name: "Bullets With Icons Slide",
				Kind: entity.LayoutKindBulletWithIcons,
				Fields: map[string]entity.FieldSpec{
					"title":       {Kind: entity.FieldKindString, Required: true},
					"description": {Kind: entity.FieldKindString},
					"image":       {Kind: entity.FieldKindImage, Required: true},
					"bullets":     {Kind: entity.FieldKindBulletList, Required: true},
				},
			},
			{
				ID:   "bullet-icons-only-slide",
				Name: "Bullets Icons Only Slide",
				Kind: entity.LayoutKindBulletIconsOnly,
				Fields: map[string]entity.FieldSpec{
					"title":       {Kind: entity.FieldKindString, Required: true},
					"description": {Kind: entity.FieldKindString},
					"bullets":     {Kind: entity.FieldKindBulletList, Required: true},
				},
			},
			{
				ID:   "metrics-slide",
				Name: "Metrics Slide",
				Kind: entity.LayoutKindMetrics,
				Fields: map[string]entity.FieldSpec{
					"title":       {Kind: entity.FieldKindString, Required: true},
					"description": {Kind: entity.FieldKindString, Required: true},
					"metrics":     {Kind: entity.FieldKindMetricList, Required: true},
				},
			},
			{
				ID:   "metrics-with-image-slide",
				Name: "Metrics With Image Slide",
				Kind: entity.LayoutKindMetricsWithImage,
				Fields: map[string]entity.FieldSpec{
					"title":       {Kind: entity.FieldKindString, Required: true},
					"description": {Kind: entity.FieldKindString, Required: true},
					"metrics":     {Kind: entity.FieldKindMetricList, Required: true},
					"image":       {Kind: entity.FieldKindImage, Required: true},
				},
			},
			{
				ID:   "numbered-bullets-slide",
				Name: "Numbered Bullets Slide",
				Kind: entity.LayoutKindNumberedBullets,
				Fields: map[string]entity.FieldSpec{
					"title":   {Kind: entity.FieldKindString, Required: true},
					"image":   {Kind: entity.FieldKindImage},
					"bullets": {Kind: entity.FieldKindBulletList, Required: true},
				},
			},
			{
				ID:   "quote-slide",
				Name: "Quote Slide",
				Kind: entity.LayoutKindQuote,
				Fields: map[string]entity.FieldSpec{
					"heading":          {Kind: entity.FieldKindString, Required: true},
					"quote":            {Kind: entity.FieldKindString, Required: true},
					"background_image": {Kind: entity.FieldKindImage, Required: true},
				},
			},
			{
				ID:   "table-of-contents-slide",
				Name: "Table Of Contents Slide",
				Kind: entity.LayoutKindTableOfContents,
				Fields: map[string]entity.FieldSpec{
					"title":    {Kind: entity.FieldKindString, Required: true},
					"sections": {Kind: entity.FieldKindSectionList, Required: true},
				},
			},
			{
				ID:   "chart-with-bullets-slide",
				Name: "Chart With Bullets Slide",
				Kind: entity.LayoutKindChartWithBullets,
				Fields: map[string]entity.FieldSpec{
					"title":        {Kind: entity.FieldKindString, Required: true},
					"description":  {Kind: entity.FieldKindString, Required: true},
					"chartData":    {Kind: entity.FieldKindChart, Required: true},
					"color":        {Kind: entity.FieldKindString},
					"showLegend":   {Kind: entity.FieldKindBool},
					"showTooltip":  {Kind: entity.FieldKindBool},
					"bulletPoints": {Kind: entity.FieldKindBulletList, Required: true},
				},
			},
			{
				ID:   "table-info-slide",
				Name: "Table Info Slide",
				Kind: entity.LayoutKindTableInfo,
				Fields: map[string]entity.FieldSpec{
					"title":       {Kind: entity.FieldKindString, Required: true},
					"tableData":   {Kind: entity.FieldKindTable, Required: true},
					"description": {Kind: entity.FieldKindString},
				},
			},
			{
				ID:   "team-slide",
				Name: "Team Slide",
				Kind: entity.LayoutKindTeam,
				Fields: map[string]entity.FieldSpec{
					"title":              {Kind: entity.FieldKindString, Required: true},
					"companyDescription": {Kind: entity.FieldKindString, Required: true},
					"teamMembers":        {Kind: entity.FieldKindTeamList, Required: true},
				},
			},
		},
	}
}
