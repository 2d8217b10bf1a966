package importer

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"deck-import-api/internal/application/layout"
	"deck-import-api/internal/domain/entity"
	"deck-import-api/internal/domain/repository"
	"deck-import-api/pkg/errors"
)

// ---- 测试替身 ----

type testCatalog struct{}

func (testCatalog) Template(_ context.Context, name string) (*entity.TemplateSchema, error) {
	for _, t := range layout.BuiltinTemplates() {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, nil
}

func (testCatalog) Templates(_ context.Context) ([]*entity.TemplateSchema, error) {
	return layout.BuiltinTemplates(), nil
}

type fakeImages struct {
	mu    sync.Mutex
	calls []string
	url   string
	err   error
}

func (f *fakeImages) Generate(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, prompt)
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

func (f *fakeImages) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeIcons struct {
	mu    sync.Mutex
	calls []string
	url   string
	err   error
}

func (f *fakeIcons) Search(_ context.Context, query string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, query)
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

type fakeRepo struct {
	mu          sync.Mutex
	created     *entity.Presentation
	exportPath  string
	exportError string
	createErr   error
}

func (f *fakeRepo) Create(_ context.Context, p *entity.Presentation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.created = p
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*entity.Presentation, error) {
	if f.created != nil && f.created.ID == id {
		return f.created, nil
	}
	return nil, nil
}

func (f *fakeRepo) GetWithSlides(ctx context.Context, id string) (*entity.Presentation, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeRepo) List(_ context.Context, _ *repository.PresentationFilter, pagination repository.Pagination) (*repository.PagedResult[*entity.Presentation], error) {
	return repository.NewPagedResult([]*entity.Presentation{}, 0, pagination), nil
}

func (f *fakeRepo) Delete(_ context.Context, _ string) error { return nil }

func (f *fakeRepo) UpdateExportResult(_ context.Context, _ string, exportPath, exportError string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exportPath = exportPath
	f.exportError = exportError
	return nil
}

type fakeRenderer struct {
	path  string
	err   error
	calls int
}

func (f *fakeRenderer) Render(_ context.Context, _ *entity.Presentation, format entity.ExportFormat) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("%s.%s", f.path, format), nil
}

func newTestOrchestrator(images *fakeImages, icons *fakeIcons, repo *fakeRepo, renderer *fakeRenderer) *Orchestrator {
	assets := NewAssetResolver(images, icons, AssetResolverOptions{
		MaxConcurrent:   4,
		Timeout:         time.Second,
		PlaceholderURL:  "/static/images/placeholder.jpg",
		FallbackIconURL: "/static/icons/placeholder.png",
	})
	return NewOrchestrator(
		layout.NewResolver(testCatalog{}),
		NewValidator(PolicyDrop),
		assets,
		repo,
		renderer,
		Options{MaxSlides: 10, EditURLBase: "/presentation?id=%s"},
	)
}

func metricsSlideInput() SlideInput {
	return SlideInput{
		Layout: "general:metrics-slide",
		Content: map[string]any{
			"title":       "關鍵指標",
			"description": "本季度核心數據",
			"metrics": []any{
				map[string]any{"value": "95%", "label": "客戶滿意度"},
			},
		},
	}
}

func basicInfoSlideInput() SlideInput {
	note := "強調成長趨勢"
	return SlideInput{
		Layout: "general:basic-info-slide",
		Content: map[string]any{
			"title":       "公司概況",
			"description": "全球十二個辦公室",
			"image":       map[string]any{"__image_prompt__": "modern office building"},
		},
		SpeakerNote: &note,
	}
}

// ---- 测试 ----

func TestImportHappyPath(t *testing.T) {
	images := &fakeImages{url: "/generated/office.png"}
	icons := &fakeIcons{url: "/icons/check.png"}
	repo := &fakeRepo{}
	o := newTestOrchestrator(images, icons, repo, &fakeRenderer{})

	result, err := o.Import(context.Background(), &Request{
		Title:    "年度報告",
		Template: "general",
		Language: "Traditional Chinese",
		Slides:   []SlideInput{metricsSlideInput(), basicInfoSlideInput()},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, fmt.Sprintf("/presentation?id=%s", result.PresentationID), result.EditURL)

	require.NotNil(t, repo.created)
	assert.Equal(t, result.PresentationID, repo.created.ID)
	assert.Equal(t, entity.ImportStatusDone, repo.created.Status)
	assert.Equal(t, []string{"general:metrics-slide", "general:basic-info-slide"}, []string(repo.created.LayoutsUsed))

	// 幻灯片序号从零连续编号
	require.Len(t, repo.created.Slides, 2)
	for i, s := range repo.created.Slides {
		assert.Equal(t, i, s.Index)
		assert.Equal(t, repo.created.ID, s.PresentationID)
	}

	// 演讲者备注原样保留
	assert.Nil(t, repo.created.Slides[0].SpeakerNote)
	require.NotNil(t, repo.created.Slides[1].SpeakerNote)
	assert.Equal(t, "強調成長趨勢", *repo.created.Slides[1].SpeakerNote)

	// 生成的图片地址渲染回内容树
	img, ok := repo.created.Slides[1].Content["image"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "/generated/office.png", img["__image_url__"])
	assert.Equal(t, "modern office building", img["__image_prompt__"])
	assert.Equal(t, 1, images.callCount())
}

func TestImportRejectsOnValidationError(t *testing.T) {
	repo := &fakeRepo{}
	o := newTestOrchestrator(&fakeImages{}, &fakeIcons{}, repo, &fakeRenderer{})

	broken := metricsSlideInput()
	delete(broken.Content, "title")

	_, err := o.Import(context.Background(), &Request{
		Title:    "年度報告",
		Template: "general",
		Slides:   []SlideInput{basicInfoSlideInput(), broken},
	})
	require.Error(t, err)

	var rejection *RejectionError
	require.ErrorAs(t, err, &rejection)
	require.Len(t, rejection.Slides, 1)
	assert.Equal(t, 1, rejection.Slides[0].SlideIndex)
	assert.Equal(t, FieldCodeMissingRequired, rejection.Slides[0].Errors[0].Code)

	// 拒绝时不产生任何持久化副作用
	assert.Nil(t, repo.created)
}

func TestImportUnknownLayoutRejects(t *testing.T) {
	repo := &fakeRepo{}
	o := newTestOrchestrator(&fakeImages{}, &fakeIcons{}, repo, &fakeRenderer{})

	_, err := o.Import(context.Background(), &Request{
		Title:    "報告",
		Template: "general",
		Slides: []SlideInput{{
			Layout:  "general:hero-slide",
			Content: map[string]any{"title": "x"},
		}},
	})

	var rejection *RejectionError
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, FieldCodeUnknownLayout, rejection.Slides[0].Errors[0].Code)
	assert.Nil(t, repo.created)
}

func TestImportUnknownTemplate(t *testing.T) {
	o := newTestOrchestrator(&fakeImages{}, &fakeIcons{}, &fakeRepo{}, &fakeRenderer{})

	_, err := o.Import(context.Background(), &Request{
		Title:    "報告",
		Template: "modern",
		Slides: []SlideInput{{
			Layout:  "modern:intro-slide",
			Content: map[string]any{"title": "x"},
		}},
	})
	require.Error(t, err)
	assert.Equal(t, errors.CodeTemplateNotFound, errors.AsAppError(err).Code)
}

func TestProvidedImageURLSkipsGenerator(t *testing.T) {
	images := &fakeImages{url: "/generated/should-not-be-used.png"}
	repo := &fakeRepo{}
	o := newTestOrchestrator(images, &fakeIcons{}, repo, &fakeRenderer{})

	slide := basicInfoSlideInput()
	slide.Content["image"] = map[string]any{
		"__image_url__":    "https://cdn.example.com/cover.png",
		"__image_prompt__": "unused prompt",
	}

	result, err := o.Import(context.Background(), &Request{
		Title:    "報告",
		Template: "general",
		Slides:   []SlideInput{slide},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)
	assert.Zero(t, images.callCount())

	img := repo.created.Slides[0].Content["image"].(map[string]any)
	assert.Equal(t, "https://cdn.example.com/cover.png", img["__image_url__"])
}

func TestEmptyImageDirectiveFallsBack(t *testing.T) {
	repo := &fakeRepo{}
	o := newTestOrchestrator(&fakeImages{}, &fakeIcons{}, repo, &fakeRenderer{})

	slide := basicInfoSlideInput()
	slide.Content["image"] = map[string]any{"__image_url__": "", "__image_prompt__": ""}

	result, err := o.Import(context.Background(), &Request{
		Title:    "報告",
		Template: "general",
		Slides:   []SlideInput{slide},
	})
	require.NoError(t, err)

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "image", result.Warnings[0].AssetType)
	assert.Equal(t, AssetReasonEmpty, result.Warnings[0].Reason)
	assert.Equal(t, "image", result.Warnings[0].Path)
	assert.Equal(t, 0, result.Warnings[0].SlideIndex)

	img := repo.created.Slides[0].Content["image"].(map[string]any)
	assert.Equal(t, "/static/images/placeholder.jpg", img["__image_url__"])
}

func TestIconMissFallsBack(t *testing.T) {
	repo := &fakeRepo{}
	o := newTestOrchestrator(&fakeImages{}, &fakeIcons{url: ""}, repo, &fakeRenderer{})

	result, err := o.Import(context.Background(), &Request{
		Title:    "報告",
		Template: "general",
		Slides: []SlideInput{{
			Layout: "general:bullet-icons-only-slide",
			Content: map[string]any{
				"title": "重點",
				"bullets": []any{
					map[string]any{
						"title": "擴張",
						"icon":  map[string]any{"__icon_query__": "nonexistent"},
					},
				},
			},
		}},
	})
	require.NoError(t, err)

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "icon", result.Warnings[0].AssetType)
	assert.Equal(t, AssetReasonNotFound, result.Warnings[0].Reason)
	assert.Equal(t, "bullets[0].icon", result.Warnings[0].Path)

	bullets := repo.created.Slides[0].Content["bullets"].([]any)
	icon := bullets[0].(map[string]any)["icon"].(map[string]any)
	assert.Equal(t, "/static/icons/placeholder.png", icon["__icon_url__"])
	assert.Equal(t, "nonexistent", icon["__icon_query__"])
}

func TestExportFailureIsSoft(t *testing.T) {
	repo := &fakeRepo{}
	renderer := &fakeRenderer{err: fmt.Errorf("renderer unavailable")}
	o := newTestOrchestrator(&fakeImages{}, &fakeIcons{}, repo, renderer)

	result, err := o.Import(context.Background(), &Request{
		Title:    "報告",
		Template: "general",
		ExportAs: "pptx",
		Slides:   []SlideInput{metricsSlideInput()},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.PresentationID)
	assert.Empty(t, result.ExportPath)
	assert.Contains(t, result.ExportError, "renderer unavailable")
	assert.NotNil(t, repo.created)
	assert.Contains(t, repo.exportError, "renderer unavailable")
}

func TestExportSuccess(t *testing.T) {
	repo := &fakeRepo{}
	renderer := &fakeRenderer{path: "/exports/deck"}
	o := newTestOrchestrator(&fakeImages{}, &fakeIcons{}, repo, renderer)

	result, err := o.Import(context.Background(), &Request{
		Title:    "報告",
		Template: "general",
		ExportAs: "pdf",
		Slides:   []SlideInput{metricsSlideInput()},
	})
	require.NoError(t, err)
	assert.Equal(t, "/exports/deck.pdf", result.ExportPath)
	assert.Empty(t, result.ExportError)
	assert.Equal(t, 1, renderer.calls)
	assert.Equal(t, "/exports/deck.pdf", repo.exportPath)
}

func TestCanceledContextDoesNotPersist(t *testing.T) {
	repo := &fakeRepo{}
	o := newTestOrchestrator(&fakeImages{}, &fakeIcons{}, repo, &fakeRenderer{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := o.Import(ctx, &Request{
		Title:    "報告",
		Template: "general",
		Slides:   []SlideInput{basicInfoSlideInput()},
	})
	require.Error(t, err)
	assert.Nil(t, repo.created)

	// 取消有专属错误码，不与校验拒绝或内部错误混同
	assert.Equal(t, errors.CodeImportCanceled, errors.AsAppError(err).Code)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestImportSpanRecordsRequestShape(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	repo := &fakeRepo{}
	o := newTestOrchestrator(&fakeImages{}, &fakeIcons{}, repo, &fakeRenderer{path: "/exports/deck"})

	_, err := o.Import(context.Background(), &Request{
		Title:    "報告",
		Template: "general",
		ExportAs: "pdf",
		Slides:   []SlideInput{metricsSlideInput(), basicInfoSlideInput()},
	})
	require.NoError(t, err)

	var importSpan, exportSpan sdktrace.ReadOnlySpan
	for _, s := range recorder.Ended() {
		switch s.Name() {
		case "importer.Import":
			importSpan = s
		case "importer.Export":
			exportSpan = s
		}
	}

	require.NotNil(t, importSpan)
	attrs := attributeMap(importSpan.Attributes())
	assert.Equal(t, "general", attrs["import.template"].AsString())
	assert.Equal(t, int64(2), attrs["import.slide_count"].AsInt64())

	require.NotNil(t, exportSpan)
	attrs = attributeMap(exportSpan.Attributes())
	assert.Equal(t, "pdf", attrs["export.format"].AsString())
}

func attributeMap(kvs []attribute.KeyValue) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value, len(kvs))
	for _, kv := range kvs {
		m[kv.Key] = kv.Value
	}
	return m
}

func TestGuardRules(t *testing.T) {
	o := newTestOrchestrator(&fakeImages{}, &fakeIcons{}, &fakeRepo{}, &fakeRenderer{})
	ctx := context.Background()

	tests := []struct {
		name string
		req  *Request
	}{
		{"missing title", &Request{Template: "general", Slides: []SlideInput{metricsSlideInput()}}},
		{"empty slides", &Request{Title: "t", Template: "general"}},
		{"unsupported export format", &Request{Title: "t", Template: "general", ExportAs: "docx", Slides: []SlideInput{metricsSlideInput()}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := o.Import(ctx, tt.req)
			require.Error(t, err)
			assert.Equal(t, errors.CodeInvalidParam, errors.AsAppError(err).Code)
		})
	}
}
