package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deck-import-api/internal/application/importer"
	"deck-import-api/internal/application/layout"
	"deck-import-api/internal/domain/entity"
	"deck-import-api/internal/domain/repository"
	"deck-import-api/internal/infrastructure/catalog"
	"deck-import-api/internal/interfaces/http/dto"
)

type stubImages struct{ url string }

func (s *stubImages) Generate(_ context.Context, _ string) (string, error) {
	return s.url, nil
}

type stubIcons struct{ url string }

func (s *stubIcons) Search(_ context.Context, _ string) (string, error) {
	return s.url, nil
}

type stubRepo struct {
	created *entity.Presentation
	stored  map[string]*entity.Presentation
}

func (s *stubRepo) Create(_ context.Context, p *entity.Presentation) error {
	s.created = p
	return nil
}

func (s *stubRepo) GetByID(_ context.Context, id string) (*entity.Presentation, error) {
	return s.stored[id], nil
}

func (s *stubRepo) GetWithSlides(ctx context.Context, id string) (*entity.Presentation, error) {
	return s.GetByID(ctx, id)
}

func (s *stubRepo) List(_ context.Context, _ *repository.PresentationFilter, pagination repository.Pagination) (*repository.PagedResult[*entity.Presentation], error) {
	items := make([]*entity.Presentation, 0, len(s.stored))
	for _, p := range s.stored {
		items = append(items, p)
	}
	return repository.NewPagedResult(items, int64(len(items)), pagination), nil
}

func (s *stubRepo) Delete(_ context.Context, id string) error {
	delete(s.stored, id)
	return nil
}

func (s *stubRepo) UpdateExportResult(_ context.Context, _ string, _, _ string) error {
	return nil
}

func newTestEngine(t *testing.T, repo *stubRepo) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	builtin := catalog.NewBuiltin()
	resolver := layout.NewResolver(builtin)
	validator := importer.NewValidator(importer.PolicyDrop)
	assets := importer.NewAssetResolver(
		&stubImages{url: "https://img.example.com/generated.png"},
		&stubIcons{url: "https://icons.example.com/star.svg"},
		importer.AssetResolverOptions{
			MaxConcurrent:   4,
			Timeout:         time.Second,
			PlaceholderURL:  "/static/images/placeholder.jpg",
			FallbackIconURL: "/static/icons/placeholder.png",
		},
	)
	orchestrator := importer.NewOrchestrator(resolver, validator, assets, repo, nil, importer.Options{
		MaxSlides:   100,
		EditURLBase: "/presentation?id=%s",
	})

	engine := gin.New()
	v1 := engine.Group("/v1")
	registerRoutes(v1,
		NewImportHandler(orchestrator),
		NewPresentationHandler(repo),
		NewTemplateHandler(builtin),
	)
	return engine
}

// registerRoutes 与生产路由保持一致的最小注册
func registerRoutes(
	v1 *gin.RouterGroup,
	importHandler *ImportHandler,
	presentationHandler *PresentationHandler,
	templateHandler *TemplateHandler,
) {
	presentations := v1.Group("/presentations")
	presentations.POST("/import", importHandler.ImportPresentation)
	presentations.GET("", presentationHandler.ListPresentations)
	presentations.GET("/:pid", presentationHandler.GetPresentation)
	presentations.DELETE("/:pid", presentationHandler.DeletePresentation)

	templates := v1.Group("/templates")
	templates.GET("", templateHandler.ListTemplates)
	templates.GET("/:name/layouts", templateHandler.GetTemplateLayouts)
}

func postJSON(t *testing.T, engine *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestImportPresentationEndpoint(t *testing.T) {
	repo := &stubRepo{stored: map[string]*entity.Presentation{}}
	engine := newTestEngine(t, repo)

	rec := postJSON(t, engine, "/v1/presentations/import", map[string]any{
		"title": "年度总结",
		"slides": []map[string]any{
			{
				"layout": "general:metrics-slide",
				"content": map[string]any{
					"title":       "关键指标",
					"description": "本季度经营数据一览",
					"metrics": []map[string]any{
						{"value": "120%", "label": "同比增长"},
					},
				},
			},
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.Response[dto.ImportPresentationResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.PresentationID)
	assert.Equal(t, "/presentation?id="+resp.Data.PresentationID, resp.Data.EditURL)

	require.NotNil(t, repo.created)
	assert.Equal(t, "年度总结", repo.created.Title)
	assert.Equal(t, 1, repo.created.SlideCount)
}

func TestImportPresentationRejectedWithSlideErrors(t *testing.T) {
	repo := &stubRepo{stored: map[string]*entity.Presentation{}}
	engine := newTestEngine(t, repo)

	rec := postJSON(t, engine, "/v1/presentations/import", map[string]any{
		"title": "有问题的简报",
		"slides": []map[string]any{
			{
				"layout": "general:metrics-slide",
				"content": map[string]any{
					"metrics": []map[string]any{},
				},
			},
		},
	})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "import_rejected", resp.Error.ErrorCode)
	require.Len(t, resp.Error.Slides, 1)
	assert.Equal(t, 0, resp.Error.Slides[0].SlideIndex)
	assert.NotEmpty(t, resp.Error.Slides[0].Errors)

	// 整单拒绝，无任何持久化副作用
	assert.Nil(t, repo.created)
}

func TestImportPresentationBadRequestBody(t *testing.T) {
	repo := &stubRepo{stored: map[string]*entity.Presentation{}}
	engine := newTestEngine(t, repo)

	req := httptest.NewRequest(http.MethodPost, "/v1/presentations/import", bytes.NewBufferString("{not-json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPresentationNotFound(t *testing.T) {
	repo := &stubRepo{stored: map[string]*entity.Presentation{}}
	engine := newTestEngine(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/v1/presentations/missing-id", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetPresentationWithSlides(t *testing.T) {
	note := "备注"
	repo := &stubRepo{stored: map[string]*entity.Presentation{
		"p-1": {
			ID:          "p-1",
			Title:       "产品介绍",
			Template:    "general",
			Language:    "Traditional Chinese",
			SlideCount:  1,
			LayoutsUsed: []string{"general:basic-info-slide"},
			Status:      entity.ImportStatusDone,
			Slides: []*entity.Slide{
				{
					ID:          "s-1",
					Index:       0,
					LayoutGroup: "general",
					LayoutSlug:  "basic-info-slide",
					Content:     map[string]any{"title": "概览"},
					SpeakerNote: &note,
				},
			},
		},
	}}
	engine := newTestEngine(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/v1/presentations/p-1", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.Response[dto.PresentationResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "产品介绍", resp.Data.Title)
	require.Len(t, resp.Data.Slides, 1)
	assert.Equal(t, "general:basic-info-slide", resp.Data.Slides[0].Layout)
	require.NotNil(t, resp.Data.Slides[0].SpeakerNote)
	assert.Equal(t, note, *resp.Data.Slides[0].SpeakerNote)
}

func TestDeletePresentation(t *testing.T) {
	repo := &stubRepo{stored: map[string]*entity.Presentation{
		"p-1": {ID: "p-1", Title: "待删除", Status: entity.ImportStatusDone},
	}}
	engine := newTestEngine(t, repo)

	req := httptest.NewRequest(http.MethodDelete, "/v1/presentations/p-1", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, repo.stored)

	// 再次删除同一资源返回 404
	req = httptest.NewRequest(http.MethodDelete, "/v1/presentations/p-1", nil)
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListTemplates(t *testing.T) {
	repo := &stubRepo{stored: map[string]*entity.Presentation{}}
	engine := newTestEngine(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/v1/templates", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.Response[[]dto.TemplateResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "general", resp.Data[0].Name)
	assert.Len(t, resp.Data[0].Layouts, 12)
}

func TestGetTemplateLayoutsNotFound(t *testing.T) {
	repo := &stubRepo{stored: map[string]*entity.Presentation{}}
	engine := newTestEngine(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/v1/templates/modern/layouts", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHealthHandler(nil, nil)

	engine := gin.New()
	engine.GET("/health", h.Health)
	engine.GET("/live", h.Live)
	engine.GET("/ready", h.Ready)

	for _, path := range []string{"/health", "/live"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	// Postgres 未配置时不就绪
	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
