// Package export 提供演示文稿渲染服务客户端
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"deck-import-api/internal/config"
	"deck-import-api/internal/domain/entity"
)

var tracer = otel.Tracer("export")

// RendererClient 渲染服务客户端
// 将完整的演示文稿聚合提交给外部渲染服务，换取导出产物路径
type RendererClient struct {
	baseURL string
	client  *http.Client
}

// NewRendererClient 创建渲染客户端
func NewRendererClient(cfg *config.ExportConfig) *RendererClient {
	return &RendererClient{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

type renderRequest struct {
	PresentationID string          `json:"presentation_id"`
	Title          string          `json:"title"`
	Format         string          `json:"format"`
	Slides         []*entity.Slide `json:"slides"`
}

type renderResponse struct {
	Path string `json:"path"`
}

// Render 渲染演示文稿，返回导出文件路径
func (c *RendererClient) Render(ctx context.Context, p *entity.Presentation, format entity.ExportFormat) (string, error) {
	ctx, span := tracer.Start(ctx, "export.RendererClient.Render",
		trace.WithAttributes(
			attribute.String("presentation.id", p.ID),
			attribute.String("export.format", string(format)),
		))
	defer span.End()

	payload, err := json.Marshal(renderRequest{
		PresentationID: p.ID,
		Title:          p.Title,
		Format:         string(format),
		Slides:         p.Slides,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal render request: %w", err)
	}

	endpoint := c.baseURL + "/api/v1/render"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build render request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("render request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("render service returned status %d", resp.StatusCode)
		span.RecordError(err)
		return "", err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to read render response: %w", err)
	}

	var rr renderResponse
	if err := json.Unmarshal(body, &rr); err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to decode render response: %w", err)
	}
	if rr.Path == "" {
		return "", fmt.Errorf("render service returned empty path")
	}
	return rr.Path, nil
}
