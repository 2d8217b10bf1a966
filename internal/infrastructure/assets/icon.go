package assets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"deck-import-api/internal/config"
)

// IconClient 图标库检索客户端
type IconClient struct {
	baseURL string
	client  *http.Client
}

// NewIconClient 创建图标检索客户端
func NewIconClient(cfg *config.IconServiceConfig) *IconClient {
	return &IconClient{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

type searchResponse struct {
	Icons []string `json:"icons"`
}

// Search 按关键词检索图标，未命中时返回空字符串
func (c *IconClient) Search(ctx context.Context, query string) (string, error) {
	ctx, span := tracer.Start(ctx, "assets.IconClient.Search",
		trace.WithAttributes(attribute.String("icon.query", query)))
	defer span.End()

	endpoint := fmt.Sprintf("%s/api/v1/icons/search?query=%s&limit=1", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build icon search request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("icon search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("icon service returned status %d", resp.StatusCode)
		span.RecordError(err)
		return "", err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to read icon service response: %w", err)
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to decode icon service response: %w", err)
	}
	if len(sr.Icons) == 0 {
		return "", nil
	}
	return sr.Icons[0], nil
}
