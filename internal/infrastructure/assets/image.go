// Package assets 提供图片与图标服务的 HTTP 客户端
package assets

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
)

var tracer = otel.Tracer("assets")

// ImageClient 图片生成服务客户端
type ImageClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewImageClient 创建图片生成客户端
func NewImageClient(cfg *config.ImageServiceConfig) *ImageClient {
	return &ImageClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	URL string `json:"url"`
}

// Generate 按提示词生成图片，返回可访问的图片地址
func (c *ImageClient) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := tracer.Start(ctx, "assets.ImageClient.Generate",
		trace.WithAttributes(attribute.Int("image.prompt_length", len(prompt))))
	defer span.End()

	payload, err := json.Marshal(generateRequest{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("failed to marshal generate request: %w", err)
	}

	endpoint := c.baseURL + "/api/v1/images/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("image generation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("image service returned status %d", resp.StatusCode)
		span.RecordError(err)
		return "", err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to read image service response: %w", err)
	}

	var gr generateResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to decode image service response: %w", err)
	}
	if gr.URL == "" {
		return "", fmt.Errorf("image service returned empty url")
	}
	return gr.URL, nil
}
