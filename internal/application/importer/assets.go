package importer

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"deck-import-api/pkg/logger"
	"deck-import-api/pkg/metrics"
	"deck-import-api/pkg/tracer"
)

// ImageResolver 图片生成端口
type ImageResolver interface {
	// Generate 按提示词生成图片，返回可访问的图片地址
	Generate(ctx context.Context, prompt string) (string, error)
}

// IconResolver 图标检索端口
type IconResolver interface {
	// Search 按关键词检索图标，未命中时返回空字符串
	Search(ctx context.Context, query string) (string, error)
}

// AssetResolverOptions 素材解析配置
type AssetResolverOptions struct {
	MaxConcurrent   int
	Timeout         time.Duration
	PlaceholderURL  string
	FallbackIconURL string
}

// AssetResolver 素材指令解析器
// 素材解析永不使导入失败，任何失败都降级为占位素材并记录警告
type AssetResolver struct {
	images ImageResolver
	icons  IconResolver
	opts   AssetResolverOptions
}

// NewAssetResolver 创建素材解析器
func NewAssetResolver(images ImageResolver, icons IconResolver, opts AssetResolverOptions) *AssetResolver {
	if opts.MaxConcurrent < 1 {
		opts.MaxConcurrent = 8
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &AssetResolver{images: images, icons: icons, opts: opts}
}

// slideDirective 带幻灯片序号的素材指令引用
type slideDirective struct {
	slideIndex int
	ref        directiveRef
}

// ResolveAll 并发解析全部幻灯片内容树中的素材指令
// trees 按幻灯片顺序排列，指令节点被原地填充解析结果
func (r *AssetResolver) ResolveAll(ctx context.Context, trees []Node) ([]AssetWarning, error) {
	ctx, span := tracer.Start(ctx, "importer.ResolveAssets")
	defer span.End()

	var directives []slideDirective
	for i, tree := range trees {
		var refs []directiveRef
		collectDirectives(tree, "", &refs)
		for _, ref := range refs {
			directives = append(directives, slideDirective{slideIndex: i, ref: ref})
		}
	}
	if len(directives) == 0 {
		return nil, nil
	}

	var (
		mu       sync.Mutex
		warnings []AssetWarning
	)
	addWarning := func(w AssetWarning) {
		mu.Lock()
		warnings = append(warnings, w)
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.MaxConcurrent)
	for _, d := range directives {
		g.Go(func() error {
			// 单条指令独立超时，慢素材不拖垮整批解析
			dctx, cancel := context.WithTimeout(gctx, r.opts.Timeout)
			defer cancel()

			switch node := d.ref.node.(type) {
			case *ImageDirective:
				if w := r.resolveImage(dctx, node); w != nil {
					w.SlideIndex = d.slideIndex
					w.Path = d.ref.path
					addWarning(*w)
				}
			case *IconDirective:
				if w := r.resolveIcon(dctx, node); w != nil {
					w.SlideIndex = d.slideIndex
					w.Path = d.ref.path
					addWarning(*w)
				}
			}
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		// 仅在请求被取消时整体终止
		return nil, err
	}

	sort.Slice(warnings, func(i, j int) bool {
		if warnings[i].SlideIndex != warnings[j].SlideIndex {
			return warnings[i].SlideIndex < warnings[j].SlideIndex
		}
		return warnings[i].Path < warnings[j].Path
	})
	return warnings, nil
}

// resolveImage 解析单条图片指令
// 已提供 URL 的指令从不调用生成服务
func (r *AssetResolver) resolveImage(ctx context.Context, d *ImageDirective) *AssetWarning {
	start := time.Now()
	defer func() {
		metrics.AssetResolutionDuration.WithLabelValues("image").Observe(time.Since(start).Seconds())
	}()

	if d.URL != "" {
		if !isWellFormedURL(d.URL) {
			d.ResolvedURL = r.opts.PlaceholderURL
			d.Provenance = ProvenanceFallback
			metrics.AssetResolutionTotal.WithLabelValues("image", "fallback").Inc()
			metrics.AssetFallbackTotal.WithLabelValues("image", AssetReasonInvalidURL).Inc()
			return &AssetWarning{
				AssetType: "image",
				Reason:    AssetReasonInvalidURL,
				Detail:    fmt.Sprintf("image url %q is not a valid http(s) or root-relative url", d.URL),
			}
		}
		d.ResolvedURL = d.URL
		d.Provenance = ProvenanceProvided
		metrics.AssetResolutionTotal.WithLabelValues("image", "provided").Inc()
		return nil
	}

	if d.Prompt == "" {
		d.ResolvedURL = r.opts.PlaceholderURL
		d.Provenance = ProvenanceFallback
		metrics.AssetResolutionTotal.WithLabelValues("image", "fallback").Inc()
		metrics.AssetFallbackTotal.WithLabelValues("image", AssetReasonEmpty).Inc()
		return &AssetWarning{
			AssetType: "image",
			Reason:    AssetReasonEmpty,
			Detail:    "image directive carries neither url nor prompt",
		}
	}

	generated, err := r.images.Generate(ctx, d.Prompt)
	if err != nil {
		reason := AssetReasonUpstreamError
		if stderrors.Is(err, context.DeadlineExceeded) {
			reason = AssetReasonTimeout
		}
		logger.Warn(ctx, "image generation failed, falling back to placeholder",
			"prompt", d.Prompt, "reason", reason, "error", err.Error())
		d.ResolvedURL = r.opts.PlaceholderURL
		d.Provenance = ProvenanceFallback
		metrics.AssetResolutionTotal.WithLabelValues("image", "fallback").Inc()
		metrics.AssetFallbackTotal.WithLabelValues("image", reason).Inc()
		return &AssetWarning{
			AssetType: "image",
			Reason:    reason,
			Detail:    fmt.Sprintf("image generation failed: %v", err),
		}
	}

	d.ResolvedURL = generated
	d.Provenance = ProvenanceResolvedByQuery
	metrics.AssetResolutionTotal.WithLabelValues("image", "resolved").Inc()
	return nil
}

// resolveIcon 解析单条图标指令
func (r *AssetResolver) resolveIcon(ctx context.Context, d *IconDirective) *AssetWarning {
	start := time.Now()
	defer func() {
		metrics.AssetResolutionDuration.WithLabelValues("icon").Observe(time.Since(start).Seconds())
	}()

	if d.URL != "" {
		d.ResolvedURL = d.URL
		d.Provenance = ProvenanceProvided
		metrics.AssetResolutionTotal.WithLabelValues("icon", "provided").Inc()
		return nil
	}

	if d.Query == "" {
		d.ResolvedURL = r.opts.FallbackIconURL
		d.Provenance = ProvenanceFallback
		metrics.AssetResolutionTotal.WithLabelValues("icon", "fallback").Inc()
		metrics.AssetFallbackTotal.WithLabelValues("icon", AssetReasonEmpty).Inc()
		return &AssetWarning{
			AssetType: "icon",
			Reason:    AssetReasonEmpty,
			Detail:    "icon directive carries an empty query",
		}
	}

	found, err := r.icons.Search(ctx, d.Query)
	if err != nil {
		reason := AssetReasonUpstreamError
		if stderrors.Is(err, context.DeadlineExceeded) {
			reason = AssetReasonTimeout
		}
		logger.Warn(ctx, "icon search failed, falling back to placeholder",
			"query", d.Query, "reason", reason, "error", err.Error())
		d.ResolvedURL = r.opts.FallbackIconURL
		d.Provenance = ProvenanceFallback
		metrics.AssetResolutionTotal.WithLabelValues("icon", "fallback").Inc()
		metrics.AssetFallbackTotal.WithLabelValues("icon", reason).Inc()
		return &AssetWarning{
			AssetType: "icon",
			Reason:    reason,
			Detail:    fmt.Sprintf("icon search failed: %v", err),
		}
	}
	if found == "" {
		d.ResolvedURL = r.opts.FallbackIconURL
		d.Provenance = ProvenanceFallback
		metrics.AssetResolutionTotal.WithLabelValues("icon", "fallback").Inc()
		metrics.AssetFallbackTotal.WithLabelValues("icon", AssetReasonNotFound).Inc()
		return &AssetWarning{
			AssetType: "icon",
			Reason:    AssetReasonNotFound,
			Detail:    fmt.Sprintf("no icon matches query %q", d.Query),
		}
	}

	d.ResolvedURL = found
	d.Provenance = ProvenanceResolvedByQuery
	metrics.AssetResolutionTotal.WithLabelValues("icon", "resolved").Inc()
	return nil
}

// isWellFormedURL 校验图片地址为 http(s) 绝对地址或根相对路径
func isWellFormedURL(s string) bool {
	if strings.HasPrefix(s, "/") {
		return true
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
