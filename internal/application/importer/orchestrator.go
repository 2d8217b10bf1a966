package importer

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"deck-import-api/internal/application/layout"
	"deck-import-api/internal/domain/entity"
	"deck-import-api/internal/domain/repository"
	"deck-import-api/pkg/errors"
	"deck-import-api/pkg/logger"
	"deck-import-api/pkg/metrics"
	"deck-import-api/pkg/tracer"
)

// Renderer 演示文稿导出端口
type Renderer interface {
	// Render 将演示文稿渲染为指定格式，返回产物路径
	Render(ctx context.Context, p *entity.Presentation, format entity.ExportFormat) (string, error)
}

// SlideInput 导入请求中的单张幻灯片
type SlideInput struct {
	Layout      string
	Content     map[string]any
	SpeakerNote *string
}

// Request 导入请求
type Request struct {
	Title    string
	Template string
	Language string
	ExportAs string
	Slides   []SlideInput
}

// Result 导入结果
type Result struct {
	PresentationID string
	EditURL        string
	ExportPath     string
	ExportError    string
	Warnings       []AssetWarning
}

// Options 编排器配置
type Options struct {
	MaxSlides   int
	EditURLBase string
}

// Orchestrator 导入编排器
// 两阶段执行：先收集全部校验错误，校验整体通过后才解析素材并一次性落库
type Orchestrator struct {
	resolver  *layout.Resolver
	validator *Validator
	assets    *AssetResolver
	repo      repository.PresentationRepository
	renderer  Renderer
	opts      Options
}

// NewOrchestrator 创建导入编排器
func NewOrchestrator(
	resolver *layout.Resolver,
	validator *Validator,
	assets *AssetResolver,
	repo repository.PresentationRepository,
	renderer Renderer,
	opts Options,
) *Orchestrator {
	if opts.MaxSlides < 1 {
		opts.MaxSlides = 100
	}
	if opts.EditURLBase == "" {
		opts.EditURLBase = "/presentation?id=%s"
	}
	return &Orchestrator{
		resolver:  resolver,
		validator: validator,
		assets:    assets,
		repo:      repo,
		renderer:  renderer,
		opts:      opts,
	}
}

// Import 执行完整导入流水线
// 任何一张幻灯片校验失败都会拒绝整个请求且不产生任何持久化副作用
func (o *Orchestrator) Import(ctx context.Context, req *Request) (*Result, error) {
	ctx, span := tracer.Start(ctx, "importer.Import")
	defer span.End()

	start := time.Now()
	ctx = logger.WithContext(ctx, logger.TemplateKey, req.Template)

	if err := o.guard(req); err != nil {
		metrics.ImportTotal.WithLabelValues(req.Template, "rejected").Inc()
		return nil, err
	}

	span.SetAttributes(
		attribute.String("import.template", req.Template),
		attribute.Int("import.slide_count", len(req.Slides)),
	)
	metrics.ImportSlideCount.WithLabelValues(req.Template).Observe(float64(len(req.Slides)))
	logger.Info(ctx, "import received", "title", req.Title, "slides", len(req.Slides))

	// 阶段一：解析布局并校验全部幻灯片，错误完整收集
	drafts, slideErrs, err := o.validateSlides(ctx, req)
	if err != nil {
		metrics.ImportTotal.WithLabelValues(req.Template, "failed").Inc()
		return nil, err
	}
	if len(slideErrs) > 0 {
		for _, se := range slideErrs {
			metrics.SlideValidationErrors.WithLabelValues(req.Template, se.LayoutID).Add(float64(len(se.Errors)))
		}
		metrics.ImportTotal.WithLabelValues(req.Template, "rejected").Inc()
		logger.Info(ctx, "import rejected", "slides_with_errors", len(slideErrs))
		return nil, &RejectionError{Slides: slideErrs}
	}

	// 阶段二：素材解析，失败仅降级为警告
	trees := make([]Node, len(drafts))
	for i := range drafts {
		trees[i] = drafts[i].Tree
	}
	warnings, err := o.assets.ResolveAll(ctx, trees)
	if err != nil {
		metrics.ImportTotal.WithLabelValues(req.Template, "canceled").Inc()
		return nil, errors.Wrap(err, errors.CodeImportCanceled, "import canceled")
	}

	// 取消后不再产生持久化副作用
	if err := ctx.Err(); err != nil {
		metrics.ImportTotal.WithLabelValues(req.Template, "canceled").Inc()
		return nil, errors.Wrap(err, errors.CodeImportCanceled, "import canceled")
	}

	p := assemble(req.Title, req.Template, req.Language, req.ExportAs, drafts)
	if req.ExportAs == "" {
		p.Status = entity.ImportStatusDone
	}

	if err := o.repo.Create(ctx, p); err != nil {
		metrics.ImportTotal.WithLabelValues(req.Template, "failed").Inc()
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to persist presentation")
	}
	ctx = logger.WithContext(ctx, logger.PresentationIDKey, p.ID)
	logger.Info(ctx, "presentation persisted", "slides", p.SlideCount, "layouts", p.LayoutsUsed)

	result := &Result{
		PresentationID: p.ID,
		EditURL:        fmt.Sprintf(o.opts.EditURLBase, p.ID),
		Warnings:       warnings,
	}

	// 可选同步导出：失败不回滚导入，仅记录 export_error
	if req.ExportAs != "" {
		result.ExportPath, result.ExportError = o.export(ctx, p, entity.ExportFormat(req.ExportAs))
	}

	metrics.ImportTotal.WithLabelValues(req.Template, "imported").Inc()
	metrics.ImportDuration.WithLabelValues(req.Template).Observe(time.Since(start).Seconds())
	return result, nil
}

// guard 请求级前置检查
func (o *Orchestrator) guard(req *Request) error {
	if req.Title == "" {
		return errors.New(errors.CodeInvalidParam, "title is required")
	}
	if req.Template == "" {
		return errors.New(errors.CodeInvalidParam, "template is required")
	}
	if len(req.Slides) == 0 {
		return errors.New(errors.CodeInvalidParam, "slides must not be empty")
	}
	if len(req.Slides) > o.opts.MaxSlides {
		return errors.New(errors.CodeInvalidParam, "too many slides").
			WithDetail(fmt.Sprintf("request carries %d slides, limit is %d", len(req.Slides), o.opts.MaxSlides))
	}
	if req.ExportAs != "" && !entity.ExportFormat(req.ExportAs).IsValid() {
		return errors.New(errors.CodeInvalidParam, "unsupported export format").
			WithDetail(fmt.Sprintf("export_as %q, supported formats are pptx and pdf", req.ExportAs))
	}
	return nil
}

// validateSlides 解析每张幻灯片的布局并校验内容
// 模板不存在或目录不可用属于全局错误，直接终止；其余错误逐幻灯片收集
func (o *Orchestrator) validateSlides(ctx context.Context, req *Request) ([]slideDraft, []SlideErrors, error) {
	ctx, span := tracer.Start(ctx, "importer.ValidateSlides")
	defer span.End()

	drafts := make([]slideDraft, 0, len(req.Slides))
	var slideErrs []SlideErrors

	for i, in := range req.Slides {
		schema, err := o.resolver.Resolve(ctx, req.Template, in.Layout)
		if err != nil {
			appErr := errors.AsAppError(err)
			switch appErr.Code {
			case errors.CodeTemplateNotFound, errors.CodeCatalogError:
				return nil, nil, err
			}
			slideErrs = append(slideErrs, SlideErrors{
				SlideIndex: i,
				LayoutID:   in.Layout,
				Errors: []FieldError{{
					Path:   "layout",
					Code:   FieldCodeUnknownLayout,
					Got:    in.Layout,
					Detail: appErr.Detail,
				}},
			})
			continue
		}

		sanitized, fieldErrs := o.validator.ValidateSlide(schema, in.Content)
		if len(fieldErrs) > 0 {
			slideErrs = append(slideErrs, SlideErrors{
				SlideIndex: i,
				LayoutID:   in.Layout,
				Errors:     fieldErrs,
			})
			continue
		}

		group, name, _ := entity.ParseLayoutID(in.Layout)
		drafts = append(drafts, slideDraft{
			LayoutGroup: group,
			LayoutSlug:  name,
			Tree:        Decode(sanitized),
			SpeakerNote: in.SpeakerNote,
		})
	}

	if len(slideErrs) > 0 {
		return nil, slideErrs, nil
	}
	return drafts, nil, nil
}

// export 同步导出，失败返回空路径与错误描述
func (o *Orchestrator) export(ctx context.Context, p *entity.Presentation, format entity.ExportFormat) (string, string) {
	ctx, span := tracer.Start(ctx, "importer.Export")
	defer span.End()
	span.SetAttributes(attribute.String("export.format", string(format)))

	start := time.Now()
	path, err := o.renderer.Render(ctx, p, format)
	metrics.ExportDuration.WithLabelValues(string(format)).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ExportTotal.WithLabelValues(string(format), "failed").Inc()
		logger.Error(ctx, "export failed, import result unaffected", err, "format", format)
		exportErr := fmt.Sprintf("export to %s failed: %v", format, err)
		if updateErr := o.repo.UpdateExportResult(ctx, p.ID, "", exportErr); updateErr != nil {
			logger.Error(ctx, "failed to record export error", updateErr)
		}
		return "", exportErr
	}

	metrics.ExportTotal.WithLabelValues(string(format), "ok").Inc()
	if updateErr := o.repo.UpdateExportResult(ctx, p.ID, path, ""); updateErr != nil {
		logger.Error(ctx, "failed to record export path", updateErr)
	}
	logger.Info(ctx, "export finished", "format", format, "path", path)
	return path, ""
}
