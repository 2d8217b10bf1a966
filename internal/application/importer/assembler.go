package importer

import (
	"time"

	"github.com/google/uuid"

	"deck-import-api/internal/domain/entity"
)

// slideDraft 组装前的幻灯片草稿
// 校验与素材解析完成后由编排器交给组装器
type slideDraft struct {
	LayoutGroup string
	LayoutSlug  string
	Tree        Node
	SpeakerNote *string
}

// assemble 将草稿组装为可持久化的演示文稿聚合
// 纯函数：幻灯片序号从零连续编号，演讲者备注原样保留
func assemble(title, template, language string, exportAs string, drafts []slideDraft) *entity.Presentation {
	now := time.Now()
	p := &entity.Presentation{
		ID:         uuid.NewString(),
		Title:      title,
		Template:   template,
		Language:   language,
		SlideCount: len(drafts),
		Status:     entity.ImportStatusPersisted,
		ExportAs:   exportAs,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	seen := make(map[string]bool, len(drafts))
	p.Slides = make([]*entity.Slide, 0, len(drafts))
	for i, d := range drafts {
		slide := &entity.Slide{
			ID:             uuid.NewString(),
			PresentationID: p.ID,
			Index:          i,
			LayoutGroup:    d.LayoutGroup,
			LayoutSlug:     d.LayoutSlug,
			Content:        EncodeMapping(d.Tree),
			SpeakerNote:    d.SpeakerNote,
			CreatedAt:      now,
		}
		p.Slides = append(p.Slides, slide)

		// layouts_used 按首次出现顺序去重
		if layoutID := slide.LayoutID(); !seen[layoutID] {
			seen[layoutID] = true
			p.LayoutsUsed = append(p.LayoutsUsed, layoutID)
		}
	}
	return p
}
