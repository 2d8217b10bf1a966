// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"deck-import-api/internal/domain/entity"
	"deck-import-api/internal/domain/repository"
)

// PresentationRepository 演示文稿仓储实现
type PresentationRepository struct {
	client *Client
	tx     *TxManager
}

// NewPresentationRepository 创建演示文稿仓储
func NewPresentationRepository(client *Client, tx *TxManager) *PresentationRepository {
	return &PresentationRepository{client: client, tx: tx}
}

// Create 在单个事务内写入演示文稿与全部幻灯片
func (r *PresentationRepository) Create(ctx context.Context, p *entity.Presentation) error {
	ctx, span := tracer.Start(ctx, "postgres.PresentationRepository.Create")
	defer span.End()

	err := r.tx.WithTransaction(ctx, func(ctx context.Context) error {
		q := getQuerier(ctx, r.client.sqlDB)

		query := `
			INSERT INTO presentations (id, title, template, language, slide_count, layouts_used,
				status, export_as, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
			RETURNING created_at, updated_at
		`

		var exportAs sql.NullString
		if p.ExportAs != "" {
			exportAs = sql.NullString{String: p.ExportAs, Valid: true}
		}

		if err := q.QueryRowContext(ctx, query,
			p.ID, p.Title, p.Template, p.Language, p.SlideCount,
			pq.Array(p.LayoutsUsed), p.Status, exportAs,
		).Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
			return fmt.Errorf("failed to insert presentation: %w", err)
		}

		slideQuery := `
			INSERT INTO slides (id, presentation_id, slide_index, layout_group, layout_slug,
				content, speaker_note, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		`
		for _, s := range p.Slides {
			contentJSON, err := json.Marshal(s.Content)
			if err != nil {
				return fmt.Errorf("failed to marshal slide %d content: %w", s.Index, err)
			}

			var note sql.NullString
			if s.SpeakerNote != nil {
				note = sql.NullString{String: *s.SpeakerNote, Valid: true}
			}

			if _, err := q.ExecContext(ctx, slideQuery,
				s.ID, s.PresentationID, s.Index, s.LayoutGroup, s.LayoutSlug,
				contentJSON, note,
			); err != nil {
				return fmt.Errorf("failed to insert slide %d: %w", s.Index, err)
			}
		}
		return nil
	})

	if err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// GetByID 根据 ID 获取演示文稿（不含幻灯片）
func (r *PresentationRepository) GetByID(ctx context.Context, id string) (*entity.Presentation, error) {
	ctx, span := tracer.Start(ctx, "postgres.PresentationRepository.GetByID")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	query := `
		SELECT id, title, template, language, slide_count, layouts_used,
			status, export_as, export_path, export_error, created_at, updated_at
		FROM presentations
		WHERE id = $1
	`

	p, err := scanPresentation(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get presentation: %w", err)
	}
	return p, nil
}

// GetWithSlides 根据 ID 获取演示文稿及按序排列的幻灯片
func (r *PresentationRepository) GetWithSlides(ctx context.Context, id string) (*entity.Presentation, error) {
	ctx, span := tracer.Start(ctx, "postgres.PresentationRepository.GetWithSlides")
	defer span.End()

	p, err := r.GetByID(ctx, id)
	if err != nil || p == nil {
		return p, err
	}

	q := getQuerier(ctx, r.client.sqlDB)

	query := `
		SELECT id, presentation_id, slide_index, layout_group, layout_slug,
			content, speaker_note, created_at
		FROM slides
		WHERE presentation_id = $1
		ORDER BY slide_index ASC
	`

	rows, err := q.QueryContext(ctx, query, id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list slides: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s entity.Slide
		var contentJSON []byte
		var note sql.NullString

		if err := rows.Scan(
			&s.ID, &s.PresentationID, &s.Index, &s.LayoutGroup, &s.LayoutSlug,
			&contentJSON, &note, &s.CreatedAt,
		); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan slide: %w", err)
		}

		if err := json.Unmarshal(contentJSON, &s.Content); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to unmarshal slide content: %w", err)
		}
		if note.Valid {
			s.SpeakerNote = &note.String
		}
		p.Slides = append(p.Slides, &s)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to iterate slides: %w", err)
	}
	return p, nil
}

// List 获取演示文稿列表
func (r *PresentationRepository) List(ctx context.Context, filter *repository.PresentationFilter, pagination repository.Pagination) (*repository.PagedResult[*entity.Presentation], error) {
	ctx, span := tracer.Start(ctx, "postgres.PresentationRepository.List")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	// 构建查询条件
	whereClause := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter != nil {
		if filter.Template != "" {
			whereClause += fmt.Sprintf(" AND template = $%d", argIdx)
			args = append(args, filter.Template)
			argIdx++
		}
		if filter.Status != "" {
			whereClause += fmt.Sprintf(" AND status = $%d", argIdx)
			args = append(args, filter.Status)
			argIdx++
		}
	}

	// 查询总数
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM presentations WHERE %s", whereClause)
	var total int64
	if err := q.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count presentations: %w", err)
	}

	// 查询列表
	listQuery := fmt.Sprintf(`
		SELECT id, title, template, language, slide_count, layouts_used,
			status, export_as, export_path, export_error, created_at, updated_at
		FROM presentations
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIdx, argIdx+1)
	args = append(args, pagination.Limit(), pagination.Offset())

	rows, err := q.QueryContext(ctx, listQuery, args...)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list presentations: %w", err)
	}
	defer rows.Close()

	items := make([]*entity.Presentation, 0, pagination.Limit())
	for rows.Next() {
		p, err := scanPresentation(rows)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan presentation: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to iterate presentations: %w", err)
	}

	return repository.NewPagedResult(items, total, pagination), nil
}

// Delete 删除演示文稿及其幻灯片
func (r *PresentationRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.PresentationRepository.Delete")
	defer span.End()

	return r.tx.WithTransaction(ctx, func(ctx context.Context) error {
		q := getQuerier(ctx, r.client.sqlDB)

		if _, err := q.ExecContext(ctx, `DELETE FROM slides WHERE presentation_id = $1`, id); err != nil {
			span.RecordError(err)
			return fmt.Errorf("failed to delete slides: %w", err)
		}
		if _, err := q.ExecContext(ctx, `DELETE FROM presentations WHERE id = $1`, id); err != nil {
			span.RecordError(err)
			return fmt.Errorf("failed to delete presentation: %w", err)
		}
		return nil
	})
}

// UpdateExportResult 更新导出结果并将状态置为 done
func (r *PresentationRepository) UpdateExportResult(ctx context.Context, id string, exportPath, exportError string) error {
	ctx, span := tracer.Start(ctx, "postgres.PresentationRepository.UpdateExportResult")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	query := `
		UPDATE presentations
		SET export_path = $1, export_error = $2, status = $3, updated_at = NOW()
		WHERE id = $4
	`
	if _, err := q.ExecContext(ctx, query,
		nullString(exportPath), nullString(exportError), entity.ImportStatusDone, id,
	); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update export result: %w", err)
	}
	return nil
}

// rowScanner 兼容 sql.Row 与 sql.Rows 的扫描接口
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanPresentation 扫描单行演示文稿记录
func scanPresentation(row rowScanner) (*entity.Presentation, error) {
	var p entity.Presentation
	var exportAs, exportPath, exportError sql.NullString

	err := row.Scan(
		&p.ID, &p.Title, &p.Template, &p.Language, &p.SlideCount,
		pq.Array(&p.LayoutsUsed), &p.Status, &exportAs, &exportPath, &exportError,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.ExportAs = exportAs.String
	p.ExportPath = exportPath.String
	p.ExportError = exportError.String
	return &p, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
