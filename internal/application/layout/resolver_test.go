package layout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deck-import-api/internal/domain/entity"
	"deck-import-api/pkg/errors"
)

// builtinCatalog 直接基于内置模板的测试目录
type builtinCatalog struct{}

func (builtinCatalog) Template(_ context.Context, name string) (*entity.TemplateSchema, error) {
	for _, t := range BuiltinTemplates() {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, nil
}

func (builtinCatalog) Templates(_ context.Context) ([]*entity.TemplateSchema, error) {
	return BuiltinTemplates(), nil
}

func TestResolverResolve(t *testing.T) {
	r := NewResolver(builtinCatalog{})
	ctx := context.Background()

	t.Run("resolves known layout", func(t *testing.T) {
		schema, err := r.Resolve(ctx, "general", "general:metrics-slide")
		require.NoError(t, err)
		require.NotNil(t, schema)
		assert.Equal(t, "metrics-slide", schema.ID)
		assert.Equal(t, entity.LayoutKindMetrics, schema.Kind)
		assert.True(t, schema.Fields["metrics"].Required)
	})

	t.Run("malformed layout id", func(t *testing.T) {
		_, err := r.Resolve(ctx, "general", "metrics-slide")
		require.Error(t, err)
		assert.Equal(t, errors.CodeInvalidParam, errors.AsAppError(err).Code)
	})

	t.Run("unknown template", func(t *testing.T) {
		_, err := r.Resolve(ctx, "modern", "modern:metrics-slide")
		require.Error(t, err)
		assert.Equal(t, errors.CodeTemplateNotFound, errors.AsAppError(err).Code)
	})

	t.Run("group mismatch", func(t *testing.T) {
		_, err := r.Resolve(ctx, "general", "modern:metrics-slide")
		require.Error(t, err)
		assert.Equal(t, errors.CodeLayoutNotFound, errors.AsAppError(err).Code)
	})

	t.Run("unknown layout in known template", func(t *testing.T) {
		_, err := r.Resolve(ctx, "general", "general:hero-slide")
		require.Error(t, err)
		assert.Equal(t, errors.CodeLayoutNotFound, errors.AsAppError(err).Code)
	})
}

func TestBuiltinGeneralTemplate(t *testing.T) {
	tmpl := generalTemplate()

	assert.Equal(t, "general", tmpl.Name)
	assert.Len(t, tmpl.Layouts, 12)

	seen := map[string]bool{}
	for _, l := range tmpl.Layouts {
		assert.False(t, seen[l.ID], "duplicate layout id %s", l.ID)
		seen[l.ID] = true
		assert.NotEmpty(t, l.Fields, "layout %s has no fields", l.ID)
	}

	quote := tmpl.Layout("quote-slide")
	require.NotNil(t, quote)
	assert.Equal(t, entity.FieldKindImage, quote.Fields["background_image"].Kind)
}
