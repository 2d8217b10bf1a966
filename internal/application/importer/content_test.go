package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDetectsDirectives(t *testing.T) {
	raw := map[string]any{
		"title": "Q3 回顧",
		"image": map[string]any{
			"__image_url__":    "https://cdn.example.com/cover.png",
			"__image_prompt__": "city skyline at dusk",
		},
		"bullets": []any{
			map[string]any{
				"title": "成長",
				"icon":  map[string]any{"__icon_query__": "growth"},
			},
		},
	}

	tree := Decode(raw)
	root, ok := tree.(*Mapping)
	require.True(t, ok)

	img, ok := root.Children["image"].(*ImageDirective)
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/cover.png", img.URL)
	assert.Equal(t, "city skyline at dusk", img.Prompt)

	bullets, ok := root.Children["bullets"].(*Sequence)
	require.True(t, ok)
	first, ok := bullets.Items[0].(*Mapping)
	require.True(t, ok)
	icon, ok := first.Children["icon"].(*IconDirective)
	require.True(t, ok)
	assert.Equal(t, "growth", icon.Query)

	scalar, ok := root.Children["title"].(*Scalar)
	require.True(t, ok)
	assert.Equal(t, "Q3 回顧", scalar.Value)
}

func TestEncodeRendersResolvedDirectives(t *testing.T) {
	tree := &Mapping{Children: map[string]Node{
		"image": &ImageDirective{
			Prompt:      "mountain road",
			ResolvedURL: "/generated/abc.png",
			Provenance:  ProvenanceResolvedByQuery,
		},
		"icon": &IconDirective{
			Query:       "target",
			ResolvedURL: "/icons/target.png",
			Provenance:  ProvenanceResolvedByQuery,
		},
	}}

	out := EncodeMapping(tree)

	img, ok := out["image"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "/generated/abc.png", img["__image_url__"])
	assert.Equal(t, "mountain road", img["__image_prompt__"])

	icon, ok := out["icon"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "/icons/target.png", icon["__icon_url__"])
	assert.Equal(t, "target", icon["__icon_query__"])
}

func TestCollectDirectivesPaths(t *testing.T) {
	raw := map[string]any{
		"image": map[string]any{"__image_prompt__": "a"},
		"bullets": []any{
			map[string]any{"icon": map[string]any{"__icon_query__": "x"}},
			map[string]any{"icon": map[string]any{"__icon_query__": "y"}},
		},
	}

	var refs []directiveRef
	collectDirectives(Decode(raw), "", &refs)

	paths := make([]string, 0, len(refs))
	for _, r := range refs {
		paths = append(paths, r.path)
	}
	assert.Equal(t, []string{"bullets[0].icon", "bullets[1].icon", "image"}, paths)
}
