// Package importer 实现演示文稿导入流水线
package importer

import (
	"fmt"
	"sort"
)

// 素材指令标记键
const (
	keyImageURL    = "__image_url__"
	keyImagePrompt = "__image_prompt__"
	keyIconQuery   = "__icon_query__"
	keyIconURL     = "__icon_url__"
)

// Provenance 素材来源
type Provenance string

const (
	ProvenanceProvided        Provenance = "provided"
	ProvenanceResolvedByQuery Provenance = "resolved-by-query"
	ProvenanceFallback        Provenance = "fallback"
)

// Node 内容树节点
// 内容树是标量、映射、序列与素材指令构成的和类型
type Node interface {
	isNode()
}

// Scalar 标量节点
type Scalar struct {
	Value any
}

// Mapping 映射节点
type Mapping struct {
	Children map[string]Node
}

// Sequence 序列节点
type Sequence struct {
	Items []Node
}

// ImageDirective 图片指令节点
// URL 与 Prompt 来自请求，ResolvedURL 与 Provenance 由素材解析阶段填充
type ImageDirective struct {
	URL         string
	Prompt      string
	ResolvedURL string
	Provenance  Provenance
}

// IconDirective 图标指令节点
type IconDirective struct {
	Query       string
	URL         string
	ResolvedURL string
	Provenance  Provenance
}

func (*Scalar) isNode()         {}
func (*Mapping) isNode()        {}
func (*Sequence) isNode()       {}
func (*ImageDirective) isNode() {}
func (*IconDirective) isNode()  {}

// Decode 将 JSON 解码后的值转换为内容树
// 含图片或图标标记键的映射识别为素材指令节点
func Decode(v any) Node {
	switch x := v.(type) {
	case map[string]any:
		if isImageDirective(x) {
			return &ImageDirective{
				URL:    stringValue(x[keyImageURL]),
				Prompt: stringValue(x[keyImagePrompt]),
			}
		}
		if isIconDirective(x) {
			return &IconDirective{
				Query: stringValue(x[keyIconQuery]),
				URL:   stringValue(x[keyIconURL]),
			}
		}
		children := make(map[string]Node, len(x))
		for k, val := range x {
			children[k] = Decode(val)
		}
		return &Mapping{Children: children}
	case []any:
		items := make([]Node, len(x))
		for i, item := range x {
			items[i] = Decode(item)
		}
		return &Sequence{Items: items}
	default:
		return &Scalar{Value: x}
	}
}

// Encode 将内容树渲染回可持久化的 JSON 结构
// 已解析的素材指令以标记键形式输出，供前端编辑器直接消费
func Encode(n Node) any {
	switch x := n.(type) {
	case *Scalar:
		return x.Value
	case *Mapping:
		out := make(map[string]any, len(x.Children))
		for k, child := range x.Children {
			out[k] = Encode(child)
		}
		return out
	case *Sequence:
		out := make([]any, len(x.Items))
		for i, item := range x.Items {
			out[i] = Encode(item)
		}
		return out
	case *ImageDirective:
		url := x.ResolvedURL
		if url == "" {
			url = x.URL
		}
		return map[string]any{
			keyImageURL:    url,
			keyImagePrompt: x.Prompt,
		}
	case *IconDirective:
		url := x.ResolvedURL
		if url == "" {
			url = x.URL
		}
		return map[string]any{
			keyIconURL:   url,
			keyIconQuery: x.Query,
		}
	default:
		return nil
	}
}

// EncodeMapping 将映射根节点渲染为 map，内容树的根总是映射
func EncodeMapping(n Node) map[string]any {
	if m, ok := Encode(n).(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// directiveRef 指向内容树中一个素材指令及其字段路径
type directiveRef struct {
	path string
	node Node
}

// collectDirectives 深度优先收集内容树中的全部素材指令
// 映射键按字典序遍历，保证收集顺序稳定
func collectDirectives(n Node, path string, out *[]directiveRef) {
	switch x := n.(type) {
	case *Mapping:
		keys := make([]string, 0, len(x.Children))
		for k := range x.Children {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			childPath := k
			if path != "" {
				childPath = path + "." + k
			}
			collectDirectives(x.Children[k], childPath, out)
		}
	case *Sequence:
		for i, item := range x.Items {
			collectDirectives(item, fmt.Sprintf("%s[%d]", path, i), out)
		}
	case *ImageDirective, *IconDirective:
		*out = append(*out, directiveRef{path: path, node: x})
	}
}

func isImageDirective(m map[string]any) bool {
	_, hasURL := m[keyImageURL]
	_, hasPrompt := m[keyImagePrompt]
	return hasURL || hasPrompt
}

func isIconDirective(m map[string]any) bool {
	_, hasQuery := m[keyIconQuery]
	_, hasURL := m[keyIconURL]
	return hasQuery || hasURL
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}
