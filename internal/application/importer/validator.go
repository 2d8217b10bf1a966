package importer

import (
	"fmt"
	"sort"

	"deck-import-api/internal/domain/entity"
)

// UnknownFieldPolicy 未声明字段处理策略
type UnknownFieldPolicy string

const (
	PolicyDrop   UnknownFieldPolicy = "drop"
	PolicyReject UnknownFieldPolicy = "reject"
)

// Validator 幻灯片内容校验器
// 校验从不快速失败，单张幻灯片的所有字段错误一次性收集完整
type Validator struct {
	policy UnknownFieldPolicy
}

// NewValidator 创建内容校验器
func NewValidator(policy UnknownFieldPolicy) *Validator {
	if policy != PolicyReject {
		policy = PolicyDrop
	}
	return &Validator{policy: policy}
}

// ValidateSlide 按布局 Schema 校验单张幻灯片内容
// 返回只含已声明字段的净化内容与收集到的全部字段错误
func (v *Validator) ValidateSlide(schema *entity.LayoutSchema, content map[string]any) (map[string]any, []FieldError) {
	var errs []FieldError
	sanitized := make(map[string]any, len(schema.Fields))

	// 字段按名称排序，错误输出顺序稳定
	names := make([]string, 0, len(schema.Fields))
	for name := range schema.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		spec := schema.Fields[name]
		raw, present := content[name]
		if !present || raw == nil {
			if spec.Required {
				errs = append(errs, FieldError{
					Path:     name,
					Code:     FieldCodeMissingRequired,
					Expected: string(spec.Kind),
					Detail:   fmt.Sprintf("field %q is required", name),
				})
			}
			continue
		}

		fieldErrs := validateField(name, spec.Kind, raw)
		if len(fieldErrs) > 0 {
			errs = append(errs, fieldErrs...)
			continue
		}
		sanitized[name] = raw
	}

	// 未声明字段按策略处理
	if v.policy == PolicyReject {
		extras := make([]string, 0)
		for name := range content {
			if _, declared := schema.Fields[name]; !declared {
				extras = append(extras, name)
			}
		}
		sort.Strings(extras)
		for _, name := range extras {
			errs = append(errs, FieldError{
				Path:   name,
				Code:   FieldCodeUnknownField,
				Detail: fmt.Sprintf("field %q is not declared by layout %q", name, schema.ID),
			})
		}
	}

	return sanitized, errs
}

// validateField 按字段类型校验单个字段值
func validateField(path string, kind entity.FieldKind, raw any) []FieldError {
	switch kind {
	case entity.FieldKindString:
		return checkString(path, raw)
	case entity.FieldKindBool:
		if _, ok := raw.(bool); !ok {
			return []FieldError{typeError(path, "bool", raw)}
		}
		return nil
	case entity.FieldKindImage:
		return checkImage(path, raw)
	case entity.FieldKindIcon:
		return checkIcon(path, raw)
	case entity.FieldKindBulletList:
		return checkBulletList(path, raw)
	case entity.FieldKindMetricList:
		return checkMetricList(path, raw)
	case entity.FieldKindSectionList:
		return checkSectionList(path, raw)
	case entity.FieldKindTeamList:
		return checkTeamList(path, raw)
	case entity.FieldKindChart:
		return checkChart(path, raw)
	case entity.FieldKindTable:
		return checkTable(path, raw)
	default:
		return []FieldError{{
			Path:   path,
			Code:   FieldCodeWrongType,
			Detail: fmt.Sprintf("unsupported field kind %q", kind),
		}}
	}
}

func checkString(path string, raw any) []FieldError {
	if _, ok := raw.(string); !ok {
		return []FieldError{typeError(path, "string", raw)}
	}
	return nil
}

// checkScalarText 标签、数值等展示用字段接受字符串或数字，按不透明文本处理
func checkScalarText(path string, raw any) []FieldError {
	switch raw.(type) {
	case string, float64, int, int64:
		return nil
	default:
		return []FieldError{typeError(path, "string or number", raw)}
	}
}

func checkImage(path string, raw any) []FieldError {
	m, ok := raw.(map[string]any)
	if !ok {
		return []FieldError{typeError(path, "image directive object", raw)}
	}
	if !isImageDirective(m) {
		return []FieldError{{
			Path:     path,
			Code:     FieldCodeWrongType,
			Expected: "image directive object",
			Got:      "object",
			Detail:   fmt.Sprintf("object at %q carries neither %s nor %s", path, keyImageURL, keyImagePrompt),
		}}
	}
	return nil
}

func checkIcon(path string, raw any) []FieldError {
	m, ok := raw.(map[string]any)
	if !ok {
		return []FieldError{typeError(path, "icon directive object", raw)}
	}
	if !isIconDirective(m) {
		return []FieldError{{
			Path:     path,
			Code:     FieldCodeWrongType,
			Expected: "icon directive object",
			Got:      "object",
			Detail:   fmt.Sprintf("object at %q carries neither %s nor %s", path, keyIconQuery, keyIconURL),
		}}
	}
	return nil
}

func checkBulletList(path string, raw any) []FieldError {
	items, errs := checkList(path, raw)
	if errs != nil {
		return errs
	}
	for i, item := range items {
		p := fmt.Sprintf("%s[%d]", path, i)
		m, ok := item.(map[string]any)
		if !ok {
			errs = append(errs, typeError(p, "bullet object", item))
			continue
		}
		errs = append(errs, requireString(p, m, "title")...)
		if desc, ok := m["description"]; ok && desc != nil {
			errs = append(errs, checkString(p+".description", desc)...)
		}
		if icon, ok := m["icon"]; ok && icon != nil {
			errs = append(errs, checkIcon(p+".icon", icon)...)
		}
	}
	return errs
}

func checkMetricList(path string, raw any) []FieldError {
	items, errs := checkList(path, raw)
	if errs != nil {
		return errs
	}
	for i, item := range items {
		p := fmt.Sprintf("%s[%d]", path, i)
		m, ok := item.(map[string]any)
		if !ok {
			errs = append(errs, typeError(p, "metric object", item))
			continue
		}
		if val, ok := m["value"]; !ok || val == nil {
			errs = append(errs, missingError(p+".value", "string or number"))
		} else {
			errs = append(errs, checkScalarText(p+".value", val)...)
		}
		errs = append(errs, requireString(p, m, "label")...)
	}
	return errs
}

func checkSectionList(path string, raw any) []FieldError {
	items, errs := checkList(path, raw)
	if errs != nil {
		return errs
	}
	for i, item := range items {
		p := fmt.Sprintf("%s[%d]", path, i)
		m, ok := item.(map[string]any)
		if !ok {
			errs = append(errs, typeError(p, "section object", item))
			continue
		}
		errs = append(errs, requireString(p, m, "title")...)
		if page, ok := m["page"]; ok && page != nil {
			errs = append(errs, checkScalarText(p+".page", page)...)
		}
	}
	return errs
}

func checkTeamList(path string, raw any) []FieldError {
	items, errs := checkList(path, raw)
	if errs != nil {
		return errs
	}
	for i, item := range items {
		p := fmt.Sprintf("%s[%d]", path, i)
		m, ok := item.(map[string]any)
		if !ok {
			errs = append(errs, typeError(p, "team member object", item))
			continue
		}
		errs = append(errs, requireString(p, m, "name")...)
		errs = append(errs, requireString(p, m, "position")...)
		errs = append(errs, requireString(p, m, "description")...)
		if img, ok := m["image"]; !ok || img == nil {
			errs = append(errs, missingError(p+".image", "image directive object"))
		} else {
			errs = append(errs, checkImage(p+".image", img)...)
		}
	}
	return errs
}

func checkChart(path string, raw any) []FieldError {
	m, ok := raw.(map[string]any)
	if !ok {
		return []FieldError{typeError(path, "chart object", raw)}
	}

	var errs []FieldError
	switch t := m["type"].(type) {
	case string:
		if t != "pie" && t != "bar" {
			errs = append(errs, FieldError{
				Path:     path + ".type",
				Code:     FieldCodeInvalidEnum,
				Expected: "pie | bar",
				Got:      t,
				Detail:   fmt.Sprintf("chart type %q is not supported", t),
			})
		}
	case nil:
		errs = append(errs, missingError(path+".type", "pie | bar"))
	default:
		errs = append(errs, typeError(path+".type", "string", m["type"]))
	}

	data, ok := m["data"].([]any)
	if !ok {
		errs = append(errs, typeError(path+".data", "array of data points", m["data"]))
		return errs
	}
	if len(data) == 0 {
		errs = append(errs, FieldError{
			Path:   path + ".data",
			Code:   FieldCodeEmptyList,
			Detail: "chart needs at least one data point",
		})
	}
	for i, item := range data {
		p := fmt.Sprintf("%s.data[%d]", path, i)
		point, ok := item.(map[string]any)
		if !ok {
			errs = append(errs, typeError(p, "data point object", item))
			continue
		}
		errs = append(errs, requireString(p, point, "name")...)
		switch point["value"].(type) {
		case float64, int, int64:
		case nil:
			errs = append(errs, missingError(p+".value", "number"))
		default:
			errs = append(errs, typeError(p+".value", "number", point["value"]))
		}
	}
	return errs
}

func checkTable(path string, raw any) []FieldError {
	m, ok := raw.(map[string]any)
	if !ok {
		return []FieldError{typeError(path, "table object", raw)}
	}

	var errs []FieldError
	headers, ok := m["headers"].([]any)
	if !ok {
		errs = append(errs, typeError(path+".headers", "array of strings", m["headers"]))
		return errs
	}
	if len(headers) == 0 {
		errs = append(errs, FieldError{
			Path:   path + ".headers",
			Code:   FieldCodeEmptyList,
			Detail: "table needs at least one header",
		})
	}
	for i, h := range headers {
		if _, ok := h.(string); !ok {
			errs = append(errs, typeError(fmt.Sprintf("%s.headers[%d]", path, i), "string", h))
		}
	}

	rows, ok := m["rows"].([]any)
	if !ok {
		errs = append(errs, typeError(path+".rows", "array of rows", m["rows"]))
		return errs
	}
	for i, r := range rows {
		p := fmt.Sprintf("%s.rows[%d]", path, i)
		cells, ok := r.([]any)
		if !ok {
			errs = append(errs, typeError(p, "array of cells", r))
			continue
		}
		// 每行单元格数量必须与表头数量一致
		if len(cells) != len(headers) {
			errs = append(errs, FieldError{
				Path:     p,
				Code:     FieldCodeRowLengthMismatch,
				Expected: fmt.Sprintf("%d cells", len(headers)),
				Got:      fmt.Sprintf("%d cells", len(cells)),
				Detail:   "row length must match header count",
			})
		}
		for j, c := range cells {
			if cellErrs := checkScalarText(fmt.Sprintf("%s[%d]", p, j), c); cellErrs != nil {
				errs = append(errs, cellErrs...)
			}
		}
	}
	return errs
}

// checkList 校验值为非空数组，失败时返回终止后续元素校验的错误
func checkList(path string, raw any) ([]any, []FieldError) {
	items, ok := raw.([]any)
	if !ok {
		return nil, []FieldError{typeError(path, "array", raw)}
	}
	if len(items) == 0 {
		return nil, []FieldError{{
			Path:   path,
			Code:   FieldCodeEmptyList,
			Detail: "list must not be empty",
		}}
	}
	return items, nil
}

func requireString(basePath string, m map[string]any, key string) []FieldError {
	path := basePath + "." + key
	v, ok := m[key]
	if !ok || v == nil {
		return []FieldError{missingError(path, "string")}
	}
	return checkString(path, v)
}

func typeError(path, expected string, got any) FieldError {
	return FieldError{
		Path:     path,
		Code:     FieldCodeWrongType,
		Expected: expected,
		Got:      typeName(got),
		Detail:   fmt.Sprintf("expected %s at %q", expected, path),
	}
}

func missingError(path, expected string) FieldError {
	return FieldError{
		Path:     path,
		Code:     FieldCodeMissingRequired,
		Expected: expected,
		Detail:   fmt.Sprintf("field %q is required", path),
	}
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case float64, int, int64:
		return "number"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}
