package desensitize

import (
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/kochabx/apiclient/errors"
)

// Rule 脱敏规则
type Rule interface {
	Name() string
	Enabled() bool
	SetEnabled(enabled bool)
	// Process 返回脱敏后的字符串
	Process(s string) string
}

// toggle 规则的启用状态，零值表示启用
type toggle struct {
	disabled atomic.Bool
}

func (t *toggle) Enabled() bool {
	return !t.disabled.Load()
}

func (t *toggle) SetEnabled(enabled bool) {
	t.disabled.Store(!enabled)
}

// ContentRule 对整行文本做正则替换
type ContentRule struct {
	toggle
	name        string
	pattern     *regexp.Regexp
	replacement string
}

// NewContentRule 创建基于内容匹配的脱敏规则
func NewContentRule(name, pattern, replacement string) (*ContentRule, error) {
	regex, err := compile(name, pattern)
	if err != nil {
		return nil, err
	}

	return &ContentRule{
		name:        name,
		pattern:     regex,
		replacement: replacement,
	}, nil
}

// MustNewContentRule 创建规则，失败时 panic，仅用于包级变量
func MustNewContentRule(name, pattern, replacement string) *ContentRule {
	rule, err := NewContentRule(name, pattern, replacement)
	if err != nil {
		panic(err)
	}
	return rule
}

func (r *ContentRule) Name() string {
	return r.name
}

func (r *ContentRule) Process(s string) string {
	return r.pattern.ReplaceAllString(s, r.replacement)
}

// FieldRule 只替换 JSON 字符串字段的值，字段名和引号保持不变
type FieldRule struct {
	toggle
	name        string
	value       *regexp.Regexp
	replacement string
	field       *regexp.Regexp
}

// NewFieldRule 创建基于字段名匹配的脱敏规则
func NewFieldRule(name, fieldName, pattern, replacement string) (*FieldRule, error) {
	if fieldName == "" {
		return nil, errors.BadRequest("desensitize rule %q: field name cannot be empty", name)
	}

	value, err := compile(name, pattern)
	if err != nil {
		return nil, err
	}

	// 值允许包含转义字符，例如 \"
	field := regexp.MustCompile(`("` + regexp.QuoteMeta(fieldName) + `"\s*:\s*")((?:[^"\\]|\\.)*)(")`)

	return &FieldRule{
		name:        name,
		value:       value,
		replacement: replacement,
		field:       field,
	}, nil
}

// MustNewFieldRule 创建规则，失败时 panic，仅用于包级变量
func MustNewFieldRule(name, fieldName, pattern, replacement string) *FieldRule {
	rule, err := NewFieldRule(name, fieldName, pattern, replacement)
	if err != nil {
		panic(err)
	}
	return rule
}

func (r *FieldRule) Name() string {
	return r.name
}

func (r *FieldRule) Process(s string) string {
	indexes := r.field.FindAllStringSubmatchIndex(s, -1)
	if len(indexes) == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, loc := range indexes {
		// loc[4]:loc[5] 是字段值
		b.WriteString(s[last:loc[4]])
		b.WriteString(r.value.ReplaceAllString(s[loc[4]:loc[5]], r.replacement))
		last = loc[5]
	}
	b.WriteString(s[last:])
	return b.String()
}

func compile(name, pattern string) (*regexp.Regexp, error) {
	if name == "" {
		return nil, errors.BadRequest("desensitize rule name cannot be empty")
	}
	if pattern == "" {
		return nil, errors.BadRequest("desensitize rule %q: pattern cannot be empty", name)
	}

	regex, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Wrap(err, errors.InvalidArgument, "desensitize rule %q: invalid pattern %s", name, strconv.Quote(pattern))
	}
	return regex, nil
}
