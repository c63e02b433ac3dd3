package validator

import (
	"context"

	"github.com/go-playground/validator/v10"
)

// Validator 校验器
type Validator interface {
	Struct(s any) error
	StructCtx(ctx context.Context, s any) error

	// GetValidator 返回底层的 go-playground 实例，用于注册自定义规则
	GetValidator() *validator.Validate
}

// ValidationErrors 一次校验中的全部字段错误，Error() 为以 "; " 连接的翻译后消息
type ValidationErrors interface {
	error
	Errors() []FieldError
	HasErrors() bool
}

// FieldError 单个字段的校验错误
type FieldError interface {
	// Field 字段名，优先取 mapstructure 标签，其次 json 标签
	Field() string
	// Path 不含根结构体名的完整路径，例如 "api.base_url"
	Path() string
	Tag() string
	Value() any
	// Message 默认语言下的错误消息
	Message() string
	Translate(lang string) string
}

// ValidationOption 校验器选项
type ValidationOption func(*validatorImpl)

// WithTagName 设置校验标签名，默认 "validate"
func WithTagName(tagName string) ValidationOption {
	return func(v *validatorImpl) {
		v.validator.SetTagName(tagName)
	}
}

// WithTranslator 设置启用的翻译语言，取值 "en"、"zh"，替换默认的 en 和 zh
func WithTranslator(langs ...string) ValidationOption {
	return func(v *validatorImpl) {
		v.enabledLangs = langs
	}
}

// WithDefaultLang 设置 Message() 和 Error() 使用的语言，默认 "en"
func WithDefaultLang(lang string) ValidationOption {
	return func(v *validatorImpl) {
		v.defaultLang = lang
	}
}
