package validator

import (
	"errors"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

type validationErrorsImpl struct {
	fieldErrors []FieldError
	message     string
}

func (ve *validationErrorsImpl) Error() string {
	return ve.message
}

func (ve *validationErrorsImpl) Errors() []FieldError {
	return ve.fieldErrors
}

func (ve *validationErrorsImpl) HasErrors() bool {
	return len(ve.fieldErrors) > 0
}

type fieldErrorImpl struct {
	fieldError  validator.FieldError
	root        string
	message     string
	translators map[string]ut.Translator
}

func (fe *fieldErrorImpl) Field() string {
	return fe.fieldError.Field()
}

// Path 去掉根结构体名的命名空间，例如 "api.base_url"；匿名根结构体没有类型名，原样返回
func (fe *fieldErrorImpl) Path() string {
	ns := fe.fieldError.Namespace()
	if fe.root == "" {
		return ns
	}
	return strings.TrimPrefix(ns, fe.root+".")
}

func (fe *fieldErrorImpl) Tag() string {
	return fe.fieldError.Tag()
}

func (fe *fieldErrorImpl) Value() any {
	return fe.fieldError.Value()
}

func (fe *fieldErrorImpl) Message() string {
	return fe.message
}

// Translate 未启用的语言返回默认语言的消息
func (fe *fieldErrorImpl) Translate(lang string) string {
	if trans, ok := fe.translators[lang]; ok {
		return fe.fieldError.Translate(trans)
	}
	return fe.message
}

// findField 按字段名或路径查找第一个字段错误
func findField(err error, field string) (FieldError, bool) {
	var ve ValidationErrors
	if !errors.As(err, &ve) {
		return nil, false
	}
	for _, fe := range ve.Errors() {
		if fe.Field() == field || fe.Path() == field {
			return fe, true
		}
	}
	return nil, false
}

// GetFieldErrorMessage 返回字段的错误消息，field 可以是字段名或 "api.base_url" 形式的路径
func GetFieldErrorMessage(err error, field string) string {
	if fe, ok := findField(err, field); ok {
		return fe.Message()
	}
	return ""
}

// HasFieldError 检查指定字段是否校验失败
func HasFieldError(err error, field string) bool {
	_, ok := findField(err, field)
	return ok
}

// IsValidationError 检查错误链中是否有校验错误
func IsValidationError(err error) bool {
	var ve ValidationErrors
	return errors.As(err, &ve)
}
