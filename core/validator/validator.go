package validator

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
)

type validatorImpl struct {
	validator    *validator.Validate
	uni          *ut.UniversalTranslator
	translators  map[string]ut.Translator
	enabledLangs []string
	defaultLang  string
}

// Validate 全局校验器，config 包默认使用它
var Validate = New()

// registerFuncs 各语言的默认翻译注册函数
var registerFuncs = map[string]func(*validator.Validate, ut.Translator) error{
	"en": en_translations.RegisterDefaultTranslations,
	"zh": zh_translations.RegisterDefaultTranslations,
}

// New 创建校验器，默认启用 en 和 zh 翻译，错误消息使用英文
func New(opts ...ValidationOption) Validator {
	enLocale := en.New()
	v := &validatorImpl{
		validator:    validator.New(),
		uni:          ut.New(enLocale, enLocale, zh.New()),
		translators:  make(map[string]ut.Translator),
		enabledLangs: []string{"en", "zh"},
		defaultLang:  "en",
	}
	for _, opt := range opts {
		opt(v)
	}

	for _, lang := range v.enabledLangs {
		register, ok := registerFuncs[lang]
		if !ok {
			continue
		}
		if trans, found := v.uni.GetTranslator(lang); found {
			v.translators[lang] = trans
			_ = register(v.validator, trans)
		}
	}
	v.registerBuiltin()

	return v
}

func (v *validatorImpl) Struct(s any) error {
	return v.StructCtx(context.Background(), s)
}

func (v *validatorImpl) StructCtx(ctx context.Context, s any) error {
	if s == nil {
		return errors.New("validator: target cannot be nil")
	}
	if err := v.validator.StructCtx(ctx, s); err != nil {
		return v.translateError(err, rootName(s))
	}
	return nil
}

// rootName 根结构体的类型名，匿名结构体为空
func rootName(s any) string {
	t := reflect.TypeOf(s)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// GetValidator 获取底层的validator实例
func (v *validatorImpl) GetValidator() *validator.Validate {
	return v.validator
}

// translateError 将 go-playground 的错误转换为默认语言的 ValidationErrors，
// 默认语言未启用时原样返回
func (v *validatorImpl) translateError(err error, root string) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	trans, ok := v.translators[v.defaultLang]
	if !ok {
		return err
	}

	fieldErrors := make([]FieldError, 0, len(verrs))
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fe.Translate(trans)
		fieldErrors = append(fieldErrors, &fieldErrorImpl{
			fieldError:  fe,
			root:        root,
			message:     msg,
			translators: v.translators,
		})
		messages = append(messages, msg)
	}

	return &validationErrorsImpl{
		fieldErrors: fieldErrors,
		message:     strings.Join(messages, "; "),
	}
}

// TagURLPath 校验以 "/" 开头的 URL 路径
const TagURLPath = "urlpath"

// registerBuiltin 注册内置校验规则，并让错误中的字段名使用配置键名
func (v *validatorImpl) registerBuiltin() {
	v.validator.RegisterTagNameFunc(fieldName)
	_ = v.validator.RegisterValidation(TagURLPath, isURLPath)

	if trans, ok := v.translators["en"]; ok {
		_ = v.validator.RegisterTranslation(TagURLPath, trans,
			func(ut ut.Translator) error {
				return ut.Add(TagURLPath, "{0} must be a path starting with '/'", true)
			},
			translateField,
		)
	}
	if trans, ok := v.translators["zh"]; ok {
		_ = v.validator.RegisterTranslation(TagURLPath, trans,
			func(ut ut.Translator) error {
				return ut.Add(TagURLPath, "{0}必须是以'/'开头的路径", true)
			},
			translateField,
		)
	}
}

func isURLPath(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return strings.HasPrefix(s, "/") && !strings.ContainsAny(s, " \t\n")
}

func translateField(ut ut.Translator, fe validator.FieldError) string {
	msg, err := ut.T(fe.Tag(), fe.Field())
	if err != nil {
		return fe.Error()
	}
	return msg
}

// fieldName 依次取 mapstructure、json 标签作为字段名
func fieldName(field reflect.StructField) string {
	for _, key := range []string{"mapstructure", "json"} {
		name, _, _ := strings.Cut(field.Tag.Get(key), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return field.Name
}
