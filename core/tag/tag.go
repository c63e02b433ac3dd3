package tag

import (
	"reflect"
)

// ApplyDefaults 按 default 标签为零值字段填充默认值，target 必须是结构体指针
//
// 已有值的字段保持不变。嵌套结构体、结构体指针以及切片中已有的结构体元素会递归处理，
// nil 的结构体指针会被分配。标记为 `default:"-"` 的字段整体跳过。
//
//	type Config struct {
//	    BaseURL string            `default:"http://localhost:8080"`
//	    Headers map[string]string `default:"Accept:application/json"`
//	    Timeout time.Duration     `default:"30s"`
//	}
func ApplyDefaults(target any, opts ...Option) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer {
		return ErrTargetMustBePointer
	}
	if v.IsNil() {
		return ErrTargetIsNil
	}
	if v.Elem().Kind() != reflect.Struct {
		return ErrUnsupportedType
	}

	w := &walker{options: newOptions(opts)}
	return w.walkStruct(v.Elem(), "")
}

type walker struct {
	options *Options
	depth   int
}

func (w *walker) walkStruct(value reflect.Value, path string) error {
	if w.depth >= w.options.maxDepth {
		return ErrMaxDepthExceeded
	}
	w.depth++
	defer func() { w.depth-- }()

	typ := value.Type()
	for i := range typ.NumField() {
		field := typ.Field(i)
		fv := value.Field(i)
		if !fv.CanSet() {
			continue
		}

		tagValue, tagged := field.Tag.Lookup(w.options.tagName)
		if tagValue == "-" {
			continue
		}

		fieldPath := field.Name
		if path != "" {
			fieldPath = path + "." + field.Name
		}

		if err := w.walkField(fv, tagValue, tagged, fieldPath); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) walkField(value reflect.Value, tagValue string, tagged bool, path string) error {
	switch value.Kind() {
	case reflect.Struct:
		return w.walkStruct(value, path)

	case reflect.Pointer:
		elem := value.Type().Elem()
		if elem.Kind() == reflect.Struct {
			if value.IsNil() {
				value.Set(reflect.New(elem))
			}
			return w.walkStruct(value.Elem(), path)
		}
		if !value.IsNil() || !tagged {
			return nil
		}
		ptr := reflect.New(elem)
		if err := w.parse(ptr.Elem(), tagValue, path); err != nil {
			return err
		}
		value.Set(ptr)
		return nil

	case reflect.Slice:
		if value.Len() > 0 {
			return w.walkElements(value, path)
		}
	}

	if !tagged || !value.IsZero() {
		return nil
	}
	return w.parse(value, tagValue, path)
}

// walkElements 只处理切片中已有的结构体元素，不改变切片本身
func (w *walker) walkElements(value reflect.Value, path string) error {
	for i := range value.Len() {
		elem := value.Index(i)
		if elem.Kind() == reflect.Pointer {
			if elem.IsNil() {
				continue
			}
			elem = elem.Elem()
		}
		if elem.Kind() != reflect.Struct {
			return nil
		}
		if err := w.walkStruct(elem, path); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) parse(value reflect.Value, tagValue, path string) error {
	if err := w.options.parser.Parse(value, tagValue); err != nil {
		return &FieldError{Path: path, Tag: w.options.tagName, Value: tagValue, Err: err}
	}
	return nil
}
