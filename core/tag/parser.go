package tag

import (
	"encoding"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// ValueParser 将 default 标签中的字符串写入字段
type ValueParser interface {
	Parse(value reflect.Value, str string) error
}

// defaultParser 支持基本类型、time.Duration、encoding.TextUnmarshaler，
// 以及用 separator 分隔的切片和 "k:v" 形式的 map
type defaultParser struct {
	separator string
}

var durationType = reflect.TypeFor[time.Duration]()

func (p *defaultParser) Parse(value reflect.Value, str string) error {
	switch value.Kind() {
	case reflect.Slice:
		if value.Type().Elem().Kind() == reflect.Uint8 {
			value.SetBytes([]byte(str))
			return nil
		}
		return p.parseSlice(value, str)
	case reflect.Map:
		return p.parseMap(value, str)
	default:
		return parseScalar(value, str)
	}
}

func (p *defaultParser) parseSlice(value reflect.Value, str string) error {
	str = strings.TrimSpace(str)
	if str == "" {
		value.Set(reflect.MakeSlice(value.Type(), 0, 0))
		return nil
	}

	parts := strings.Split(str, p.separator)
	slice := reflect.MakeSlice(value.Type(), len(parts), len(parts))
	for i, part := range parts {
		if err := parseScalar(slice.Index(i), strings.TrimSpace(part)); err != nil {
			return err
		}
	}
	value.Set(slice)
	return nil
}

// parseMap 解析 "k:v<sep>k:v"，值中可以包含冒号，缺少冒号的项被忽略
func (p *defaultParser) parseMap(value reflect.Value, str string) error {
	m := reflect.MakeMap(value.Type())
	for pair := range strings.SplitSeq(str, p.separator) {
		k, v, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}

		key := reflect.New(value.Type().Key()).Elem()
		if err := parseScalar(key, strings.TrimSpace(k)); err != nil {
			return err
		}
		val := reflect.New(value.Type().Elem()).Elem()
		if err := parseScalar(val, strings.TrimSpace(v)); err != nil {
			return err
		}
		m.SetMapIndex(key, val)
	}
	value.Set(m)
	return nil
}

func parseScalar(value reflect.Value, str string) error {
	if value.CanAddr() {
		if u, ok := value.Addr().Interface().(encoding.TextUnmarshaler); ok {
			return u.UnmarshalText([]byte(str))
		}
	}

	switch value.Kind() {
	case reflect.String:
		value.SetString(str)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if value.Type() == durationType {
			d, err := time.ParseDuration(strings.TrimSpace(str))
			if err != nil {
				return err
			}
			value.SetInt(int64(d))
			return nil
		}
		n, err := strconv.ParseInt(strings.TrimSpace(str), 10, value.Type().Bits())
		if err != nil {
			return err
		}
		value.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(strings.TrimSpace(str), 10, value.Type().Bits())
		if err != nil {
			return err
		}
		value.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(strings.TrimSpace(str), value.Type().Bits())
		if err != nil {
			return err
		}
		value.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(str))
		if err != nil {
			return err
		}
		value.SetBool(b)
	default:
		return ErrUnsupportedType
	}
	return nil
}
