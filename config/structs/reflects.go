package structs

import (
	"reflect"
	"strconv"
	"strings"
)

// BuildDefault 按 default 标签填充 obj 的字段，嵌套结构体递归处理
func BuildDefault[T any](obj T) T {
	v := reflect.ValueOf(&obj).Elem()
	if v.Kind() != reflect.Struct {
		panic("BuildDefault: obj must be a struct")
	}
	fillDefault(v)
	return obj
}

func fillDefault(elem reflect.Value) {
	t := elem.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fv := elem.Field(i)
		if !fv.CanSet() {
			continue
		}

		defaultTag, ok := field.Tag.Lookup("default")
		kind := fv.Kind()
		if ok && defaultTag != "" {
			setDefault(fv, defaultTag)
		}

		// 值类型结构体递归
		if kind == reflect.Struct {
			fillDefault(fv)
			continue
		}

		// 指向结构体的指针，确保已分配并递归
		if kind == reflect.Pointer && fv.Type().Elem().Kind() == reflect.Struct {
			if fv.IsNil() {
				fv.Set(reflect.New(fv.Type().Elem()))
			}
			fillDefault(fv.Elem())
		}
	}
}

func setDefault(fv reflect.Value, tag string) {
	switch fv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		deg, err := strconv.ParseInt(tag, 10, 64)
		if err != nil {
			panic(err)
		}
		fv.SetInt(deg)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		deg, err := strconv.ParseUint(tag, 10, 64)
		if err != nil {
			panic(err)
		}
		fv.SetUint(deg)
	case reflect.String:
		fv.SetString(tag)
	case reflect.Float32, reflect.Float64:
		deg, err := strconv.ParseFloat(tag, 64)
		if err != nil {
			panic(err)
		}
		fv.SetFloat(deg)
	case reflect.Bool:
		deg, err := strconv.ParseBool(tag)
		if err != nil {
			panic(err)
		}
		fv.SetBool(deg)
	case reflect.Slice:
		// 字符串切片用逗号分隔
		if fv.Type().Elem().Kind() == reflect.String {
			parts := strings.Split(tag, ",")
			s := reflect.MakeSlice(fv.Type(), len(parts), len(parts))
			for i, p := range parts {
				s.Index(i).SetString(strings.TrimSpace(p))
			}
			fv.Set(s)
		}
	}
}
