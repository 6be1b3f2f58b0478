package json

import (
	"encoding"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Serializer 领域类型自定义写出
type Serializer interface {
	WriteJSON(w *Writer)
}

// Deserializer 领域类型自定义读取
type Deserializer interface {
	ReadJSON(r *Reader) error
}

var (
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	textMarshalerType   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	serializerType      = reflect.TypeOf((*Serializer)(nil)).Elem()
	deserializerType    = reflect.TypeOf((*Deserializer)(nil)).Elem()
)

// Read 按 out 的类型读取下一个值，失败时游标回到该值的起始记号
func (r *Reader) Read(out any) error {
	m := r.markValue()
	if err := r.read(out); err != nil {
		r.Restore(m)
		return err
	}
	return nil
}

// TryRead 读取失败时报告诊断并跳过该值，返回 false；EOF 错误直接返回
func (r *Reader) TryRead(out any) (bool, error) {
	m := r.markValue()
	err := r.read(out)
	if err == nil {
		return true, nil
	}
	if IsEOF(err) {
		return false, err
	}
	r.Report(SeverityError, err)
	r.Restore(m)
	if err := r.SkipValue(); err != nil {
		return false, err
	}
	return false, nil
}

func (r *Reader) read(out any) error {
	switch v := out.(type) {
	case Deserializer:
		return v.ReadJSON(r)
	case *string:
		s, err := r.GetString()
		if err == nil {
			*v = s
		}
		return err
	case *bool:
		b, err := r.GetBool()
		if err == nil {
			*v = b
		}
		return err
	case *int:
		i, err := r.GetInt()
		if err == nil {
			*v = i
		}
		return err
	case *int64:
		i, err := r.GetInt64()
		if err == nil {
			*v = i
		}
		return err
	case *float64:
		f, err := r.GetFloat()
		if err == nil {
			*v = f
		}
		return err
	}
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("json: Read requires a non-nil pointer, got %T", out)
	}
	return r.readValue(rv.Elem())
}

func (r *Reader) readValue(v reflect.Value) error {
	if v.CanAddr() {
		pt := v.Addr().Type()
		if pt.Implements(deserializerType) {
			return v.Addr().Interface().(Deserializer).ReadJSON(r)
		}
		if pt.Implements(textUnmarshalerType) {
			return r.readText(v.Addr().Interface().(encoding.TextUnmarshaler))
		}
	}
	switch v.Kind() {
	case reflect.Pointer:
		if r.PeekKind() == TokenNull {
			if err := r.GetNull(); err != nil {
				return err
			}
			v.SetZero()
			return nil
		}
		elem := reflect.New(v.Type().Elem())
		if err := r.readValue(elem.Elem()); err != nil {
			return err
		}
		v.Set(elem)
		return nil
	case reflect.String:
		s, err := r.GetString()
		if err != nil {
			return err
		}
		v.SetString(s)
		return nil
	case reflect.Bool:
		b, err := r.GetBool()
		if err != nil {
			return err
		}
		v.SetBool(b)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		start := r.valueStart()
		i, err := r.GetInt64()
		if err != nil {
			return err
		}
		if v.OverflowInt(i) {
			return r.ErrorAt(start, "integer out of range")
		}
		v.SetInt(i)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		start := r.valueStart()
		i, err := r.GetInt64()
		if err != nil {
			return err
		}
		if i < 0 || v.OverflowUint(uint64(i)) {
			return r.ErrorAt(start, "integer out of range")
		}
		v.SetUint(uint64(i))
		return nil
	case reflect.Float32, reflect.Float64:
		f, err := r.GetFloat()
		if err != nil {
			return err
		}
		v.SetFloat(f)
		return nil
	case reflect.Slice:
		return r.readSlice(v)
	case reflect.Array:
		return r.readArray(v)
	case reflect.Map:
		if isSet(v.Type()) {
			return r.readSet(v)
		}
		return r.readMap(v)
	case reflect.Interface:
		if v.NumMethod() == 0 {
			val, err := r.GetValue()
			if err != nil {
				return err
			}
			if x := val.Interface(); x != nil {
				v.Set(reflect.ValueOf(x))
			} else {
				v.SetZero()
			}
			return nil
		}
	}
	return fmt.Errorf("json: unsupported type %s", v.Type())
}

// readText 以字符串形式读取枚举等文本类型
func (r *Reader) readText(u encoding.TextUnmarshaler) error {
	start := r.valueStart()
	s, err := r.GetString()
	if err != nil {
		return err
	}
	if err := u.UnmarshalText([]byte(s)); err != nil {
		return r.ErrorAt(start, fmt.Sprintf("invalid value %q: %v", s, err))
	}
	return nil
}

func isSet(t reflect.Type) bool {
	e := t.Elem()
	return e.Kind() == reflect.Struct && e.NumField() == 0
}

// readSlice 逐个读取元素，单个元素失败只丢弃该元素
func (r *Reader) readSlice(v reflect.Value) error {
	if err := r.StartArray(); err != nil {
		return err
	}
	out := reflect.MakeSlice(v.Type(), 0, 0)
	for {
		done, err := r.EndArray()
		if err != nil {
			return err
		}
		if done {
			break
		}
		elem := reflect.New(v.Type().Elem())
		ok, err := r.TryRead(elem.Interface())
		if err != nil {
			return err
		}
		if ok {
			out = reflect.Append(out, elem.Elem())
		}
	}
	v.Set(out)
	return nil
}

// readArray 定长数组要求元素个数完全一致
func (r *Reader) readArray(v reflect.Value) error {
	start := r.valueStart()
	if err := r.StartArray(); err != nil {
		return err
	}
	n := 0
	for {
		done, err := r.EndArray()
		if err != nil {
			return err
		}
		if done {
			break
		}
		if n >= v.Len() {
			return r.ErrorAt(start, fmt.Sprintf("too many elements, expected %d", v.Len()))
		}
		if err := r.readValue(v.Index(n)); err != nil {
			return err
		}
		n++
	}
	if n != v.Len() {
		return r.ErrorAt(start, fmt.Sprintf("expected %d elements but got %d", v.Len(), n))
	}
	return nil
}

func (r *Reader) readMap(v reflect.Value) error {
	t := v.Type()
	if err := r.StartObject(); err != nil {
		return err
	}
	m := reflect.MakeMap(t)
	for {
		done, err := r.EndObject()
		if err != nil {
			return err
		}
		if done {
			break
		}
		nameOff := r.valueStart()
		name, err := r.GetMemberName()
		if err != nil {
			return err
		}
		if strings.HasPrefix(name, "//") {
			if err := r.SkipValue(); err != nil {
				return err
			}
			continue
		}
		key := reflect.New(t.Key()).Elem()
		if err := decodeKey(key, name); err != nil {
			r.Report(SeverityError, r.ErrorAt(nameOff, fmt.Sprintf("invalid key %q: %v", name, err)))
			if err := r.SkipValue(); err != nil {
				return err
			}
			continue
		}
		val := reflect.New(t.Elem())
		ok, err := r.TryRead(val.Interface())
		if err != nil {
			return err
		}
		if ok {
			m.SetMapIndex(key, val.Elem())
		}
	}
	v.Set(m)
	return nil
}

func (r *Reader) readSet(v reflect.Value) error {
	t := v.Type()
	if err := r.StartArray(); err != nil {
		return err
	}
	m := reflect.MakeMap(t)
	for {
		done, err := r.EndArray()
		if err != nil {
			return err
		}
		if done {
			break
		}
		key := reflect.New(t.Key())
		ok, err := r.TryRead(key.Interface())
		if err != nil {
			return err
		}
		if ok {
			m.SetMapIndex(key.Elem(), reflect.New(t.Elem()).Elem())
		}
	}
	v.Set(m)
	return nil
}

func decodeKey(key reflect.Value, name string) error {
	if u, ok := key.Addr().Interface().(encoding.TextUnmarshaler); ok {
		return u.UnmarshalText([]byte(name))
	}
	switch key.Kind() {
	case reflect.String:
		key.SetString(name)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(name, 10, key.Type().Bits())
		if err != nil {
			return err
		}
		key.SetInt(i)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(name, 10, key.Type().Bits())
		if err != nil {
			return err
		}
		key.SetUint(u)
		return nil
	}
	return fmt.Errorf("unsupported key type %s", key.Type())
}

// Write 按 v 的类型写出
func (w *Writer) Write(v any) {
	switch x := v.(type) {
	case nil:
		w.Null()
	case Serializer:
		// 值接收者的 WriteJSON 不能通过 nil 指针调用
		if rv := reflect.ValueOf(x); rv.Kind() == reflect.Pointer && rv.IsNil() {
			w.Null()
			return
		}
		x.WriteJSON(w)
	case string:
		w.String(x)
	case bool:
		w.Bool(x)
	case int:
		w.Int(x)
	case int64:
		w.Int64(x)
	case float64:
		w.Float(x)
	default:
		w.writeValue(reflect.ValueOf(v))
	}
}

func (w *Writer) writeValue(v reflect.Value) {
	if !v.IsValid() {
		w.Null()
		return
	}
	t := v.Type()
	if t.Implements(serializerType) {
		if v.Kind() == reflect.Pointer && v.IsNil() {
			w.Null()
			return
		}
		v.Interface().(Serializer).WriteJSON(w)
		return
	}
	if v.CanAddr() && reflect.PointerTo(t).Implements(serializerType) {
		v.Addr().Interface().(Serializer).WriteJSON(w)
		return
	}
	if t.Implements(textMarshalerType) && v.Kind() != reflect.Pointer {
		text, err := v.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			w.fail(err)
			return
		}
		w.String(string(text))
		return
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			w.Null()
			return
		}
		w.writeValue(v.Elem())
	case reflect.String:
		w.String(v.String())
	case reflect.Bool:
		w.Bool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		w.Int64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		w.Uint64(v.Uint())
	case reflect.Float32, reflect.Float64:
		w.Float(v.Float())
	case reflect.Slice, reflect.Array:
		w.StartArray()
		for i := 0; i < v.Len(); i++ {
			w.writeValue(v.Index(i))
		}
		w.EndArray()
	case reflect.Map:
		keys, err := sortedKeys(v)
		if err != nil {
			w.fail(err)
			return
		}
		if isSet(t) {
			w.StartArray()
			for _, k := range keys {
				w.writeValue(k.v)
			}
			w.EndArray()
			return
		}
		w.StartObject()
		for _, k := range keys {
			w.Name(k.text)
			w.writeValue(v.MapIndex(k.v))
		}
		w.EndObject()
	default:
		w.fail(fmt.Errorf("json: unsupported type %s", t))
	}
}

type mapKey struct {
	v    reflect.Value
	text string
}

// sortedKeys 字符串键按字母序，整数类键（含枚举）按数值即声明顺序
func sortedKeys(m reflect.Value) ([]mapKey, error) {
	keys := make([]mapKey, 0, m.Len())
	for _, k := range m.MapKeys() {
		text, err := keyText(k)
		if err != nil {
			return nil, err
		}
		keys = append(keys, mapKey{v: k, text: text})
	}
	switch m.Type().Key().Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		sort.Slice(keys, func(i, j int) bool { return keys[i].v.Int() < keys[j].v.Int() })
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		sort.Slice(keys, func(i, j int) bool { return keys[i].v.Uint() < keys[j].v.Uint() })
	default:
		sort.Slice(keys, func(i, j int) bool { return keys[i].text < keys[j].text })
	}
	return keys, nil
}

func keyText(k reflect.Value) (string, error) {
	if tm, ok := k.Interface().(encoding.TextMarshaler); ok {
		text, err := tm.MarshalText()
		if err != nil {
			return "", err
		}
		return string(text), nil
	}
	switch k.Kind() {
	case reflect.String:
		return k.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(k.Uint(), 10), nil
	}
	return "", fmt.Errorf("json: unsupported key type %s", k.Type())
}

// Pair 二元组，写作 [first,second]
type Pair[A, B any] struct {
	First  A
	Second B
}

// WriteJSON 实现 Serializer
func (p Pair[A, B]) WriteJSON(w *Writer) {
	w.StartArray()
	w.Write(p.First)
	w.Write(p.Second)
	w.EndArray()
}

// ReadJSON 实现 Deserializer
func (p *Pair[A, B]) ReadJSON(r *Reader) error {
	start := r.valueStart()
	if err := r.StartArray(); err != nil {
		return err
	}
	if err := r.readValue(reflect.ValueOf(&p.First).Elem()); err != nil {
		return err
	}
	if err := r.readValue(reflect.ValueOf(&p.Second).Elem()); err != nil {
		return err
	}
	done, err := r.EndArray()
	if err != nil {
		return err
	}
	if !done {
		return r.ErrorAt(start, "expected exactly 2 elements")
	}
	return nil
}
