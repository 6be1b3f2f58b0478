package json

import (
	"fmt"
	"strings"
)

type objectMember struct {
	name     string
	nameOff  int
	valueOff int // 紧跟 ':' 之后
}

// Object 一次扫描建立成员索引的对象视图，可按任意顺序访问成员
type Object struct {
	r       *Reader
	start   int
	inner   string // 对象内部的容器栈
	end     Mark
	members []objectMember
	index   map[string]int
	visited map[string]bool
}

// GetObject 读取一个对象并建立成员索引，游标停在对象之后
func (r *Reader) GetObject() (*Object, error) {
	start := r.valueStart()
	if err := r.StartObject(); err != nil {
		return nil, err
	}
	obj := &Object{
		r:       r,
		start:   start,
		inner:   r.closers,
		index:   map[string]int{},
		visited: map[string]bool{},
	}
	for {
		done, err := r.EndObject()
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
		nameOff := r.valueStart()
		name, err := r.GetMemberName()
		if err != nil {
			return nil, err
		}
		m := objectMember{name: name, nameOff: nameOff, valueOff: r.Tell()}
		if err := r.SkipValue(); err != nil {
			return nil, err
		}
		// 重名成员后者覆盖前者
		if i, ok := obj.index[name]; ok {
			obj.members[i] = m
		} else {
			obj.index[name] = len(obj.members)
			obj.members = append(obj.members, m)
		}
	}
	obj.end = r.Mark()
	return obj, nil
}

// Reader 返回所属的 Reader
func (o *Object) Reader() *Reader {
	return o.r
}

// Start 对象 '{' 的偏移
func (o *Object) Start() int {
	return o.start
}

// Len 成员数
func (o *Object) Len() int {
	return len(o.members)
}

// Has 是否存在成员
func (o *Object) Has(name string) bool {
	_, ok := o.index[name]
	return ok
}

// Names 按首次出现顺序返回成员名
func (o *Object) Names() []string {
	names := make([]string, len(o.members))
	for i, m := range o.members {
		names[i] = m.name
	}
	return names
}

// ValueOffset 成员值的起点（紧跟 ':' 之后）
func (o *Object) ValueOffset(name string) (int, bool) {
	i, ok := o.index[name]
	if !ok {
		return 0, false
	}
	return o.members[i].valueOff, true
}

// Seek 将游标移到成员值处，读取完毕后应调用 End
func (o *Object) Seek(name string) error {
	i, ok := o.index[name]
	if !ok {
		return o.r.ErrorAt(o.start, fmt.Sprintf("missing member %q", name))
	}
	o.visited[name] = true
	o.r.Restore(Mark{off: o.members[i].valueOff, closers: o.inner, comma: -1})
	return nil
}

// End 将游标移回对象之后
func (o *Object) End() {
	o.r.Restore(o.end)
}

// Read 读取成员到 out
func (o *Object) Read(name string, out any) error {
	if err := o.Seek(name); err != nil {
		return err
	}
	defer o.End()
	return o.r.Read(out)
}

// GetString 读取字符串成员
func (o *Object) GetString(name string) (string, error) {
	var s string
	err := o.Read(name, &s)
	return s, err
}

// GetInt 读取整数成员
func (o *Object) GetInt(name string) (int, error) {
	var v int
	err := o.Read(name, &v)
	return v, err
}

// GetBool 读取布尔成员
func (o *Object) GetBool(name string) (bool, error) {
	var v bool
	err := o.Read(name, &v)
	return v, err
}

// GetFloat 读取浮点成员
func (o *Object) GetFloat(name string) (float64, error) {
	var v float64
	err := o.Read(name, &v)
	return v, err
}

// ErrorAt 在成员值处构造错误，成员不存在时定位到对象开头
func (o *Object) ErrorAt(name, msg string) *JSONError {
	if off, ok := o.ValueOffset(name); ok {
		return o.r.ErrorAt(off, msg)
	}
	return o.r.ErrorAt(o.start, msg)
}

// Unvisited 返回从未读取过的成员，注释成员除外
func (o *Object) Unvisited() []string {
	var names []string
	for _, m := range o.members {
		if o.visited[m.name] || strings.HasPrefix(m.name, "//") {
			continue
		}
		names = append(names, m.name)
	}
	return names
}
