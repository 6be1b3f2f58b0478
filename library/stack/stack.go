// Package stack 泛型栈
package stack

// Stack 结构体表示一个栈
type Stack[T any] struct {
	items []T
}

// New 创建并返回一个新的栈
func New[T any]() *Stack[T] {
	return &Stack[T]{
		items: make([]T, 0, 8),
	}
}

// Push 将元素压入栈顶
func (s *Stack[T]) Push(item T) {
	s.items = append(s.items, item)
}

// Pop 弹出栈顶元素
func (s *Stack[T]) Pop() (T, bool) {
	var zero T
	if len(s.items) == 0 {
		return zero, false
	}
	item := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return item, true
}

// Top 查看栈顶元素但不移除
func (s *Stack[T]) Top() (T, bool) {
	var zero T
	if len(s.items) == 0 {
		return zero, false
	}
	return s.items[len(s.items)-1], true
}

// TopPtr 返回栈顶元素的指针，便于原地修改（如计数）
func (s *Stack[T]) TopPtr() *T {
	if len(s.items) == 0 {
		return nil
	}
	return &s.items[len(s.items)-1]
}

// IsEmpty 检查栈是否为空
func (s *Stack[T]) IsEmpty() bool {
	return len(s.items) == 0
}

// Size 返回栈中元素的数量
func (s *Stack[T]) Size() int {
	return len(s.items)
}

// Bottom 查看栈底元素（最先入栈的元素）
func (s *Stack[T]) Bottom() (T, bool) {
	var zero T
	if len(s.items) == 0 {
		return zero, false
	}
	return s.items[0], true
}
