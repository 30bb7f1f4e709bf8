// Package pagination 把有序集合切成定长分页，页码从 1 开始
//
// 页码来自原始查询串：缺失或非数字取第一页，超出 1..NumPages 取最后一页。
// 空集合也有一页（空页）。
package pagination

import (
	"strconv"
	"strings"
)

// Window 分页窗口（不含数据），先算窗口再按 offset/limit 取数据
type Window struct {
	Number   int
	Size     int
	NumPages int
	Total    int64
}

// NewWindow 根据总数、原始页码和每页大小计算窗口；size <= 0 时按 1 处理
func NewWindow(total int64, raw string, size int) Window {
	if size < 1 {
		size = 1
	}
	if total < 0 {
		total = 0
	}
	numPages := int((total + int64(size) - 1) / int64(size))
	if numPages < 1 {
		numPages = 1
	}

	number, ok := ParseNumber(raw)
	switch {
	case !ok:
		number = 1
	case number < 1 || number > numPages:
		number = numPages
	}
	return Window{Number: number, Size: size, NumPages: numPages, Total: total}
}

// ParseNumber 解析页码；ok=false 表示缺失或非整数
func ParseNumber(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (w Window) Offset() int { return (w.Number - 1) * w.Size }

// Limit 当前页实际条数上限
func (w Window) Limit() int { return w.Size }

// Page 一页数据及上一页/下一页所需的元信息
type Page[T any] struct {
	Window
	Items []T
}

// NewPage 将已取出的当前页数据与窗口组合
func NewPage[T any](items []T, w Window) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{Window: w, Items: items}
}

// Slice 对内存中的有序集合分页，不修改入参
func Slice[T any](items []T, raw string, size int) *Page[T] {
	w := NewWindow(int64(len(items)), raw, size)
	start := w.Offset()
	end := start + w.Size
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}
	out := make([]T, end-start)
	copy(out, items[start:end])
	return NewPage(out, w)
}

func (p *Page[T]) Len() int { return len(p.Items) }

func (p *Page[T]) HasPrevious() bool { return p.Number > 1 }

func (p *Page[T]) HasNext() bool { return p.Number < p.NumPages }

func (p *Page[T]) HasOtherPages() bool { return p.HasPrevious() || p.HasNext() }

func (p *Page[T]) PreviousNumber() int {
	if !p.HasPrevious() {
		return p.Number
	}
	return p.Number - 1
}

func (p *Page[T]) NextNumber() int {
	if !p.HasNext() {
		return p.Number
	}
	return p.Number + 1
}

// Numbers 1..NumPages，模板渲染页码条使用
func (p *Page[T]) Numbers() []int {
	res := make([]int, p.NumPages)
	for i := range res {
		res[i] = i + 1
	}
	return res
}
