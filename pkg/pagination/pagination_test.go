package pagination

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWindow_PageNumberResolution(t *testing.T) {
	cases := []struct {
		name  string
		total int64
		raw   string
		want  int
	}{
		{"absent", 25, "", 1},
		{"not a number", 25, "abc", 1},
		{"first", 25, "1", 1},
		{"middle", 25, "2", 2},
		{"last", 25, "3", 3},
		{"past the end", 25, "99", 3},
		{"zero", 25, "0", 3},
		{"negative", 25, "-1", 3},
		{"empty collection", 0, "5", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := NewWindow(tc.total, tc.raw, 10)
			assert.Equal(t, tc.want, w.Number)
		})
	}
}

func TestSlice_PartitionsCollection(t *testing.T) {
	for _, size := range []int{1, 3, 10} {
		for _, n := range []int{0, 1, 9, 10, 11, 13, 30} {
			t.Run(fmt.Sprintf("P=%d/N=%d", size, n), func(t *testing.T) {
				items := make([]int, n)
				for i := range items {
					items[i] = n - i // newest first
				}

				first := Slice(items, "1", size)
				var seen []int
				for page := 1; page <= first.NumPages; page++ {
					p := Slice(items, fmt.Sprint(page), size)
					require.Equal(t, page, p.Number)
					if page < p.NumPages {
						assert.Len(t, p.Items, size)
					} else if n > 0 {
						want := n % size
						if want == 0 {
							want = size
						}
						assert.Len(t, p.Items, want)
					}
					seen = append(seen, p.Items...)
				}
				if n == 0 {
					assert.Empty(t, seen)
				} else {
					assert.Equal(t, items, seen)
				}
			})
		}
	}
}

func TestSlice_DoesNotMutateInput(t *testing.T) {
	items := []string{"c", "b", "a"}
	p := Slice(items, "1", 2)
	p.Items[0] = "changed"
	assert.Equal(t, []string{"c", "b", "a"}, items)
}

func TestPage_Navigation(t *testing.T) {
	items := make([]int, 13)
	p1 := Slice(items, "1", 10)
	assert.False(t, p1.HasPrevious())
	assert.True(t, p1.HasNext())
	assert.Equal(t, 2, p1.NextNumber())
	assert.Equal(t, []int{1, 2}, p1.Numbers())

	p2 := Slice(items, "2", 10)
	assert.True(t, p2.HasPrevious())
	assert.False(t, p2.HasNext())
	assert.Equal(t, 1, p2.PreviousNumber())
	assert.Equal(t, 3, p2.Len())
	assert.True(t, p2.HasOtherPages())

	single := Slice(items[:3], "", 10)
	assert.False(t, single.HasOtherPages())
}

func TestWindow_Offset(t *testing.T) {
	w := NewWindow(13, "2", 10)
	assert.Equal(t, 10, w.Offset())
	assert.Equal(t, 10, w.Limit())
}
