package collection

import (
	"sort"
	"strings"
)

// Item is implemented by anything a Collection can hold: a string
// projection for filtering and an equality for removal by value.
type Item[T any] interface {
	SearchText() string
	Equal(other T) bool
}

// Collection is an ordered container with a filtered active view.
//
// A Collection is not safe for concurrent use; mutations are expected to
// come from a single goroutine.
type Collection[T Item[T]] struct {
	items  []T
	active []T

	// positions holds the master index of each active item.
	positions []int

	query  string
	tokens []string

	listeners listeners
}

// New creates an empty Collection with no filter applied.
func New[T Item[T]]() *Collection[T] {
	return &Collection[T]{}
}

// Subscribe registers fn for change events and returns a function that
// removes the registration.
func (c *Collection[T]) Subscribe(fn Listener) (unsubscribe func()) {
	return c.listeners.add(fn)
}

// Insert appends item and re-applies the last filter.
func (c *Collection[T]) Insert(item T) {
	c.InsertAll([]T{item})
}

// InsertAll appends items in order as one batch: the filter is re-applied
// once and a single EventInserted is emitted.
func (c *Collection[T]) InsertAll(items []T) {
	before := c.Len()
	c.items = append(c.items, items...)
	c.refilter()
	c.listeners.emit(Event{Kind: EventInserted, From: before, To: c.Len() - 1})
}

// Remove deletes the first item equal to item. It reports false, and
// changes nothing, when no such item exists.
func (c *Collection[T]) Remove(item T) bool {
	i := c.IndexOf(item)
	if i < 0 {
		return false
	}
	c.RemoveAt(i)
	return true
}

// RemoveAt deletes the item at master index i. It reports false when i
// is out of range.
func (c *Collection[T]) RemoveAt(i int) (T, bool) {
	var zero T
	if i < 0 || i >= len(c.items) {
		return zero, false
	}

	removed := c.items[i]
	c.items = append(c.items[:i], c.items[i+1:]...)
	c.refilter()
	c.listeners.emit(Event{Kind: EventRemoved, From: i, To: i})
	return removed, true
}

// RemoveIndices deletes the items at the given master indices in one
// batch. Out-of-range and duplicate indices are ignored. It returns the
// number of items removed.
func (c *Collection[T]) RemoveIndices(indices ...int) int {
	sorted := append([]int(nil), indices...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	removed := 0
	last := -1
	for _, i := range sorted {
		if i == last || i < 0 || i >= len(c.items) {
			continue
		}
		c.items = append(c.items[:i], c.items[i+1:]...)
		last = i
		removed++
	}

	if removed > 0 {
		c.refilter()
		c.listeners.emit(Event{Kind: EventReset, From: 0, To: c.Len() - 1})
	}
	return removed
}

// RemoveAll deletes every item equal to any of targets and returns how
// many were removed. One EventReset is emitted when anything was removed.
func (c *Collection[T]) RemoveAll(targets []T) int {
	if len(targets) == 0 || len(c.items) == 0 {
		return 0
	}

	kept := c.items[:0]
	removed := 0
	for _, item := range c.items {
		if containsEqual(targets, item) {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	clearTail(c.items, len(kept))
	c.items = kept

	if removed > 0 {
		c.refilter()
		c.listeners.emit(Event{Kind: EventReset, From: 0, To: c.Len() - 1})
	}
	return removed
}

// Replace swaps the master sequence for items and re-applies the filter.
func (c *Collection[T]) Replace(items []T) {
	c.items = append([]T(nil), items...)
	c.refilter()
	c.listeners.emit(Event{Kind: EventReset, From: 0, To: c.Len() - 1})
}

// Clear removes every item.
func (c *Collection[T]) Clear() {
	c.Replace(nil)
}

// SetFilter replaces the active view with the items matching query.
//
// An empty query shows every item. Otherwise the query is lowercased and
// split on whitespace; an item matches when its lowercased SearchText
// contains every token. Matching items keep their master order.
func (c *Collection[T]) SetFilter(query string) {
	c.query = strings.ToLower(query)
	c.tokens = strings.Fields(c.query)
	c.refilter()
	c.listeners.emit(Event{Kind: EventReset, From: 0, To: c.Len() - 1})
}

// Filter returns the last applied query, lowercased.
func (c *Collection[T]) Filter() string {
	return c.query
}

// Len returns the size of the active view.
func (c *Collection[T]) Len() int {
	if c.active == nil {
		return len(c.items)
	}
	return len(c.active)
}

// At returns the item at index i of the active view.
func (c *Collection[T]) At(i int) T {
	if c.active == nil {
		return c.items[i]
	}
	return c.active[i]
}

// Active returns a copy of the active view.
func (c *Collection[T]) Active() []T {
	if c.active == nil {
		return append([]T(nil), c.items...)
	}
	return append([]T(nil), c.active...)
}

// SnapshotAll returns a copy of every item regardless of the filter.
func (c *Collection[T]) SnapshotAll() []T {
	return append([]T(nil), c.items...)
}

// Size returns the number of items regardless of the filter.
func (c *Collection[T]) Size() int {
	return len(c.items)
}

// IndexOf returns the master index of the first item equal to item, or -1.
func (c *Collection[T]) IndexOf(item T) int {
	for i, candidate := range c.items {
		if candidate.Equal(item) {
			return i
		}
	}
	return -1
}

// Contains reports whether an item equal to item is present.
func (c *Collection[T]) Contains(item T) bool {
	return c.IndexOf(item) >= 0
}

// MasterIndex maps an active-view index to its master index, or -1.
func (c *Collection[T]) MasterIndex(activeIndex int) int {
	if activeIndex < 0 || activeIndex >= c.Len() {
		return -1
	}
	if c.active == nil {
		return activeIndex
	}
	return c.positions[activeIndex]
}

// refilter rebuilds the active view from the stored tokens. A nil active
// slice means the view is the master sequence itself.
func (c *Collection[T]) refilter() {
	if len(c.tokens) == 0 {
		c.active = nil
		c.positions = nil
		return
	}

	active := make([]T, 0, len(c.items))
	positions := make([]int, 0, len(c.items))
	for i, item := range c.items {
		if Matches(item.SearchText(), c.tokens) {
			active = append(active, item)
			positions = append(positions, i)
		}
	}
	c.active = active
	c.positions = positions
}

// Matches reports whether text, lowercased, contains every token.
// Tokens are expected to be lowercase already.
func Matches(text string, tokens []string) bool {
	lower := strings.ToLower(text)
	for _, token := range tokens {
		if !strings.Contains(lower, token) {
			return false
		}
	}
	return true
}

func containsEqual[T Item[T]](items []T, item T) bool {
	for _, candidate := range items {
		if candidate.Equal(item) {
			return true
		}
	}
	return false
}

func clearTail[T any](s []T, from int) {
	var zero T
	for i := from; i < len(s); i++ {
		s[i] = zero
	}
}
