package cache

import (
	"encoding/json"
	"slices"
)

// Record is anything cached by remote id.
type Record interface {
	RecordID() int64
}

// Collection is an ordered sequence of records with an id index. Appends do
// not de-duplicate; Lookup returns the first record carrying an id.
type Collection[T Record] struct {
	items []T
	index map[int64]int
}

// Get returns a copy of the current contents, possibly empty.
func (c *Collection[T]) Get() []T {
	return slices.Clone(c.items)
}

func (c *Collection[T]) Len() int { return len(c.items) }

// Replace overwrites the collection wholesale.
func (c *Collection[T]) Replace(records []T) {
	c.items = slices.Clone(records)
	c.reindex()
}

// Append adds one record at the end, keeping any earlier record with the same id.
func (c *Collection[T]) Append(r T) {
	c.items = append(c.items, r)
	if c.index == nil {
		c.index = make(map[int64]int)
	}
	if _, ok := c.index[r.RecordID()]; !ok {
		c.index[r.RecordID()] = len(c.items) - 1
	}
}

func (c *Collection[T]) Clear() {
	c.items = nil
	c.index = nil
}

// Lookup finds the record with id.
func (c *Collection[T]) Lookup(id int64) (T, bool) {
	if i, ok := c.index[id]; ok {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

func (c *Collection[T]) reindex() {
	c.index = make(map[int64]int, len(c.items))
	for i, r := range c.items {
		if _, ok := c.index[r.RecordID()]; !ok {
			c.index[r.RecordID()] = i
		}
	}
}

func (c *Collection[T]) MarshalJSON() ([]byte, error) {
	if c.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.items)
}

func (c *Collection[T]) UnmarshalJSON(b []byte) error {
	var items []T
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}
	c.Replace(items)
	return nil
}
