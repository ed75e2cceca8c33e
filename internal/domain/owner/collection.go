package owner

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrDuplicateItem = errors.New("duplicate item id in collection")

// Item is anything that can live inside an owner's embedded collection.
type Item interface {
	ItemID() uuid.UUID
}

// Collection is an insertion-ordered set of items indexed by id. The zero
// value is an empty collection. It is not safe for concurrent use; an Owner
// is only ever mutated by the request that loaded it.
type Collection[T Item] struct {
	order []uuid.UUID
	items map[uuid.UUID]T
}

func NewCollection[T Item](items ...T) (Collection[T], error) {
	var c Collection[T]
	for _, it := range items {
		if err := c.Append(it); err != nil {
			return Collection[T]{}, err
		}
	}
	return c, nil
}

func (c Collection[T]) Len() int {
	return len(c.order)
}

// Items returns the items in insertion order. The slice is a copy.
func (c Collection[T]) Items() []T {
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out
}

func (c Collection[T]) Get(id uuid.UUID) (T, bool) {
	it, ok := c.items[id]
	return it, ok
}

func (c *Collection[T]) Append(item T) error {
	id := item.ItemID()
	if _, exists := c.items[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateItem, id)
	}
	if c.items == nil {
		c.items = make(map[uuid.UUID]T)
	}
	c.items[id] = item
	c.order = append(c.order, id)
	return nil
}

// Replace swaps the stored item with the same id, keeping its position.
func (c *Collection[T]) Replace(item T) bool {
	id := item.ItemID()
	if _, ok := c.items[id]; !ok {
		return false
	}
	c.items[id] = item
	return true
}

func (c *Collection[T]) Remove(id uuid.UUID) bool {
	if _, ok := c.items[id]; !ok {
		return false
	}
	delete(c.items, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

func (c Collection[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Items())
}

func (c *Collection[T]) UnmarshalJSON(data []byte) error {
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	decoded, err := NewCollection(items...)
	if err != nil {
		return err
	}
	*c = decoded
	return nil
}

// NewItemID returns a time-ordered (v7) id so that an item's creation time can
// be recovered from its id alone.
func NewItemID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// IDTime returns the creation time embedded in a v7 id, or the zero time for
// ids that carry none.
func IDTime(id uuid.UUID) time.Time {
	if id.Version() != 7 {
		return time.Time{}
	}
	sec, nsec := id.Time().UnixTime()
	return time.Unix(sec, nsec).UTC()
}
