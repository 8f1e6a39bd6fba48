package memory

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

const maxIDAttempts = 8

// record is anything stored in a Collection.
type record interface {
	GetID() string
}

// Collection is an insertion-ordered, id-keyed set of records. All access
// goes through its lock; callers only ever see copies of the backing slice.
type Collection[T record] struct {
	mu    sync.RWMutex
	items []T
	ids   map[string]struct{}
	newID func() (string, error)
}

// NewCollection returns an empty collection that mints UUIDv7 ids.
func NewCollection[T record]() *Collection[T] {
	return &Collection[T]{
		ids:   make(map[string]struct{}),
		newID: newUUIDv7,
	}
}

func newUUIDv7() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// List returns a snapshot of the records in insertion order.
func (c *Collection[T]) List() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Len reports the number of stored records.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Insert assigns a fresh id via build and appends the record. Id minting
// and the append happen under one lock, so concurrent inserts never share
// an id or lose a write.
func (c *Collection[T]) Insert(build func(id string) T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, err := c.newID()
		if err != nil {
			return zero, fmt.Errorf("generate id: %w", err)
		}
		if _, taken := c.ids[id]; taken {
			continue
		}
		rec := build(id)
		c.ids[id] = struct{}{}
		c.items = append(c.items, rec)
		return rec, nil
	}
	return zero, fmt.Errorf("generate id: %d collisions in a row", maxIDAttempts)
}

// Seed appends records that already carry an id. Duplicate ids are rejected.
func (c *Collection[T]) Seed(records ...T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range records {
		if _, taken := c.ids[r.GetID()]; taken {
			return fmt.Errorf("seed: duplicate id %q", r.GetID())
		}
		c.ids[r.GetID()] = struct{}{}
		c.items = append(c.items, r)
	}
	return nil
}
