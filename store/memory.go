package store

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/etnz/finance"
)

// Memory is a Collection held in memory.
type Memory[T Record] struct {
	schema Schema[T]
	hub    Hub

	mu      sync.RWMutex
	items   map[string]T
	persist func([]T) error
}

var _ Collection[finance.Transaction] = (*Memory[finance.Transaction])(nil)

// NewMemory returns an empty collection.
func NewMemory[T Record](schema Schema[T]) *Memory[T] {
	return &Memory[T]{schema: schema, items: make(map[string]T)}
}

// Schema returns the schema of the collection.
func (m *Memory[T]) Schema() Schema[T] { return m.schema }

// SetPersister registers f to be called with the whole content of the collection,
// in natural order, before each change is committed. If f fails the change is abandoned.
func (m *Memory[T]) SetPersister(f func([]T) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.persist = f
}

// commit applies change to a copy of the content and swaps it in if persisted.
func (m *Memory[T]) commit(change func(next map[string]T) ([]Event, error)) error {
	m.mu.Lock()
	next := maps.Clone(m.items)
	events, err := change(next)
	if err == nil && len(events) > 0 && m.persist != nil {
		var all []T
		all, err = m.sorted(next, m.schema.Natural, false)
		if err == nil {
			err = m.persist(all)
		}
	}
	if err == nil {
		m.items = next
	}
	m.mu.Unlock()

	if err != nil {
		return err
	}
	m.hub.Notify(events...)
	return nil
}

func (m *Memory[T]) event(op Op, id string) Event {
	return Event{Collection: m.schema.Name, Op: op, ID: id}
}

func (m *Memory[T]) Add(ctx context.Context, v T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.commit(func(next map[string]T) ([]Event, error) {
		if _, exists := next[v.Key()]; exists {
			return nil, fmt.Errorf("%s %q: %w", m.schema.Name, v.Key(), ErrExists)
		}
		next[v.Key()] = v
		return []Event{m.event(Created, v.Key())}, nil
	})
}

func (m *Memory[T]) Put(ctx context.Context, vs ...T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.commit(func(next map[string]T) ([]Event, error) {
		events := make([]Event, 0, len(vs))
		for _, v := range vs {
			op := Created
			if _, exists := next[v.Key()]; exists {
				op = Updated
			}
			next[v.Key()] = v
			events = append(events, m.event(op, v.Key()))
		}
		return events, nil
	})
}

func (m *Memory[T]) Update(ctx context.Context, id string, f func(*T) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.commit(func(next map[string]T) ([]Event, error) {
		v, exists := next[id]
		if !exists {
			return nil, fmt.Errorf("%s %q: %w", m.schema.Name, id, ErrNotFound)
		}
		if err := f(&v); err != nil {
			return nil, err
		}
		if v.Key() != id {
			return nil, fmt.Errorf("%s %q: update cannot change the key to %q", m.schema.Name, id, v.Key())
		}
		next[id] = v
		return []Event{m.event(Updated, id)}, nil
	})
}

func (m *Memory[T]) Delete(ctx context.Context, ids ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.commit(func(next map[string]T) ([]Event, error) {
		var events []Event
		for _, id := range ids {
			if _, exists := next[id]; !exists {
				continue
			}
			delete(next, id)
			events = append(events, m.event(Deleted, id))
		}
		return events, nil
	})
}

func (m *Memory[T]) Get(ctx context.Context, id string) (T, bool, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[id]
	return v, ok, nil
}

func (m *Memory[T]) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items), nil
}

func (m *Memory[T]) Scan(ctx context.Context, q Query) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	all, err := m.sorted(m.items, q.OrderBy, q.Reverse)
	if err != nil {
		return nil, err
	}
	return Page(all, q), nil
}

func (m *Memory[T]) Subscribe(f func(Event)) (cancel func()) {
	return m.hub.Subscribe(f)
}

func (m *Memory[T]) sorted(items map[string]T, field string, reverse bool) ([]T, error) {
	compare, err := m.schema.Compare(field)
	if err != nil {
		return nil, err
	}
	all := slices.SortedFunc(maps.Values(items), compare)
	if reverse {
		slices.Reverse(all)
	}
	return all, nil
}
