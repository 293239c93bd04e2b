// Package documents stores typed JSON documents in a kv.Store. Each document
// is read and written whole; Update serializes read-modify-write per key.
package documents

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"fridge-app-go/internal/kv"
)

type ErrorObserver func(op, key string, err error)

type Repository struct {
	store   kv.Store
	observe ErrorObserver

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

type Option func(*Repository)

func WithErrorObserver(observer ErrorObserver) Option {
	return func(r *Repository) {
		r.observe = observer
	}
}

func New(store kv.Store, opts ...Option) *Repository {
	r := &Repository{
		store: store,
		locks: make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Repository) Store() kv.Store {
	return r.store
}

// Delete removes a whole document.
func (r *Repository) Delete(ctx context.Context, key string) error {
	lock := r.lock(key)
	lock.Lock()
	defer lock.Unlock()

	return r.fail("delete", key, r.store.Delete(ctx, key))
}

func (r *Repository) lock(key string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	lock, ok := r.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[key] = lock
	}
	return lock
}

func (r *Repository) read(ctx context.Context, key string, dst any) (bool, error) {
	data, err := r.store.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, r.fail("get", key, err)
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, r.fail("decode", key, err)
	}
	return true, nil
}

func (r *Repository) write(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return r.fail("encode", key, err)
	}
	return r.fail("set", key, r.store.Set(ctx, key, data))
}

func (r *Repository) fail(op, key string, err error) error {
	if err == nil {
		return nil
	}
	if r.observe != nil {
		r.observe(op, key, err)
	}
	return kv.Wrap(op, key, err)
}
