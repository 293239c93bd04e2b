package documents

import "context"

// Collection is a JSON array document.
type Collection[T any] struct {
	repo *Repository
	key  string
}

func NewCollection[T any](repo *Repository, key string) *Collection[T] {
	return &Collection[T]{repo: repo, key: key}
}

func (c *Collection[T]) Key() string {
	return c.key
}

// Load returns an empty slice when the document does not exist yet.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	items := make([]T, 0)
	if _, err := c.repo.read(ctx, c.key, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = make([]T, 0)
	}
	return items, nil
}

func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	lock := c.repo.lock(c.key)
	lock.Lock()
	defer lock.Unlock()

	return c.repo.write(ctx, c.key, nonNil(items))
}

// Update loads the document, applies fn and writes the result back while
// holding the key lock. Nothing is written when fn returns an error.
func (c *Collection[T]) Update(ctx context.Context, fn func(items []T) ([]T, error)) ([]T, error) {
	lock := c.repo.lock(c.key)
	lock.Lock()
	defer lock.Unlock()

	items := make([]T, 0)
	if _, err := c.repo.read(ctx, c.key, &items); err != nil {
		return nil, err
	}

	updated, err := fn(nonNil(items))
	if err != nil {
		return nil, err
	}
	updated = nonNil(updated)

	if err := c.repo.write(ctx, c.key, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (c *Collection[T]) Delete(ctx context.Context) error {
	return c.repo.Delete(ctx, c.key)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return make([]T, 0)
	}
	return items
}
