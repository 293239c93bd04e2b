package documents

import "context"

// Singleton is a JSON object document.
type Singleton[T any] struct {
	repo *Repository
	key  string
}

func NewSingleton[T any](repo *Repository, key string) *Singleton[T] {
	return &Singleton[T]{repo: repo, key: key}
}

// Load returns nil when the document does not exist.
func (s *Singleton[T]) Load(ctx context.Context) (*T, error) {
	var value T
	found, err := s.repo.read(ctx, s.key, &value)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &value, nil
}

func (s *Singleton[T]) Save(ctx context.Context, value T) error {
	lock := s.repo.lock(s.key)
	lock.Lock()
	defer lock.Unlock()

	return s.repo.write(ctx, s.key, value)
}

func (s *Singleton[T]) Delete(ctx context.Context) error {
	return s.repo.Delete(ctx, s.key)
}
