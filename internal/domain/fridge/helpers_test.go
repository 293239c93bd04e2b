package fridge

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"fridge-app-go/internal/kv"
	"fridge-app-go/internal/repository/documents"
)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func sequenceCodes(codes ...string) CodeGenerator {
	var mu sync.Mutex
	i := 0
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		code := codes[i%len(codes)]
		i++
		return code, nil
	}
}

func counterCodes() CodeGenerator {
	var mu sync.Mutex
	i := 0
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		i++
		return fmt.Sprintf("C%05d", i), nil
	}
}

type fakeRecorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *fakeRecorder) ObserveOperation(operation, result string) {
	r.mu.Lock()
	r.calls = append(r.calls, operation+":"+result)
	r.mu.Unlock()
}

type testEnv struct {
	store *kv.MemoryStore
	repo  *documents.Repository
	svc   *Service
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()
	store := kv.NewMemoryStore()
	repo := documents.New(store)
	base := []Option{WithClock(newStepClock().Now), WithCodeGenerator(counterCodes())}
	svc := NewService(repo, append(base, opts...)...)
	return &testEnv{store: store, repo: repo, svc: svc}
}

func (e *testEnv) login(t *testing.T, id int, name string) {
	t.Helper()
	if _, err := e.svc.SetCurrentUser(context.Background(), User{ID: id, Name: name}); err != nil {
		t.Fatalf("login %d: %v", id, err)
	}
}

func (e *testEnv) relations(t *testing.T) []RefrigeratorUser {
	t.Helper()
	rows, err := documents.NewCollection[RefrigeratorUser](e.repo, KeyRefrigeratorUsers).Load(context.Background())
	if err != nil {
		t.Fatalf("load relations: %v", err)
	}
	return rows
}

func (e *testEnv) fridge(t *testing.T, id int) Refrigerator {
	t.Helper()
	f, err := e.svc.GetFridgeByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get fridge %d: %v", id, err)
	}
	if f == nil {
		t.Fatalf("fridge %d not found", id)
	}
	return *f
}

func activeCount(rows []RefrigeratorUser, fridgeID int) int {
	count := 0
	for _, row := range rows {
		if row.RefrigeratorID == fridgeID && row.Status.IsActive() {
			count++
		}
	}
	return count
}

func strPtr(value string) *string {
	return &value
}
