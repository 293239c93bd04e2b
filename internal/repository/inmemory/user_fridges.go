package inmemory

import (
	"sync"
	"time"

	fridgedomain "fridge-app-go/internal/domain/fridge"
)

type UserFridgesCache struct {
	mu    sync.RWMutex
	items map[int]userFridgesItem
}

type userFridgesItem struct {
	value     []fridgedomain.UserFridge
	expiresAt time.Time
}

func NewUserFridgesCache() *UserFridgesCache {
	return &UserFridgesCache{
		items: make(map[int]userFridgesItem),
	}
}

func (c *UserFridgesCache) GetByUserID(userID int) ([]fridgedomain.UserFridge, bool) {
	now := time.Now()

	c.mu.RLock()
	item, ok := c.items[userID]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.items[userID]
		if ok && !item.expiresAt.After(now) {
			delete(c.items, userID)
		}
		c.mu.Unlock()
		return nil, false
	}

	return cloneUserFridges(item.value), true
}

func (c *UserFridgesCache) SetByUserID(userID int, fridges []fridgedomain.UserFridge, ttl time.Duration) {
	if ttl <= 0 {
		c.DeleteByUserID(userID)
		return
	}

	c.mu.Lock()
	c.items[userID] = userFridgesItem{
		value:     cloneUserFridges(fridges),
		expiresAt: time.Now().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *UserFridgesCache) DeleteByUserID(userID int) {
	c.mu.Lock()
	delete(c.items, userID)
	c.mu.Unlock()
}

func (c *UserFridgesCache) Clear() {
	c.mu.Lock()
	c.items = make(map[int]userFridgesItem)
	c.mu.Unlock()
}

func cloneUserFridges(fridges []fridgedomain.UserFridge) []fridgedomain.UserFridge {
	if fridges == nil {
		return nil
	}
	cloned := make([]fridgedomain.UserFridge, len(fridges))
	for i := range fridges {
		cloned[i] = fridges[i]
		if fridges[i].Fridge.Description != nil {
			description := *fridges[i].Fridge.Description
			cloned[i].Fridge.Description = &description
		}
	}
	return cloned
}

var _ fridgedomain.Cache = (*UserFridgesCache)(nil)
