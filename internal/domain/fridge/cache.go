package fridge

import "time"

type Cache interface {
	GetByUserID(userID int) ([]UserFridge, bool)
	SetByUserID(userID int, fridges []UserFridge, ttl time.Duration)
	DeleteByUserID(userID int)
	Clear()
}

type noopCache struct{}

func (noopCache) GetByUserID(int) ([]UserFridge, bool) {
	return nil, false
}

func (noopCache) SetByUserID(int, []UserFridge, time.Duration) {}

func (noopCache) DeleteByUserID(int) {}

func (noopCache) Clear() {}
