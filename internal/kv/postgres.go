package kv

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Document is one row of the kv_documents table.
type Document struct {
	Key       string    `gorm:"primaryKey;type:text"`
	Value     []byte    `gorm:"type:bytea;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Document) TableName() string {
	return "kv_documents"
}

type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var doc Document
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.Value, nil
}

func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	doc := Document{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&doc).Error
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&Document{}, "key = ?", key).Error
}

// Close is a no-op; the *gorm.DB is owned by the caller.
func (s *PostgresStore) Close() error {
	return nil
}

var _ Store = (*PostgresStore)(nil)
