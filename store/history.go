package store

import (
	"context"
	"errors"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned when no successful extraction exists for a document.
var ErrNotFound = errors.New("record not found")

// ExtractionRecord is one processed document, keyed by the SHA-256 of its bytes.
type ExtractionRecord struct {
	ID        uint   `gorm:"primaryKey"`
	Filename  string `gorm:"size:512"`
	SHA256    string `gorm:"size:64;index"`
	AccessKey string `gorm:"size:48"`
	Found     bool   `gorm:"index"`
	Stage     string `gorm:"size:32"`
	Source    string `gorm:"size:16"`
	Error     string
	CreatedAt time.Time `gorm:"index"`
}

type Store struct {
	db *gorm.DB
}

// OpenDB opens (creating if needed) the SQLite history database at path.
func OpenDB(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&ExtractionRecord{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) Save(ctx context.Context, rec *ExtractionRecord) error {
	return s.db.WithContext(ctx).Create(rec).Error
}

// FindByHash returns the most recent record for hash that produced a key.
func (s *Store) FindByHash(ctx context.Context, hash string) (*ExtractionRecord, error) {
	var rec ExtractionRecord
	err := s.db.WithContext(ctx).
		Where("sha256 = ? AND found = ?", hash, true).
		Order("created_at DESC, id DESC").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// List returns up to limit records, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]ExtractionRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var recs []ExtractionRecord
	err := s.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&recs).Error
	return recs, err
}
