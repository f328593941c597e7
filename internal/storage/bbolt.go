package storage

import (
	"fmt"
	"time"

	"perepiska/internal/models"

	"github.com/c-pro/geche"
	"go.etcd.io/bbolt"
)

var bucketFiles = []byte("files")

// BboltStorage keeps attachment metadata for the session.
type BboltStorage struct {
	db    *bbolt.DB
	files geche.Geche[string, models.FileInfo]
}

func NewBboltStorage(path string) (*BboltStorage, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bbolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketFiles)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create buckets: %w", err)
	}

	return &BboltStorage{
		db:    db,
		files: geche.NewMapCache[string, models.FileInfo](),
	}, nil
}

func (s *BboltStorage) Close() error {
	return s.db.Close()
}
