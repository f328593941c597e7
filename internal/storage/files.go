package storage

import (
	"errors"
	"fmt"
	"time"

	"perepiska/internal/models"

	"github.com/c-pro/geche"
	"go.etcd.io/bbolt"
)

func (s *BboltStorage) UpsertFile(info models.FileInfo) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketFiles)
		meta := FileMetadata{
			ID:             info.ID,
			Hash:           info.Hash,
			Name:           info.Name,
			MimeType:       info.MimeType,
			Size:           info.Size,
			CreatedAt:      info.CreatedAt.Unix(),
			ConversationID: info.ConversationID,
		}
		return put(b, &meta)
	})
	if err != nil {
		return err
	}

	s.files.Set(info.ID, info)
	return nil
}

// GetFile returns file metadata by id, serving repeated reads from the cache.
func (s *BboltStorage) GetFile(id string) (models.FileInfo, error) {
	info, err := s.files.Get(id)
	if err == nil {
		return info, nil
	}
	if !errors.Is(err, geche.ErrNotFound) {
		return models.FileInfo{}, err
	}

	var meta FileMetadata
	err = s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketFiles)
		data := b.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("file metadata for id %s: %w", id, models.ErrNotFound)
		}
		return meta.UnmarshalBinary(data)
	})
	if err != nil {
		return models.FileInfo{}, err
	}

	info = fromMetadata(meta)
	s.files.Set(id, info)
	return info, nil
}

// ListFiles returns metadata of all files stored in this session.
func (s *BboltStorage) ListFiles() ([]models.FileInfo, error) {
	var files []models.FileInfo
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketFiles)
		return b.ForEach(func(k, v []byte) error {
			var meta FileMetadata
			if err := meta.UnmarshalBinary(v); err != nil {
				return err
			}
			files = append(files, fromMetadata(meta))
			return nil
		})
	})
	return files, err
}

func fromMetadata(meta FileMetadata) models.FileInfo {
	return models.FileInfo{
		ID:             meta.ID,
		Hash:           meta.Hash,
		Name:           meta.Name,
		MimeType:       meta.MimeType,
		Size:           meta.Size,
		CreatedAt:      time.Unix(meta.CreatedAt, 0),
		ConversationID: meta.ConversationID,
	}
}
