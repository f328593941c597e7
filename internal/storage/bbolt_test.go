package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"perepiska/internal/models"

	"go.etcd.io/bbolt"
)

func TestStorage(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := NewBboltStorage(dbPath)
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	defer func() { _ = store.Close() }()

	created := time.Unix(1710513000, 0)

	t.Run("Files", func(t *testing.T) {
		info := models.FileInfo{
			ID:             "file-1",
			Hash:           "abc",
			Name:           "cat.png",
			MimeType:       "image/png",
			Size:           1536,
			CreatedAt:      created,
			ConversationID: "conv-1",
		}
		if err := store.UpsertFile(info); err != nil {
			t.Fatalf("UpsertFile failed: %v", err)
		}

		got, err := store.GetFile("file-1")
		if err != nil {
			t.Fatalf("GetFile failed: %v", err)
		}
		if got != info {
			t.Errorf("expected %+v, got %+v", info, got)
		}

		files, err := store.ListFiles()
		if err != nil {
			t.Fatalf("ListFiles failed: %v", err)
		}
		if len(files) != 1 {
			t.Fatalf("expected 1 file, got %d", len(files))
		}
		if files[0].Name != "cat.png" {
			t.Errorf("expected name cat.png, got %s", files[0].Name)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := store.GetFile("missing")
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestStorage_ReadsThroughCache(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := NewBboltStorage(dbPath)
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}

	info := models.FileInfo{ID: "file-2", Hash: "def", Name: "doc.pdf", CreatedAt: time.Unix(1710513000, 0)}
	if err := store.UpsertFile(info); err != nil {
		t.Fatalf("UpsertFile failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Reopen: cache is empty, value must come from bbolt.
	store, err = NewBboltStorage(dbPath)
	if err != nil {
		t.Fatalf("failed to reopen storage: %v", err)
	}
	defer func() { _ = store.Close() }()

	got, err := store.GetFile("file-2")
	if err != nil {
		t.Fatalf("GetFile failed: %v", err)
	}
	if got.Name != "doc.pdf" || !got.CreatedAt.Equal(info.CreatedAt) {
		t.Errorf("unexpected metadata: %+v", got)
	}
}

func TestPut_StoresUnderKey(t *testing.T) {
	store, err := NewBboltStorage(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	defer func() { _ = store.Close() }()

	meta := &FileMetadata{ID: "file-7", Hash: "def", Name: "notes.pdf", Size: 42, ConversationID: "conv-2"}
	err = store.db.Update(func(tx *bbolt.Tx) error {
		return put(tx.Bucket(bucketFiles), meta)
	})
	if err != nil {
		t.Fatalf("put failed: %v", err)
	}

	var got FileMetadata
	err = store.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketFiles).Get([]byte("file-7"))
		if data == nil {
			return errors.New("record not stored under its key")
		}
		return got.UnmarshalBinary(data)
	})
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if got != *meta {
		t.Errorf("expected %+v, got %+v", *meta, got)
	}
}
