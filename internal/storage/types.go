package storage

import (
	"encoding"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"go.etcd.io/bbolt"
)

// Storeable is a record kept in a bbolt bucket under its own key.
type Storeable interface {
	Key() []byte
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
}

var _ Storeable = (*FileMetadata)(nil)

func put(b *bbolt.Bucket, item Storeable) error {
	data, err := item.MarshalBinary()
	if err != nil {
		return fmt.Errorf("failed to marshal %T: %w", item, err)
	}
	return b.Put(item.Key(), data)
}

// FileMetadata describes an uploaded attachment blob.
type FileMetadata struct {
	ID             string `msgpack:"id"`
	Hash           string `msgpack:"hash"`
	Name           string `msgpack:"name"`
	MimeType       string `msgpack:"mimeType"`
	Size           int64  `msgpack:"size"`
	CreatedAt      int64  `msgpack:"createdAt"`
	ConversationID string `msgpack:"conversationId"`
}

func (f *FileMetadata) Key() []byte {
	return []byte(f.ID)
}

func (f *FileMetadata) MarshalBinary() (data []byte, err error) {
	type alias FileMetadata
	return msgpack.Marshal((*alias)(f))
}

func (f *FileMetadata) UnmarshalBinary(data []byte) error {
	type alias FileMetadata
	return msgpack.Unmarshal(data, (*alias)(f))
}
