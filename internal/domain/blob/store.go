// Package blob defines the contract for binary attachment storage.
// Services treat blob references as opaque identifiers substituted
// into photo/attachments fields; the concrete store lives in
// infrastructure/storage/postgres.
package blob

import (
	"context"

	"assettrack/internal/core/id"
)

// Upload is an inbound file payload.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// File is a stored file's metadata.
type File struct {
	ID          id.ID  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	ContentType string `db:"content_type" json:"contentType"`
	Size        int64  `db:"size" json:"size"`
}

// Store persists binary payloads and hands back opaque references.
type Store interface {
	// Upload stores one payload and returns its reference.
	Upload(ctx context.Context, up Upload) (id.ID, error)

	// UploadAll stores a batch of payloads, returning references in
	// input order. Any failure aborts the whole batch.
	UploadAll(ctx context.Context, ups []Upload) ([]id.ID, error)

	// Download returns the file metadata and content for a reference.
	Download(ctx context.Context, ref id.ID) (File, []byte, error)
}
