package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"assettrack/internal/core/apperror"
	"assettrack/internal/core/id"
	"assettrack/internal/domain/blob"
)

// Compile-time check.
var _ blob.Store = (*BlobStore)(nil)

// BlobStore keeps file payloads in a files table next to the records
// that reference them, so attachment writes share the caller's
// transaction.
type BlobStore struct {
	txManager *TxManager
}

// NewBlobStore creates the Postgres blob store.
func NewBlobStore(txManager *TxManager) *BlobStore {
	return &BlobStore{txManager: txManager}
}

// Upload stores one payload and returns its reference.
func (s *BlobStore) Upload(ctx context.Context, up blob.Upload) (id.ID, error) {
	if len(up.Data) == 0 {
		return id.Nil(), apperror.NewValidation("file payload is empty").
			WithDetail("name", up.Name)
	}

	ref := id.New()
	sql := `
		INSERT INTO files (id, name, content_type, size, data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.txManager.GetQuerier(ctx).Exec(ctx, sql,
		ref, up.Name, up.ContentType, int64(len(up.Data)), up.Data, time.Now().UTC())
	if err != nil {
		return id.Nil(), fmt.Errorf("insert file: %w", err)
	}
	return ref, nil
}

// UploadAll stores a batch, returning references in input order.
func (s *BlobStore) UploadAll(ctx context.Context, ups []blob.Upload) ([]id.ID, error) {
	refs := make([]id.ID, 0, len(ups))
	for _, up := range ups {
		ref, err := s.Upload(ctx, up)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// Download returns the file metadata and content for a reference.
func (s *BlobStore) Download(ctx context.Context, ref id.ID) (blob.File, []byte, error) {
	sql := `
		SELECT id, name, content_type, size, data
		FROM files
		WHERE id = $1
	`

	var f blob.File
	var data []byte
	err := s.txManager.GetQuerier(ctx).QueryRow(ctx, sql, ref).
		Scan(&f.ID, &f.Name, &f.ContentType, &f.Size, &data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return blob.File{}, nil, apperror.NewNotFound("file", ref.String())
		}
		return blob.File{}, nil, fmt.Errorf("select file: %w", err)
	}
	return f, data, nil
}
