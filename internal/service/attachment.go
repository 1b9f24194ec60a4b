package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"catalogapi/internal/model"
	"catalogapi/internal/repository"
	"catalogapi/internal/storage"
)

var ErrReaderNil = errors.New("reader is nil")

// presignTTL bounds how long a download link stays usable.
const presignTTL = 15 * time.Minute

// AttachmentService defines the use cases for files linked to products.
type AttachmentService interface {
	// Upload streams the content to object storage, saves metadata to DB, and rolls back storage if DB save fails.
	// - originalFilename is used only to extract extension; stored filename will be UUID + original extension.
	Upload(ctx context.Context, productID string, r io.Reader, originalFilename string, contentType string, size int64) (*model.Attachment, error)

	// ListByProduct returns all attachments of an existing product, newest first.
	ListByProduct(ctx context.Context, productID string) ([]model.Attachment, error)

	// PresignDownload returns a time-limited URL for downloading an attachment's content.
	PresignDownload(ctx context.Context, id string) (string, error)

	// Delete removes an attachment from both storage and repository.
	Delete(ctx context.Context, id string) error
}

// attachmentService is a concrete implementation of AttachmentService.
type attachmentService struct {
	store       storage.ObjectStore
	attachments repository.AttachmentRepository
	products    repository.ProductRepository
}

// NewAttachmentService constructs a new AttachmentService.
func NewAttachmentService(store storage.ObjectStore, attachments repository.AttachmentRepository, products repository.ProductRepository) AttachmentService {
	return &attachmentService{store: store, attachments: attachments, products: products}
}

func (s *attachmentService) Upload(ctx context.Context, productID string, r io.Reader, originalFilename string, contentType string, size int64) (*model.Attachment, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if productID == "" {
		return nil, ErrIDRequired
	}

	// The product must exist before we accept files for it.
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}

	// Generate filename using UUID + extension
	ext := filepath.Ext(originalFilename)
	genName := uuid.NewString() + ext
	key := filepath.ToSlash(filepath.Join("attachments", productID, genName))

	// Upload to object storage
	objInfo, err := s.store.Put(ctx, key, r, storage.UploadOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": originalFilename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	// Save metadata to database
	att := &model.Attachment{
		ID:          uuid.NewString(),
		ProductID:   productID,
		Filename:    genName,
		StoragePath: objInfo.Key,
		Size:        objInfo.Size,
		ContentType: objInfo.ContentType,
		CreatedAt:   time.Now().UTC(),
	}
	stored, err := s.attachments.Create(ctx, att)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

func (s *attachmentService) ListByProduct(ctx context.Context, productID string) ([]model.Attachment, error) {
	if productID == "" {
		return nil, ErrIDRequired
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return s.attachments.ListByProduct(ctx, productID)
}

func (s *attachmentService) PresignDownload(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", ErrIDRequired
	}
	att, err := s.attachments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	url, err := s.store.PresignGet(ctx, att.StoragePath, presignTTL)
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return url, nil
}

// Delete removes an attachment from storage, then deletes its record.
func (s *attachmentService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	att, err := s.attachments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	// Delete from storage first; if this fails, keep DB row to avoid orphaned storage reference loss
	if err := s.store.Delete(ctx, att.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	return s.attachments.Delete(ctx, id)
}
