package repository

import (
	"context"

	"catalogapi/internal/model"
)

// AttachmentRepository defines data access for attachment metadata.
// The file content itself lives in object storage, never here.
type AttachmentRepository interface {
	// Create inserts a new attachment record.
	Create(ctx context.Context, a *model.Attachment) (*model.Attachment, error)

	// FindByID returns an attachment by its ID, or sql.ErrNoRows.
	FindByID(ctx context.Context, id string) (*model.Attachment, error)

	// ListByProduct returns all attachments of a product, newest first.
	ListByProduct(ctx context.Context, productID string) ([]model.Attachment, error)

	// Delete removes an attachment by ID. sql.ErrNoRows if no row was deleted.
	Delete(ctx context.Context, id string) error
}
