package model

import "time"

// Attachment is a file stored in object storage and linked to a product
// (an image, a spec sheet, a manual). StoragePath is the object key; the
// content itself never touches the database.
type Attachment struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	Filename    string    `json:"filename"`
	StoragePath string    `json:"storage_path"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}
