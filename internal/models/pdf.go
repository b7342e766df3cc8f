package models

import (
	"strings"
	"time"
)

type PdfDocument struct {
	ID          string    `json:"id"`
	OwnerID     int64     `json:"-"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	IsPublic    bool      `json:"isPublic"`
	FileSize    int64     `json:"fileSize"`
	StoredPath  string    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`

	// Username of the owner, resolved by the list/get queries.
	UploadedBy string `json:"uploadedBy"`
}

// ParseTags normalizes a user-supplied comma-separated tag string:
// split on comma, trim whitespace, drop empty entries. Upload and
// update must both go through this function.
func ParseTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}
