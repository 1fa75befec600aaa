package domain

import "time"

// StoredObject is a blob kept in a storage bucket.
type StoredObject struct {
	Bucket      string
	Path        string
	ContentType string
	Data        []byte
	CreatedAt   time.Time
}
