package storage

import "context"

// Storage writes uploaded files somewhere and knows their public URL.
type Storage interface {
	Save(ctx context.Context, key string, data []byte, contentType string) error
	PublicURL(key string) string
	Name() string
}
