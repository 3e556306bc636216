package storage

import (
	"context"
	"io"
)

// MediaKind selects the key prefix and content types of an upload
type MediaKind string

const (
	MediaVideo     MediaKind = "videos"
	MediaThumbnail MediaKind = "thumbnails"
)

// Upload size limits enforced before any bytes are sent
const (
	MaxVideoSize     int64 = 2 << 30 // 2 GiB
	MaxThumbnailSize int64 = 5 << 20 // 5 MiB
)

// Uploader stores media and returns its public URL. Handlers depend on this
// interface so tests can swap in a fake.
type Uploader interface {
	Upload(ctx context.Context, kind MediaKind, body io.Reader, size int64, ownerID, filename string) (*UploadResult, error)
	DeleteFile(ctx context.Context, key string) error
}

// Ensure S3Uploader implements Uploader
var _ Uploader = (*S3Uploader)(nil)
