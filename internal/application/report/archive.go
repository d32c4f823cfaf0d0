package report

import (
	"context"
	"time"
)

// ReportArchive stores generated report documents and hands out time-limited
// download URLs. Implementations live in the storage infrastructure; the
// stub keeps everything in memory for development.
type ReportArchive interface {
	// Store uploads a report body under the given key
	Store(ctx context.Context, key string, body []byte, contentType string) error

	// DownloadURL returns a presigned URL for a stored report
	DownloadURL(ctx context.Context, key string, expiresIn time.Duration) (url string, expiresAt time.Time, err error)
}
