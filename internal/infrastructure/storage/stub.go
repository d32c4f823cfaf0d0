// Package storage provides report archive implementations backed by object storage.
package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/warehub/backend/internal/application/report"
)

// Ensure MemoryReportArchive implements ReportArchive
var _ report.ReportArchive = (*MemoryReportArchive)(nil)

// MemoryReportArchive keeps archived reports in memory. Use it for
// development and tests until a real object storage backend is configured.
type MemoryReportArchive struct {
	// BaseURL is the base URL for generated download links.
	// Defaults to "https://archive.example.com" if not set.
	BaseURL string

	mu      sync.RWMutex
	objects map[string]archivedObject
}

type archivedObject struct {
	body        []byte
	contentType string
	storedAt    time.Time
}

// NewMemoryReportArchive creates a new MemoryReportArchive
func NewMemoryReportArchive() *MemoryReportArchive {
	return &MemoryReportArchive{
		BaseURL: "https://archive.example.com",
		objects: make(map[string]archivedObject),
	}
}

// Store keeps a copy of the report body under the given key
func (m *MemoryReportArchive) Store(ctx context.Context, key string, body []byte, contentType string) error {
	if key == "" {
		return errors.New("archive key is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(body))
	copy(stored, body)
	m.objects[key] = archivedObject{
		body:        stored,
		contentType: contentType,
		storedAt:    time.Now(),
	}
	return nil
}

// DownloadURL returns a fake download link for a stored report. Unknown keys
// are an error so callers exercise the same missing-report path as with S3.
func (m *MemoryReportArchive) DownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errors.New("archive key is required")
	}

	m.mu.RLock()
	_, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return "", time.Time{}, errors.New("report not found: " + key)
	}

	expiresAt := time.Now().Add(expiresIn)
	url := m.BaseURL + "/download/" + key + "?expires=" + expiresAt.UTC().Format(time.RFC3339)
	return url, expiresAt, nil
}

// Get returns a stored report body and content type
func (m *MemoryReportArchive) Get(key string) ([]byte, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[key]
	if !ok {
		return nil, "", false
	}
	return obj.body, obj.contentType, true
}

// Len returns the number of stored reports
func (m *MemoryReportArchive) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
