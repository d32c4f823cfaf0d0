package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMemoryReportArchive(t *testing.T) {
	m := NewMemoryReportArchive()
	require.NotNil(t, m)
	assert.Equal(t, "https://archive.example.com", m.BaseURL)
	assert.Equal(t, 0, m.Len())
}

func TestMemoryReportArchive_Store(t *testing.T) {
	m := NewMemoryReportArchive()
	ctx := context.Background()

	t.Run("stores a copy of the body", func(t *testing.T) {
		body := []byte("sku,lot,expiry\nSKU-1,LOT-1,2026-09-01\n")
		err := m.Store(ctx, "tenant-a/expiring-stock/2026-08-25.csv", body, "text/csv")
		require.NoError(t, err)

		// Mutating the original must not affect the archived copy
		body[0] = 'x'

		stored, contentType, ok := m.Get("tenant-a/expiring-stock/2026-08-25.csv")
		require.True(t, ok)
		assert.Equal(t, byte('s'), stored[0])
		assert.Equal(t, "text/csv", contentType)
		assert.Equal(t, 1, m.Len())
	})

	t.Run("overwrites an existing key", func(t *testing.T) {
		require.NoError(t, m.Store(ctx, "k", []byte("v1"), "text/plain"))
		require.NoError(t, m.Store(ctx, "k", []byte("v2"), "text/plain"))

		stored, _, ok := m.Get("k")
		require.True(t, ok)
		assert.Equal(t, []byte("v2"), stored)
	})

	t.Run("empty key", func(t *testing.T) {
		err := m.Store(ctx, "", []byte("v"), "text/plain")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "archive key is required")
	})
}

func TestMemoryReportArchive_DownloadURL(t *testing.T) {
	m := NewMemoryReportArchive()
	ctx := context.Background()

	require.NoError(t, m.Store(ctx, "reports/daily.csv", []byte("data"), "text/csv"))

	t.Run("returns link for stored report", func(t *testing.T) {
		url, expiresAt, err := m.DownloadURL(ctx, "reports/daily.csv", time.Hour)
		require.NoError(t, err)
		assert.Contains(t, url, "https://archive.example.com/download/reports/daily.csv")
		assert.True(t, expiresAt.After(time.Now()))
	})

	t.Run("unknown key", func(t *testing.T) {
		_, _, err := m.DownloadURL(ctx, "reports/missing.csv", time.Hour)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "report not found")
	})

	t.Run("empty key", func(t *testing.T) {
		_, _, err := m.DownloadURL(ctx, "", time.Hour)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "archive key is required")
	})
}

func TestMemoryReportArchive_Get(t *testing.T) {
	m := NewMemoryReportArchive()

	_, _, ok := m.Get("nope")
	assert.False(t, ok)
}
