package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/meridianscan/sales-api/internal/config"
	"github.com/meridianscan/sales-api/internal/domain"
	"go.uber.org/zap"
)

// ManifestStore persists quote manifest exports for downstream consumers
// (proposal rendering, accounting handoff). Exports are written once per
// version and never rewritten.
type ManifestStore interface {
	Upload(ctx context.Context, filename string, contentType string, data io.Reader) (string, int64, error)
	Download(ctx context.Context, storagePath string) (io.ReadCloser, error)
	Delete(ctx context.Context, storagePath string) error
}

// NewManifestStore creates a store instance based on configuration.
// For local mode, exports are stored on the local filesystem.
// For cloud/azure mode, exports are stored in Azure Blob Storage.
func NewManifestStore(cfg *config.StorageConfig, logger *zap.Logger) (ManifestStore, error) {
	switch cfg.Mode {
	case "local":
		return NewLocalStore(cfg.LocalBasePath)
	case "cloud", "azure":
		if cfg.CloudConnectionString == "" {
			return nil, fmt.Errorf("cloud connection string required for azure storage")
		}
		return NewAzureBlobStore(cfg.CloudConnectionString, cfg.CloudContainer, logger)
	default:
		return nil, fmt.Errorf("unsupported storage mode: %s", cfg.Mode)
	}
}

// ExportManifest serializes a version's manifest and writes it to the store.
// The returned path identifies the export for later download.
func ExportManifest(ctx context.Context, store ManifestStore, dealID uuid.UUID, sequence int, manifest []domain.ProposalLineItem) (string, error) {
	payload, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode manifest: %w", err)
	}

	filename := fmt.Sprintf("%s-v%d-manifest.json", dealID, sequence)
	path, _, err := store.Upload(ctx, filename, "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to export manifest: %w", err)
	}
	return path, nil
}

// LocalStore implements ManifestStore for the local filesystem
type LocalStore struct {
	basePath string
}

// NewLocalStore creates a new local store instance
func NewLocalStore(basePath string) (*LocalStore, error) {
	// Create base path if it doesn't exist
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStore{
		basePath: basePath,
	}, nil
}

// Upload writes an export to local storage
func (s *LocalStore) Upload(ctx context.Context, filename string, contentType string, data io.Reader) (string, int64, error) {
	// Generate unique storage path
	fileID := uuid.New().String()
	ext := filepath.Ext(filename)
	storagePath := filepath.Join(fileID[:2], fileID[2:4], fileID+ext)
	fullPath := filepath.Join(s.basePath, storagePath)

	// Create directory structure
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create directory: %w", err)
	}

	// Create file
	file, err := os.Create(fullPath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	// Copy data
	size, err := io.Copy(file, data)
	if err != nil {
		os.Remove(fullPath) // Cleanup on error
		return "", 0, fmt.Errorf("failed to write file: %w", err)
	}

	return storagePath, size, nil
}

// Download reads an export from local storage
func (s *LocalStore) Download(ctx context.Context, storagePath string) (io.ReadCloser, error) {
	fullPath := filepath.Join(s.basePath, storagePath)

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", storagePath)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// Delete removes an export from local storage
func (s *LocalStore) Delete(ctx context.Context, storagePath string) error {
	fullPath := filepath.Join(s.basePath, storagePath)

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}
