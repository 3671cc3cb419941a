// Package archive stores raw import payload copies for traceability,
// either on local disk or in S3.
package archive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dukerupert/vigie"
)

// NewArchiveStore creates an archive store based on the provider
// configuration. Provider "none" returns nil: archiving disabled.
func NewArchiveStore(ctx context.Context, logger *slog.Logger, cfg vigie.ArchiveConfig) (vigie.ArchiveStore, error) {
	switch cfg.Provider {
	case "none", "":
		logger.Info("payload archiving disabled")
		return nil, nil

	case "s3":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		s3Client := s3.NewFromConfig(awsCfg)

		logger.Info("initialized S3 archive",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
		)
		return NewS3Archive(s3Client, cfg.S3Bucket, cfg.S3BaseURL), nil

	case "local":
		store, err := NewLocalArchive(cfg.LocalPath, cfg.LocalURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create local archive: %w", err)
		}
		logger.Info("initialized local archive",
			slog.String("path", cfg.LocalPath),
			slog.String("url", cfg.LocalURL),
		)
		return store, nil

	default:
		return nil, fmt.Errorf("unknown archive provider %q", cfg.Provider)
	}
}

// Compile-time interface check
var _ vigie.ArchiveStore = (*LocalArchive)(nil)

// LocalArchive implements vigie.ArchiveStore on local disk.
type LocalArchive struct {
	basePath string
	baseURL  string
}

// NewLocalArchive creates a local archive rooted at basePath.
func NewLocalArchive(basePath, baseURL string) (*LocalArchive, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	return &LocalArchive{basePath: basePath, baseURL: baseURL}, nil
}

// Put writes a blob under key, creating intermediate directories. Keys use
// forward slashes; they are mapped onto the local path.
func (a *LocalArchive) Put(ctx context.Context, key string, reader io.Reader, contentType string) (string, error) {
	destPath := filepath.Join(a.basePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create archive subdirectory: %w", err)
	}

	dst, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create archive file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, reader); err != nil {
		return "", fmt.Errorf("failed to write archive file: %w", err)
	}
	return a.URL(key), nil
}

// Delete removes a blob. Missing blobs are not an error.
func (a *LocalArchive) Delete(ctx context.Context, key string) error {
	err := os.Remove(filepath.Join(a.basePath, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete archive file: %w", err)
	}
	return nil
}

// URL returns the public URL for a stored blob.
func (a *LocalArchive) URL(key string) string {
	return fmt.Sprintf("%s/%s", a.baseURL, key)
}

// Exists checks whether a blob exists on disk.
func (a *LocalArchive) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(filepath.Join(a.basePath, filepath.FromSlash(key)))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
