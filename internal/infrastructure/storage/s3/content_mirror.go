package s3

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dreschagin/fleet-status/internal/application/port"
	"github.com/dreschagin/fleet-status/pkg/logger"
)

type Config struct {
	Bucket          string
	Prefix          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	DocumentRoot    string
}

// ContentMirror mirrors static site content from an S3 bucket into the
// local document root served by the web server. Unchanged objects are
// skipped by comparing size and modification time against the local copy.
// Implements port.ContentMirror.
type ContentMirror struct {
	client       *s3.Client
	bucket       string
	prefix       string
	documentRoot string
	logger       *logger.Logger
}

func NewContentMirror(ctx context.Context, cfg Config, log *logger.Logger) (*ContentMirror, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	if strings.TrimSpace(cfg.DocumentRoot) == "" {
		return nil, fmt.Errorf("document root is required")
	}
	if strings.TrimSpace(cfg.Region) == "" {
		cfg.Region = "us-east-1"
	}

	loadOptions := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if strings.TrimSpace(cfg.AccessKeyID) != "" && strings.TrimSpace(cfg.SecretAccessKey) != "" {
		loadOptions = append(loadOptions, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(options *s3.Options) {
		if endpoint := strings.TrimSpace(cfg.Endpoint); endpoint != "" {
			options.BaseEndpoint = &endpoint
		}
		options.UsePathStyle = cfg.UsePathStyle
	})

	return &ContentMirror{
		client:       client,
		bucket:       strings.TrimSpace(cfg.Bucket),
		prefix:       strings.TrimPrefix(strings.TrimSpace(cfg.Prefix), "/"),
		documentRoot: cfg.DocumentRoot,
		logger:       log,
	}, nil
}

// Mirror downloads changed objects and reports transfer statistics.
// A failure on any object aborts the pass: the sync marker must only
// advance after a fully consistent mirror.
func (m *ContentMirror) Mirror(ctx context.Context) (port.MirrorStats, error) {
	var stats port.MirrorStats

	paginator := s3.NewListObjectsV2Paginator(m.client, &s3.ListObjectsV2Input{
		Bucket: &m.bucket,
		Prefix: &m.prefix,
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return stats, fmt.Errorf("failed to list bucket %s: %w", m.bucket, err)
		}

		for _, object := range page.Contents {
			if object.Key == nil || strings.HasSuffix(*object.Key, "/") {
				continue
			}

			localPath, err := m.localPathFor(*object.Key)
			if err != nil {
				return stats, err
			}

			if m.isUnchanged(localPath, object.Size, object.LastModified) {
				stats.Skipped++
				continue
			}

			size, err := m.download(ctx, *object.Key, localPath)
			if err != nil {
				return stats, fmt.Errorf("failed to mirror %s: %w", *object.Key, err)
			}

			stats.Downloaded++
			stats.Bytes += size
			m.logger.Debug("Mirrored object", "key", *object.Key, "bytes", size)
		}
	}

	return stats, nil
}

// localPathFor maps an object key to a path under the document root,
// rejecting keys that would escape it.
func (m *ContentMirror) localPathFor(key string) (string, error) {
	relative := strings.TrimPrefix(key, m.prefix)
	relative = strings.TrimPrefix(relative, "/")

	path := filepath.Join(m.documentRoot, filepath.FromSlash(relative))
	if !strings.HasPrefix(path, filepath.Clean(m.documentRoot)+string(os.PathSeparator)) {
		return "", fmt.Errorf("object key escapes document root: %s", key)
	}
	return path, nil
}

// isUnchanged compares the local copy against the remote object listing.
// Size must match and the local copy must not predate the remote object.
func (m *ContentMirror) isUnchanged(localPath string, size *int64, lastModified *time.Time) bool {
	info, err := os.Stat(localPath)
	if err != nil {
		return false
	}
	if size == nil || info.Size() != *size {
		return false
	}
	if lastModified == nil || info.ModTime().Before(*lastModified) {
		return false
	}
	return true
}

// download streams an object to a temp file and atomically replaces the local copy
func (m *ContentMirror) download(ctx context.Context, key, localPath string) (int64, error) {
	out, err := m.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &m.bucket,
		Key:    &key,
	})
	if err != nil {
		return 0, err
	}
	defer out.Body.Close()

	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(localPath), ".mirror-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	written, err := io.Copy(tmp, out.Body)
	if err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to write object body: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to chmod file: %w", err)
	}

	if err := os.Rename(tmpPath, localPath); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to replace local copy: %w", err)
	}

	return written, nil
}
