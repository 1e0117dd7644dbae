// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package persist

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/pdiddy/article-console/pkg/types"
)

// DefaultRegion is used when the object store config names no region.
const DefaultRegion = "us-east-1"

// ObjectSlot stores each key as a JSON object in an S3-compatible bucket.
// Revisions are object ETags.
type ObjectSlot struct {
	client *minio.Client
	cfg    types.ObjectStoreConfig

	initOnce sync.Once
	initErr  error
}

// objectConfig trims cfg, fills the region, and names every missing field.
func objectConfig(cfg types.ObjectStoreConfig) (types.ObjectStoreConfig, error) {
	cfg.Endpoint = strings.TrimSpace(cfg.Endpoint)
	cfg.AccessKey = strings.TrimSpace(cfg.AccessKey)
	cfg.SecretKey = strings.TrimSpace(cfg.SecretKey)
	cfg.Bucket = strings.TrimSpace(cfg.Bucket)
	cfg.Region = strings.TrimSpace(cfg.Region)
	cfg.Prefix = strings.Trim(cfg.Prefix, "/")

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"storage.s3.endpoint", cfg.Endpoint},
		{"storage.s3.access_key", cfg.AccessKey},
		{"storage.s3.secret_key", cfg.SecretKey},
		{"storage.s3.bucket", cfg.Bucket},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return cfg, fmt.Errorf("object storage is not configured: set %s", strings.Join(missing, ", "))
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}
	return cfg, nil
}

// NewObjectSlot connects to the bucket named in cfg. The bucket is created
// on first use.
func NewObjectSlot(cfg types.ObjectStoreConfig) (*ObjectSlot, error) {
	cfg, err := objectConfig(cfg)
	if err != nil {
		return nil, err
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to object storage: %w", err)
	}
	return &ObjectSlot{client: client, cfg: cfg}, nil
}

func (s *ObjectSlot) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.cfg.Bucket)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.initErr = s.client.MakeBucket(ctx, s.cfg.Bucket, minio.MakeBucketOptions{Region: s.cfg.Region})
	})
	return s.initErr
}

// Get downloads the object for key. A missing object or bucket is reported
// as ok=false.
func (s *ObjectSlot) Get(ctx context.Context, key string) (Entry, bool, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return Entry{}, false, fmt.Errorf("ensure bucket: %w", err)
	}

	obj, err := s.client.GetObject(ctx, s.cfg.Bucket, s.objectKey(key), minio.GetObjectOptions{})
	if err != nil {
		return Entry{}, false, fmt.Errorf("getting object: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if isNotFound(err) {
			return Entry{}, false, nil
		}
		return Entry{}, false, fmt.Errorf("reading object: %w", err)
	}
	info, err := obj.Stat()
	if err != nil {
		return Entry{}, false, fmt.Errorf("reading object info: %w", err)
	}
	return Entry{Value: string(data), Revision: info.ETag}, true, nil
}

// Put uploads value as the object for key when the stored ETag still
// matches rev. The check and the upload are two requests, so two writers
// racing inside that window can still both succeed.
func (s *ObjectSlot) Put(ctx context.Context, key, value, rev string) (string, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure bucket: %w", err)
	}

	current, err := s.revision(ctx, key)
	if err != nil {
		return "", err
	}
	if current != rev {
		return "", ErrConflict
	}

	info, err := s.client.PutObject(ctx, s.cfg.Bucket, s.objectKey(key), strings.NewReader(value), int64(len(value)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("putting object: %w", err)
	}
	return info.ETag, nil
}

// revision returns the ETag stored for key, or "" when there is none.
func (s *ObjectSlot) revision(ctx context.Context, key string) (string, error) {
	info, err := s.client.StatObject(ctx, s.cfg.Bucket, s.objectKey(key), minio.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("checking object: %w", err)
	}
	return info.ETag, nil
}

// Close is a no-op; the minio client holds no resources to release.
func (s *ObjectSlot) Close() error { return nil }

func (s *ObjectSlot) objectKey(key string) string {
	name := strings.TrimLeft(strings.TrimSpace(key), "/") + ".json"
	if s.cfg.Prefix == "" {
		return name
	}
	return path.Join(s.cfg.Prefix, name)
}

func isNotFound(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NoSuchBucket"
}
