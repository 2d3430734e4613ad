package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"foresttrack/internal/config"
	"foresttrack/internal/ids"
	"foresttrack/internal/media/sniffer"
	"foresttrack/internal/media/svg"
)

// ObjectStore moves photo data URLs out of the document store and into a
// bucket; the stored record keeps the object URL instead.
type ObjectStore struct {
	client *minio.Client
	cfg    config.StorageConfig
}

func NewObjectStore(cfg config.StorageConfig) (*ObjectStore, error) {
	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL

	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	return &ObjectStore{
		client: client,
		cfg:    cfg,
	}, nil
}

func (s *ObjectStore) EnsureBucket(ctx context.Context) error {
	bucket := s.cfg.BucketPhotos
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("bucket exists %s: %w", bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: s.cfg.Region}); err != nil {
			return fmt.Errorf("create bucket %s: %w", bucket, err)
		}
	}
	return nil
}

// Store uploads every data URL in photos and returns the list with each one
// replaced by its object URL. Order is preserved; values that are not data
// URLs pass through unchanged.
func (s *ObjectStore) Store(ctx context.Context, owner string, photos []string) ([]string, error) {
	out := make([]string, len(photos))
	for i, photo := range photos {
		if !sniffer.IsDataURL(photo) {
			out[i] = photo
			continue
		}
		stored, err := s.put(ctx, owner, photo)
		if err != nil {
			return nil, fmt.Errorf("photo %d: %w", i, err)
		}
		out[i] = stored
	}
	return out, nil
}

func (s *ObjectStore) put(ctx context.Context, owner string, dataURL string) (string, error) {
	decoded, err := sniffer.ParseDataURL(dataURL)
	if err != nil {
		return "", fmt.Errorf("decode data url: %w", err)
	}

	kind := sniffer.Classify(decoded)
	data := decoded.Data
	if kind.Type == sniffer.TypeSVG {
		clean, err := svg.Sanitize(data)
		if err != nil {
			return "", fmt.Errorf("sanitize svg: %w", err)
		}
		data = clean
	}

	objectKey := buildObjectKey(owner, ids.New(), string(kind.Type), time.Now())
	if _, err := s.client.PutObject(ctx, s.cfg.BucketPhotos, objectKey, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: kind.MIME,
	}); err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	return buildPublicURL(s.cfg.Endpoint, s.cfg.BucketPhotos, objectKey), nil
}

func buildObjectKey(owner, id, ext string, now time.Time) string {
	if owner == "" {
		owner = "anonymous"
	}
	return path.Join(owner, now.UTC().Format("2006/01/02"), fmt.Sprintf("%s.%s", id, ext))
}

func buildPublicURL(endpoint, bucket, objectKey string) string {
	base := strings.TrimSuffix(endpoint, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	return fmt.Sprintf("%s/%s/%s", base, bucket, objectKey)
}

// InlineStore keeps photos embedded in the record as given.
type InlineStore struct{}

func (InlineStore) Store(_ context.Context, _ string, photos []string) ([]string, error) {
	out := make([]string, len(photos))
	copy(out, photos)
	return out, nil
}
