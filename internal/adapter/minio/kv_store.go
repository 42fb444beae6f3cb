// Package minio keeps each store key as one object in a bucket.
package minio

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/app/config"
	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/repository"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type KVStore struct {
	client *minio.Client
	bucket string
	prefix string
	log    logger.Logger
}

var _ repository.KeyValueStore = (*KVStore)(nil)

func NewKVStore(ctx context.Context, cfg config.MinIOConfig, prefix string, log logger.Logger) (*KVStore, error) {
	log.Infof("Initializing MinIO state storage: endpoint=%s bucket=%s use_ssl=%t", cfg.Endpoint, cfg.Bucket, cfg.UseSSL)

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: minio client for %s: %v", repository.ErrConnectionFailed, cfg.Endpoint, err)
	}

	if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
		exists, errExists := client.BucketExists(ctx, cfg.Bucket)
		if errExists != nil || !exists {
			return nil, fmt.Errorf("%w: make/verify bucket %s: (make: %v / exists_check: %v)",
				repository.ErrConnectionFailed, cfg.Bucket, err, errExists)
		}
		log.Debugf("MinIO bucket %s already exists", cfg.Bucket)
	}

	return &KVStore{
		client: client,
		bucket: cfg.Bucket,
		prefix: prefix,
		log:    log,
	}, nil
}

func (s *KVStore) objectKey(key string) string {
	return s.prefix + key + ".json"
}

func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.objectKey(key), minio.GetObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("%w: get object %s: %v", repository.ErrQueryFailed, key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return "", repository.ErrNotFound
		}
		return "", fmt.Errorf("%w: read object %s: %v", repository.ErrQueryFailed, key, err)
	}
	return string(data), nil
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.objectKey(key), strings.NewReader(value), int64(len(value)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("%w: put object %s: %v", repository.ErrQueryFailed, key, err)
	}
	return nil
}

func (s *KVStore) Close() error {
	return nil
}
