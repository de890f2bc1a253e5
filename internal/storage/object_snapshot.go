package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"jackut/internal/config"
)

// ObjectSnapshotStore keeps the snapshot as one object in an S3 compatible bucket.
type ObjectSnapshotStore struct {
	client *minio.Client
	bucket string
	key    string
}

// NewObjectSnapshotStore connects to the bucket and creates it when missing.
func NewObjectSnapshotStore(ctx context.Context, cfg config.S3Config, name string) (*ObjectSnapshotStore, error) {
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
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	s := &ObjectSnapshotStore{client: client, bucket: cfg.BucketName, key: name + ".json"}
	if err := s.ensureBucket(ctx, cfg.Region); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *ObjectSnapshotStore) ensureBucket(ctx context.Context, region string) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("bucket exists %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

func (s *ObjectSnapshotStore) Load(ctx context.Context) (*Snapshot, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.loadError(err)
	}
	defer obj.Close()

	payload, err := io.ReadAll(obj)
	if err != nil {
		return nil, s.loadError(err)
	}
	return DecodeSnapshot(payload)
}

func (s *ObjectSnapshotStore) loadError(err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return ErrSnapshotNotFound
	}
	return fmt.Errorf("get object %s/%s: %w", s.bucket, s.key, err)
}

func (s *ObjectSnapshotStore) Save(ctx context.Context, snap *Snapshot) error {
	payload, _, err := EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, s.bucket, s.key, bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("put object %s/%s: %w", s.bucket, s.key, err)
	}
	return nil
}

// Delete removes the object. S3 treats removing an absent key as success.
func (s *ObjectSnapshotStore) Delete(ctx context.Context) error {
	if err := s.client.RemoveObject(ctx, s.bucket, s.key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s/%s: %w", s.bucket, s.key, err)
	}
	return nil
}
