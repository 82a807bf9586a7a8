// Package objectstore реализует хранилище файлов аватаров поверх MinIO.
//
// Изображения кладутся по детерминированным ключам, наружу отдается
// публичная ссылка на объект. Ошибки загрузки не проглатываются,
// а возвращаются вызывающей стороне.
package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/magabrotheeeer/contact-hub/internal/config"
)

// minioAPI сужает клиент MinIO до используемых операций, чтобы его можно было
// подменить в тестах без реального сервера.
type minioAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// Client хранит аватары в бакете MinIO.
type Client struct {
	api            minioAPI
	bucket         string
	publicEndpoint string
}

// New создает клиент объектного хранилища и гарантирует существование бакета.
func New(ctx context.Context, cfg config.Minio) (*Client, error) {
	const op = "objectstore.New"

	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return NewWithAPI(ctx, mc, cfg.Bucket, cfg.PublicEndpoint)
}

// NewWithAPI позволяет подставить мок вместо реального клиента (используется в тестах).
func NewWithAPI(ctx context.Context, api minioAPI, bucket, publicEndpoint string) (*Client, error) {
	const op = "objectstore.NewWithAPI"

	c := &Client{
		api:            api,
		bucket:         bucket,
		publicEndpoint: strings.TrimRight(publicEndpoint, "/"),
	}
	if err := c.ensureBucketExists(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

func (c *Client) ensureBucketExists(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err = c.api.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

// Upload сохраняет объект по ключу key и возвращает его публичную ссылку.
func (c *Client) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	const op = "objectstore.Upload"

	_, err := c.api.PutObject(ctx, c.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return c.ObjectURL(key), nil
}

// Remove удаляет объект по ключу.
func (c *Client) Remove(ctx context.Context, key string) error {
	const op = "objectstore.Remove"

	if err := c.api.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ObjectURL возвращает публичную ссылку на объект по его ключу.
func (c *Client) ObjectURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", c.publicEndpoint, c.bucket, key)
}
