package minio

import (
	"Hitoiki/internal/api/config"
	"context"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

var (
	// Client 全局 MinIO 客户端实例
	Client *minio.Client
	// MediaBucket 媒体存储桶
	MediaBucket string
)

// Init 初始化 MinIO 客户端
func Init() error {
	cfg := config.Cfg.MinIO

	var endpoint string
	var useSSL bool
	if cfg.InternalEndpoint != "" {
		endpoint = cfg.InternalEndpoint
		useSSL = cfg.InternalUseSSL
	} else {
		endpoint = cfg.ExternalEndpoint
		useSSL = true
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return errors.Wrap(err, "failed to initialize minio client")
	}

	ctx := context.Background()
	if _, err = client.ListBuckets(ctx); err != nil {
		return errors.Wrap(err, "failed to connect to minio server")
	}

	Client = client
	MediaBucket = cfg.MediaBucket
	return nil
}
