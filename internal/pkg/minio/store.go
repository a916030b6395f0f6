package minio

import (
	"context"
	"io"
)

// Store 以实例形式暴露对象存储能力，供服务层注入
type Store struct{}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Ready() bool {
	return Client != nil
}

func (s *Store) Put(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	return UploadFile(ctx, objectName, reader, size, contentType)
}

func (s *Store) PublicURL(objectName string) string {
	return GetPublicURL(objectName)
}
