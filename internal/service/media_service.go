package service

import (
	"bytes"
	"context"
	"io"
	log "log/slog"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// jpegQuality 图片统一转 JPEG 后的压缩质量
const jpegQuality = 80

// maxUploadConcurrency 单次投稿的并发上传上限
const maxUploadConcurrency = 4

// ObjectStore 对象存储抽象，生产实现是 MinIO
type ObjectStore interface {
	Ready() bool
	Put(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
	PublicURL(objectName string) string
}

// MediaAsset 一个待上传的媒体文件
type MediaAsset struct {
	FileName string
	MimeType string
	Data     io.Reader
}

type MediaService interface {
	// UploadAll 并发上传全部文件，单个文件失败只丢弃该文件，
	// 返回成功文件的公开 URL（保持入参顺序）和被丢弃的文件数。
	// 存储不可用时整体失败。
	UploadAll(ctx context.Context, assets []*MediaAsset) ([]string, int, error)
}

type mediaServiceImpl struct {
	store ObjectStore
}

func NewMediaService(store ObjectStore) MediaService {
	return &mediaServiceImpl{store: store}
}

func (s *mediaServiceImpl) UploadAll(ctx context.Context, assets []*MediaAsset) ([]string, int, error) {
	if len(assets) == 0 {
		return nil, 0, nil
	}
	if !s.store.Ready() {
		return nil, 0, ErrMediaUnavailable
	}

	results := make([]string, len(assets))

	var mu sync.Mutex
	dropped := 0

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxUploadConcurrency)

	for i, asset := range assets {
		g.Go(func() error {
			url, err := s.uploadOne(gCtx, asset)
			if err != nil {
				log.WarnContext(gCtx, "media upload dropped",
					"file", asset.FileName, "err", err)
				mu.Lock()
				dropped++
				mu.Unlock()
				return nil
			}
			results[i] = url
			return nil
		})
	}

	_ = g.Wait()

	urls := make([]string, 0, len(assets))
	for _, u := range results {
		if u != "" {
			urls = append(urls, u)
		}
	}
	return urls, dropped, nil
}

// uploadOne 图片统一转成 JPEG 再上传，其它类型原样透传
func (s *mediaServiceImpl) uploadOne(ctx context.Context, asset *MediaAsset) (string, error) {
	reader := asset.Data
	contentType := asset.MimeType
	ext := path.Ext(asset.FileName)
	var size int64 = -1

	if strings.HasPrefix(asset.MimeType, "image") {
		img, err := imaging.Decode(asset.Data, imaging.AutoOrientation(true))
		if err != nil {
			return "", err
		}
		var buf bytes.Buffer
		if err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
			return "", err
		}
		reader = &buf
		size = int64(buf.Len())
		contentType = "image/jpeg"
		ext = ".jpg"
	}

	objectName := "media/" + time.Now().Format("2006/01/02") + "/" + uuid.NewString() + ext

	key, err := s.store.Put(ctx, objectName, reader, size, contentType)
	if err != nil {
		return "", err
	}
	return s.store.PublicURL(key), nil
}
