package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"
)

func TestUploadAllStoreNotReady(t *testing.T) {
	t.Parallel()

	store := newFakeObjectStore()
	store.ready = false
	svc := NewMediaService(store)

	assets := []*MediaAsset{
		{FileName: "a.mp4", MimeType: "video/mp4", Data: strings.NewReader("data")},
	}

	_, _, err := svc.UploadAll(context.Background(), assets)
	if !errors.Is(err, ErrMediaUnavailable) {
		t.Fatalf("expected ErrMediaUnavailable, got %v", err)
	}
}

func TestUploadAllDropsFailedAssets(t *testing.T) {
	t.Parallel()

	store := newFakeObjectStore()
	svc := NewMediaService(store)

	assets := []*MediaAsset{
		{FileName: "one.mp4", MimeType: "video/mp4", Data: strings.NewReader("first")},
		{FileName: "two.mp4", MimeType: "video/mp4", Data: strings.NewReader("fail")},
		{FileName: "three.mp4", MimeType: "video/mp4", Data: strings.NewReader("third")},
	}

	urls, dropped, err := svc.UploadAll(context.Background(), assets)
	if err != nil {
		t.Fatalf("UploadAll error: %v", err)
	}
	if dropped != 1 {
		t.Fatalf("expected 1 dropped asset, got %d", dropped)
	}
	if len(urls) != 2 {
		t.Fatalf("expected 2 urls, got %d", len(urls))
	}
	for _, u := range urls {
		if !strings.HasPrefix(u, "https://media.test/media/") {
			t.Fatalf("unexpected url: %s", u)
		}
	}
}

func TestUploadAllAllFailed(t *testing.T) {
	t.Parallel()

	store := newFakeObjectStore()
	svc := NewMediaService(store)

	assets := []*MediaAsset{
		{FileName: "one.mp4", MimeType: "video/mp4", Data: strings.NewReader("fail")},
		{FileName: "two.mp4", MimeType: "video/mp4", Data: strings.NewReader("fail")},
	}

	urls, dropped, err := svc.UploadAll(context.Background(), assets)
	if err != nil {
		t.Fatalf("UploadAll error: %v", err)
	}
	if dropped != 2 {
		t.Fatalf("expected 2 dropped assets, got %d", dropped)
	}
	if len(urls) != 0 {
		t.Fatalf("expected no urls, got %v", urls)
	}
}

func TestUploadAllReencodesImagesAsJPEG(t *testing.T) {
	t.Parallel()

	store := newFakeObjectStore()
	svc := NewMediaService(store)

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("encode test image: %v", err)
	}

	assets := []*MediaAsset{
		{FileName: "photo.png", MimeType: "image/png", Data: &buf},
	}

	urls, dropped, err := svc.UploadAll(context.Background(), assets)
	if err != nil {
		t.Fatalf("UploadAll error: %v", err)
	}
	if dropped != 0 {
		t.Fatalf("expected no dropped assets, got %d", dropped)
	}
	if len(urls) != 1 {
		t.Fatalf("expected 1 url, got %d", len(urls))
	}
	if !strings.HasSuffix(urls[0], ".jpg") {
		t.Fatalf("expected jpg object name, got %s", urls[0])
	}

	for name, contentType := range store.types {
		if contentType != "image/jpeg" {
			t.Fatalf("object %s stored with content type %s", name, contentType)
		}
	}
}

func TestUploadAllEmptyInput(t *testing.T) {
	t.Parallel()

	svc := NewMediaService(newFakeObjectStore())

	urls, dropped, err := svc.UploadAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("UploadAll error: %v", err)
	}
	if urls != nil || dropped != 0 {
		t.Fatalf("expected empty result, got urls=%v dropped=%d", urls, dropped)
	}
}
