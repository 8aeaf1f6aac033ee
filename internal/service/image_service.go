package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"sync/atomic"
	"time"

	"assessment_builder/internal/document"
	"assessment_builder/internal/util"
	"assessment_builder/pkg/logger"
	"assessment_builder/pkg/monitoring"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const imagePrefix = "assessment-images"

// ImageService is the image transport used by authoring sessions. The object
// key doubles as the public id stored on image content.
type ImageService struct {
	Provider StorageProvider
	maxSize  atomic.Int64
}

func NewImageService(provider StorageProvider, maxSize int64) *ImageService {
	s := &ImageService{Provider: provider}
	s.SetMaxSize(maxSize)
	return s
}

// SetMaxSize changes the upload limit; it is safe to call while serving.
func (s *ImageService) SetMaxSize(n int64) {
	s.maxSize.Store(n)
}

func (s *ImageService) MaxSize() int64 {
	return s.maxSize.Load()
}

// Upload checks size and type before handing the image to the provider.
func (s *ImageService) Upload(ctx context.Context, name string, r io.Reader, size int64) (ref document.ImageRef, err error) {
	defer func() {
		monitoring.ImageTransfers.WithLabelValues("upload", monitoring.Outcome(err)).Inc()
	}()

	if limit := s.MaxSize(); limit > 0 && size > limit {
		return document.ImageRef{}, fmt.Errorf("%w: %d > %d bytes", util.ErrImageTooLarge, size, limit)
	}

	mt, body, err := util.SniffImage(r)
	if err != nil {
		return document.ImageRef{}, err
	}
	if !util.IsAllowedImage(mt) {
		return document.ImageRef{}, fmt.Errorf("%w: %s", util.ErrUnsupportedImage, mt.String())
	}

	key := path.Join(imagePrefix, time.Now().Format("2006/01"), uuid.New().String()+mt.Extension())
	url, err := s.Provider.Upload(ctx, key, body, size, mt.String())
	if err != nil {
		logger.Log.Error("Image upload failed",
			zap.String("name", name),
			zap.String("key", key),
			zap.Error(err))
		return document.ImageRef{}, fmt.Errorf("upload %s: %w", name, err)
	}

	logger.Log.Debug("Image uploaded", zap.String("key", key), zap.Int64("size", size))
	return document.ImageRef{URL: url, PublicID: key}, nil
}

func (s *ImageService) Delete(ctx context.Context, publicID string) (err error) {
	defer func() {
		monitoring.ImageTransfers.WithLabelValues("delete", monitoring.Outcome(err)).Inc()
	}()
	if err := s.Provider.Delete(ctx, publicID); err != nil {
		return fmt.Errorf("delete image %s: %w", publicID, err)
	}
	return nil
}
