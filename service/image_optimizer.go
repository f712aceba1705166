package service

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tienda-joyas/logger"
	"tienda-joyas/models"

	"github.com/disintegration/imaging"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	SizeThumb  = "thumb"
	SizeMedium = "medium"

	// Quality settings
	qualityThumb  = 60
	qualityMedium = 75
	// Size settings (max dimension)
	maxSizeThumb  = 300
	maxSizeMedium = 800

	maxImageBytes = 15 << 20
)

// ImageServiceInterface defines the contract for product image delivery
type ImageServiceInterface interface {
	Get(ctx context.Context, product models.Product, size string) ([]byte, error)
}

// ImageService downloads product pictures, shrinks them to JPEG and keeps the
// result in a disk cache keyed by product, size and source link.
type ImageService struct {
	client   *resty.Client
	drive    DriveServiceInterface
	cacheDir string
	timeout  time.Duration
	log      *zap.Logger
	group    singleflight.Group
}

// NewImageService creates an ImageService. drive may be nil, in which case Drive
// links are fetched over plain HTTP.
func NewImageService(cacheDir string, timeout time.Duration, drive DriveServiceInterface, log *zap.Logger) *ImageService {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", "tienda-joyas/1.0")
	return &ImageService{
		client:   client,
		drive:    drive,
		cacheDir: cacheDir,
		timeout:  timeout,
		log:      logger.OrNop(log),
	}
}

// Ensure ImageService implements ImageServiceInterface
var _ ImageServiceInterface = (*ImageService)(nil)

// EnsureCacheDir ensures the cache directory exists, creates it if it doesn't
func (s *ImageService) EnsureCacheDir() error {
	if err := os.MkdirAll(s.cacheDir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	return nil
}

// Get returns the optimized image of the product for the given size
func (s *ImageService) Get(ctx context.Context, product models.Product, size string) ([]byte, error) {
	if product.Image == "" {
		return nil, ErrNoImage
	}
	size = NormalizeImageSize(size)
	cachePath := s.cachePath(product, size)

	if data, err := os.ReadFile(cachePath); err == nil {
		return data, nil
	}

	v, err, _ := s.group.Do(cachePath, func() (any, error) {
		// shared by every caller waiting on cachePath, so one caller leaving must not abort it
		dctx, cancel := s.downloadContext(ctx)
		defer cancel()
		raw, err := s.download(dctx, product.Image)
		if err != nil {
			return nil, err
		}
		optimized, err := OptimizeImage(raw, size)
		if err != nil {
			return nil, err
		}
		if err := s.saveToCache(cachePath, optimized); err != nil {
			s.log.Warn("failed to cache image", zap.String("path", cachePath), zap.Error(err))
		}
		return optimized, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load image for product %s: %w", product.ID, err)
	}
	return v.([]byte), nil
}

// Cached reports whether the optimized image is already on disk
func (s *ImageService) Cached(product models.Product, size string) bool {
	if product.Image == "" {
		return false
	}
	_, err := os.Stat(s.cachePath(product, NormalizeImageSize(size)))
	return err == nil
}

// NormalizeImageSize maps unknown sizes to medium
func NormalizeImageSize(size string) string {
	if strings.EqualFold(size, SizeThumb) {
		return SizeThumb
	}
	return SizeMedium
}

func (s *ImageService) cachePath(product models.Product, size string) string {
	sum := sha1.Sum([]byte(product.ID + "|" + product.Image))
	filename := fmt.Sprintf("product_%s_%s.jpg", hex.EncodeToString(sum[:8]), size)
	return filepath.Join(s.cacheDir, filename)
}

func (s *ImageService) downloadContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if s.timeout <= 0 {
		return context.WithCancel(detached)
	}
	return context.WithTimeout(detached, s.timeout)
}

func (s *ImageService) download(ctx context.Context, link string) ([]byte, error) {
	if s.drive != nil {
		if fileID := driveFileID(link); fileID != "" {
			return s.drive.DownloadFile(ctx, fileID)
		}
	}

	resp, err := s.client.R().SetContext(ctx).Get(link)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode()}
	}
	body := resp.Body()
	if len(body) > maxImageBytes {
		return nil, errors.New("image exceeds size limit")
	}
	return body, nil
}

func (s *ImageService) saveToCache(cachePath string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(cachePath), 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	tmp := cachePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := os.Rename(tmp, cachePath); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	s.log.Debug("image cached", zap.String("path", cachePath))
	return nil
}

// driveFileID extracts the id of a https://drive.google.com/uc?id= link
func driveFileID(link string) string {
	const prefix = "https://drive.google.com/uc?id="
	if !strings.HasPrefix(link, prefix) {
		return ""
	}
	id := strings.TrimPrefix(link, prefix)
	if i := strings.IndexByte(id, '&'); i >= 0 {
		id = id[:i]
	}
	return id
}

// OptimizeImage converts an image to JPEG no larger than the size's max dimension
func OptimizeImage(imageData []byte, size string) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	maxDim, quality := maxSizeMedium, qualityMedium
	if size == SizeThumb {
		maxDim, quality = maxSizeThumb, qualityThumb
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxDim || bounds.Dy() > maxDim {
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode to JPEG: %w", err)
	}
	return buf.Bytes(), nil
}
