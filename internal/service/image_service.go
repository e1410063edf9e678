package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"recipebox/internal/config"
	"recipebox/internal/models"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultImageUploadDir       = "uploads"
	DefaultImageMaxUploadSizeMB = 5
	MaxImageDimension           = 2048
	WebPQuality                 = 80

	// UploadsURLPrefix is where stored images are served from.
	UploadsURLPrefix = "/uploads/"
)

// UploadImageInput is a raw upload destined for a recipe.
type UploadImageInput struct {
	OwnerID     string
	Filename    string
	ContentType string
	Content     []byte
}

// ImageService normalizes uploads to WebP and stores them on local disk.
type ImageService struct {
	uploadDir          string
	maxUploadSizeBytes int64
}

func NewImageService(cfg *config.Config) *ImageService {
	uploadDir := DefaultImageUploadDir
	maxUploadSizeMB := DefaultImageMaxUploadSizeMB

	if cfg != nil {
		if cfg.UploadDir != "" {
			uploadDir = cfg.UploadDir
		}
		if cfg.ImageMaxUploadSizeMB > 0 {
			maxUploadSizeMB = cfg.ImageMaxUploadSizeMB
		}
	}

	return &ImageService{
		uploadDir:          uploadDir,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// UploadDir is the directory served under UploadsURLPrefix.
func (s *ImageService) UploadDir() string {
	return s.uploadDir
}

// MaxUploadSizeBytes is the largest accepted upload.
func (s *ImageService) MaxUploadSizeBytes() int64 {
	return s.maxUploadSizeBytes
}

// Store validates, downsizes and re-encodes the upload, returning its public path.
// Identical content from the same owner maps to the same file.
func (s *ImageService) Store(_ context.Context, in UploadImageInput) (string, error) {
	if len(in.Content) == 0 {
		return "", models.NewFieldValidationError(map[string]string{"image": "No file uploaded"})
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return "", models.NewFieldValidationError(map[string]string{
			"image": fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)),
		})
	}

	detected := http.DetectContentType(in.Content)
	if !isAllowedImageMIME(detected) {
		return "", models.NewFieldValidationError(map[string]string{"image": "Only JPEG, PNG and WebP images are allowed"})
	}

	decoded, format, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return "", models.NewFieldValidationError(map[string]string{"image": "Invalid image file"})
	}
	if provided := normalizeContentType(in.ContentType); strings.HasPrefix(provided, "image/") && !isMatchingContentType(provided, decodedFormatToMime(format)) {
		return "", models.NewFieldValidationError(map[string]string{"image": "Image content type mismatch"})
	}

	resized := resizeToFit(decoded, MaxImageDimension, MaxImageDimension)
	encoded, err := encodeWebP(resized, WebPQuality)
	if err != nil {
		return "", models.NewInternalError(err)
	}

	name := imageFileName(in.OwnerID, encoded)
	if err := writeBytesToFile(filepath.Join(s.uploadDir, name), encoded); err != nil {
		return "", models.NewInternalError(err)
	}
	return UploadsURLPrefix + name, nil
}

// Remove deletes a previously stored image. Paths not produced by Store are ignored.
func (s *ImageService) Remove(publicPath string) error {
	if !strings.HasPrefix(publicPath, UploadsURLPrefix) {
		return nil
	}
	name := strings.TrimPrefix(publicPath, UploadsURLPrefix)
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.uploadDir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// OwnedBy reports whether publicPath names a file Store wrote for ownerID.
func (s *ImageService) OwnedBy(publicPath, ownerID string) bool {
	name, ok := strings.CutPrefix(publicPath, UploadsURLPrefix)
	if !ok {
		return false
	}
	return strings.HasPrefix(name, ownerTag(ownerID)+"-")
}

// imageFileName is <owner tag>-<content hash>.webp.
func imageFileName(ownerID string, content []byte) string {
	h := sha256.New()
	_, _ = fmt.Fprintf(h, "%s:", ownerID)
	h.Write(content)
	return ownerTag(ownerID) + "-" + hex.EncodeToString(h.Sum(nil))[:32] + ".webp"
}

func ownerTag(ownerID string) string {
	sum := sha256.Sum256([]byte(ownerID))
	return hex.EncodeToString(sum[:])[:12]
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scale := float64(maxWidth) / float64(w)
	if s := float64(maxHeight) / float64(h); s < scale {
		scale = s
	}
	newW := max(int(float64(w)*scale), 1)
	newH := max(int(float64(h)*scale), 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/png", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func isMatchingContentType(provided, detected string) bool {
	p := normalizeContentType(provided)
	d := normalizeContentType(detected)
	if p == d {
		return true
	}
	return (p == "image/jpg" && d == "image/jpeg") || (p == "image/jpeg" && d == "image/jpg")
}

func decodedFormatToMime(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "webp":
		return "image/webp"
	default:
		return ""
	}
}

func writeBytesToFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
