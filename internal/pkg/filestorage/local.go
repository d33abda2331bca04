package filestorage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/yigit/coursecatalog/internal/pkg/apperrors"
	"github.com/yigit/coursecatalog/internal/pkg/logger"
)

// AllowedImageTypes are the sniffed content types accepted for uploads
var AllowedImageTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
}

// Upload errors, reported as validation failures on the image field
var (
	ErrImageTooLarge = apperrors.NewCustomError(apperrors.ErrValidationFailed, "Image is too large.")
	ErrImageType     = apperrors.NewCustomError(apperrors.ErrValidationFailed, "Image must be a JPEG, PNG, GIF or WebP file.")
)

// generatedName matches names produced by SaveImage ("image-1700000000000.png")
var generatedName = regexp.MustCompile(`^[A-Za-z0-9_]+-\d+(\.[A-Za-z0-9]+)?$`)

// LocalStorage handles saving images to the local filesystem.
type LocalStorage struct {
	publicDir string // served as static content
	subPath   string // relative to publicDir, also the URL prefix
	maxBytes  int64
	now       func() time.Time
}

// NewLocalStorage creates a LocalStorage and ensures its directory exists.
func NewLocalStorage(publicDir, subPath string, maxBytes int64) (*LocalStorage, error) {
	subPath = strings.Trim(filepath.ToSlash(subPath), "/")
	dir := filepath.Join(publicDir, filepath.FromSlash(subPath))
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", dir).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
	}
	logger.Debug().Str("path", dir).Msg("Local storage directory ensured")

	return &LocalStorage{
		publicDir: publicDir,
		subPath:   subPath,
		maxBytes:  maxBytes,
		now:       time.Now,
	}, nil
}

func (ls *LocalStorage) dir() string {
	return filepath.Join(ls.publicDir, filepath.FromSlash(ls.subPath))
}

func (ls *LocalStorage) url(name string) string {
	return "/" + path.Join(ls.subPath, name)
}

// CheckImage enforces the size limit and sniffs the first 512 bytes of the upload
func (ls *LocalStorage) CheckImage(fileHeader *multipart.FileHeader) error {
	if fileHeader.Size > ls.maxBytes {
		return ErrImageTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	buffer := make([]byte, 512)
	n, err := io.ReadFull(file, buffer)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to read uploaded file: %w", err)
	}

	mimeType := http.DetectContentType(buffer[:n])
	for _, allowed := range AllowedImageTypes {
		if mimeType == allowed {
			return nil
		}
	}
	return ErrImageType
}

// SaveImage stores the upload as {field}-{unix millis}{ext} and returns its URL
func (ls *LocalStorage) SaveImage(fileHeader *multipart.FileHeader, field string) (string, error) {
	src, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	ext := filepath.Ext(fileHeader.Filename)
	millis := ls.now().UnixMilli()

	// two uploads within the same millisecond get consecutive stamps
	var (
		dst  *os.File
		name string
	)
	for attempt := int64(0); attempt < 100; attempt++ {
		name = fmt.Sprintf("%s-%d%s", field, millis+attempt, ext)
		dst, err = os.OpenFile(filepath.Join(ls.dir(), name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if !errors.Is(err, os.ErrExist) {
			break
		}
	}
	if err != nil {
		logger.Error().Err(err).Str("name", name).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	dstPath := dst.Name()
	if _, err := io.Copy(dst, src); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	fileURL := ls.url(name)
	logger.Info().Str("filename", fileHeader.Filename).Str("url", fileURL).Msg("Image saved")
	return fileURL, nil
}

// DeleteFile removes an image saved by SaveImage. URLs outside the storage directory
// and names SaveImage never generates (the placeholder, seeded images) are left
// alone. A missing file is not an error.
func (ls *LocalStorage) DeleteFile(fileURL string) error {
	prefix := ls.url("") + "/"
	if !strings.HasPrefix(fileURL, prefix) {
		return nil
	}
	name := strings.TrimPrefix(fileURL, prefix)
	if !generatedName.MatchString(name) {
		return nil
	}

	physicalPath := filepath.Join(ls.dir(), name)
	if err := os.Remove(physicalPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted")
	return nil
}
