package filestorage

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/coursecatalog/internal/pkg/apperrors"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["image"][0]
}

func newStorage(t *testing.T, maxBytes int64) (*LocalStorage, string) {
	t.Helper()
	publicDir := t.TempDir()
	ls, err := NewLocalStorage(publicDir, "images/profile_images", maxBytes)
	require.NoError(t, err)
	ls.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return ls, publicDir
}

func TestNewLocalStorageCreatesDirectory(t *testing.T) {
	_, publicDir := newStorage(t, 1024)

	info, err := os.Stat(filepath.Join(publicDir, "images", "profile_images"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCheckImage(t *testing.T) {
	ls, _ := newStorage(t, 1024)

	assert.NoError(t, ls.CheckImage(fileHeader(t, "me.png", pngHeader)))

	err := ls.CheckImage(fileHeader(t, "notes.png", []byte("just some text")))
	assert.ErrorIs(t, err, ErrImageType)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	big := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 2048)...)
	assert.ErrorIs(t, ls.CheckImage(fileHeader(t, "big.png", big)), ErrImageTooLarge)
}

func TestSaveImageAndDelete(t *testing.T) {
	ls, publicDir := newStorage(t, 1024)
	dir := filepath.Join(publicDir, "images", "profile_images")

	first, err := ls.SaveImage(fileHeader(t, "me.png", pngHeader), "image")
	require.NoError(t, err)
	assert.Equal(t, "/images/profile_images/image-1700000000000.png", first)

	// same millisecond, next free stamp
	second, err := ls.SaveImage(fileHeader(t, "me.png", pngHeader), "image")
	require.NoError(t, err)
	assert.Equal(t, "/images/profile_images/image-1700000000001.png", second)

	saved, err := os.ReadFile(filepath.Join(dir, "image-1700000000000.png"))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, saved)

	require.NoError(t, ls.DeleteFile(first))
	_, err = os.Stat(filepath.Join(dir, "image-1700000000000.png"))
	assert.True(t, os.IsNotExist(err))

	// already gone
	assert.NoError(t, ls.DeleteFile(first))
}

func TestDeleteFileLeavesForeignFiles(t *testing.T) {
	ls, publicDir := newStorage(t, 1024)
	dir := filepath.Join(publicDir, "images", "profile_images")

	placeholder := filepath.Join(dir, "default.jpg")
	require.NoError(t, os.WriteFile(placeholder, []byte("jpg"), 0o644))
	outside := filepath.Join(publicDir, "image-1.png")
	require.NoError(t, os.WriteFile(outside, []byte("png"), 0o644))

	for _, url := range []string{
		"/images/profile_images/default.jpg",
		"/images/profile_images/../image-1.png",
		"/elsewhere/image-1.png",
		"",
	} {
		assert.NoError(t, ls.DeleteFile(url), url)
	}

	assert.FileExists(t, placeholder)
	assert.FileExists(t, outside)
}

func TestSaveImageKeepsExtensionOnly(t *testing.T) {
	ls, _ := newStorage(t, 1024)

	url, err := ls.SaveImage(fileHeader(t, "../../etc/photo.jpeg", pngHeader), "image")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/images/profile_images/image-"))
	assert.True(t, strings.HasSuffix(url, ".jpeg"))
}
