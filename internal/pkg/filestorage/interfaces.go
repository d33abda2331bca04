package filestorage

import (
	"mime/multipart"
)

// ImageStorage stores uploaded profile images under a public directory
type ImageStorage interface {
	// CheckImage rejects uploads that are too large or not an image
	CheckImage(fileHeader *multipart.FileHeader) error

	// SaveImage stores the upload and returns the URL it is served under
	SaveImage(fileHeader *multipart.FileHeader, field string) (string, error)

	// DeleteFile removes a previously saved image given its URL
	DeleteFile(fileURL string) error
}
