package utils

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"campaignboard/models"
)

// MediaStore writes uploaded campaign media to a local directory that
// the server exposes under /uploads.
type MediaStore struct {
	dir    string
	logger *logrus.Logger
}

func NewMediaStore(dir string, logger *logrus.Logger) (*MediaStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &MediaStore{dir: dir, logger: logger}, nil
}

func (s *MediaStore) Dir() string {
	return s.dir
}

// ClassifyMedia maps an uploaded MIME type to a media asset type.
func ClassifyMedia(contentType string) (string, error) {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return models.MediaTypeImage, nil
	case strings.HasPrefix(contentType, "video/"):
		return models.MediaTypeVideo, nil
	default:
		return "", fmt.Errorf("unsupported media type %q, only images and videos are accepted", contentType)
	}
}

// Save writes one multipart file under a random name, preserving the
// original extension. Returns the stored name.
func (s *MediaStore) Save(c *fiber.Ctx, fh *multipart.FileHeader) (string, error) {
	storedName := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
	dest := filepath.Join(s.dir, storedName)

	if err := c.SaveFile(fh, dest); err != nil {
		return "", fmt.Errorf("failed to store %s: %w", fh.Filename, err)
	}

	s.logger.WithFields(logrus.Fields{
		"original": fh.Filename,
		"stored":   storedName,
		"size":     fh.Size,
	}).Info("stored media file")

	return storedName, nil
}

// Remove deletes a stored file. Missing files are not an error, the
// cleanup worker may have gotten there first.
func (s *MediaStore) Remove(storedName string) error {
	if storedName == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, storedName))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// URLFor returns the public path the server serves the file under.
func (s *MediaStore) URLFor(storedName string) string {
	return "/uploads/" + storedName
}
