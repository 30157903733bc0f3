package services

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	PostImagesDir    = "post_images"
	ProfileImagesDir = "profile_images"
)

// Upload is a file received in a multipart request.
type Upload struct {
	Filename string
	Content  io.Reader
}

// MediaStore сохраняет загруженные картинки на диск; раздаются через /media
type MediaStore struct {
	Root string
}

func NewMediaStore(root string) (*MediaStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media dir: %w", err)
	}
	return &MediaStore{Root: root}, nil
}

// Save writes the upload under dir and returns the path relative to the media root.
func (m *MediaStore) Save(dir string, upload Upload) (string, error) {
	ext := strings.ToLower(filepath.Ext(upload.Filename))
	rel := path.Join(dir, uuid.NewString()+ext)
	full := filepath.Join(m.Root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", rel, err)
	}
	defer f.Close()
	if _, err = io.Copy(f, upload.Content); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", rel, err)
	}
	return rel, nil
}

func (m *MediaStore) Remove(rel string) {
	if rel == "" || rel == "blank-profile-picture.png" {
		return
	}
	_ = os.Remove(filepath.Join(m.Root, filepath.FromSlash(rel)))
}
