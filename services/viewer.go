package services

import "strings"

// Viewer - кто делает запрос и откуда раздается медиа; нужен для is_liked и абсолютных URL
type Viewer struct {
	UserID      int64
	Username    string
	IsSuperuser bool
	// MediaBase is the absolute URL prefix uploaded files are served from,
	// e.g. "http://localhost:8000/media/".
	MediaBase string
}

func (v Viewer) MediaURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(v.MediaBase, "/") + "/" + strings.TrimLeft(path, "/")
}
