package upload

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"
)

var allowedImageExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	// Note: SVG is intentionally excluded due to XSS risk without sanitization
}

var allowedImageMime = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var allowedTextExt = map[string]bool{
	".txt": true,
	".md":  true,
	".csv": true,
}

// ValidatePhotoBySniff checks the provided filename (extension) and the first
// bytes (head) against a whitelist of image types. Returns detected mime or an error.
func ValidatePhotoBySniff(filename string, head []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExt[ext] {
		return "", errors.New("only JPG, JPEG, PNG, GIF and WEBP images are supported")
	}

	detected := http.DetectContentType(head)

	// Block obvious scriptable types regardless of extension
	if strings.HasPrefix(detected, "text/html") || strings.HasPrefix(detected, "application/xhtml") {
		return "", errors.New("invalid file type: HTML content is not allowed")
	}
	if strings.HasPrefix(detected, "text/xml") || strings.HasPrefix(detected, "application/xml") || detected == "image/svg+xml" {
		return "", errors.New("SVG/XML files are not supported for security reasons")
	}

	if allowedImageMime[detected] {
		return detected, nil
	}

	return "", errors.New("the file type is not supported")
}

// ValidateDocumentBySniff accepts scanned document images plus plain text
// exports. Returns the mime type passed on to the analysis provider.
func ValidateDocumentBySniff(filename string, head []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	if allowedImageExt[ext] {
		return ValidatePhotoBySniff(filename, head)
	}

	if allowedTextExt[ext] {
		detected := http.DetectContentType(head)
		if strings.HasPrefix(detected, "text/html") || strings.HasPrefix(detected, "application/xhtml") {
			return "", errors.New("invalid file type: HTML content is not allowed")
		}
		return "text/plain", nil
	}

	return "", errors.New("only image scans (JPG, PNG, GIF, WEBP) and text files (TXT, MD, CSV) are supported")
}
